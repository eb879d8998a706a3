// Package templates lists and loads column schemas stored as files.
//
// A template is a JSON or YAML document with a total_columns count and an
// ordered list of column descriptors. Templates are identified either by file
// name ("users.json") or by bare name ("users").
package templates

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leo-tosi/TDG/internal/models"
)

var (
	ErrTemplateNotFound    = errors.New("template not found")
	ErrTemplateParse       = errors.New("template parse error")
	ErrInvalidTemplateName = errors.New("invalid template name")
)

var extensions = []string{".json", ".yaml", ".yml"}

type Store struct {
	Dir string
}

func DSStore(dir string) *Store {
	return &Store{Dir: dir}
}

func isTemplateFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// List returns every template file in the directory, sorted by file name.
func (s *Store) List() ([]models.TemplateInfo, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates directory: %w", err)
	}

	templates := make([]models.TemplateInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isTemplateFile(entry.Name()) {
			continue
		}
		file := entry.Name()
		templates = append(templates, models.TemplateInfo{
			File: file,
			Name: strings.TrimSuffix(file, filepath.Ext(file)),
		})
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].File < templates[j].File })
	return templates, nil
}

func (s *Store) path(file string) (string, error) {
	if file == "" || strings.ContainsAny(file, `/\`) || filepath.Base(file) != file || file == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidTemplateName, file)
	}
	return filepath.Join(s.Dir, file), nil
}

// Load reads and parses a template by its file name.
func (s *Store) Load(file string) (*models.Schema, error) {
	path, err := s.path(file)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, file)
		}
		return nil, fmt.Errorf("failed to read template %s: %w", file, err)
	}
	return Parse(file, data)
}

// Resolve loads a template given either its file name or its bare name.
func (s *Store) Resolve(id string) (*models.Schema, error) {
	if isTemplateFile(id) {
		return s.Load(id)
	}
	for _, ext := range extensions {
		schema, err := s.Load(id + ext)
		if errors.Is(err, ErrTemplateNotFound) {
			continue
		}
		return schema, err
	}
	return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
}

// Parse decodes template bytes. YAML is normalized through JSON so both
// formats share the same field names.
func Parse(file string, data []byte) (*models.Schema, error) {
	ext := strings.ToLower(filepath.Ext(file))
	if ext == ".yaml" || ext == ".yml" {
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, file, err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, file, err)
		}
		data = converted
	}

	var schema models.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, file, err)
	}
	return &schema, nil
}
