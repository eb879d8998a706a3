package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

var (
	ErrInvalidFileName = errors.New("invalid file name")
	ErrWriteFailed     = errors.New("failed to write file")
)

// Sink persists encoded output under a name and reports where it went.
// Read returns what was written under name.
type Sink interface {
	Write(ctx context.Context, name string, data []byte) (string, error)
	Read(name string) ([]byte, error)
}

// FileSink writes files into a single directory, replacing existing ones.
type FileSink struct {
	Dir string
}

func DSFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &FileSink{Dir: dir}, nil
}

// CleanName rejects names that are empty or would leave the sink directory.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}
	return name, nil
}

func (s *FileSink) Path(name string) (string, error) {
	clean, err := CleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, clean), nil
}

func (s *FileSink) Write(ctx context.Context, name string, data []byte) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWriteFailed, path, err)
	}
	return path, nil
}

func (s *FileSink) Read(name string) ([]byte, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}
