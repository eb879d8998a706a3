package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/leo-tosi/TDG/internal/encoder"
)

type Config struct {
	Port         string
	TemplatesDir string
	PublicDir    string
	DefaultRows  int
	MaxRows      int
	MaxColumns   int
	MaxTextLen   int
	Strict       bool
	Encoding     encoder.Encoding
	JobTTL       time.Duration
}

func Default() *Config {
	return &Config{
		Port:         "3000",
		TemplatesDir: "templates",
		PublicDir:    "public",
		DefaultRows:  10,
		MaxRows:      100000,
		MaxColumns:   1000,
		MaxTextLen:   10000,
		Encoding:     encoder.Verbatim,
		JobTTL:       24 * time.Hour,
	}
}

// Load reads .env files (a missing file is fine) and then the environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := Default()

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("TEMPLATES_DIR"); v != "" {
		cfg.TemplatesDir = v
	}
	if v := os.Getenv("PUBLIC_DIR"); v != "" {
		cfg.PublicDir = v
	}

	var err error
	// DEFAULT_ROWS must be positive; rows_count: 0 is still honored per request.
	if cfg.DefaultRows, err = envInt("DEFAULT_ROWS", cfg.DefaultRows, 1); err != nil {
		return nil, err
	}
	if cfg.MaxRows, err = envInt("MAX_ROWS", cfg.MaxRows, 0); err != nil {
		return nil, err
	}
	if cfg.MaxColumns, err = envInt("MAX_COLUMNS", cfg.MaxColumns, 0); err != nil {
		return nil, err
	}
	if cfg.MaxTextLen, err = envInt("MAX_TEXT_LENGTH", cfg.MaxTextLen, 0); err != nil {
		return nil, err
	}
	ttlHours, err := envInt("JOB_TTL_HOURS", int(cfg.JobTTL/time.Hour), 0)
	if err != nil {
		return nil, err
	}
	cfg.JobTTL = time.Duration(ttlHours) * time.Hour

	if v := os.Getenv("STRICT_SCHEMA"); v != "" {
		if cfg.Strict, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid STRICT_SCHEMA %q: %w", v, err)
		}
	}
	if v := os.Getenv("CSV_ENCODING"); v != "" {
		if cfg.Encoding, err = encoder.ParseEncoding(v); err != nil {
			return nil, fmt.Errorf("invalid CSV_ENCODING: %w", err)
		}
	}
	return cfg, nil
}

func envInt(key string, def, lowest int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if n < lowest {
		return 0, fmt.Errorf("invalid %s %q: must be at least %d", key, v, lowest)
	}
	return n, nil
}
