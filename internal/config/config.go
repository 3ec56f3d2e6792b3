// Package config holds server settings and loads them from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"rstp/internal/request"
)

var (
	// ErrUnknownFormat is returned for config files that are neither TOML nor YAML
	ErrUnknownFormat = errors.New("unknown config format")
	// ErrInvalid wraps every validation failure
	ErrInvalid = errors.New("invalid config")
)

// Config is everything the server can be told at startup.
// Port normally comes from the command line.
type Config struct {
	Port            int    `toml:"port" yaml:"port"`
	Verbose         bool   `toml:"verbose" yaml:"verbose"`
	DefaultDocument string `toml:"default_document" yaml:"default_document"`
	ErrorDocument   string `toml:"error_document" yaml:"error_document"`
	Root            string `toml:"root" yaml:"root"`
	ReadBufferSize  int    `toml:"read_buffer_size" yaml:"read_buffer_size"`
	// Concurrent handles each connection on its own goroutine instead of
	// one at a time.
	Concurrent bool `toml:"concurrent" yaml:"concurrent"`
}

// Default returns the settings used when no file is given
func Default() Config {
	return Config{
		DefaultDocument: request.DefaultDocument,
		ErrorDocument:   request.ErrorDocument,
		Root:            ".",
		ReadBufferSize:  request.DefaultBufferSize,
	}
}

// Load reads path on top of Default. The format is chosen by extension.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	return cfg, cfg.Validate()
}

// Validate checks that the settings can be served
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalid, c.Port)
	}
	if err := validDocument("default_document", c.DefaultDocument); err != nil {
		return err
	}
	if err := validDocument("error_document", c.ErrorDocument); err != nil {
		return err
	}
	if c.Root == "" {
		return fmt.Errorf("%w: root must not be empty", ErrInvalid)
	}
	if c.ReadBufferSize <= 0 {
		return fmt.Errorf("%w: read_buffer_size must be positive, got %d", ErrInvalid, c.ReadBufferSize)
	}
	return nil
}

func validDocument(key, name string) error {
	if name == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalid, key)
	}
	if strings.HasPrefix(name, "/") {
		return fmt.Errorf("%w: %s must be relative, got %q", ErrInvalid, key, name)
	}
	return nil
}
