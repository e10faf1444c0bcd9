package taxonomy

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoCategories indicates a taxonomy file that parsed cleanly but
// defines no categories.
var ErrNoCategories = errors.New("taxonomy file defines no categories")

// File is the on-disk representation of a taxonomy.
type File struct {
	Version    string   `yaml:"version"`
	Categories []string `yaml:"categories"`
}

// Load reads a YAML taxonomy file and builds a strict registry from it.
// Duplicate category names in the file are an error.
func Load(path string) (*Registry, error) {
	return LoadWithOptions(path, Options{})
}

// LoadWithOptions reads a YAML taxonomy file with explicit construction
// options. The file's version field takes precedence over opts.Version.
func LoadWithOptions(path string, opts Options) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file %s: %w", path, err)
	}

	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoCategories)
	}

	if f.Version != "" {
		opts.Version = f.Version
	}

	reg, err := NewWithOptions(f.Categories, opts)
	if err != nil {
		return nil, fmt.Errorf("taxonomy file %s: %w", path, err)
	}

	return reg, nil
}
