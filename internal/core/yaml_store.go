package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// maxYAMLFileSize is the maximum size of a preset override or export file (1 MB).
// A file with a hundred custom presets is well under 100 KB.
const maxYAMLFileSize = 1 << 20

// YAMLStore provides generic YAML file I/O for preset overrides and exports.
type YAMLStore[T any] struct {
	rootDir      string
	filename     string
	allowMissing bool // If true, missing file returns zero value instead of error
}

// NewYAMLStore creates a new YAML store for type T.
//
// Parameters:
//   - rootDir: Directory containing the YAML file
//   - filename: Name of the YAML file (e.g., "asset-optimizer-presets.yml")
//   - allowMissing: If true, Load() returns zero value for missing files instead of error
func NewYAMLStore[T any](rootDir, filename string, allowMissing bool) *YAMLStore[T] {
	return &YAMLStore[T]{
		rootDir:      rootDir,
		filename:     filename,
		allowMissing: allowMissing,
	}
}

// NewYAMLStoreAt splits path into directory and filename.
func NewYAMLStoreAt[T any](path string, allowMissing bool) *YAMLStore[T] {
	return NewYAMLStore[T](filepath.Dir(path), filepath.Base(path), allowMissing)
}

// Path returns the full file path
func (s *YAMLStore[T]) Path() string {
	return filepath.Join(s.rootDir, s.filename)
}

// Exists reports whether the file is present.
func (s *YAMLStore[T]) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// Load reads and unmarshals the YAML file into type T.
// Files larger than maxYAMLFileSize are rejected before reading.
// A parse failure is returned wrapped in a *ConfigurationError so callers can
// tell it apart from an unreadable file.
func (s *YAMLStore[T]) Load() (T, error) {
	var result T

	info, err := os.Stat(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && s.allowMissing {
			return result, nil
		}
		return result, err
	}
	if info.Size() > maxYAMLFileSize {
		return result, &ConfigurationError{
			Source: s.filename,
			Err:    fmt.Errorf("exceeds maximum size (%d bytes > %d byte limit)", info.Size(), maxYAMLFileSize),
		}
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && s.allowMissing {
			return result, nil
		}
		return result, err
	}

	if err := yaml.Unmarshal(data, &result); err != nil {
		return result, &ConfigurationError{Source: s.filename, Err: fmt.Errorf("invalid YAML: %w", err)}
	}

	return result, nil
}

// Save marshals type T and writes it atomically.
func (s *YAMLStore[T]) Save(data T) error {
	bytes, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", s.filename, err)
	}

	if err := writeFileAtomic(s.Path(), bytes, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.filename, err)
	}

	return nil
}
