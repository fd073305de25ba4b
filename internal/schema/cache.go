package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// CacheExists reports whether a schema snapshot is present at path.
func CacheExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadCache reads a previously saved schema snapshot. The snapshot is
// trusted as-is; there is no staleness check.
func LoadCache(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read cache %s: %w", path, err)
	}
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("schema: parse cache %s: %w", path, err)
	}
	if s.Labels == nil {
		s.Labels = map[string][]Property{}
	}
	return &s, nil
}

// SaveCache writes the schema snapshot as indented JSON. Callers treat a
// failure here as non-fatal and continue without caching.
func SaveCache(path string, s *Schema) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("schema: encode cache: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("schema: create cache dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("schema: write cache %s: %w", path, err)
	}
	return nil
}

// LoadFullCache reads a previously saved visualization snapshot.
func LoadFullCache(path string) (*FullSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read full cache %s: %w", path, err)
	}
	var full FullSchema
	if err := json.Unmarshal(data, &full); err != nil {
		return nil, fmt.Errorf("schema: parse full cache %s: %w", path, err)
	}
	return &full, nil
}

// SaveFullCache writes the visualization snapshot as indented JSON.
func SaveFullCache(path string, full *FullSchema) error {
	data, err := json.MarshalIndent(full, "", "  ")
	if err != nil {
		return fmt.Errorf("schema: encode full cache: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("schema: create cache dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("schema: write full cache %s: %w", path, err)
	}
	return nil
}
