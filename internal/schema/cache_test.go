package schema

import (
	"path/filepath"
	"testing"
)

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")

	s := &Schema{
		Labels: map[string][]Property{
			"Seller": {{Name: "seller_id", Type: "String"}},
		},
		Relationships: []Relationship{
			{Start: "Seller", Type: "SOLD_BY", End: "Product"},
		},
	}
	if err := SaveCache(path, s); err != nil {
		t.Fatalf("SaveCache: %v", err)
	}
	if !CacheExists(path) {
		t.Fatal("CacheExists = false after save")
	}

	loaded, err := LoadCache(path)
	if err != nil {
		t.Fatalf("LoadCache: %v", err)
	}
	if len(loaded.Labels) != 1 || loaded.Labels["Seller"][0].Name != "seller_id" {
		t.Errorf("loaded labels = %+v", loaded.Labels)
	}
	if len(loaded.Relationships) != 1 || loaded.Relationships[0].Type != "SOLD_BY" {
		t.Errorf("loaded relationships = %+v", loaded.Relationships)
	}
}

func TestCacheCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "schema.json")
	if err := SaveCache(path, &Schema{Labels: map[string][]Property{}}); err != nil {
		t.Fatalf("SaveCache: %v", err)
	}
	if !CacheExists(path) {
		t.Error("cache file not created under nested dir")
	}
}

func TestLoadCache_Missing(t *testing.T) {
	if _, err := LoadCache(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing cache file")
	}
}

func TestCacheExists_Dir(t *testing.T) {
	if CacheExists(t.TempDir()) {
		t.Error("a directory must not count as a cache file")
	}
}
