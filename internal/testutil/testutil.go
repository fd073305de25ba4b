// Package testutil provides shared test helpers: schema fixtures and
// temporary output stores.
package testutil

import (
	"testing"

	"github.com/starford/bloomgen/internal/schema"
	"github.com/starford/bloomgen/internal/storage"
)

// TestStore creates a temporary output directory with a storage.Provider.
func TestStore(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// TestSchema returns a small, fixed schema document covering labels with
// and without properties and more than one relationship type.
func TestSchema() *schema.Schema {
	return &schema.Schema{
		Labels: map[string][]schema.Property{
			"Seller": {
				{Name: "seller_id", Type: "String"},
				{Name: "seller_city", Type: "String"},
			},
			"Product": {
				{Name: "product_id", Type: "String"},
				{Name: "price", Type: "Double"},
			},
			"Review": {},
		},
		Relationships: []schema.Relationship{
			{Start: "Seller", Type: "SOLD_BY", End: "Product"},
			{Start: "Product", Type: "HAS_REVIEW", End: "Review"},
		},
	}
}
