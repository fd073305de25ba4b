package perspective

import (
	"testing"

	"github.com/starford/bloomgen/internal/schema"
)

func sellerSchema() *schema.Schema {
	return &schema.Schema{
		Labels: map[string][]schema.Property{
			"Seller": {
				{Name: "seller_id", Type: "String"},
				{Name: "seller_city", Type: "String"},
			},
			"Product": {
				{Name: "product_id", Type: "String"},
			},
		},
		Relationships: []schema.Relationship{
			{Start: "Seller", Type: "SOLD_BY", End: "Product"},
			{Start: "`Order`", Type: "`CONTAINS_ITEM`", End: "Product"},
		},
	}
}

func TestDeriveMetadata_PathSegments(t *testing.T) {
	meta := DeriveMetadata(sellerSchema())

	segments := meta["pathSegments"].([]any)
	if len(segments) != 2 {
		t.Fatalf("pathSegments = %d, want 2", len(segments))
	}
	first := segments[0].(map[string]any)
	if first["source"] != "Seller" || first["relationshipType"] != "SOLD_BY" || first["target"] != "Product" {
		t.Errorf("first segment = %v", first)
	}
	// Delimiters in schema tokens must not survive.
	second := segments[1].(map[string]any)
	if second["source"] != "Order" || second["relationshipType"] != "CONTAINS_ITEM" {
		t.Errorf("second segment = %v", second)
	}
}

func TestDeriveMetadata_Indexes(t *testing.T) {
	meta := DeriveMetadata(sellerSchema())

	indexes := meta["indexes"].([]any)
	if len(indexes) != 2 {
		t.Fatalf("indexes = %d, want 2", len(indexes))
	}
	// Sorted label order: Product before Seller.
	first := indexes[0].(map[string]any)
	if first["label"] != "Product" || first["type"] != "native" {
		t.Errorf("first index = %v", first)
	}
	seller := indexes[1].(map[string]any)
	keys := seller["propertyKeys"].([]any)
	if len(keys) != 2 {
		t.Fatalf("Seller propertyKeys = %d, want 2", len(keys))
	}
	key := keys[0].(map[string]any)
	if key["key"] != "seller_id" || key["metadataProp"] != false {
		t.Errorf("first key = %v", key)
	}
}

func TestDeriveMetadata_IgnoresDraftContent(t *testing.T) {
	s := sellerSchema()
	rels := s.RelationshipTypes()

	a := map[string]any{"name": "A", "metadata": map[string]any{"pathSegments": []any{"junk"}}}
	b := map[string]any{"name": "B"}

	hydratedA, err := Hydrate(a, s, rels)
	if err != nil {
		t.Fatalf("Hydrate a: %v", err)
	}
	hydratedB, err := Hydrate(b, s, rels)
	if err != nil {
		t.Fatalf("Hydrate b: %v", err)
	}

	metaA := hydratedA["metadata"].(map[string]any)
	metaB := hydratedB["metadata"].(map[string]any)
	if len(metaA["pathSegments"].([]any)) != len(metaB["pathSegments"].([]any)) {
		t.Error("metadata should be determined by the schema alone")
	}
	if len(metaA["indexes"].([]any)) != 2 {
		t.Errorf("indexes = %d, want 2", len(metaA["indexes"].([]any)))
	}
}
