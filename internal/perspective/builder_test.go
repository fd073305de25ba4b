package perspective

import (
	"os"
	"path/filepath"
	"testing"
)

func sellerDefinition() Definition {
	return Definition{
		Name: "Seller Performance",
		Categories: []CategoryDefinition{
			{
				Label: "Seller",
				Color: "#C990C0",
				Properties: []PropertyDefinition{
					{Name: "seller_id", DataType: "string"},
					{Name: "seller_city"},
				},
			},
			{Label: "Warehouse"},
		},
		Relationships: []string{"SOLD_BY"},
		Templates: []TemplateDefinition{
			{Name: "Top sellers", Cypher: "MATCH (s:Seller) RETURN s LIMIT 10"},
		},
	}
}

func TestBuild_DraftShape(t *testing.T) {
	draft := Build(sellerDefinition(), sellerSchema())

	if draft["name"] != "Seller Performance" {
		t.Errorf("name = %v", draft["name"])
	}
	cats := draft["categories"].([]any)
	if len(cats) != 2 {
		t.Fatalf("categories = %d, want 2", len(cats))
	}
	first := cats[0].(map[string]any)
	if first["name"] != "Seller" || first["color"] != "#C990C0" {
		t.Errorf("first category = %v", first)
	}
	props := first["properties"].([]any)
	if props[1].(map[string]any)["dataType"] != "string" {
		t.Error("missing dataType must default to string")
	}
	second := cats[1].(map[string]any)
	if second["color"] != DefaultCategoryColor {
		t.Errorf("default color = %v", second["color"])
	}
}

func TestBuild_LabelsDictionaryFromSchema(t *testing.T) {
	draft := Build(sellerDefinition(), sellerSchema())

	labels := draft["labels"].(map[string]any)
	// Every schema label plus the definition-only Warehouse label.
	for _, want := range []string{"Seller", "Product", "Warehouse"} {
		if _, ok := labels[want]; !ok {
			t.Errorf("labels missing %q: %v", want, labels)
		}
	}
	sellerProps := labels["Seller"].([]any)
	entry := sellerProps[0].(map[string]any)
	if entry["propertyKey"] != "seller_id" || entry["type"] != "Seller" || entry["dataType"] != "string" {
		t.Errorf("Seller entry = %v", entry)
	}
}

func TestBuild_ThenHydrate(t *testing.T) {
	s := sellerSchema()
	draft := Build(sellerDefinition(), s)

	out, err := Hydrate(draft, s, map[string]struct{}{"SOLD_BY": {}, "CONTAINS_ITEM": {}})
	if err != nil {
		t.Fatalf("Hydrate: %v", err)
	}

	hidden := out["hiddenRelationshipTypes"].([]any)
	if len(hidden) != 1 || hidden[0] != "CONTAINS_ITEM" {
		t.Errorf("hidden = %v, want [CONTAINS_ITEM]", hidden)
	}
	rel := out["relationshipTypes"].([]any)[0].(map[string]any)
	if rel["id"] != "SOLD_BY" || rel["color"] != DefaultRelationshipColor {
		t.Errorf("relationship = %v", rel)
	}
	tmpl := out["templates"].([]any)[0].(map[string]any)
	if tmpl["text"] != "Top sellers" {
		t.Errorf("template text = %v, want name fallback", tmpl["text"])
	}
}

func TestLoadDefinitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perspectives.yaml")
	content := `perspectives:
  - name: Seller Performance
    categories:
      - label: Seller
        color: "#C990C0"
        properties:
          - name: seller_id
            dataType: string
    relationships: [SOLD_BY, OF_PRODUCT]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write definitions: %v", err)
	}

	file, err := LoadDefinitions(path)
	if err != nil {
		t.Fatalf("LoadDefinitions: %v", err)
	}
	if len(file.Perspectives) != 1 {
		t.Fatalf("perspectives = %d, want 1", len(file.Perspectives))
	}
	def := file.Perspectives[0]
	if def.Name != "Seller Performance" || len(def.Relationships) != 2 {
		t.Errorf("definition = %+v", def)
	}
	if def.Categories[0].Properties[0].DataType != "string" {
		t.Errorf("property = %+v", def.Categories[0].Properties[0])
	}
}

func TestLoadDefinitions_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("perspectives: []\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadDefinitions(path); err == nil {
		t.Error("expected error for empty definition file")
	}
}
