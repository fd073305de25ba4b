package schema

import (
	"context"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

// fakeRunner serves canned results keyed by query string.
type fakeRunner struct {
	results map[string]*neo4j.EagerResult
}

func (f *fakeRunner) Run(_ context.Context, query string, _ map[string]any) (*neo4j.EagerResult, error) {
	res, ok := f.results[query]
	if !ok {
		return &neo4j.EagerResult{}, nil
	}
	return res, nil
}

func record(keys []string, values ...any) *db.Record {
	return &db.Record{Keys: keys, Values: values}
}

func testRunner() *fakeRunner {
	propKeys := []string{"nodeType", "propertyName", "propertyTypes", "mandatory"}
	relKeys := []string{"startLabels", "relType", "endLabels"}
	return &fakeRunner{results: map[string]*neo4j.EagerResult{
		nodePropertiesQuery: {
			Keys: propKeys,
			Records: []*db.Record{
				record(propKeys, ":`Seller`", "seller_id", []any{"String"}, true),
				record(propKeys, ":`Seller`", "seller_city", []any{"String"}, false),
				record(propKeys, ":`Product`", "price", []any{"Double"}, false),
				record(propKeys, ":`Ghost`", nil, nil, false),
			},
		},
		relationshipTriplesQuery: {
			Keys: relKeys,
			Records: []*db.Record{
				record(relKeys, []any{"Seller"}, "SOLD_BY", []any{"Product"}),
				record(relKeys, []any{"Seller"}, "SOLD_BY", []any{"Product"}),
			},
		},
	}}
}

func TestFetch_LabelsAndProperties(t *testing.T) {
	s, err := Fetch(context.Background(), testRunner())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	sellerProps := s.Labels["Seller"]
	if len(sellerProps) != 2 {
		t.Fatalf("Seller props = %d, want 2", len(sellerProps))
	}
	if sellerProps[0].Name != "seller_id" || sellerProps[0].Type != "String" {
		t.Errorf("first Seller prop = %+v", sellerProps[0])
	}
	if s.Labels["Product"][0].Type != "Double" {
		t.Errorf("Product price type = %q, want Double", s.Labels["Product"][0].Type)
	}
}

func TestFetch_LabelWithoutPropertiesIsRegistered(t *testing.T) {
	s, err := Fetch(context.Background(), testRunner())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	props, ok := s.Labels["Ghost"]
	if !ok {
		t.Fatal("label without properties should still be present")
	}
	if len(props) != 0 {
		t.Errorf("Ghost props = %v, want empty", props)
	}
}

func TestFetch_DeduplicatesTriples(t *testing.T) {
	s, err := Fetch(context.Background(), testRunner())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(s.Relationships) != 1 {
		t.Fatalf("relationships = %d, want 1", len(s.Relationships))
	}
	want := Relationship{Start: "Seller", Type: "SOLD_BY", End: "Product"}
	if s.Relationships[0] != want {
		t.Errorf("triple = %+v, want %+v", s.Relationships[0], want)
	}
}

func TestFetch_MultiLabelEndpointsExpand(t *testing.T) {
	relKeys := []string{"startLabels", "relType", "endLabels"}
	runner := testRunner()
	runner.results[relationshipTriplesQuery] = &neo4j.EagerResult{
		Keys: relKeys,
		Records: []*db.Record{
			record(relKeys, []any{"Person", "Actor"}, "ACTED_IN", []any{"Movie"}),
		},
	}
	s, err := Fetch(context.Background(), runner)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(s.Relationships) != 2 {
		t.Fatalf("relationships = %d, want 2", len(s.Relationships))
	}
	if s.Relationships[1].Start != "Actor" {
		t.Errorf("second triple start = %q, want Actor", s.Relationships[1].Start)
	}
}

func TestSplitNodeType(t *testing.T) {
	got := splitNodeType(":`Person`:`Actor`")
	if len(got) != 2 || got[0] != "Person" || got[1] != "Actor" {
		t.Errorf("splitNodeType = %v", got)
	}
	if out := splitNodeType(":Plain"); len(out) != 1 || out[0] != "Plain" {
		t.Errorf("splitNodeType plain = %v", out)
	}
}

func TestRelationshipTypes_StripsDelimiters(t *testing.T) {
	s := &Schema{Relationships: []Relationship{
		{Start: "A", Type: "`SOLD_BY`", End: "B"},
		{Start: "A", Type: "RETURNED", End: "B"},
	}}
	set := s.RelationshipTypes()
	if _, ok := set["SOLD_BY"]; !ok {
		t.Error("SOLD_BY missing from type set")
	}
	if len(set) != 2 {
		t.Errorf("type set size = %d, want 2", len(set))
	}
}

func TestLabelNames_Sorted(t *testing.T) {
	s := &Schema{Labels: map[string][]Property{
		"Zebra": nil, "Apple": nil, "Mango": nil,
	}}
	names := s.LabelNames()
	want := []string{"Apple", "Mango", "Zebra"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestBloomDataType(t *testing.T) {
	cases := map[string]string{
		"String":  "string",
		"Integer": "bigint",
		"Long":    "bigint",
		"Float":   "number",
		"Double":  "number",
		"Boolean": "boolean",
		"Point":   "string",
	}
	for in, want := range cases {
		if got := BloomDataType(in); got != want {
			t.Errorf("BloomDataType(%q) = %q, want %q", in, got, want)
		}
	}
}
