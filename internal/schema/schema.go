// Package schema reads a Neo4j database schema — node labels with their
// properties and inferred types, plus the distinct (start, type, end)
// relationship triples observed in the data — into a normalized document
// that the perspective pipeline consumes.
package schema

import (
	"sort"
	"strings"
)

// Property describes one property of a label with its inferred Neo4j type.
type Property struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Relationship is one distinct (start label, type, end label) triple.
type Relationship struct {
	Start string `json:"start"`
	Type  string `json:"type"`
	End   string `json:"end"`
}

// Schema is the normalized schema document. Labels maps each label to its
// property descriptors; Relationships lists the distinct triples in fetch
// order.
type Schema struct {
	Labels        map[string][]Property `json:"labels"`
	Relationships []Relationship        `json:"relationships"`
}

// LabelNames returns the schema's label names in sorted order. Map iteration
// order is not deterministic, and the metadata deriver needs a reproducible
// ordering.
func (s *Schema) LabelNames() []string {
	names := make([]string, 0, len(s.Labels))
	for name := range s.Labels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RelationshipTypes returns the set of distinct relationship type names,
// with delimiter characters stripped.
func (s *Schema) RelationshipTypes() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Relationships))
	for _, rel := range s.Relationships {
		set[strings.ReplaceAll(rel.Type, "`", "")] = struct{}{}
	}
	return set
}

// BloomDataType maps a Neo4j property type name to the data type token Bloom
// expects in perspective documents. Unknown types fall back to "string".
func BloomDataType(neo4jType string) string {
	switch strings.TrimSuffix(neo4jType, "Array") {
	case "Integer", "Long":
		return "bigint"
	case "Float", "Double":
		return "number"
	case "Boolean":
		return "boolean"
	default:
		return "string"
	}
}
