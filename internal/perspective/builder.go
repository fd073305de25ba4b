package perspective

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/starford/bloomgen/internal/schema"
)

// Definition describes one perspective to build procedurally, without the
// generation service: the caller picks the labels, relationships and
// properties. The resulting draft flows through Hydrate like any other.
type Definition struct {
	Name          string               `yaml:"name"`
	Categories    []CategoryDefinition `yaml:"categories"`
	Relationships []string             `yaml:"relationships"`
	Templates     []TemplateDefinition `yaml:"templates"`
}

// CategoryDefinition styles the nodes of one label.
type CategoryDefinition struct {
	Label      string               `yaml:"label"`
	Name       string               `yaml:"name"`
	Color      string               `yaml:"color"`
	Properties []PropertyDefinition `yaml:"properties"`
}

// PropertyDefinition names one property shown for a category. DataType uses
// Bloom tokens (string, bigint, number, boolean) and defaults to string.
type PropertyDefinition struct {
	Name     string `yaml:"name"`
	DataType string `yaml:"dataType"`
}

// TemplateDefinition is one canned search phrase.
type TemplateDefinition struct {
	Name   string `yaml:"name"`
	Cypher string `yaml:"cypher"`
	Text   string `yaml:"text"`
}

// DefinitionFile is the YAML document the build command reads.
type DefinitionFile struct {
	Perspectives []Definition `yaml:"perspectives"`
}

// LoadDefinitions reads and parses a YAML definition file.
func LoadDefinitions(path string) (*DefinitionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("perspective: read definitions %s: %w", path, err)
	}
	var file DefinitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("perspective: parse definitions %s: %w", path, err)
	}
	if len(file.Perspectives) == 0 {
		return nil, fmt.Errorf("perspective: definitions %s list no perspectives", path)
	}
	return &file, nil
}

// Build turns a definition into a draft document. The root labels dictionary
// is populated for every label the schema knows, so the perspective carries
// the full property schema even for labels it does not style. Hiding unused
// relationships is left entirely to the hydrator.
func Build(def Definition, s *schema.Schema) map[string]any {
	draft := map[string]any{
		"name":              def.Name,
		"categories":        []any{},
		"labels":            map[string]any{},
		"relationshipTypes": []any{},
		"templates":         []any{},
	}

	labels := draft["labels"].(map[string]any)
	for _, label := range s.LabelNames() {
		labels[CleanLabel(label)] = schemaLabelEntry(label, s.Labels[label])
	}

	categories := make([]any, 0, len(def.Categories))
	for _, cat := range def.Categories {
		name := cat.Name
		if name == "" {
			name = cat.Label
		}
		color := cat.Color
		if color == "" {
			color = DefaultCategoryColor
		}

		props := make([]any, 0, len(cat.Properties))
		for _, p := range cat.Properties {
			dataType := p.DataType
			if dataType == "" {
				dataType = "string"
			}
			props = append(props, map[string]any{
				"name":     p.Name,
				"exclude":  false,
				"dataType": dataType,
			})
		}

		categories = append(categories, map[string]any{
			"name":       name,
			"labels":     []any{cat.Label},
			"color":      color,
			"properties": props,
		})

		// Labels the schema has never seen still need a dictionary entry.
		if _, known := labels[CleanLabel(cat.Label)]; !known {
			entries := make([]any, 0, len(cat.Properties))
			for _, p := range cat.Properties {
				dataType := p.DataType
				if dataType == "" {
					dataType = "string"
				}
				entries = append(entries, map[string]any{
					"propertyKey": p.Name,
					"type":        CleanLabel(cat.Label),
					"dataType":    dataType,
				})
			}
			labels[CleanLabel(cat.Label)] = entries
		}
	}
	draft["categories"] = categories

	rels := make([]any, 0, len(def.Relationships))
	for _, relType := range def.Relationships {
		rels = append(rels, map[string]any{
			"name":  relType,
			"color": DefaultRelationshipColor,
		})
	}
	draft["relationshipTypes"] = rels

	templates := make([]any, 0, len(def.Templates))
	for _, tmpl := range def.Templates {
		entry := map[string]any{
			"name":   tmpl.Name,
			"cypher": tmpl.Cypher,
		}
		if tmpl.Text != "" {
			entry["text"] = tmpl.Text
		}
		templates = append(templates, entry)
	}
	draft["templates"] = templates

	return draft
}

// schemaLabelEntry converts a schema label's properties into the root labels
// dictionary form, mapping Neo4j types to Bloom data types.
func schemaLabelEntry(label string, props []schema.Property) []any {
	entries := make([]any, 0, len(props))
	for _, p := range props {
		entries = append(entries, map[string]any{
			"propertyKey": p.Name,
			"type":        CleanLabel(label),
			"dataType":    schema.BloomDataType(p.Type),
		})
	}
	return entries
}
