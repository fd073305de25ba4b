package perspective

import "github.com/starford/bloomgen/internal/schema"

// DeriveMetadata builds the perspective metadata section entirely from the
// schema document: one path segment per relationship triple (in schema
// order) and one native index entry per label (in sorted label order)
// listing every property. Whatever metadata a draft carries is irrelevant —
// the schema is authoritative.
func DeriveMetadata(s *schema.Schema) map[string]any {
	pathSegments := make([]any, 0, len(s.Relationships))
	for _, rel := range s.Relationships {
		pathSegments = append(pathSegments, map[string]any{
			"source":           CleanLabel(rel.Start),
			"relationshipType": CleanLabel(rel.Type),
			"target":           CleanLabel(rel.End),
		})
	}

	indexes := make([]any, 0, len(s.Labels))
	for _, label := range s.LabelNames() {
		props := s.Labels[label]
		propertyKeys := make([]any, 0, len(props))
		for _, p := range props {
			propertyKeys = append(propertyKeys, map[string]any{
				"key":          p.Name,
				"metadataProp": false,
			})
		}
		indexes = append(indexes, map[string]any{
			"label":        CleanLabel(label),
			"type":         "native",
			"propertyKeys": propertyKeys,
		})
	}

	return map[string]any{
		"pathSegments": pathSegments,
		"indexes":      indexes,
	}
}
