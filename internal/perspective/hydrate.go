package perspective

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/starford/bloomgen/internal/apperr"
	"github.com/starford/bloomgen/internal/schema"
)

// Hydrate rewrites a loosely-structured draft perspective into the exact
// document shape Bloom imports. Missing optional fields are defaulted,
// names are normalized, and the derived sections (metadata, hidden
// relationship types) are recomputed from the schema document rather than
// trusted from the draft. The draft is modified in place and returned.
//
// allRels is the full set of relationship type names known to the database,
// already delimiter-stripped (see schema.RelationshipTypes). A field of the
// wrong fundamental kind yields an *apperr.StructuralError; the draft is not
// repaired in that case.
func Hydrate(draft map[string]any, s *schema.Schema, allRels map[string]struct{}) (map[string]any, error) {
	if draft == nil {
		return nil, &apperr.StructuralError{Field: "(draft)", Want: "object"}
	}

	now := time.Now().UnixMilli()

	fixIdentity(draft, now)
	if err := fixHiddenRelationships(draft, allRels); err != nil {
		return nil, err
	}
	draft["metadata"] = DeriveMetadata(s)
	fixPalette(draft)
	if err := fixCategories(draft, now); err != nil {
		return nil, err
	}
	if err := fixRelationshipTypes(draft); err != nil {
		return nil, err
	}
	if err := fixTemplates(draft, now); err != nil {
		return nil, err
	}
	if err := fixLabels(draft); err != nil {
		return nil, err
	}
	fixTopLevel(draft)

	return draft, nil
}

// fixIdentity settles the top-level identity and flag fields. An existing
// non-empty string id is kept so re-hydration does not break references;
// timestamps are always refreshed.
func fixIdentity(draft map[string]any, now int64) {
	if id, ok := draft["id"].(string); !ok || id == "" {
		draft["id"] = uuid.NewString()
	}
	draft["createdAt"] = now
	draft["lastEditedAt"] = now
	draft["version"] = Version
	draft["type"] = TypeStandard
	draft["hideUncategorisedData"] = false
	draft["maxLimitToastMsgEnabled"] = false
	draft["parentPerspectiveId"] = nil
}

// fixHiddenRelationships computes the set difference between every
// relationship type the database knows and the ones this perspective shows.
// Bloom hides the difference, which locks the perspective down to its
// declared relationships.
func fixHiddenRelationships(draft map[string]any, allRels map[string]struct{}) error {
	used := map[string]struct{}{}
	rels, err := listField(draft, "relationshipTypes")
	if err != nil {
		return err
	}
	for _, entry := range rels {
		if m, ok := entry.(map[string]any); ok {
			used[CleanLabel(m["name"])] = struct{}{}
		} else {
			used[CleanLabel(entry)] = struct{}{}
		}
	}

	hidden := []any{}
	for rel := range allRels {
		if _, shown := used[CleanLabel(rel)]; !shown {
			hidden = append(hidden, CleanLabel(rel))
		}
	}
	// The consumer treats this as a set; sorting keeps output reproducible.
	sort.Slice(hidden, func(i, j int) bool { return hidden[i].(string) < hidden[j].(string) })
	draft["hiddenRelationshipTypes"] = hidden
	return nil
}

func fixPalette(draft map[string]any) {
	if _, ok := draft["palette"]; !ok {
		draft["palette"] = DefaultPalette()
	}
}

// fixCategories renumbers categories 1-based, forces the style constants
// Bloom requires, normalizes label tokens, coerces properties into their
// full form and guarantees a non-empty captions list.
func fixCategories(draft map[string]any, now int64) error {
	cats, err := listField(draft, "categories")
	if err != nil {
		return err
	}
	for i, entry := range cats {
		cat, ok := entry.(map[string]any)
		if !ok {
			return &apperr.StructuralError{Field: fmt.Sprintf("categories[%d]", i), Want: "object"}
		}

		cat["id"] = i + 1
		cat["createdAt"] = now
		cat["lastEditedAt"] = now
		cat["size"] = 1
		cat["icon"] = DefaultIcon
		cat["styleRules"] = []any{}
		cat["textSize"] = 1
		cat["textAlign"] = "top"
		cat["captionKeys"] = []any{}

		if raw, present := cat["labels"]; present {
			labels, ok := raw.([]any)
			if !ok {
				return &apperr.StructuralError{Field: fmt.Sprintf("categories[%d].labels", i), Want: "list"}
			}
			for j, label := range labels {
				labels[j] = CleanLabel(label)
			}
		}

		if raw, present := cat["properties"]; present {
			props, ok := raw.([]any)
			if !ok {
				return &apperr.StructuralError{Field: fmt.Sprintf("categories[%d].properties", i), Want: "list"}
			}
			for j, prop := range props {
				props[j] = coerceProperty(prop)
			}
		}

		fixCategoryCaptions(cat)
	}
	return nil
}

// coerceProperty turns a bare property name into its full descriptor and
// backfills exclude/dataType on partial descriptors.
func coerceProperty(prop any) any {
	if name, ok := prop.(string); ok {
		return map[string]any{"name": name, "exclude": false, "dataType": "string"}
	}
	if m, ok := prop.(map[string]any); ok {
		if _, present := m["exclude"]; !present {
			m["exclude"] = false
		}
		if _, present := m["dataType"]; !present {
			m["dataType"] = "string"
		}
		return m
	}
	return prop
}

// fixCategoryCaptions synthesizes a caption when none exists: the first
// property, else the first label, else the literal "id" token. Existing
// captions are kept but backfilled with the fields Bloom requires.
func fixCategoryCaptions(cat map[string]any) {
	captions, _ := cat["captions"].([]any)
	if len(captions) == 0 {
		key := "id"
		captionType := "label"
		if props, _ := cat["properties"].([]any); len(props) > 0 {
			if m, ok := props[0].(map[string]any); ok {
				if name, ok := m["name"].(string); ok {
					key = name
					captionType = "property"
				}
			}
		} else if labels, _ := cat["labels"].([]any); len(labels) > 0 {
			key = CleanLabel(labels[0])
		}
		cat["captions"] = []any{map[string]any{
			"key":       key,
			"type":      captionType,
			"isCaption": true,
			"inTooltip": true,
			"styles":    []any{},
			"isGdsData": false,
		}}
		return
	}

	for _, entry := range captions {
		caption, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if _, present := caption["styles"]; !present {
			caption["styles"] = []any{}
		}
		if _, present := caption["isGdsData"]; !present && caption["type"] == "property" {
			caption["isGdsData"] = false
		}
	}
}

// fixRelationshipTypes normalizes each shown relationship: the cleaned name
// doubles as the id, style constants are forced, and a relationship caption
// is synthesized when absent. A bare string entry is promoted to an object.
func fixRelationshipTypes(draft map[string]any) error {
	rels, err := listField(draft, "relationshipTypes")
	if err != nil {
		return err
	}
	for i, entry := range rels {
		rel, ok := entry.(map[string]any)
		if !ok {
			rel = map[string]any{"name": CleanLabel(entry)}
			rels[i] = rel
		}

		name := CleanLabel(rel["name"])
		rel["id"] = name
		rel["name"] = name
		if _, present := rel["properties"]; !present {
			rel["properties"] = []any{}
		}
		if _, present := rel["styleRules"]; !present {
			rel["styleRules"] = []any{}
		}
		rel["size"] = 1
		rel["textSize"] = 1
		rel["textAlign"] = "top"
		rel["captionKeys"] = []any{}

		if _, present := rel["captions"]; !present {
			rel["captions"] = []any{map[string]any{
				"key":       name,
				"type":      "relationship",
				"isCaption": true,
				"inTooltip": true,
				"styles":    []any{},
			}}
		}
	}
	return nil
}

// fixTemplates settles the search phrase entries: stable unique ids, the
// query/description aliases renamed to Bloom's cypher/text, the fixed null
// flags, and parameter defaults.
func fixTemplates(draft map[string]any, now int64) error {
	templates, err := listField(draft, "templates")
	if err != nil {
		return err
	}
	for i, entry := range templates {
		tmpl, ok := entry.(map[string]any)
		if !ok {
			return &apperr.StructuralError{Field: fmt.Sprintf("templates[%d]", i), Want: "object"}
		}

		if id, ok := tmpl["id"].(string); !ok || id == "" {
			tmpl["id"] = "tmpl:" + uuid.NewString()
		}
		if _, present := tmpl["createdAt"]; !present {
			tmpl["createdAt"] = now
		}

		if query, present := tmpl["query"]; present {
			if _, hasCypher := tmpl["cypher"]; !hasCypher {
				tmpl["cypher"] = query
			}
			delete(tmpl, "query")
		}
		if desc, present := tmpl["description"]; present {
			if _, hasText := tmpl["text"]; !hasText {
				tmpl["text"] = desc
			}
			delete(tmpl, "description")
		} else if _, hasText := tmpl["text"]; !hasText {
			if name, ok := tmpl["name"].(string); ok && name != "" {
				tmpl["text"] = name
			} else {
				tmpl["text"] = "Search Phrase"
			}
		}

		tmpl["isUpdateQuery"] = nil
		tmpl["isWriteTransactionChecked"] = nil
		tmpl["hasCypherErrors"] = false

		if raw, present := tmpl["params"]; present {
			params, ok := raw.([]any)
			if !ok {
				return &apperr.StructuralError{Field: fmt.Sprintf("templates[%d].params", i), Want: "list"}
			}
			for _, p := range params {
				param, ok := p.(map[string]any)
				if !ok {
					continue
				}
				if _, present := param["collapsed"]; !present {
					param["collapsed"] = false
				}
				if _, present := param["suggestionBoolean"]; !present {
					param["suggestionBoolean"] = false
				}
				if label, present := param["suggestionLabel"]; present {
					param["suggestionLabel"] = CleanLabel(label)
				}
				if _, present := param["cypher"]; !present {
					param["cypher"] = nil
				}
			}
		}
	}
	return nil
}

// fixLabels normalizes every key of the root labels dictionary and pins each
// property's type field to the key it lives under, overriding stale values.
func fixLabels(draft map[string]any) error {
	raw, present := draft["labels"]
	if !present {
		return nil
	}
	labels, ok := raw.(map[string]any)
	if !ok {
		return &apperr.StructuralError{Field: "labels", Want: "object"}
	}

	cleaned := make(map[string]any, len(labels))
	for key, value := range labels {
		cleanKey := CleanLabel(key)
		props, ok := value.([]any)
		if !ok {
			return &apperr.StructuralError{Field: "labels." + key, Want: "list"}
		}
		for _, p := range props {
			if prop, ok := p.(map[string]any); ok {
				prop["type"] = cleanKey
			}
		}
		cleaned[cleanKey] = props
	}
	draft["labels"] = cleaned
	return nil
}

func fixTopLevel(draft map[string]any) {
	if _, present := draft["sceneActions"]; !present {
		draft["sceneActions"] = []any{}
	}
	if _, present := draft["hiddenRelationshipTypes"]; !present {
		draft["hiddenRelationshipTypes"] = []any{}
	}
}

// listField fetches an optional list-valued field, distinguishing "absent"
// (fine, nothing to fix) from "present but not a list" (structural error).
func listField(draft map[string]any, key string) ([]any, error) {
	raw, present := draft[key]
	if !present || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &apperr.StructuralError{Field: key, Want: "list"}
	}
	return list, nil
}
