package generator

import (
	"encoding/json"
	"strings"

	"github.com/starford/bloomgen/internal/apperr"
)

// StripFence removes one leading and one trailing markdown code fence from
// generator output. The prompt forbids fencing, but models emit it anyway;
// this is a narrow text fixup applied before JSON parsing, not part of it.
func StripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = s[3:]
		// Drop a language tag like "json" on the opening fence.
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			firstLine := strings.TrimSpace(s[:idx])
			if firstLine != "" && !strings.ContainsAny(firstLine, "{}[]") {
				s = s[idx+1:]
			}
		} else {
			s = strings.TrimPrefix(s, "json")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParsePerspectives parses generator output into draft perspective maps. A
// single bare object is accepted and treated as a one-element array.
// Malformed JSON yields an *apperr.ParseError carrying a bounded preview of
// the raw text.
func ParsePerspectives(raw string) ([]map[string]any, error) {
	content := StripFence(raw)

	var drafts []map[string]any
	if err := json.Unmarshal([]byte(content), &drafts); err == nil {
		return drafts, nil
	}

	var single map[string]any
	if err := json.Unmarshal([]byte(content), &single); err != nil {
		return nil, apperr.NewParseError(err, raw)
	}
	return []map[string]any{single}, nil
}
