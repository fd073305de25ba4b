package perspective

import "strings"

// Filename derives the output file name for a perspective display name:
// only letters, digits, spaces, hyphens and underscores survive, the result
// is trimmed and internal spaces become underscores. Names that collapse to
// the same string overwrite each other; that is accepted behavior.
func Filename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	safe := strings.TrimSpace(b.String())
	safe = strings.ReplaceAll(safe, " ", "_")
	return safe + ".json"
}
