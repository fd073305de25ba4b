// Package perspective turns loosely-shaped perspective drafts into the exact
// document shape Neo4j Bloom imports: it normalizes label tokens, derives
// metadata from the database schema, computes the hidden relationship set and
// backfills every field Bloom requires.
package perspective

// Fixed values Bloom expects in every generated perspective.
const (
	// Version is the Bloom perspective format version this tool targets.
	Version = "2.21.0"

	// TypeStandard tags a standalone (non-parented) perspective.
	TypeStandard = "STANDARD_PERSPECTIVE"

	// DefaultIcon is accepted by Bloom for categories without a custom icon.
	DefaultIcon = "no-icon"

	// DefaultRelationshipColor is Bloom's stock relationship grey.
	DefaultRelationshipColor = "#A5ABB6"

	// DefaultCategoryColor is used by the procedural builder when a
	// definition omits a color.
	DefaultCategoryColor = "#CCCCCC"
)

// defaultPaletteColors is Bloom's stock 14-color category palette.
var defaultPaletteColors = []string{
	"#FFE081", "#C990C0", "#F79767", "#57C7E3", "#F16667",
	"#D9C8AE", "#8DCC93", "#ECB5C9", "#4C8EDA", "#FFC454",
	"#DA7194", "#569480", "#959AA1", "#D9D9D9",
}

// DefaultPalette returns a fresh palette document with the stock colors.
func DefaultPalette() map[string]any {
	colors := make([]any, len(defaultPaletteColors))
	for i, c := range defaultPaletteColors {
		colors[i] = c
	}
	return map[string]any{
		"colors":       colors,
		"currentIndex": 0,
	}
}
