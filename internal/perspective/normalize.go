package perspective

import (
	"fmt"
	"strings"
)

// CleanLabel normalizes a label or relationship-type token read from the
// schema or from a draft. Tokens arrive in several shapes: a bare string, a
// backtick-delimited string (Neo4j quotes non-trivial identifiers), or a
// list of such tokens — in which case only the first element matters. The
// same normalization is applied everywhere names are compared, so delimiter
// inconsistencies between sources never break set operations.
func CleanLabel(value any) string {
	switch v := value.(type) {
	case []any:
		if len(v) == 0 {
			return ""
		}
		return CleanLabel(v[0])
	case []string:
		if len(v) == 0 {
			return ""
		}
		return CleanLabel(v[0])
	case string:
		return strings.ReplaceAll(v, "`", "")
	case nil:
		return ""
	default:
		return strings.ReplaceAll(fmt.Sprint(v), "`", "")
	}
}
