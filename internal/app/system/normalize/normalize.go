// internal/app/system/normalize/normalize.go
package normalize

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Email trims surrounding whitespace and lowercases. Emails are stored
// and compared in this canonical form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace. Case is preserved.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Digits strips every non-digit character. Phone numbers are stored in
// this digits-only canonical form.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// birthDateLayouts are the accepted input layouts, tried in order.
var birthDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02T15:04:05Z07:00",
}

// BirthDate re-serializes a date string to the canonical YYYY-MM-DD
// calendar-date form. Returns ok=false when the input does not parse.
func BirthDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// PruneEmpty returns a copy of doc with empty-string and nil values
// recursively removed. Nested documents that become empty are dropped
// altogether, so partial updates never clobber stored data with blanks.
func PruneEmpty(doc bson.M) bson.M {
	out := bson.M{}
	for k, v := range doc {
		switch val := v.(type) {
		case nil:
			// drop
		case string:
			if val != "" {
				out[k] = val
			}
		case bson.M:
			nested := PruneEmpty(val)
			if len(nested) > 0 {
				out[k] = nested
			}
		case map[string]interface{}:
			nested := PruneEmpty(bson.M(val))
			if len(nested) > 0 {
				out[k] = nested
			}
		default:
			out[k] = v
		}
	}
	return out
}
