// Package htmlsanitize strips unsafe markup from user-supplied text
// before it is stored. Kid comments and form descriptions accept a small
// set of formatting tags; everything else is reduced to plain text.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc keeps basic formatting (paragraphs, emphasis, lists, links)
	// and drops scripts, event handlers, and javascript: URLs.
	ugc = bluemonday.UGCPolicy()

	// strict removes all markup. Used for single-line fields.
	strict = bluemonday.StrictPolicy()
)

// Sanitize cleans rich-text input, keeping safe formatting tags.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// SanitizeStrict reduces input to plain text with all tags removed and
// surrounding whitespace trimmed.
func SanitizeStrict(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
