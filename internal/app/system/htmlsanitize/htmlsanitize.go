// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// rich allows the formatting instructors use in course descriptions
	// and lesson bodies: paragraphs, lists, links, tables, code.
	rich = bluemonday.UGCPolicy()

	// plain strips every tag. Used for review comments and notification
	// messages, which are shown as text.
	plain = bluemonday.StrictPolicy()
)

// Sanitize returns s with unsafe markup (scripts, event handlers,
// javascript: URLs, iframes) removed. Safe formatting is kept.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return rich.Sanitize(s)
}

// PlainText returns s with all markup removed and surrounding space
// trimmed. Entities produced by the policy are left escaped.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(plain.Sanitize(s))
}
