// Package markup produces text for the Slack message formatting dialect.
package markup

import (
	"strings"

	"github.com/jaytaylor/html2text"
)

// Escape replaces the three control characters Slack reserves. The ampersand
// is replaced first so the entities inserted afterwards are left intact.
// Escape is not idempotent: callers escape raw text exactly once.
func Escape(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}

// Link builds an inline link. display is used as-is and must already be
// escaped when it comes from user content.
func Link(target, display string) string {
	return "<" + target + "|" + display + ">"
}

// PlainText converts HTML formatted text (wiki output, rich notes) to plain
// text. Input without markup is returned trimmed.
func PlainText(text string) string {
	if !strings.ContainsAny(text, "<&") {
		return strings.TrimSpace(text)
	}
	plain, err := html2text.FromString(text, html2text.Options{PrettyTables: true})
	if err != nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(plain)
}

// Format converts text to plain text and escapes it. Empty input yields "".
func Format(text string) string {
	text = PlainText(text)
	if text == "" {
		return ""
	}
	return Escape(text)
}
