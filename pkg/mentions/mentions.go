// Package mentions derives chat handle mentions from free text and the
// per-project default mention list.
package mentions

import (
	"context"
	"regexp"
	"strings"

	"github.com/goliatone/go-messenger/pkg/domain"
)

// handlePattern matches handles that start with a lowercase letter or digit
// followed by lowercase letters, digits, dashes, dots or underscores.
var handlePattern = regexp.MustCompile(`@[a-z0-9][a-z0-9_\-.]*`)

// Prefix starts every non-empty mention line.
const Prefix = "To: "

// TextSource resolves cascading text settings for a project.
type TextSource interface {
	Text(ctx context.Context, project *domain.Project, key domain.SettingKey) string
}

// Extractor builds mention lines.
type Extractor struct {
	settings TextSource
}

// New returns an Extractor. A nil source means no default mentions.
func New(settings TextSource) *Extractor {
	return &Extractor{settings: settings}
}

// Mentions returns "To: a, b" built from the project's default mentions
// followed by handles found in text, without duplicates. The boolean is
// false when there is nothing to mention.
func (e *Extractor) Mentions(ctx context.Context, project *domain.Project, text string) (string, bool) {
	var names []string
	if e != nil && e.settings != nil {
		for _, name := range strings.Split(e.settings.Text(ctx, project, domain.SettingDefaultMentions), ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	names = append(names, Handles(text)...)
	names = dedupe(names)
	if len(names) == 0 {
		return "", false
	}
	return Prefix + strings.Join(names, ", "), true
}

// Handles returns the distinct handles found in text in first-seen order.
func Handles(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return dedupe(handlePattern.FindAllString(text, -1))
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
