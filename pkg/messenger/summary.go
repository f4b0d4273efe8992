package messenger

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-messenger/pkg/config"
	"github.com/goliatone/go-messenger/pkg/domain"
	gotemplate "github.com/goliatone/go-template"
)

// ErrRendererConfig wraps template engine construction failures.
var ErrRendererConfig = errors.New("messenger: summary renderer configuration failed")

// SummaryData is the template context of the summary line. Every value is
// already escaped or formatted as chat markup.
type SummaryData struct {
	Project  string
	Author   string
	Issue    string
	Mentions string
}

func (d SummaryData) toMap() map[string]any {
	return map[string]any{
		"project":  d.Project,
		"author":   d.Author,
		"issue":    d.Issue,
		"mentions": d.Mentions,
	}
}

// Summary renders the message text for created and updated issues.
type Summary struct {
	mu       sync.Mutex
	renderer *gotemplate.Engine
	layouts  map[domain.IssueEventKind]string
}

// NewSummary builds a summary renderer from the configured layouts. Empty
// layouts fall back to the built-in ones.
func NewSummary(cfg config.SummaryConfig) (*Summary, error) {
	renderer, err := gotemplate.NewRenderer(gotemplate.WithBaseDir("."))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRendererConfig, err)
	}
	created := strings.TrimSpace(cfg.Created)
	if created == "" {
		created = config.DefaultCreatedSummary
	}
	updated := strings.TrimSpace(cfg.Updated)
	if updated == "" {
		updated = config.DefaultUpdatedSummary
	}
	return &Summary{
		renderer: renderer,
		layouts: map[domain.IssueEventKind]string{
			domain.IssueCreated: created,
			domain.IssueUpdated: updated,
		},
	}, nil
}

// Render produces the summary line for kind.
func (s *Summary) Render(kind domain.IssueEventKind, data SummaryData) (string, error) {
	layout, ok := s.layouts[kind]
	if !ok {
		layout = s.layouts[domain.IssueUpdated]
	}
	s.mu.Lock()
	out, err := s.renderer.RenderString(layout, data.toMap())
	s.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("messenger: render summary: %w", err)
	}
	return strings.TrimSpace(out), nil
}
