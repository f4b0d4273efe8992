package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/goliatone/go-messenger/pkg/adapters"
	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/logger"
)

// Adapter writes deliveries to a writer or the logger for debugging.
type Adapter struct {
	name string
	base adapters.BaseAdapter
	opts Options
	mu   sync.Mutex
}

var _ adapters.Poster = (*Adapter)(nil)

type Option func(*Adapter)

// Options tweak console output.
type Options struct {
	Structured bool // when true, emit a structured log entry instead of JSON output
	Writer     io.Writer
}

// WithName overrides the adapter name (defaults to "console").
func WithName(name string) Option {
	return func(a *Adapter) {
		if name != "" {
			a.name = name
		}
	}
}

// WithStructured enables structured logging mode.
func WithStructured(enabled bool) Option {
	return func(a *Adapter) {
		a.opts.Structured = enabled
	}
}

// WithWriter sends JSON output to w.
func WithWriter(w io.Writer) Option {
	return func(a *Adapter) {
		a.opts.Writer = w
	}
}

// New constructs a console adapter.
func New(l logger.Logger, opts ...Option) *Adapter {
	adapter := &Adapter{name: "console"}
	adapter.base = adapters.NewBaseAdapter(l)
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	return adapter
}

// Name implements adapters.Poster.
func (a *Adapter) Name() string {
	return a.name
}

// Post prints the delivery. The webhook URL is masked.
func (a *Adapter) Post(ctx context.Context, delivery domain.Delivery) error {
	if a.opts.Structured || a.opts.Writer == nil {
		a.base.Logger().Info("console delivery",
			logger.F("url", adapters.MaskURL(delivery.URL)),
			logger.F("channel", delivery.Payload.Channel),
			logger.F("text", delivery.Payload.Text),
			logger.F("attachments", len(delivery.Payload.Attachments)),
		)
		return nil
	}

	out := struct {
		URL     string         `json:"url"`
		Payload domain.Payload `json:"payload"`
	}{
		URL:     adapters.MaskURL(delivery.URL),
		Payload: delivery.Payload,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("console: encode delivery: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := fmt.Fprintln(a.opts.Writer, string(data)); err != nil {
		return fmt.Errorf("console: write delivery: %w", err)
	}
	a.base.LogSuccess(a.name, delivery)
	return nil
}
