package slack

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-messenger/pkg/adapters"
	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/logger"
)

// Adapter posts payloads to Slack-compatible incoming webhooks.
type Adapter struct {
	name   string
	base   adapters.BaseAdapter
	cfg    Config
	client *http.Client
}

var _ adapters.Poster = (*Adapter)(nil)

// Config holds webhook client settings.
type Config struct {
	Timeout       time.Duration
	SkipTLSVerify bool
	DryRun        bool
}

type Option func(*Adapter)

// WithName overrides the adapter name.
func WithName(name string) Option {
	return func(a *Adapter) {
		if strings.TrimSpace(name) != "" {
			a.name = name
		}
	}
}

// WithConfig sets adapter configuration.
func WithConfig(cfg Config) Option {
	return func(a *Adapter) {
		a.cfg = cfg
	}
}

// WithClient sets a custom HTTP client.
func WithClient(c *http.Client) Option {
	return func(a *Adapter) {
		if c != nil {
			a.client = c
		}
	}
}

// New constructs the webhook adapter.
func New(l logger.Logger, opts ...Option) *Adapter {
	adapter := &Adapter{
		name: "slack",
		base: adapters.NewBaseAdapter(l),
		cfg: Config{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	if adapter.client == nil {
		adapter.client = &http.Client{
			Timeout: adapter.cfg.Timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: adapter.cfg.SkipTLSVerify},
			},
		}
	}
	return adapter
}

func (a *Adapter) Name() string { return a.name }

// Post sends one delivery. Non-2xx responses are returned as
// *adapters.StatusError so callers can decide whether to retry.
func (a *Adapter) Post(ctx context.Context, delivery domain.Delivery) error {
	endpoint := strings.TrimSpace(delivery.URL)
	if endpoint == "" {
		return fmt.Errorf("slack: webhook url required")
	}
	if strings.TrimSpace(delivery.Payload.Channel) == "" {
		return fmt.Errorf("slack: channel required")
	}

	if a.cfg.DryRun {
		a.base.Logger().Info("[slack:dry-run] post skipped",
			logger.F("channel", delivery.Payload.Channel),
			logger.F("text", delivery.Payload.Text),
		)
		return nil
	}

	body, err := json.Marshal(delivery.Payload)
	if err != nil {
		return fmt.Errorf("slack: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		err = fmt.Errorf("slack: request failed: %w", err)
		a.base.LogFailure(a.name, delivery, err)
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := &adapters.StatusError{
			Adapter:    a.name,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
		a.base.LogFailure(a.name, delivery, err)
		return err
	}

	a.base.LogSuccess(a.name, delivery)
	return nil
}
