package di

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-messenger/pkg/adapters"
	"github.com/goliatone/go-messenger/pkg/config"
	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/queue"
)

type recordingPoster struct{}

func (recordingPoster) Name() string { return "recording" }

func (recordingPoster) Post(ctx context.Context, delivery domain.Delivery) error { return nil }

func TestNewDefaults(t *testing.T) {
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	if c.Storage.Projects == nil || c.Settings == nil || c.Builder == nil || c.Commands == nil {
		t.Fatalf("expected wired container, got %+v", c)
	}
	if c.Queue != queue.Queue(c.Dispatcher) {
		t.Fatalf("expected dispatcher to back the queue")
	}
	if got := c.Adapters.Describe(); len(got) != 2 {
		t.Fatalf("expected default adapters, got %v", got)
	}
	if !c.Defaults.Toggle(domain.TogglePostUpdates) {
		t.Fatalf("expected post_updates default on")
	}
	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewRoutesConfiguredAdapter(t *testing.T) {
	cfg := config.Defaults()
	cfg.Dispatcher.Adapter = "recording"
	recorder := &queue.Recorder{}
	c, err := New(Options{Config: cfg, Posters: []adapters.Poster{recordingPoster{}}, Queue: recorder})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	if c.Queue != queue.Queue(recorder) {
		t.Fatalf("expected supplied queue")
	}

	cfg.Dispatcher.Adapter = "missing"
	if _, err := New(Options{Config: cfg, Posters: []adapters.Poster{recordingPoster{}}}); !errors.Is(err, adapters.ErrAdapterNotFound) {
		t.Fatalf("expected adapter not found, got %v", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Links.Protocol = "ftp"
	if _, err := New(Options{Config: cfg}); err == nil {
		t.Fatalf("expected invalid protocol error")
	}
}
