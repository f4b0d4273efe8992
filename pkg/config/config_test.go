package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromMap(t *testing.T) {
	input := map[string]any{
		"localization": map[string]any{
			"default_locale": "es",
		},
		"messenger": map[string]any{
			"url":     "https://hooks.slack.test/T000",
			"channel": "#ops, #infra",
			"toggles": map[string]any{"post_db": true},
		},
		"dispatcher": map[string]any{
			"max_retries": 5,
			"max_workers": 2,
		},
	}

	cfg, err := Load(input)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Localization.DefaultLocale != "es" {
		t.Fatalf("expected locale es, got %s", cfg.Localization.DefaultLocale)
	}
	if cfg.Messenger.URL != "https://hooks.slack.test/T000" {
		t.Fatalf("unexpected url %s", cfg.Messenger.URL)
	}
	if !cfg.Messenger.Toggles["post_db"] {
		t.Fatalf("expected post_db toggle")
	}
	if cfg.Dispatcher.Retries() != 5 {
		t.Fatalf("expected retries 5, got %d", cfg.Dispatcher.Retries())
	}
	if cfg.Dispatcher.MaxWorkers != 2 {
		t.Fatalf("expected workers 2, got %d", cfg.Dispatcher.MaxWorkers)
	}
	if cfg.Summary.Updated != DefaultUpdatedSummary {
		t.Fatalf("expected default summary layout")
	}
}

func TestLoadFromStruct(t *testing.T) {
	input := Config{
		Localization: LocalizationConfig{DefaultLocale: "fr"},
		Dispatcher:   DispatcherConfig{Enabled: true, MaxRetries: IntPtr(1), MaxWorkers: 10},
	}

	cfg, err := Load(input)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Localization.DefaultLocale != "fr" {
		t.Fatalf("expected locale fr, got %s", cfg.Localization.DefaultLocale)
	}
	if cfg.Dispatcher.MaxWorkers != 10 {
		t.Fatalf("expected workers 10, got %d", cfg.Dispatcher.MaxWorkers)
	}
	if cfg.Hours.Format != HoursFormatDecimal {
		t.Fatalf("expected decimal hours by default, got %s", cfg.Hours.Format)
	}
	if cfg.Dispatcher.TimeoutDuration() != 10*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.Dispatcher.TimeoutDuration())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Defaults()
	cfg.Hours.Format = "fortnights"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid hours format error")
	}

	cfg = Defaults()
	cfg.Dispatcher.Timeout = "soon"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid timeout error")
	}

	cfg = Defaults()
	cfg.Dispatcher.BackoffJitter = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid jitter error")
	}
}

func TestRetriesDistinguishesUnsetFromZero(t *testing.T) {
	cfg, err := Load(Config{
		Localization: LocalizationConfig{DefaultLocale: "en"},
		Dispatcher:   DispatcherConfig{MaxRetries: IntPtr(0)},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Dispatcher.Retries() != 0 {
		t.Fatalf("expected explicit zero retries to survive defaults, got %d", cfg.Dispatcher.Retries())
	}

	cfg, err = Load(Config{Localization: LocalizationConfig{DefaultLocale: "en"}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Dispatcher.Retries() != 3 {
		t.Fatalf("expected default retries, got %d", cfg.Dispatcher.Retries())
	}

	bad := Defaults()
	bad.Dispatcher.MaxRetries = IntPtr(-1)
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected negative retries to be rejected")
	}
}

func TestBackoffDurations(t *testing.T) {
	base, limit := Defaults().Dispatcher.BackoffDurations()
	if base != 100*time.Millisecond || limit != 5*time.Second {
		t.Fatalf("unexpected default backoff %s..%s", base, limit)
	}
	base, limit = DispatcherConfig{Backoff: "bogus"}.BackoffDurations()
	if base != 0 || limit != 0 {
		t.Fatalf("expected zero durations for unset or invalid values, got %s..%s", base, limit)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "messenger.yaml")
	body := []byte(`
messenger:
  url: https://hooks.slack.test/T1
  username: redmine
  icon: ":ghost:"
  toggles:
    post_updates: true
links:
  host_name: tracker.example.com/redmine
  protocol: https
hours:
  format: minutes
dispatcher:
  timeout: 3s
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if cfg.Messenger.Icon != ":ghost:" || cfg.Messenger.Username != "redmine" {
		t.Fatalf("unexpected messenger config %+v", cfg.Messenger)
	}
	if cfg.Links.Protocol != "https" || cfg.Hours.Format != HoursFormatMinutes {
		t.Fatalf("unexpected links/hours %+v %+v", cfg.Links, cfg.Hours)
	}
	if cfg.Dispatcher.TimeoutDuration() != 3*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.Dispatcher.TimeoutDuration())
	}
}
