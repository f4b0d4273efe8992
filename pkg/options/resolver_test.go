package options

import (
	"testing"

	"github.com/goliatone/go-messenger/pkg/config"
	"github.com/goliatone/go-messenger/pkg/domain"
	opts "github.com/goliatone/go-options"
)

func TestStackPrefersHigherPriorityScope(t *testing.T) {
	builtin := opts.NewScope("defaults", opts.ScopePrioritySystem, opts.WithScopeLabel("Built-in defaults"))
	host := opts.NewScope("settings", opts.ScopePriorityTenant, opts.WithScopeLabel("Messenger settings"))

	stack, err := NewStack(
		Layer{Scope: builtin, Values: map[string]any{
			TogglePath(domain.TogglePostUpdates): true,
			SettingPath(domain.SettingUsername):  "redmine",
		}},
		Layer{Scope: host, Values: map[string]any{
			TogglePath(domain.TogglePostUpdates): false,
			SettingPath(domain.SettingIcon):      42,
		}},
	)
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}

	if value, ok := stack.Toggle(domain.TogglePostUpdates); !ok || value {
		t.Fatalf("expected host layer to disable post_updates, got %v %v", value, ok)
	}
	if _, ok := stack.Toggle(domain.TogglePostDB); ok {
		t.Fatalf("expected unset toggle to report missing")
	}
	if got := stack.Text(domain.SettingUsername); got != "redmine" {
		t.Fatalf("expected builtin username, got %q", got)
	}
	if got := stack.Text(domain.SettingIcon); got != "" {
		t.Fatalf("expected non-string value to be ignored, got %q", got)
	}

	trace, err := stack.Explain(TogglePath(domain.TogglePostUpdates))
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if trace.Path != "toggle_post_updates" || len(trace.Layers) != 2 {
		t.Fatalf("unexpected trace %+v", trace)
	}
}

func TestNewStackValidation(t *testing.T) {
	if _, err := NewStack(); err != ErrNoLayers {
		t.Fatalf("expected ErrNoLayers, got %v", err)
	}
	if _, err := NewStack(Layer{Scope: opts.Scope{}, Values: map[string]any{}}); err == nil {
		t.Fatalf("expected error for missing scope name")
	}
	var nilStack *Stack
	if got := nilStack.Text(domain.SettingURL); got != "" {
		t.Fatalf("expected empty text from nil stack, got %q", got)
	}
}

func TestSystemDefaultsLayersHostOverBuiltins(t *testing.T) {
	defaults, err := SystemDefaults(config.MessengerConfig{
		URL:     "https://hooks.slack.test/T1",
		Channel: "ops,infra",
		Toggles: map[string]bool{
			"post_db":      true,
			"post_updates": false,
			"post_wiki":    true,
		},
	})
	if err != nil {
		t.Fatalf("SystemDefaults: %v", err)
	}
	if defaults.URL != "https://hooks.slack.test/T1" || defaults.Channel != "ops,infra" {
		t.Fatalf("unexpected text defaults %+v", defaults)
	}
	if defaults.Username != "" {
		t.Fatalf("expected empty username, got %q", defaults.Username)
	}
	if !defaults.Toggle(domain.TogglePostDB) {
		t.Fatalf("expected host toggle to win")
	}
	if defaults.Toggle(domain.TogglePostUpdates) {
		t.Fatalf("expected host to disable post_updates")
	}
	if !defaults.Toggle(domain.ToggleNewIncludeDescription) {
		t.Fatalf("expected built-in default to survive")
	}
	if !defaults.Toggle("post_wiki") {
		t.Fatalf("expected unknown host toggle to be captured")
	}
	if defaults.Toggle("never_configured") {
		t.Fatalf("unknown toggles must default to false")
	}
}
