package options

import (
	"sort"
	"strings"

	"github.com/goliatone/go-messenger/pkg/config"
	"github.com/goliatone/go-messenger/pkg/domain"
	opts "github.com/goliatone/go-options"
)

// BuiltinToggles are the toggle values used when the host configuration is silent.
var BuiltinToggles = map[domain.Toggle]bool{
	domain.TogglePostUpdates:               true,
	domain.ToggleNewIncludeDescription:     true,
	domain.ToggleUpdatedIncludeDescription: false,
	domain.TogglePostPrivateIssues:         false,
	domain.TogglePostPrivateNotes:          false,
	domain.ToggleDisplayWatchers:           false,
	domain.ToggleAutoMentions:              false,
	domain.TogglePostDB:                    false,
	domain.TogglePostDBUpdates:             false,
	domain.TogglePostPassword:              false,
	domain.TogglePostPasswordUpdates:       false,
}

// DefaultLayers returns the built-in layer and the host settings layer.
// The host layer only carries values that were actually configured.
func DefaultLayers(cfg config.MessengerConfig) []Layer {
	builtin := map[string]any{}
	for _, key := range domain.SettingKeys {
		builtin[SettingPath(key)] = ""
	}
	for toggle, value := range BuiltinToggles {
		builtin[TogglePath(toggle)] = value
	}

	host := map[string]any{}
	text := map[domain.SettingKey]string{
		domain.SettingURL:             cfg.URL,
		domain.SettingUsername:        cfg.Username,
		domain.SettingIcon:            cfg.Icon,
		domain.SettingChannel:         cfg.Channel,
		domain.SettingDefaultMentions: cfg.DefaultMentions,
	}
	for key, value := range text {
		if strings.TrimSpace(value) != "" {
			host[SettingPath(key)] = strings.TrimSpace(value)
		}
	}
	for name, value := range cfg.Toggles {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		host[TogglePath(domain.Toggle(name))] = value
	}

	return []Layer{
		{
			Scope:  opts.NewScope("defaults", opts.ScopePrioritySystem, opts.WithScopeLabel("Built-in defaults")),
			Values: builtin,
		},
		{
			Scope:  opts.NewScope("settings", opts.ScopePriorityTenant, opts.WithScopeLabel("Messenger settings")),
			Values: host,
		},
	}
}

// SystemDefaults merges the snapshots and freezes the result. Every known
// toggle plus every toggle named in the host configuration is captured.
func SystemDefaults(cfg config.MessengerConfig) (domain.SystemDefaults, error) {
	stack, err := NewStack(DefaultLayers(cfg)...)
	if err != nil {
		return domain.SystemDefaults{}, err
	}

	out := domain.SystemDefaults{
		URL:             stack.Text(domain.SettingURL),
		Username:        stack.Text(domain.SettingUsername),
		Icon:            stack.Text(domain.SettingIcon),
		Channel:         stack.Text(domain.SettingChannel),
		DefaultMentions: stack.Text(domain.SettingDefaultMentions),
		Toggles:         make(map[domain.Toggle]bool),
	}
	for _, toggle := range toggleNames(cfg) {
		if value, ok := stack.Toggle(toggle); ok {
			out.Toggles[toggle] = value
		}
	}
	return out, nil
}

func toggleNames(cfg config.MessengerConfig) []domain.Toggle {
	seen := make(map[domain.Toggle]struct{})
	var names []domain.Toggle
	add := func(t domain.Toggle) {
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		names = append(names, t)
	}
	for _, t := range domain.KnownToggles {
		add(t)
	}
	extra := make([]string, 0, len(cfg.Toggles))
	for name := range cfg.Toggles {
		extra = append(extra, strings.TrimSpace(name))
	}
	sort.Strings(extra)
	for _, name := range extra {
		add(domain.Toggle(name))
	}
	return names
}
