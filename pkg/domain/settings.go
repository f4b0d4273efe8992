package domain

// TriState is the per-project toggle override.
type TriState int

const (
	TriStateInherit   TriState = 0
	TriStateForcedOff TriState = 1
	TriStateForcedOn  TriState = 2
)

// Toggle names a boolean feature switch that cascades through the project tree.
type Toggle string

const (
	TogglePostUpdates               Toggle = "post_updates"
	ToggleNewIncludeDescription     Toggle = "new_include_description"
	ToggleUpdatedIncludeDescription Toggle = "updated_include_description"
	TogglePostPrivateIssues         Toggle = "post_private_issues"
	TogglePostPrivateNotes          Toggle = "post_private_notes"
	ToggleDisplayWatchers           Toggle = "display_watchers"
	ToggleAutoMentions              Toggle = "auto_mentions"
	TogglePostDB                    Toggle = "post_db"
	TogglePostDBUpdates             Toggle = "post_db_updates"
	TogglePostPassword              Toggle = "post_password"
	TogglePostPasswordUpdates       Toggle = "post_password_updates"
)

// KnownToggles lists every toggle with a built-in system default.
var KnownToggles = []Toggle{
	TogglePostUpdates,
	ToggleNewIncludeDescription,
	ToggleUpdatedIncludeDescription,
	TogglePostPrivateIssues,
	TogglePostPrivateNotes,
	ToggleDisplayWatchers,
	ToggleAutoMentions,
	TogglePostDB,
	TogglePostDBUpdates,
	TogglePostPassword,
	TogglePostPasswordUpdates,
}

// SettingKey enumerates the text settings that cascade through the project tree.
type SettingKey string

const (
	SettingURL             SettingKey = "url"
	SettingUsername        SettingKey = "username"
	SettingIcon            SettingKey = "icon"
	SettingChannel         SettingKey = "channel"
	SettingDefaultMentions SettingKey = "default_mentions"
)

// SettingKeys lists every recognized text setting.
var SettingKeys = []SettingKey{
	SettingURL,
	SettingUsername,
	SettingIcon,
	SettingChannel,
	SettingDefaultMentions,
}

// ChannelOptOut is the channel override that disables delivery for a project.
const ChannelOptOut = "-"

// SystemDefaults is the process-wide baseline. Built once at startup and
// never mutated afterwards.
type SystemDefaults struct {
	URL             string          `json:"url"`
	Username        string          `json:"username"`
	Icon            string          `json:"icon"`
	Channel         string          `json:"channel"`
	DefaultMentions string          `json:"default_mentions"`
	Toggles         map[Toggle]bool `json:"toggles"`
}

// Text returns the system value for key, "" for unknown keys.
func (d SystemDefaults) Text(key SettingKey) string {
	switch key {
	case SettingURL:
		return d.URL
	case SettingUsername:
		return d.Username
	case SettingIcon:
		return d.Icon
	case SettingChannel:
		return d.Channel
	case SettingDefaultMentions:
		return d.DefaultMentions
	default:
		return ""
	}
}

// Toggle returns the system default for t, false when unknown.
func (d SystemDefaults) Toggle(t Toggle) bool {
	if d.Toggles == nil {
		return false
	}
	return d.Toggles[t]
}

// ResolvedSettings is the fully cascaded configuration for one project.
type ResolvedSettings struct {
	URL             string          `json:"url,omitempty"`
	Username        string          `json:"username,omitempty"`
	Icon            string          `json:"icon,omitempty"`
	DefaultMentions string          `json:"default_mentions,omitempty"`
	Channels        []string        `json:"channels"`
	Toggles         map[Toggle]bool `json:"toggles"`
}

// Toggle reports the resolved value for t. Toggles not captured in the
// snapshot report false.
func (r ResolvedSettings) Toggle(t Toggle) bool {
	if r.Toggles == nil {
		return false
	}
	return r.Toggles[t]
}
