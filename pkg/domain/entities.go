package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RecordMeta captures identifiers and audit fields shared across entities.
type RecordMeta struct {
	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt time.Time `bun:",soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureID assigns a UUID when the struct is about to be persisted.
func (m *RecordMeta) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}

// JSONMap persists arbitrary metadata fields as JSON.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if m == nil {
		return errors.New("JSONMap: Scan on nil pointer")
	}
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("JSONMap: unsupported type %T", value)
	}
}

// StringList stores []string as JSON.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	return json.Marshal([]string(s))
}

func (s *StringList) Scan(value any) error {
	if s == nil {
		return errors.New("StringList: Scan on nil pointer")
	}
	switch v := value.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]string)(s))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(s))
	default:
		return fmt.Errorf("StringList: unsupported type %T", value)
	}
}

// ToggleMap stores per-project tri-state toggles as JSON.
type ToggleMap map[Toggle]TriState

func (m ToggleMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return json.Marshal(map[Toggle]TriState(m))
}

func (m *ToggleMap) Scan(value any) error {
	if m == nil {
		return errors.New("ToggleMap: Scan on nil pointer")
	}
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, (*map[Toggle]TriState)(m))
	case string:
		return json.Unmarshal([]byte(v), (*map[Toggle]TriState)(m))
	default:
		return fmt.Errorf("ToggleMap: unsupported type %T", value)
	}
}

// Project is a node of the project tree. Only the parent link is stored;
// children are found by querying on ParentID.
type Project struct {
	bun.BaseModel `bun:"table:messenger_projects"`
	RecordMeta

	Identifier string     `bun:",unique,nullzero,notnull" json:"identifier"`
	Name       string     `bun:",nullzero,notnull" json:"name"`
	ParentID   *uuid.UUID `bun:"type:uuid,nullzero" json:"parent_id,omitempty"`
}

// String returns the project display name.
func (p *Project) String() string {
	if p == nil {
		return ""
	}
	if p.Name != "" {
		return p.Name
	}
	return p.Identifier
}

// ProjectSetting is the per-project override record. Nil text fields and
// TriStateInherit toggles defer to the parent project.
type ProjectSetting struct {
	bun.BaseModel `bun:"table:messenger_settings"`
	RecordMeta

	ProjectID       uuid.UUID `bun:"type:uuid,unique,notnull" json:"project_id"`
	URL             *string   `bun:"url" json:"url,omitempty"`
	Username        *string   `bun:"username" json:"username,omitempty"`
	Icon            *string   `bun:"icon" json:"icon,omitempty"`
	Channel         *string   `bun:"channel" json:"channel,omitempty"`
	DefaultMentions *string   `bun:"default_mentions" json:"default_mentions,omitempty"`
	Toggles         ToggleMap `bun:"type:jsonb,nullzero" json:"toggles,omitempty"`
}

// Text returns the raw override for key, or "" when unset.
func (s *ProjectSetting) Text(key SettingKey) string {
	if s == nil {
		return ""
	}
	switch key {
	case SettingURL:
		return deref(s.URL)
	case SettingUsername:
		return deref(s.Username)
	case SettingIcon:
		return deref(s.Icon)
	case SettingChannel:
		return deref(s.Channel)
	case SettingDefaultMentions:
		return deref(s.DefaultMentions)
	default:
		return ""
	}
}

// Toggle returns the stored tri-state for t, TriStateInherit when absent.
func (s *ProjectSetting) Toggle(t Toggle) TriState {
	if s == nil || s.Toggles == nil {
		return TriStateInherit
	}
	return s.Toggles[t]
}

// EntityKind names the lookup tables a change record can reference.
type EntityKind string

const (
	EntityTracker    EntityKind = "tracker"
	EntityProject    EntityKind = "project"
	EntityStatus     EntityKind = "issue_status"
	EntityPriority   EntityKind = "issue_priority"
	EntityCategory   EntityKind = "issue_category"
	EntityPrincipal  EntityKind = "principal"
	EntityVersion    EntityKind = "version"
	EntityIssue      EntityKind = "issue"
	EntityAttachment EntityKind = "attachment"
	EntityDBEntry    EntityKind = "db_entry"
	EntityPassword   EntityKind = "password"
)

// Entity is a display-name capable record referenced by id from change records.
type Entity struct {
	bun.BaseModel `bun:"table:messenger_entities"`
	RecordMeta

	Kind       EntityKind `bun:",nullzero,notnull" json:"kind"`
	ExternalID string     `bun:",nullzero,notnull" json:"external_id"`
	Name       string     `bun:",nullzero" json:"name"`
}

// DisplayName returns the entity name, falling back to its external id.
func (e *Entity) DisplayName() string {
	if e == nil {
		return ""
	}
	if e.Name != "" {
		return e.Name
	}
	return e.ExternalID
}

// CustomField describes a host custom field definition.
type CustomField struct {
	bun.BaseModel `bun:"table:messenger_custom_fields"`
	RecordMeta

	ExternalID string `bun:",unique,nullzero,notnull" json:"external_id"`
	Name       string `bun:",nullzero,notnull" json:"name"`
	Format     string `bun:",nullzero" json:"format"`
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// StringPtr is a small helper for building overrides.
func StringPtr(value string) *string {
	return &value
}
