package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/logger"
	"github.com/goliatone/go-messenger/pkg/interfaces/store"
)

// Catalog exposes go-command compatible handlers for host transports.
type Catalog struct {
	UpsertProject     command.Commander[UpsertProject]
	SaveSettings      command.Commander[SaveSettings]
	UpsertEntity      command.Commander[UpsertEntity]
	UpsertCustomField command.Commander[UpsertCustomField]
	NotifyIssue       command.Commander[NotifyIssue]
}

type notifier interface {
	Notify(ctx context.Context, event domain.IssueEvent) ([]domain.Delivery, error)
}

// Dependencies wires repositories and services into the command catalog.
type Dependencies struct {
	Projects     store.ProjectRepository
	Settings     store.ProjectSettingRepository
	Entities     store.EntityRepository
	CustomFields store.CustomFieldRepository
	Transactions store.TransactionManager
	Notifier     notifier
	Logger       logger.Logger
}

// NewCatalog builds the command catalog using the supplied dependencies.
func NewCatalog(deps Dependencies) (*Catalog, error) {
	if deps.Projects == nil {
		return nil, errors.New("commands: project repository is required")
	}
	if deps.Settings == nil {
		return nil, errors.New("commands: settings repository is required")
	}
	if deps.Entities == nil {
		return nil, errors.New("commands: entity repository is required")
	}
	if deps.CustomFields == nil {
		return nil, errors.New("commands: custom field repository is required")
	}
	if deps.Notifier == nil {
		return nil, errors.New("commands: notifier is required")
	}
	deps.Logger = logger.OrNop(deps.Logger)

	return &Catalog{
		UpsertProject:     projectUpsertCommand{projects: deps.Projects, tx: deps.Transactions},
		SaveSettings:      settingsSaveCommand{projects: deps.Projects, settings: deps.Settings, tx: deps.Transactions},
		UpsertEntity:      entityUpsertCommand{entities: deps.Entities},
		UpsertCustomField: customFieldUpsertCommand{fields: deps.CustomFields},
		NotifyIssue:       notifyIssueCommand{projects: deps.Projects, notifier: deps.Notifier, logger: deps.Logger},
	}, nil
}

// UpsertProject creates or updates a project node. Parent is the parent
// project identifier; empty makes the project a root.
type UpsertProject struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Name       string `json:"name" yaml:"name"`
	Parent     string `json:"parent" yaml:"parent"`
}

type projectUpsertCommand struct {
	projects store.ProjectRepository
	tx       store.TransactionManager
}

func (c projectUpsertCommand) Execute(ctx context.Context, msg UpsertProject) error {
	return store.Within(ctx, c.tx, func(ctx context.Context) error {
		return c.upsert(ctx, msg)
	})
}

func (c projectUpsertCommand) upsert(ctx context.Context, msg UpsertProject) error {
	msg.Identifier = strings.TrimSpace(msg.Identifier)
	if msg.Identifier == "" {
		return errors.New("commands: project identifier is required")
	}
	var parentID *domain.Project
	if parent := strings.TrimSpace(msg.Parent); parent != "" {
		if strings.EqualFold(parent, msg.Identifier) {
			return fmt.Errorf("commands: project %s cannot be its own parent", msg.Identifier)
		}
		found, err := c.projects.GetByIdentifier(ctx, parent)
		if err != nil {
			return fmt.Errorf("commands: load parent %s: %w", parent, err)
		}
		parentID = found
	}

	name := strings.TrimSpace(msg.Name)
	if name == "" {
		name = msg.Identifier
	}

	existing, err := c.projects.GetByIdentifier(ctx, msg.Identifier)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if existing != nil && err == nil {
		existing.Name = name
		existing.ParentID = nil
		if parentID != nil {
			id := parentID.ID
			existing.ParentID = &id
		}
		return c.projects.Update(ctx, existing)
	}

	project := &domain.Project{Identifier: msg.Identifier, Name: name}
	if parentID != nil {
		id := parentID.ID
		project.ParentID = &id
	}
	return c.projects.Create(ctx, project)
}

// SaveSettings replaces the override record of a project. Nil text fields
// inherit; toggles missing from the map inherit.
type SaveSettings struct {
	Project         string                            `json:"project" yaml:"project"`
	URL             *string                           `json:"url" yaml:"url"`
	Username        *string                           `json:"username" yaml:"username"`
	Icon            *string                           `json:"icon" yaml:"icon"`
	Channel         *string                           `json:"channel" yaml:"channel"`
	DefaultMentions *string                           `json:"default_mentions" yaml:"default_mentions"`
	Toggles         map[domain.Toggle]domain.TriState `json:"toggles" yaml:"toggles"`
}

type settingsSaveCommand struct {
	projects store.ProjectRepository
	settings store.ProjectSettingRepository
	tx       store.TransactionManager
}

func (c settingsSaveCommand) Execute(ctx context.Context, msg SaveSettings) error {
	return store.Within(ctx, c.tx, func(ctx context.Context) error {
		return c.save(ctx, msg)
	})
}

func (c settingsSaveCommand) save(ctx context.Context, msg SaveSettings) error {
	identifier := strings.TrimSpace(msg.Project)
	if identifier == "" {
		return errors.New("commands: settings project is required")
	}
	project, err := c.projects.GetByIdentifier(ctx, identifier)
	if err != nil {
		return fmt.Errorf("commands: load project %s: %w", identifier, err)
	}
	for toggle, state := range msg.Toggles {
		if state < domain.TriStateInherit || state > domain.TriStateForcedOn {
			return fmt.Errorf("commands: toggle %s has invalid state %d", toggle, state)
		}
	}

	existing, err := c.settings.GetByProject(ctx, project.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	record := &domain.ProjectSetting{ProjectID: project.ID}
	if existing != nil && err == nil {
		record = existing
	}
	record.URL = msg.URL
	record.Username = msg.Username
	record.Icon = msg.Icon
	record.Channel = msg.Channel
	record.DefaultMentions = msg.DefaultMentions
	record.Toggles = domain.ToggleMap(msg.Toggles)

	if existing != nil && err == nil {
		return c.settings.Update(ctx, record)
	}
	return c.settings.Create(ctx, record)
}

// UpsertEntity records the display name of an entity referenced by change
// records.
type UpsertEntity struct {
	Kind       domain.EntityKind `json:"kind" yaml:"kind"`
	ExternalID string            `json:"id" yaml:"id"`
	Name       string            `json:"name" yaml:"name"`
}

type entityUpsertCommand struct {
	entities store.EntityRepository
}

func (c entityUpsertCommand) Execute(ctx context.Context, msg UpsertEntity) error {
	msg.ExternalID = strings.TrimSpace(msg.ExternalID)
	if msg.Kind == "" || msg.ExternalID == "" {
		return errors.New("commands: entity kind and id are required")
	}
	existing, err := c.entities.GetByExternalID(ctx, msg.Kind, msg.ExternalID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if existing != nil && err == nil {
		existing.Name = msg.Name
		return c.entities.Update(ctx, existing)
	}
	return c.entities.Create(ctx, &domain.Entity{Kind: msg.Kind, ExternalID: msg.ExternalID, Name: msg.Name})
}

// UpsertCustomField records a custom field definition.
type UpsertCustomField struct {
	ExternalID string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Format     string `json:"format" yaml:"format"`
}

type customFieldUpsertCommand struct {
	fields store.CustomFieldRepository
}

func (c customFieldUpsertCommand) Execute(ctx context.Context, msg UpsertCustomField) error {
	msg.ExternalID = strings.TrimSpace(msg.ExternalID)
	if msg.ExternalID == "" || strings.TrimSpace(msg.Name) == "" {
		return errors.New("commands: custom field id and name are required")
	}
	existing, err := c.fields.GetByExternalID(ctx, msg.ExternalID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if existing != nil && err == nil {
		existing.Name = msg.Name
		existing.Format = msg.Format
		return c.fields.Update(ctx, existing)
	}
	return c.fields.Create(ctx, &domain.CustomField{ExternalID: msg.ExternalID, Name: msg.Name, Format: msg.Format})
}

// NotifyIssue announces an issue event for the named project.
type NotifyIssue struct {
	Project string            `json:"project" yaml:"project"`
	Event   domain.IssueEvent `json:"event" yaml:"event"`
}

type notifyIssueCommand struct {
	projects store.ProjectRepository
	notifier notifier
	logger   logger.Logger
}

func (c notifyIssueCommand) Execute(ctx context.Context, msg NotifyIssue) error {
	identifier := strings.TrimSpace(msg.Project)
	if identifier == "" {
		return errors.New("commands: notify project is required")
	}
	project, err := c.projects.GetByIdentifier(ctx, identifier)
	if err != nil {
		return fmt.Errorf("commands: load project %s: %w", identifier, err)
	}
	event := msg.Event
	event.Project = project
	if event.Kind == "" {
		event.Kind = domain.IssueUpdated
	}
	deliveries, err := c.notifier.Notify(ctx, event)
	c.logger.Debug("notify issue command",
		logger.F("project", identifier),
		logger.F("deliveries", len(deliveries)),
	)
	return err
}
