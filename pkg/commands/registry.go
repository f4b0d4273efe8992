package commands

import (
	"context"

	command "github.com/goliatone/go-command"
	internalcommands "github.com/goliatone/go-messenger/internal/commands"
	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/logger"
	"github.com/goliatone/go-messenger/pkg/interfaces/store"
)

// Re-export request types so consumers need not import internal packages.
type (
	UpsertProject     = internalcommands.UpsertProject
	SaveSettings      = internalcommands.SaveSettings
	UpsertEntity      = internalcommands.UpsertEntity
	UpsertCustomField = internalcommands.UpsertCustomField
	NotifyIssue       = internalcommands.NotifyIssue
)

// Notifier builds and schedules deliveries for an issue event.
type Notifier interface {
	Notify(ctx context.Context, event domain.IssueEvent) ([]domain.Delivery, error)
}

// Registry exposes go-command compatible handlers backed by the module services.
type Registry struct {
	Catalog           *internalcommands.Catalog
	UpsertProject     command.Commander[UpsertProject]
	SaveSettings      command.Commander[SaveSettings]
	UpsertEntity      command.Commander[UpsertEntity]
	UpsertCustomField command.Commander[UpsertCustomField]
	NotifyIssue       command.Commander[NotifyIssue]
}

// Dependencies mirror the internal command dependencies but keep them public.
type Dependencies struct {
	Projects     store.ProjectRepository
	Settings     store.ProjectSettingRepository
	Entities     store.EntityRepository
	CustomFields store.CustomFieldRepository
	Transactions store.TransactionManager
	Notifier     Notifier
	Logger       logger.Logger
}

// New builds the registry using the provided dependencies.
func New(deps Dependencies) (*Registry, error) {
	catalog, err := internalcommands.NewCatalog(internalcommands.Dependencies{
		Projects:     deps.Projects,
		Settings:     deps.Settings,
		Entities:     deps.Entities,
		CustomFields: deps.CustomFields,
		Transactions: deps.Transactions,
		Notifier:     deps.Notifier,
		Logger:       deps.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Registry{
		Catalog:           catalog,
		UpsertProject:     catalog.UpsertProject,
		SaveSettings:      catalog.SaveSettings,
		UpsertEntity:      catalog.UpsertEntity,
		UpsertCustomField: catalog.UpsertCustomField,
		NotifyIssue:       catalog.NotifyIssue,
	}, nil
}

// Commanders returns every handler so callers can register them with go-command registries.
func (r *Registry) Commanders() []any {
	if r == nil {
		return nil
	}
	return []any{
		r.UpsertProject,
		r.SaveSettings,
		r.UpsertEntity,
		r.UpsertCustomField,
		r.NotifyIssue,
	}
}
