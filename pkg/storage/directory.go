package storage

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/cache"
	"github.com/goliatone/go-messenger/pkg/interfaces/store"
)

// Tree exposes the project hierarchy and per-project overrides backed by
// repositories. Missing records are reported as nil without an error.
type Tree struct {
	Projects store.ProjectRepository
	Settings store.ProjectSettingRepository
}

// Parent returns the parent of project, nil for roots.
func (t Tree) Parent(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if project == nil || project.ParentID == nil || t.Projects == nil {
		return nil, nil
	}
	parent, err := t.Projects.GetByID(ctx, *project.ParentID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return parent, err
}

// Override returns the stored messenger settings of project, nil when none.
func (t Tree) Override(ctx context.Context, project *domain.Project) (*domain.ProjectSetting, error) {
	if project == nil || t.Settings == nil {
		return nil, nil
	}
	setting, err := t.Settings.GetByProject(ctx, project.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return setting, err
}

// Directory resolves entities and custom field definitions by external id.
// Found records are kept in Cache for TTL when a cache is set.
type Directory struct {
	Entities     store.EntityRepository
	CustomFields store.CustomFieldRepository
	Cache        cache.Cache
	TTL          time.Duration
}

// FindByID returns the entity, nil when it does not exist.
func (d Directory) FindByID(ctx context.Context, kind domain.EntityKind, id string) (*domain.Entity, error) {
	if d.Entities == nil || id == "" {
		return nil, nil
	}
	key := "entity:" + string(kind) + ":" + id
	if cached, ok := cachedValue[*domain.Entity](ctx, d.Cache, key); ok {
		return cached, nil
	}
	entity, err := d.Entities.GetByExternalID(ctx, kind, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err == nil {
		d.remember(ctx, key, entity)
	}
	return entity, err
}

// CustomField returns the custom field definition, nil when it does not exist.
func (d Directory) CustomField(ctx context.Context, id string) (*domain.CustomField, error) {
	if d.CustomFields == nil || id == "" {
		return nil, nil
	}
	key := "custom_field:" + id
	if cached, ok := cachedValue[*domain.CustomField](ctx, d.Cache, key); ok {
		return cached, nil
	}
	field, err := d.CustomFields.GetByExternalID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err == nil {
		d.remember(ctx, key, field)
	}
	return field, err
}

func (d Directory) remember(ctx context.Context, key string, value any) {
	if d.Cache == nil {
		return
	}
	_ = d.Cache.Set(ctx, key, value, d.TTL)
}

func cachedValue[T any](ctx context.Context, c cache.Cache, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return zero, false
	}
	value, ok := raw.(T)
	return value, ok
}

// Tree builds a project tree view over the providers.
func (p Providers) Tree() Tree {
	return Tree{Projects: p.Projects, Settings: p.Settings}
}

// Directory builds an entity directory over the providers.
func (p Providers) Directory() Directory {
	return Directory{Entities: p.Entities, CustomFields: p.CustomFields}
}
