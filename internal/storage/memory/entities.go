package memory

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/store"
	"github.com/google/uuid"
)

// EntityRepository indexes entities by kind and external id.
type EntityRepository struct {
	base baseMemoryRepo[domain.Entity]
}

func NewEntityRepository() *EntityRepository {
	return &EntityRepository{
		base: newBaseMemoryRepo("entity",
			func(e *domain.Entity) *domain.RecordMeta { return &e.RecordMeta },
			func(e *domain.Entity) string { return entityKey(e.Kind, e.ExternalID) },
		),
	}
}

func entityKey(kind domain.EntityKind, externalID string) string {
	return string(kind) + "/" + strings.TrimSpace(externalID)
}

func (r *EntityRepository) Create(ctx context.Context, record *domain.Entity) error {
	if record != nil && (record.Kind == "" || strings.TrimSpace(record.ExternalID) == "") {
		return errors.New("entity kind and external id are required")
	}
	return r.base.create(ctx, record)
}

func (r *EntityRepository) Update(ctx context.Context, record *domain.Entity) error {
	return r.base.update(ctx, record)
}

func (r *EntityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Entity, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *EntityRepository) GetByExternalID(ctx context.Context, kind domain.EntityKind, externalID string) (*domain.Entity, error) {
	return r.base.getByKey(ctx, entityKey(kind, externalID))
}

func (r *EntityRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Entity], error) {
	return r.base.list(ctx, opts)
}

func (r *EntityRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}
