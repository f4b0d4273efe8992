package bunrepo

import (
	"context"
	"strings"

	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type EntityRepository struct {
	base baseRepository[domain.Entity]
}

func NewEntityRepository(db *bun.DB) *EntityRepository {
	handlers := repository.ModelHandlers[*domain.Entity]{
		NewRecord: func() *domain.Entity { return &domain.Entity{} },
		GetID:     func(e *domain.Entity) uuid.UUID { return e.ID },
		SetID: func(e *domain.Entity, id uuid.UUID) {
			e.ID = id
		},
		GetIdentifier:      func() string { return "external_id" },
		GetIdentifierValue: func(e *domain.Entity) string { return e.ExternalID },
	}
	return &EntityRepository{
		base: newBaseRepository[domain.Entity](db, "messenger_entities", handlers, func(e *domain.Entity) *domain.RecordMeta { return &e.RecordMeta }),
	}
}

func (r *EntityRepository) Create(ctx context.Context, entity *domain.Entity) error {
	return r.base.create(ctx, entity)
}

func (r *EntityRepository) Update(ctx context.Context, entity *domain.Entity) error {
	return r.base.update(ctx, entity)
}

func (r *EntityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Entity, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *EntityRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Entity], error) {
	return r.base.list(ctx, opts)
}

func (r *EntityRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *EntityRepository) GetByExternalID(ctx context.Context, kind domain.EntityKind, externalID string) (*domain.Entity, error) {
	return r.base.getBy(ctx, whereEq("kind", string(kind)), whereEq("external_id", strings.TrimSpace(externalID)))
}
