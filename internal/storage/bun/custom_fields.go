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

type CustomFieldRepository struct {
	base baseRepository[domain.CustomField]
}

func NewCustomFieldRepository(db *bun.DB) *CustomFieldRepository {
	handlers := repository.ModelHandlers[*domain.CustomField]{
		NewRecord: func() *domain.CustomField { return &domain.CustomField{} },
		GetID:     func(f *domain.CustomField) uuid.UUID { return f.ID },
		SetID: func(f *domain.CustomField, id uuid.UUID) {
			f.ID = id
		},
		GetIdentifier:      func() string { return "external_id" },
		GetIdentifierValue: func(f *domain.CustomField) string { return f.ExternalID },
	}
	return &CustomFieldRepository{
		base: newBaseRepository[domain.CustomField](db, "messenger_custom_fields", handlers, func(f *domain.CustomField) *domain.RecordMeta { return &f.RecordMeta }),
	}
}

func (r *CustomFieldRepository) Create(ctx context.Context, field *domain.CustomField) error {
	return r.base.create(ctx, field)
}

func (r *CustomFieldRepository) Update(ctx context.Context, field *domain.CustomField) error {
	return r.base.update(ctx, field)
}

func (r *CustomFieldRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CustomField, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *CustomFieldRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.CustomField], error) {
	return r.base.list(ctx, opts)
}

func (r *CustomFieldRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *CustomFieldRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.CustomField, error) {
	return r.base.getBy(ctx, whereEq("external_id", strings.TrimSpace(externalID)))
}
