package memory

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/store"
	"github.com/google/uuid"
)

type CustomFieldRepository struct {
	base baseMemoryRepo[domain.CustomField]
}

func NewCustomFieldRepository() *CustomFieldRepository {
	return &CustomFieldRepository{
		base: newBaseMemoryRepo("custom_field",
			func(f *domain.CustomField) *domain.RecordMeta { return &f.RecordMeta },
			func(f *domain.CustomField) string { return strings.TrimSpace(f.ExternalID) },
		),
	}
}

func (r *CustomFieldRepository) Create(ctx context.Context, record *domain.CustomField) error {
	if record != nil && strings.TrimSpace(record.ExternalID) == "" {
		return errors.New("custom field external id is required")
	}
	return r.base.create(ctx, record)
}

func (r *CustomFieldRepository) Update(ctx context.Context, record *domain.CustomField) error {
	return r.base.update(ctx, record)
}

func (r *CustomFieldRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CustomField, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *CustomFieldRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.CustomField, error) {
	return r.base.getByKey(ctx, strings.TrimSpace(externalID))
}

func (r *CustomFieldRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.CustomField], error) {
	return r.base.list(ctx, opts)
}

func (r *CustomFieldRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}
