package bunrepo

import (
	"context"

	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ProjectSettingRepository struct {
	base baseRepository[domain.ProjectSetting]
}

func NewProjectSettingRepository(db *bun.DB) *ProjectSettingRepository {
	handlers := repository.ModelHandlers[*domain.ProjectSetting]{
		NewRecord: func() *domain.ProjectSetting { return &domain.ProjectSetting{} },
		GetID:     func(s *domain.ProjectSetting) uuid.UUID { return s.ID },
		SetID: func(s *domain.ProjectSetting, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier:      func() string { return "project_id" },
		GetIdentifierValue: func(s *domain.ProjectSetting) string { return s.ProjectID.String() },
	}
	return &ProjectSettingRepository{
		base: newBaseRepository[domain.ProjectSetting](db, "messenger_settings", handlers, func(s *domain.ProjectSetting) *domain.RecordMeta { return &s.RecordMeta }),
	}
}

func (r *ProjectSettingRepository) Create(ctx context.Context, setting *domain.ProjectSetting) error {
	return r.base.create(ctx, setting)
}

func (r *ProjectSettingRepository) Update(ctx context.Context, setting *domain.ProjectSetting) error {
	return r.base.update(ctx, setting)
}

func (r *ProjectSettingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectSetting, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *ProjectSettingRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.ProjectSetting], error) {
	return r.base.list(ctx, opts)
}

func (r *ProjectSettingRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *ProjectSettingRepository) GetByProject(ctx context.Context, projectID uuid.UUID) (*domain.ProjectSetting, error) {
	return r.base.getBy(ctx, whereEq("project_id", projectID))
}
