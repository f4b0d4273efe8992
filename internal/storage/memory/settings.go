package memory

import (
	"context"
	"errors"

	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/store"
	"github.com/google/uuid"
)

// ProjectSettingRepository holds at most one live override per project.
type ProjectSettingRepository struct {
	base baseMemoryRepo[domain.ProjectSetting]
}

func NewProjectSettingRepository() *ProjectSettingRepository {
	return &ProjectSettingRepository{
		base: newBaseMemoryRepo("project_setting",
			func(s *domain.ProjectSetting) *domain.RecordMeta { return &s.RecordMeta },
			func(s *domain.ProjectSetting) string { return s.ProjectID.String() },
		),
	}
}

func (r *ProjectSettingRepository) Create(ctx context.Context, record *domain.ProjectSetting) error {
	if record != nil && record.ProjectID == uuid.Nil {
		return errors.New("project setting requires a project id")
	}
	return r.base.create(ctx, record)
}

func (r *ProjectSettingRepository) Update(ctx context.Context, record *domain.ProjectSetting) error {
	return r.base.update(ctx, record)
}

func (r *ProjectSettingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectSetting, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *ProjectSettingRepository) GetByProject(ctx context.Context, projectID uuid.UUID) (*domain.ProjectSetting, error) {
	return r.base.getByKey(ctx, projectID.String())
}

func (r *ProjectSettingRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.ProjectSetting], error) {
	return r.base.list(ctx, opts)
}

func (r *ProjectSettingRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}
