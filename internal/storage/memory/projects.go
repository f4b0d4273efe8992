package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/store"
	"github.com/google/uuid"
)

// ProjectRepository indexes projects by case-insensitive identifier.
type ProjectRepository struct {
	base baseMemoryRepo[domain.Project]
}

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{
		base: newBaseMemoryRepo("project",
			func(p *domain.Project) *domain.RecordMeta { return &p.RecordMeta },
			func(p *domain.Project) string { return projectKey(p.Identifier) },
		),
	}
}

func projectKey(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

func (r *ProjectRepository) Create(ctx context.Context, record *domain.Project) error {
	if record != nil && projectKey(record.Identifier) == "" {
		return errors.New("project identifier is required")
	}
	return r.base.create(ctx, record)
}

func (r *ProjectRepository) Update(ctx context.Context, record *domain.Project) error {
	return r.base.update(ctx, record)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *ProjectRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.Project, error) {
	return r.base.getByKey(ctx, projectKey(identifier))
}

// ListChildren returns the live direct children of parentID, by identifier.
func (r *ProjectRepository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]domain.Project, error) {
	out := r.base.filter(func(p *domain.Project) bool {
		return p.ParentID != nil && *p.ParentID == parentID
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out, nil
}

func (r *ProjectRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Project], error) {
	return r.base.list(ctx, opts)
}

func (r *ProjectRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}
