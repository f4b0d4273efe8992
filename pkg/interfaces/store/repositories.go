package store

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a record cannot be located.
var ErrNotFound = errors.New("store: not found")

// ListOptions capture pagination and filtering knobs common to repositories.
type ListOptions struct {
	Limit              int
	Offset             int
	Since              time.Time
	Until              time.Time
	IncludeSoftDeleted bool
}

// ListResult bundles records and totals.
type ListResult[T any] struct {
	Items []T
	Total int
}

// Repository defines base CRUD helpers reused by entity-specific interfaces.
type Repository[T any] interface {
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, record *T) error
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context, opts ListOptions) (ListResult[T], error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type ProjectRepository interface {
	Repository[domain.Project]
	GetByIdentifier(ctx context.Context, identifier string) (*domain.Project, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]domain.Project, error)
}

type ProjectSettingRepository interface {
	Repository[domain.ProjectSetting]
	GetByProject(ctx context.Context, projectID uuid.UUID) (*domain.ProjectSetting, error)
}

type EntityRepository interface {
	Repository[domain.Entity]
	GetByExternalID(ctx context.Context, kind domain.EntityKind, externalID string) (*domain.Entity, error)
}

type CustomFieldRepository interface {
	Repository[domain.CustomField]
	GetByExternalID(ctx context.Context, externalID string) (*domain.CustomField, error)
}
