package bunrepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// baseRepository wraps a go-repository-bun repository with the audit field
// handling and error mapping shared by every messenger table.
type baseRepository[T any] struct {
	repo  repository.Repository[*T]
	db    *bun.DB
	meta  func(*T) *domain.RecordMeta
	table string
}

func newBaseRepository[T any](db *bun.DB, table string, handlers repository.ModelHandlers[*T], meta func(*T) *domain.RecordMeta) baseRepository[T] {
	return baseRepository[T]{
		repo:  repository.MustNewRepository[*T](db, handlers),
		db:    db,
		meta:  meta,
		table: table,
	}
}

func (r baseRepository[T]) create(ctx context.Context, record *T) error {
	if record == nil {
		return store.ErrNotFound
	}
	m := r.meta(record)
	m.EnsureID()
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	_, err := r.repo.Create(ctx, record)
	return r.mapError(err)
}

func (r baseRepository[T]) update(ctx context.Context, record *T) error {
	if record == nil {
		return store.ErrNotFound
	}
	r.meta(record).UpdatedAt = time.Now().UTC()
	_, err := r.repo.Update(ctx, record)
	return r.mapError(err)
}

func (r baseRepository[T]) getByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*T, error) {
	if includeDeleted {
		record, err := r.repo.Get(ctx, withID(id))
		return record, r.mapError(err)
	}
	return r.getBy(ctx, withID(id))
}

// getBy returns the single live record matching criteria.
func (r baseRepository[T]) getBy(ctx context.Context, criteria ...repository.SelectCriteria) (*T, error) {
	record, err := r.repo.Get(ctx, append(criteria, withoutDeleted())...)
	if err != nil {
		return nil, r.mapError(err)
	}
	return record, nil
}

// listBy returns every live record matching criteria.
func (r baseRepository[T]) listBy(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error) {
	records, total, err := r.repo.List(ctx, criteria...)
	if err != nil {
		return nil, 0, r.mapError(err)
	}
	items := make([]T, len(records))
	for i, rec := range records {
		items[i] = *rec
	}
	return items, total, nil
}

func (r baseRepository[T]) list(ctx context.Context, opts store.ListOptions) (store.ListResult[T], error) {
	items, total, err := r.listBy(ctx, withListOptions(opts))
	if err != nil {
		return store.ListResult[T]{}, err
	}
	return store.ListResult[T]{Items: items, Total: total}, nil
}

func (r baseRepository[T]) softDelete(ctx context.Context, id uuid.UUID) error {
	record, err := r.getByID(ctx, id, true)
	if err != nil {
		return err
	}
	m := r.meta(record)
	if !m.DeletedAt.IsZero() {
		return nil
	}
	m.DeletedAt = time.Now().UTC()
	_, err = r.repo.Update(ctx, record)
	return r.mapError(err)
}

func (r baseRepository[T]) mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case repository.IsRecordNotFound(err):
		return store.ErrNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w: %v", r.table, store.ErrConflict, err)
	default:
		return err
	}
}

// isUniqueViolation matches the sqlite and postgres unique constraint messages.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
