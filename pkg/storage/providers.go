package storage

import (
	"context"
	"database/sql"

	bunrepo "github.com/goliatone/go-messenger/internal/storage/bun"
	"github.com/goliatone/go-messenger/internal/storage/memory"
	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/store"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

// Providers exposes all repositories needed by services.
type Providers struct {
	Projects     store.ProjectRepository
	Settings     store.ProjectSettingRepository
	Entities     store.EntityRepository
	CustomFields store.CustomFieldRepository
	Transaction  store.TransactionManager
}

type Option func(*Providers)

// WithTransactionManager replaces the transaction manager returned alongside repos.
func WithTransactionManager(tx store.TransactionManager) Option {
	return func(p *Providers) {
		if tx != nil {
			p.Transaction = tx
		}
	}
}

// Models lists every persisted model, in creation order.
func Models() []any {
	return []any{
		(*domain.Project)(nil),
		(*domain.ProjectSetting)(nil),
		(*domain.Entity)(nil),
		(*domain.CustomField)(nil),
	}
}

// NewMemoryProviders returns repositories backed by in-memory maps.
func NewMemoryProviders(opts ...Option) Providers {
	providers := Providers{
		Projects:     memory.NewProjectRepository(),
		Settings:     memory.NewProjectSettingRepository(),
		Entities:     memory.NewEntityRepository(),
		CustomFields: memory.NewCustomFieldRepository(),
		Transaction:  &store.NopTransactionManager{},
	}
	for _, opt := range opts {
		opt(&providers)
	}
	return providers
}

// NewBunProviders wires Bun-backed repositories using go-repository-bun.
// The caller is responsible for creating the *bun.DB instance (potentially
// via go-persistence-bun) and managing its lifecycle.
func NewBunProviders(db *bun.DB, opts ...Option) Providers {
	if db == nil {
		panic("storage: bun DB is required")
	}

	// Register models so go-persistence-bun migrations can pick them up.
	persistence.RegisterModel(Models()...)

	providers := Providers{
		Projects:     bunrepo.NewProjectRepository(db),
		Settings:     bunrepo.NewProjectSettingRepository(db),
		Entities:     bunrepo.NewEntityRepository(db),
		CustomFields: bunrepo.NewCustomFieldRepository(db),
		Transaction:  &bunTxManager{db: db},
	}

	for _, opt := range opts {
		opt(&providers)
	}
	return providers
}

// CreateSchema creates the messenger tables when missing.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

type bunTxManager struct {
	db *bun.DB
}

func (m *bunTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx)
	})
}
