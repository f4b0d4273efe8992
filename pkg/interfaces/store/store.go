package store

import (
	"context"
	"errors"
)

// ErrConflict is returned when a record collides with an existing unique key.
var ErrConflict = errors.New("store: conflict")

// TransactionManager runs a unit of catalog work atomically.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopTransactionManager runs the callback directly. Memory repositories use it.
type NopTransactionManager struct{}

var _ TransactionManager = (*NopTransactionManager)(nil)

func (n *NopTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Within runs fn through tx, or directly when tx is nil.
func Within(ctx context.Context, tx TransactionManager, fn func(ctx context.Context) error) error {
	if fn == nil {
		return nil
	}
	if tx == nil {
		return fn(ctx)
	}
	return tx.WithinTransaction(ctx, fn)
}
