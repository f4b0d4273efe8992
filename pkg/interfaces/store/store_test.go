package store

import (
	"context"
	"errors"
	"testing"
)

type countingTx struct{ calls int }

func (c *countingTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	c.calls++
	return fn(ctx)
}

func TestWithinRoutesThroughManager(t *testing.T) {
	tx := &countingTx{}
	errBoom := errors.New("boom")
	err := Within(context.Background(), tx, func(ctx context.Context) error { return errBoom })
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if tx.calls != 1 {
		t.Fatalf("expected one transaction, got %d", tx.calls)
	}
}

func TestWithinNilManager(t *testing.T) {
	ran := false
	if err := Within(context.Background(), nil, func(ctx context.Context) error {
		ran = true
		return nil
	}); err != nil {
		t.Fatalf("within: %v", err)
	}
	if !ran {
		t.Fatalf("expected callback to run without a manager")
	}
	if err := Within(context.Background(), &NopTransactionManager{}, nil); err != nil {
		t.Fatalf("nil callback: %v", err)
	}
}
