package memory

import (
	"context"
	"sync"
)

type txContextKey struct{}

// tx collects the undo actions of every in memory store that changed state
// within one transaction
type tx struct {
	mu   sync.Mutex
	undo []func()
}

// ExecuteInTx runs fn within a transaction carried by ctx. Nested calls join
// the outer transaction. When the outermost fn fails, the undo actions
// registered through OnRollback run in reverse order.
func ExecuteInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if IsInTx(ctx) {
		return fn(ctx)
	}

	t := &tx{}
	err := fn(context.WithValue(ctx, txContextKey{}, t))
	if err != nil {
		t.rollback()
	}
	return err
}

// IsInTx returns whether ctx carries an in memory transaction
func IsInTx(ctx context.Context) bool {
	_, ok := ctx.Value(txContextKey{}).(*tx)
	return ok
}

// OnRollback registers undo to run if the transaction carried by ctx fails.
// Outside of a transaction it does nothing.
func OnRollback(ctx context.Context, undo func()) {
	t, ok := ctx.Value(txContextKey{}).(*tx)
	if !ok {
		return
	}

	t.mu.Lock()
	t.undo = append(t.undo, undo)
	t.mu.Unlock()
}

func (t *tx) rollback() {
	t.mu.Lock()
	undo := t.undo
	t.undo = nil
	t.mu.Unlock()

	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
}
