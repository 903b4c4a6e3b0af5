// Package memory provides mutex-guarded in-memory implementations of the
// binding and tenant repositories. They back the dev server mode and the
// concurrency tests; production runs on the GORM implementations.
package memory

import "context"

// TxRunner satisfies the use case transaction contract without a database.
// The in-memory stores are individually synchronized, so the callback simply
// runs with the same context.
type TxRunner struct{}

// NewTxRunner creates a no-op transaction runner.
func NewTxRunner() *TxRunner {
	return &TxRunner{}
}

// RunInTransaction executes fn directly.
func (t *TxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
