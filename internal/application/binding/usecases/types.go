package usecases

import "context"

// TxRunner executes a function inside a storage transaction. Implementations
// back onto a database transaction or are a passthrough for stores that are
// already serialized in process.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
