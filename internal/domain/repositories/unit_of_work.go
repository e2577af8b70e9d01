package repositories

import "context"

// UnitOfWork executes a function within a single transaction scope.
// Repository calls made with the context passed to fn join that
// transaction.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
