package order

import "context"

// Repository persists order aggregates. Create assigns the identifier and
// timestamps and stores the aggregate atomically. Delete exists only for
// the compensation path when the stock write fails after creation.
type Repository interface {
	Create(ctx context.Context, customerID string, items []LineItem) (*Order, error)
	FindByID(ctx context.Context, id string) (*Order, error)
	Delete(ctx context.Context, id string) error
}
