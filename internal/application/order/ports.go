package order

import (
	"context"

	"github.com/minimart/minimart/internal/domain/customer"
	"github.com/minimart/minimart/internal/domain/product"
)

// CustomerReader resolves a customer identifier to a record.
type CustomerReader interface {
	FindByID(ctx context.Context, id string) (*customer.Customer, error)
}

// CatalogReader resolves a batch of product identifiers. Only matching
// records are returned; there is no per-id absence signal.
type CatalogReader interface {
	FindAllByID(ctx context.Context, ids []string) ([]*product.Product, error)
}

// StockWriter applies a conditional stock batch; see product.StockUpdate.
type StockWriter interface {
	UpdateQuantity(ctx context.Context, updates []product.StockUpdate) error
}
