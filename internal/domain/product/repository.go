package product

import "context"

// StockUpdate is one entry of a conditional stock write. Expected carries
// the stock value observed when the placement was validated; the write must
// fail with ErrStockConflict when the current value no longer matches.
type StockUpdate struct {
	ProductID string
	Expected  int
	Quantity  int
}

type Repository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindByName(ctx context.Context, name string) (*Product, error)
	// FindAllByID returns only the records that matched; order is not
	// guaranteed and there is no per-id absence signal.
	FindAllByID(ctx context.Context, ids []string) ([]*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
	// UpdateQuantity applies the batch all-or-nothing. Unknown ids are
	// ignored; a mismatch between Expected and the stored stock fails the
	// whole batch with ErrStockConflict and writes nothing.
	UpdateQuantity(ctx context.Context, updates []StockUpdate) error
}
