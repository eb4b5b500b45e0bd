package product

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("product: not found")
	ErrConflict          = errors.New("product: name already taken")
	ErrInvalidName       = errors.New("product: name is required")
	ErrInvalidPrice      = errors.New("product: price must be zero or greater")
	ErrInvalidQuantity   = errors.New("product: quantity must be zero or greater")
	ErrInsufficientStock = errors.New("product: insufficient stock")
	// ErrStockConflict signals that stock changed between the read that
	// validated a placement and the conditional write. Retryable.
	ErrStockConflict = errors.New("product: stock changed concurrently")
)

type Product struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func New(id, name string, unitPrice decimal.Decimal, stock int) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	if unitPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now().UTC()
	return &Product{
		ID:        id,
		Name:      name,
		UnitPrice: unitPrice,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanFulfill reports whether the current stock covers the requested quantity.
func (p *Product) CanFulfill(quantity int) bool {
	return quantity > 0 && quantity <= p.Stock
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
