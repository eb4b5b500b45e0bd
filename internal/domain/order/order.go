package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("order: not found")
	ErrConflict        = errors.New("order: already exists")
	ErrInvalidCustomer = errors.New("order: customer id is required")
	ErrEmptyOrder      = errors.New("order: at least one line item is required")
	ErrInvalidQuantity = errors.New("order: quantity must be greater than zero")
)

// LineItem is one product/quantity/price tuple within an order. UnitPrice is
// a snapshot taken at placement time; later catalog price changes never
// affect an already-created order.
type LineItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Order is the persisted aggregate. Created exactly once per successful
// placement and immutable thereafter.
type Order struct {
	ID         string
	CustomerID string
	LineItems  []LineItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func New(id, customerID string, items []LineItem) (*Order, error) {
	if customerID == "" {
		return nil, ErrInvalidCustomer
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	now := time.Now().UTC()
	return &Order{
		ID:         id,
		CustomerID: customerID,
		LineItems:  append([]LineItem(nil), items...),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Total sums quantity times unit price over all line items.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.LineItems {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.LineItems = append([]LineItem(nil), o.LineItems...)
	return &clone
}
