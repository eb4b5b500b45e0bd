package order

import (
	"errors"
	"fmt"

	domain "github.com/minimart/minimart/internal/domain/order"
	"github.com/minimart/minimart/internal/domain/product"
)

var (
	// ErrCustomerNotFound rejects a placement referencing an unknown customer.
	ErrCustomerNotFound = errors.New("order: no customer found")
	// ErrInvalidProductSelection rejects a placement whose product ids do not
	// resolve against the catalog.
	ErrInvalidProductSelection = errors.New("order: invalid list of products")
	// ErrInsufficientStock rejects a placement whose requested quantity
	// exceeds a product's current stock.
	ErrInsufficientStock = errors.New("order: cannot order more than the stock")
	// ErrStockConflict surfaces a lost race on stock between validation and
	// the conditional write. The placement may be retried.
	ErrStockConflict = product.ErrStockConflict

	// ErrValidation marks a malformed request, rejected before any lookup.
	ErrValidation = errors.New("validation")

	ErrNotFound   = domain.ErrNotFound
	ErrRepository = errors.New("order: repository failure")
)

func wrapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, domain.ErrConflict):
		return domain.ErrConflict
	default:
		return fmt.Errorf("%w: %w", ErrRepository, err)
	}
}

func newValidation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
