package order

import (
	"context"

	domain "github.com/minimart/minimart/internal/domain/order"
)

// GetOrderUseCase resolves a stored order by identifier.
type GetOrderUseCase struct {
	orders domain.Repository
}

func NewGetOrderUseCase(orders domain.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orders: orders}
}

func (uc *GetOrderUseCase) Execute(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, newValidation("order id is required")
	}
	found, err := uc.orders.FindByID(ctx, id)
	if err != nil {
		return nil, wrapRepositoryError(err)
	}
	return found, nil
}
