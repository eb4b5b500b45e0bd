package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/minimart/minimart/internal/domain/order"
)

// IDGenerator supplies identifiers for newly stored orders.
type IDGenerator interface {
	NewID() string
}

type OrderRepository struct {
	mu          sync.RWMutex
	orders      map[string]*domain.Order
	idGenerator IDGenerator
}

func NewOrderRepository(idGen IDGenerator) *OrderRepository {
	return &OrderRepository{
		orders:      make(map[string]*domain.Order),
		idGenerator: idGen,
	}
}

// Create assigns an identifier and timestamps and stores the aggregate as a
// single unit.
func (r *OrderRepository) Create(ctx context.Context, customerID string, items []domain.LineItem) (*domain.Order, error) {
	_ = ctx

	entity, err := domain.New(r.idGenerator.NewID(), customerID, items)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[entity.ID]; exists {
		return nil, domain.ErrConflict
	}

	r.orders[entity.ID] = entity.Clone()
	return entity, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	return order.Clone(), nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	_ = ctx
	if id == "" {
		return fmt.Errorf("order repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[id]; !exists {
		return domain.ErrNotFound
	}

	delete(r.orders, id)
	return nil
}
