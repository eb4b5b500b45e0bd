package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	domain "github.com/minimart/minimart/internal/domain/product"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	byName   map[string]string
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[string]*domain.Product),
		byName:   make(map[string]string),
	}
}

func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	_ = ctx
	if product == nil || product.ID == "" {
		return fmt.Errorf("product repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existingID, exists := r.byName[product.Name]; exists && existingID != product.ID {
		return domain.ErrConflict
	}

	r.products[product.ID] = product.Clone()
	r.byName[product.Name] = product.ID
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	return product.Clone(), nil
}

func (r *ProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[name]
	if !ok {
		return nil, domain.ErrNotFound
	}

	product, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	return product.Clone(), nil
}

func (r *ProductRepository) FindAllByID(ctx context.Context, ids []string) ([]*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	found := make([]*domain.Product, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if product, ok := r.products[id]; ok {
			found = append(found, product.Clone())
		}
	}

	return found, nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		all = append(all, product.Clone())
	}

	return all, nil
}

// UpdateQuantity applies the batch under one lock. Every entry's Expected
// value must still match the stored stock or nothing is written.
func (r *ProductRepository) UpdateQuantity(ctx context.Context, updates []domain.StockUpdate) error {
	_ = ctx
	if len(updates) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, update := range updates {
		product, ok := r.products[update.ProductID]
		if !ok {
			continue
		}
		if product.Stock != update.Expected {
			return domain.ErrStockConflict
		}
		if update.Quantity < 0 {
			return domain.ErrInvalidQuantity
		}
	}

	for _, update := range updates {
		product, ok := r.products[update.ProductID]
		if !ok {
			continue
		}
		clone := product.Clone()
		clone.Stock = update.Quantity
		clone.UpdatedAt = time.Now().UTC()
		r.products[update.ProductID] = clone
	}

	return nil
}
