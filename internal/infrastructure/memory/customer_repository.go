package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/minimart/minimart/internal/domain/customer"
)

type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
	byEmail   map[string]string
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{
		customers: make(map[string]*domain.Customer),
		byEmail:   make(map[string]string),
	}
}

func (r *CustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	_ = ctx
	if customer == nil || customer.ID == "" {
		return fmt.Errorf("customer repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existingID, exists := r.byEmail[customer.Email]; exists && existingID != customer.ID {
		return domain.ErrConflict
	}

	r.customers[customer.ID] = customer.Clone()
	r.byEmail[customer.Email] = customer.ID
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	return customer.Clone(), nil
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}

	customer, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	return customer.Clone(), nil
}
