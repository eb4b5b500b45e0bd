package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/minimart/minimart/internal/domain/customer"
	"github.com/minimart/minimart/internal/infrastructure/id"
	"github.com/minimart/minimart/internal/infrastructure/memory"
)

func newService() *Service {
	return NewService(memory.NewCustomerRepository(), id.NewUUIDGenerator(), nil)
}

func TestCreateCustomer(t *testing.T) {
	svc := newService()

	created, err := svc.Create(context.Background(), CreateCustomerInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ada", created.Name)

	found, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, found.Email)
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	svc := newService()

	_, err := svc.Create(context.Background(), CreateCustomerInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateCustomerInput{Name: "Other Ada", Email: "ada@example.com"})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateCustomerValidation(t *testing.T) {
	svc := newService()

	_, err := svc.Create(context.Background(), CreateCustomerInput{Email: "ada@example.com"})
	require.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(context.Background(), CreateCustomerInput{Name: "Ada"})
	require.ErrorIs(t, err, domain.ErrInvalidEmail)
}
