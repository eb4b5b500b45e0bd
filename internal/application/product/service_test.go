package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/minimart/minimart/internal/domain/product"
	"github.com/minimart/minimart/internal/infrastructure/id"
	"github.com/minimart/minimart/internal/infrastructure/memory"
)

func newService() *Service {
	return NewService(memory.NewProductRepository(), id.NewUUIDGenerator(), nil)
}

func TestCreateProduct(t *testing.T) {
	svc := newService()

	created, err := svc.Create(context.Background(), CreateProductInput{
		Name:      "Widget",
		UnitPrice: decimal.RequireFromString("5.00"),
		Stock:     10,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 10, created.Stock)

	found, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, found.UnitPrice.Equal(decimal.RequireFromString("5.00")))
}

func TestCreateProductDuplicateName(t *testing.T) {
	svc := newService()

	_, err := svc.Create(context.Background(), CreateProductInput{
		Name:      "Widget",
		UnitPrice: decimal.RequireFromString("5.00"),
		Stock:     10,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateProductInput{
		Name:      "Widget",
		UnitPrice: decimal.RequireFromString("9.99"),
		Stock:     1,
	})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestListProducts(t *testing.T) {
	svc := newService()

	for _, name := range []string{"Widget", "Gadget"} {
		_, err := svc.Create(context.Background(), CreateProductInput{
			Name:      name,
			UnitPrice: decimal.RequireFromString("1.00"),
			Stock:     1,
		})
		require.NoError(t, err)
	}

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateProductValidation(t *testing.T) {
	svc := newService()

	_, err := svc.Create(context.Background(), CreateProductInput{
		Name:      "Widget",
		UnitPrice: decimal.RequireFromString("-1.00"),
		Stock:     10,
	})
	require.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.Create(context.Background(), CreateProductInput{
		Name:      "Widget",
		UnitPrice: decimal.RequireFromString("1.00"),
		Stock:     -1,
	})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
