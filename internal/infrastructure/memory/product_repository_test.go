package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/minimart/minimart/internal/domain/product"
)

func seedProduct(t *testing.T, repo *ProductRepository, id, name string, stock int) *domain.Product {
	t.Helper()
	p, err := domain.New(id, name, decimal.RequireFromString("5.00"), stock)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), p))
	return p
}

func TestProductRepositorySaveRejectsDuplicateName(t *testing.T) {
	repo := NewProductRepository()
	seedProduct(t, repo, "p1", "Widget", 10)

	dup, err := domain.New("p2", "Widget", decimal.RequireFromString("1.00"), 1)
	require.NoError(t, err)
	require.ErrorIs(t, repo.Save(context.Background(), dup), domain.ErrConflict)
}

func TestProductRepositoryFindAllByIDReturnsSubset(t *testing.T) {
	repo := NewProductRepository()
	seedProduct(t, repo, "p1", "Widget", 10)
	seedProduct(t, repo, "p2", "Gadget", 4)

	found, err := repo.FindAllByID(context.Background(), []string{"p1", "missing", "p2", "p1"})
	require.NoError(t, err)
	require.Len(t, found, 2, "only matching records, duplicates collapsed")
}

func TestProductRepositoryReadsAreIdempotent(t *testing.T) {
	repo := NewProductRepository()
	seedProduct(t, repo, "p1", "Widget", 10)

	for i := 0; i < 3; i++ {
		found, err := repo.FindAllByID(context.Background(), []string{"p1"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, 10, found[0].Stock, "lookups must not mutate stock")
	}
}

func TestProductRepositoryCloneIsolation(t *testing.T) {
	repo := NewProductRepository()
	seedProduct(t, repo, "p1", "Widget", 10)

	found, err := repo.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	found.Stock = 0

	again, err := repo.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, again.Stock)
}

func TestUpdateQuantityAppliesBatch(t *testing.T) {
	repo := NewProductRepository()
	seedProduct(t, repo, "p1", "Widget", 10)
	seedProduct(t, repo, "p2", "Gadget", 4)

	err := repo.UpdateQuantity(context.Background(), []domain.StockUpdate{
		{ProductID: "p1", Expected: 10, Quantity: 7},
		{ProductID: "p2", Expected: 4, Quantity: 0},
	})
	require.NoError(t, err)

	p1, _ := repo.FindByID(context.Background(), "p1")
	p2, _ := repo.FindByID(context.Background(), "p2")
	assert.Equal(t, 7, p1.Stock)
	assert.Equal(t, 0, p2.Stock)
}

func TestUpdateQuantityConflictWritesNothing(t *testing.T) {
	repo := NewProductRepository()
	seedProduct(t, repo, "p1", "Widget", 10)
	seedProduct(t, repo, "p2", "Gadget", 4)

	err := repo.UpdateQuantity(context.Background(), []domain.StockUpdate{
		{ProductID: "p1", Expected: 10, Quantity: 7},
		{ProductID: "p2", Expected: 99, Quantity: 0}, // stale expectation
	})
	require.ErrorIs(t, err, domain.ErrStockConflict)

	p1, _ := repo.FindByID(context.Background(), "p1")
	p2, _ := repo.FindByID(context.Background(), "p2")
	assert.Equal(t, 10, p1.Stock, "batch must be all-or-nothing")
	assert.Equal(t, 4, p2.Stock)
}

func TestUpdateQuantityIgnoresUnknownIDs(t *testing.T) {
	repo := NewProductRepository()
	seedProduct(t, repo, "p1", "Widget", 10)

	err := repo.UpdateQuantity(context.Background(), []domain.StockUpdate{
		{ProductID: "ghost", Expected: 1, Quantity: 0},
		{ProductID: "p1", Expected: 10, Quantity: 9},
	})
	require.NoError(t, err)

	p1, _ := repo.FindByID(context.Background(), "p1")
	assert.Equal(t, 9, p1.Stock)
}
