package httppresentation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appCustomer "github.com/minimart/minimart/internal/application/customer"
	appOrder "github.com/minimart/minimart/internal/application/order"
	appProduct "github.com/minimart/minimart/internal/application/product"
	"github.com/minimart/minimart/internal/infrastructure/id"
	"github.com/minimart/minimart/internal/infrastructure/memory"
)

type env struct {
	router   http.Handler
	products *memory.ProductRepository
}

func newEnv() *env {
	idGen := id.NewUUIDGenerator()
	customerRepo := memory.NewCustomerRepository()
	productRepo := memory.NewProductRepository()
	orderRepo := memory.NewOrderRepository(idGen)

	handler := NewHandler(
		appCustomer.NewService(customerRepo, idGen, nil),
		appProduct.NewService(productRepo, idGen, nil),
		appOrder.NewPlaceOrderUseCase(customerRepo, productRepo, productRepo, orderRepo, nil, nil),
		appOrder.NewGetOrderUseCase(orderRepo),
		nil,
		nil,
	)
	return &env{router: handler.Router(), products: productRepo}
}

func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func (e *env) createCustomer(t *testing.T, name, email string) customerResponse {
	rec := e.do(t, http.MethodPost, "/customers", map[string]string{"name": name, "email": email})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[customerResponse](t, rec)
}

func (e *env) createProduct(t *testing.T, name, price string, quantity int) productResponse {
	rec := e.do(t, http.MethodPost, "/products", map[string]any{
		"name": name, "price": price, "quantity": quantity,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[productResponse](t, rec)
}

func TestPlaceOrderEndpoint(t *testing.T) {
	e := newEnv()
	cust := e.createCustomer(t, "Ada", "ada@example.com")
	prod := e.createProduct(t, "Widget", "5.00", 10)

	rec := e.do(t, http.MethodPost, "/orders", map[string]any{
		"customer_id": cust.ID,
		"items":       []map[string]any{{"product_id": prod.ID, "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	placed := decodeBody[orderResponse](t, rec)
	assert.NotEmpty(t, placed.ID)
	require.Len(t, placed.LineItems, 1)
	assert.True(t, placed.LineItems[0].UnitPrice.Equal(decimal.RequireFromString("5.00")))
	assert.True(t, placed.Total.Equal(decimal.RequireFromString("15.00")))

	// Stock decremented: a follow-up order for 8 must fail.
	rec = e.do(t, http.MethodPost, "/orders", map[string]any{
		"customer_id": cust.ID,
		"items":       []map[string]any{{"product_id": prod.ID, "quantity": 8}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestPlaceOrderEndpointUnknownCustomer(t *testing.T) {
	e := newEnv()
	prod := e.createProduct(t, "Widget", "5.00", 10)

	rec := e.do(t, http.MethodPost, "/orders", map[string]any{
		"customer_id": "ghost",
		"items":       []map[string]any{{"product_id": prod.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestPlaceOrderEndpointInvalidSelection(t *testing.T) {
	e := newEnv()
	cust := e.createCustomer(t, "Ada", "ada@example.com")

	rec := e.do(t, http.MethodPost, "/orders", map[string]any{
		"customer_id": cust.ID,
		"items":       []map[string]any{{"product_id": "bogus", "quantity": 1}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestGetOrderEndpoint(t *testing.T) {
	e := newEnv()
	cust := e.createCustomer(t, "Ada", "ada@example.com")
	prod := e.createProduct(t, "Widget", "5.00", 10)

	rec := e.do(t, http.MethodPost, "/orders", map[string]any{
		"customer_id": cust.ID,
		"items":       []map[string]any{{"product_id": prod.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	placed := decodeBody[orderResponse](t, rec)

	rec = e.do(t, http.MethodGet, fmt.Sprintf("/orders/%s", placed.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	fetched := decodeBody[orderResponse](t, rec)
	assert.Equal(t, placed.ID, fetched.ID)

	rec = e.do(t, http.MethodGet, "/orders/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPriceSnapshotSurvivesCatalogChange(t *testing.T) {
	e := newEnv()
	cust := e.createCustomer(t, "Ada", "ada@example.com")
	prod := e.createProduct(t, "Widget", "5.00", 10)

	rec := e.do(t, http.MethodPost, "/orders", map[string]any{
		"customer_id": cust.ID,
		"items":       []map[string]any{{"product_id": prod.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	placed := decodeBody[orderResponse](t, rec)

	// Raise the catalog price after the fact; the stored order keeps its
	// snapshot.
	stored, err := e.products.FindByID(context.Background(), prod.ID)
	require.NoError(t, err)
	stored.UnitPrice = decimal.RequireFromString("99.00")
	require.NoError(t, e.products.Save(context.Background(), stored))

	rec = e.do(t, http.MethodGet, fmt.Sprintf("/orders/%s", placed.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeBody[orderResponse](t, rec)
	assert.True(t, fetched.LineItems[0].UnitPrice.Equal(decimal.RequireFromString("5.00")))
}

func TestDuplicateCustomerEmailConflicts(t *testing.T) {
	e := newEnv()
	e.createCustomer(t, "Ada", "ada@example.com")

	rec := e.do(t, http.MethodPost, "/customers", map[string]string{
		"name": "Other Ada", "email": "ada@example.com",
	})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestDuplicateProductNameConflicts(t *testing.T) {
	e := newEnv()
	e.createProduct(t, "Widget", "5.00", 10)

	rec := e.do(t, http.MethodPost, "/products", map[string]any{
		"name": "Widget", "price": "9.99", "quantity": 1,
	})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	e := newEnv()

	rec := e.do(t, http.MethodGet, "/customers", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	e := newEnv()

	rec := e.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
