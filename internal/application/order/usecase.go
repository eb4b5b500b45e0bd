package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/minimart/minimart/internal/application"
	"github.com/minimart/minimart/internal/domain/customer"
	domain "github.com/minimart/minimart/internal/domain/order"
	domoutbox "github.com/minimart/minimart/internal/domain/outbox"
	"github.com/minimart/minimart/internal/domain/product"
	"github.com/minimart/minimart/internal/observability"
	"github.com/minimart/minimart/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	orderService      = "order-service"
	useCasePlaceOrder = "order.place"
	spanPrefix        = "UC."
	publishPeer       = "outbox"
	publishEndpoint   = "order.placed"
	publishTimeout    = 300 * time.Millisecond
)

// PlaceOrderUseCase validates a placement request against catalog state,
// captures line-item prices, persists the order, and applies the stock
// decrements. No side effect happens before validation completes.
type PlaceOrderUseCase struct {
	customers CustomerReader
	catalog   CatalogReader
	stock     StockWriter
	orders    domain.Repository
	publisher domoutbox.Publisher
	tel       observability.Observability

	// Base logger with fixed fields prebound (vendor must remain hidden).
	log observability.Logger
	// RED metrics (supplied via DI; do not instantiate inside methods).
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}

	extCounter   observability.Counter   // external_requests_total{peer,endpoint,outcome}
	extHistogram observability.Histogram // external_request_duration_seconds{peer,endpoint}
}

var _ application.UseCase[PlaceOrderInput, *domain.Order] = (*PlaceOrderUseCase)(nil)

// NewPlaceOrderUseCase wires the dependencies required to execute the use case.
func NewPlaceOrderUseCase(
	customers CustomerReader,
	catalog CatalogReader,
	stock StockWriter,
	orders domain.Repository,
	publisher domoutbox.Publisher,
	tel observability.Observability,
) *PlaceOrderUseCase {
	if tel == nil {
		tel = observability.Nop()
	}
	baseLog := tel.Logger().With(
		observability.F("service", orderService),
	)

	metricsProvider := tel.Metrics()

	return &PlaceOrderUseCase{
		customers:    customers,
		catalog:      catalog,
		stock:        stock,
		orders:       orders,
		publisher:    publisher,
		tel:          tel,
		log:          baseLog,
		reqCounter:   metricsProvider.Counter(observability.MUsecaseRequests),
		durHistogram: metricsProvider.Histogram(observability.MUsecaseDuration),
		extCounter:   metricsProvider.Counter(observability.MExternalRequests),
		extHistogram: metricsProvider.Histogram(observability.MExternalRequestDuration),
	}
}

// ItemInput is one requested (product, quantity) pair.
type ItemInput struct {
	ProductID string
	Quantity  int
}

type PlaceOrderInput struct {
	CustomerID string
	Items      []ItemInput
}

// Execute performs the placement flow.
func (uc *PlaceOrderUseCase) Execute(ctx context.Context, cmd PlaceOrderInput) (_ *domain.Order, err error) {
	logger := logctx.FromOr(ctx, uc.log).With(observability.F("use_case", useCasePlaceOrder))

	var orderID string
	var publishErr error

	ctx, span := uc.tel.Tracer().Start(ctx, spanPrefix+"PlaceOrder",
		attribute.String("use_case", useCasePlaceOrder),
		attribute.String("order.customer_id", cmd.CustomerID),
		attribute.Int("order.item_count", len(cmd.Items)),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"

	defer func() {
		lat := time.Since(start).Seconds()

		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, statusText)
			} else {
				span.SetStatus(codes.Ok, statusText)
			}
			span.End()
		}

		if uc.reqCounter != nil {
			uc.reqCounter.Add(1,
				observability.L("use_case", useCasePlaceOrder),
				observability.L("outcome", outcome),
			)
		}
		if uc.durHistogram != nil {
			uc.durHistogram.Observe(lat,
				observability.L("use_case", useCasePlaceOrder),
			)
		}

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
		}
		if orderID != "" {
			fields = append(fields, observability.F("order_id", orderID))
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if publishErr != nil {
			fields = append(fields, observability.F("event_publish_error", publishErr.Error()))
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}

		logger.Info("use_case_done", fields...)
	}()

	if cmd.CustomerID == "" {
		outcome, statusText = "error", "CUSTOMER_ID_REQUIRED"
		return nil, newValidation("customer id is required")
	}
	if len(cmd.Items) == 0 {
		outcome, statusText = "error", "ITEMS_REQUIRED"
		return nil, newValidation("at least one item is required")
	}
	for _, item := range cmd.Items {
		if item.ProductID == "" {
			outcome, statusText = "error", "PRODUCT_ID_REQUIRED"
			return nil, newValidation("product id is required")
		}
		if item.Quantity <= 0 {
			outcome, statusText = "error", "QUANTITY_INVALID"
			return nil, newValidation("quantity must be greater than zero")
		}
	}
	if err := ctx.Err(); err != nil {
		outcome, statusText = "error", "CONTEXT_CANCELED"
		return nil, err
	}

	ids := make([]string, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		ids = append(ids, item.ProductID)
	}

	// Customer and catalog reads are independent; run both and always wait
	// for both before validating.
	var (
		wg         sync.WaitGroup
		cust       *customer.Customer
		custErr    error
		catalog    []*product.Product
		catalogErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		cust, custErr = uc.customers.FindByID(ctx, cmd.CustomerID)
	}()
	go func() {
		defer wg.Done()
		catalog, catalogErr = uc.catalog.FindAllByID(ctx, ids)
	}()
	wg.Wait()

	if custErr != nil {
		if errors.Is(custErr, customer.ErrNotFound) {
			outcome, statusText = "error", "CUSTOMER_NOT_FOUND"
			return nil, ErrCustomerNotFound
		}
		outcome, statusText = "error", "CUSTOMER_LOOKUP_FAILED"
		return nil, wrapRepositoryError(custErr)
	}
	if catalogErr != nil {
		outcome, statusText = "error", "CATALOG_LOOKUP_FAILED"
		return nil, wrapRepositoryError(catalogErr)
	}

	if len(catalog) == 0 {
		outcome, statusText = "error", "EMPTY_CATALOG_MATCH"
		return nil, ErrInvalidProductSelection
	}

	foundByID := make(map[string]*product.Product, len(catalog))
	for _, p := range catalog {
		foundByID[p.ID] = p
	}

	// Every requested id must resolve. Rejecting before any stock check
	// makes the failure explicit and names the offenders.
	var missing []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := foundByID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		outcome, statusText = "error", "PRODUCT_IDS_UNRESOLVED"
		return nil, fmt.Errorf("%w: unknown product ids %s", ErrInvalidProductSelection, strings.Join(missing, ", "))
	}

	for _, found := range catalog {
		requested, ok := firstRequested(cmd.Items, found.ID)
		if !ok {
			continue
		}
		if !found.CanFulfill(requested.Quantity) {
			outcome, statusText = "error", "INSUFFICIENT_STOCK"
			return nil, fmt.Errorf("%w: product %s has %d in stock, %d requested",
				ErrInsufficientStock, found.ID, found.Stock, requested.Quantity)
		}
	}

	lineItems := make([]domain.LineItem, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		found, ok := foundByID[item.ProductID]
		if !ok {
			// Unreachable after the resolution check above; guards against
			// an inconsistent catalog read.
			outcome, statusText = "error", "CATALOG_MISMATCH"
			return nil, fmt.Errorf("%w: product %s missing during line-item build", ErrInvalidProductSelection, item.ProductID)
		}
		lineItems = append(lineItems, domain.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: found.UnitPrice,
		})
	}

	updates := make([]product.StockUpdate, 0, len(catalog))
	for _, found := range catalog {
		deduct := 0
		if requested, ok := firstRequested(cmd.Items, found.ID); ok {
			deduct = requested.Quantity
		}
		updates = append(updates, product.StockUpdate{
			ProductID: found.ID,
			Expected:  found.Stock,
			Quantity:  found.Stock - deduct,
		})
	}

	if err := ctx.Err(); err != nil {
		outcome, statusText = "error", "CONTEXT_CANCELED"
		return nil, err
	}

	created, createErr := uc.orders.Create(ctx, cust.ID, lineItems)
	if createErr != nil {
		outcome, statusText = "error", "ORDER_CREATE_FAILED"
		return nil, wrapRepositoryError(createErr)
	}
	orderID = created.ID

	if updateErr := uc.stock.UpdateQuantity(ctx, updates); updateErr != nil {
		// Compensate: an order without matching stock decrements must not
		// survive. Best effort; a failed delete is logged and surfaced to ops.
		if delErr := uc.orders.Delete(ctx, created.ID); delErr != nil {
			logger.Error("order_compensation_failed",
				observability.F("order_id", created.ID),
				observability.F("error", delErr.Error()),
			)
		}
		if errors.Is(updateErr, product.ErrStockConflict) {
			outcome, statusText = "error", "STOCK_CONFLICT"
			return nil, updateErr
		}
		outcome, statusText = "error", "STOCK_UPDATE_FAILED"
		return nil, wrapRepositoryError(updateErr)
	}

	if uc.publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		pubStart := time.Now()
		pubOutcome := "success"

		publishErr = uc.publisher.Publish(pubCtx, domain.NewOrderPlacedEvent(created))
		if publishErr != nil {
			pubOutcome = "error"
			statusText = "EVENT_PUBLISH_FAILED"
		} else if pubCtx.Err() != nil {
			pubOutcome = "canceled"
			publishErr = pubCtx.Err()
			statusText = "EVENT_PUBLISH_TIMEOUT"
		}
		cancel()

		if uc.extCounter != nil {
			uc.extCounter.Add(1,
				observability.L("peer", publishPeer),
				observability.L("endpoint", publishEndpoint),
				observability.L("outcome", pubOutcome),
			)
		}
		if uc.extHistogram != nil {
			uc.extHistogram.Observe(time.Since(pubStart).Seconds(),
				observability.L("peer", publishPeer),
				observability.L("endpoint", publishEndpoint),
			)
		}
	}

	span.AddEvent("order.placed",
		trace.WithAttributes(
			attribute.String("order.id", created.ID),
		),
	)

	return created, nil
}

// firstRequested returns the first requested line matching the product id,
// mirroring how the catalog batch was derived from the request.
func firstRequested(items []ItemInput, productID string) (ItemInput, bool) {
	for _, item := range items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return ItemInput{}, false
}
