package worker

import (
	"context"

	domorder "github.com/minimart/minimart/internal/domain/order"
	domoutbox "github.com/minimart/minimart/internal/domain/outbox"
	"github.com/minimart/minimart/internal/observability"
	"github.com/minimart/minimart/internal/observability/logctx"
)

const componentAuditWorker = "audit_worker"

// Worker records an audit trail for placed orders.
type Worker struct {
	subscriber domoutbox.Subscriber
	log        observability.Logger
	audited    observability.Counter
}

func New(subscriber domoutbox.Subscriber, logger observability.Logger, tel observability.Observability) *Worker {
	if logger == nil {
		logger = observability.NopLogger()
	}
	var audited observability.Counter = observability.NopCounter()
	if tel != nil {
		audited = tel.Metrics().Counter(observability.MOrderEventsAudited)
	}
	return &Worker{
		subscriber: subscriber,
		log:        logger.With(observability.F("component", componentAuditWorker)),
		audited:    audited,
	}
}

func (w *Worker) Start() {
	w.subscriber.Subscribe(domorder.OrderPlacedEvent{}.EventName(), w.handleOrderPlaced)
}

func (w *Worker) handleOrderPlaced(ctx context.Context, e domoutbox.Event) error {
	evt, ok := e.(domorder.OrderPlacedEvent)
	if !ok {
		return nil
	}

	logger := logctx.FromOr(ctx, w.log)
	logger.Info("order_placed_audited",
		observability.F("order_id", evt.OrderID),
		observability.F("customer_id", evt.CustomerID),
		observability.F("line_items", len(evt.LineItems)),
	)
	w.audited.Add(1, observability.L("event", evt.EventName()))
	return nil
}
