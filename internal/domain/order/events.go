package order

import "time"

// OrderPlacedEvent is emitted after an order has been persisted and its
// stock decrements applied. Consumed by the audit worker.
type OrderPlacedEvent struct {
	OrderID    string
	CustomerID string
	LineItems  []LineItem
	OccurredAt time.Time
}

func (OrderPlacedEvent) EventName() string { return "order.placed" }

func NewOrderPlacedEvent(o *Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		LineItems:  append([]LineItem(nil), o.LineItems...),
		OccurredAt: time.Now().UTC(),
	}
}
