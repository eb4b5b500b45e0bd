package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domorder "github.com/minimart/minimart/internal/domain/order"
	domoutbox "github.com/minimart/minimart/internal/domain/outbox"
)

type fakeSubscriber struct {
	handlers map[string]domoutbox.Handler
}

func (f *fakeSubscriber) Subscribe(eventName string, h domoutbox.Handler) {
	if f.handlers == nil {
		f.handlers = make(map[string]domoutbox.Handler)
	}
	f.handlers[eventName] = h
}

func TestWorkerHandlesOrderPlaced(t *testing.T) {
	sub := &fakeSubscriber{}
	w := New(sub, nil, nil)
	w.Start()

	h, ok := sub.handlers[domorder.OrderPlacedEvent{}.EventName()]
	require.True(t, ok, "worker must subscribe to order.placed")

	require.NoError(t, h(context.Background(), domorder.OrderPlacedEvent{OrderID: "o1", CustomerID: "c1"}))
}

type unrelatedEvent struct{}

func (unrelatedEvent) EventName() string { return "something.else" }

func TestWorkerIgnoresForeignEvents(t *testing.T) {
	sub := &fakeSubscriber{}
	w := New(sub, nil, nil)
	w.Start()

	h := sub.handlers[domorder.OrderPlacedEvent{}.EventName()]
	require.NoError(t, h(context.Background(), unrelatedEvent{}))
}
