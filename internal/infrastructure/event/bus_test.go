package event

import (
	"context"
	"errors"
	"testing"

	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, e)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newTestEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "Dossier", uuid.New())
	return &e
}

func TestInMemoryEventBus_PublishDispatchesToSubscribers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"reservation.confirmed"}}
	bus.Subscribe(h)

	err := bus.Publish(context.Background(), newTestEvent("reservation.confirmed"))

	require.NoError(t, err)
	require.Len(t, h.received, 1)
	assert.Equal(t, "reservation.confirmed", h.received[0].EventType())
}

func TestInMemoryEventBus_IgnoresUnrelatedEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"reservation.confirmed"}}
	bus.Subscribe(h)

	err := bus.Publish(context.Background(), newTestEvent("edl.finalized"))

	require.NoError(t, err)
	assert.Empty(t, h.received)
}

func TestInMemoryEventBus_HandlerErrorDoesNotPropagate(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"edl.finalized"}, err: errors.New("boom")}
	second := &recordingHandler{types: []string{"edl.finalized"}}
	bus.Subscribe(failing)
	bus.Subscribe(second)

	err := bus.Publish(context.Background(), newTestEvent("edl.finalized"))

	require.NoError(t, err)
	assert.Len(t, failing.received, 1)
	assert.Len(t, second.received, 1)
}

func TestInMemoryEventBus_HandlerPanicIsContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{types: []string{"reservation.confirmed"}, panics: true}
	second := &recordingHandler{types: []string{"reservation.confirmed"}}
	bus.Subscribe(panicking)
	bus.Subscribe(second)

	var err error
	assert.NotPanics(t, func() {
		err = bus.Publish(context.Background(), newTestEvent("reservation.confirmed"))
	})
	require.NoError(t, err)
	assert.Len(t, second.received, 1)
}

func TestInMemoryEventBus_SubscribeExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"reservation.confirmed"}}
	bus.Subscribe(h, "edl.finalized")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("edl.finalized")))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("reservation.confirmed")))

	require.Len(t, h.received, 1)
	assert.Equal(t, "edl.finalized", h.received[0].EventType())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"reservation.confirmed"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("reservation.confirmed")))
	assert.Empty(t, h.received)
}

func TestInMemoryEventBus_MultipleEventsInOneCall(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"reservation.confirmed", "edl.finalized"}}
	bus.Subscribe(h)

	err := bus.Publish(context.Background(),
		newTestEvent("reservation.confirmed"),
		newTestEvent("edl.finalized"),
	)

	require.NoError(t, err)
	assert.Len(t, h.received, 2)
}
