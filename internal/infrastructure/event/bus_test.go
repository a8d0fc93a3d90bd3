package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
	key string
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Test", uuid.New(), uuid.New())}
}

type dedupTestEvent struct {
	*testEvent
}

func (e dedupTestEvent) DeduplicationKey() string { return e.key }

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	seen   []shared.DomainEvent
	err    error
	panics bool
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, ev)
	return h.err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.seen)
}

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	quotes := &recordingHandler{types: []string{"QuoteStatusChanged"}}
	all := &recordingHandler{}
	bus.Subscribe(quotes)
	bus.Subscribe(all)

	err := bus.Publish(context.Background(), newTestEvent("QuoteStatusChanged"), newTestEvent("MarginPortfolioAlert"))

	assert.NoError(t, err)
	assert.Equal(t, 1, quotes.count())
	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandlerTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"A"}}
	bus.Subscribe(h, "B")

	_ = bus.Publish(context.Background(), newTestEvent("A"), newTestEvent("B"))
	assert.Equal(t, 1, h.count())
	assert.Equal(t, "B", h.seen[0].EventType())
}

func TestInMemoryEventBus_FailuresDoNotStopDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(&recordingHandler{types: []string{"A"}, panics: true})
	bus.Subscribe(&recordingHandler{types: []string{"A"}, err: errors.New("downstream unavailable")})
	last := &recordingHandler{types: []string{"A"}}
	bus.Subscribe(last)

	assert.NoError(t, bus.Publish(context.Background(), newTestEvent("A")))
	assert.Equal(t, 1, last.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"A"}}
	w := &recordingHandler{}
	bus.Subscribe(h)
	bus.Subscribe(w)
	bus.Unsubscribe(h)
	bus.Unsubscribe(w)

	_ = bus.Publish(context.Background(), newTestEvent("A"))
	assert.Zero(t, h.count())
	assert.Zero(t, w.count())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	assert.NoError(t, bus.Start(ctx))
	assert.True(t, bus.Running())
	assert.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.Running())
}
