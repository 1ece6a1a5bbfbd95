// Package bus is a small synchronous pub/sub used to tell editors and tools
// that a holder changed.
package bus

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Subscription is a handle on a registered handler.
type Subscription struct {
	id   string
	kind Kind
	bus  *Bus
}

func (s *Subscription) ID() string { return s.id }

func (s *Subscription) Kind() Kind { return s.kind }

// Cancel removes the handler. Repeated calls are safe.
func (s *Subscription) Cancel() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	delete(s.bus.handlers[s.kind], s.id)
}

// Bus delivers events in the publisher's goroutine. Safe for concurrent use.
type Bus struct {
	mu        sync.RWMutex
	handlers  map[Kind]map[string]Handler
	observers map[Observer]struct{}
	metrics   Metrics
}

func New() *Bus {
	return &Bus{
		handlers:  make(map[Kind]map[string]Handler),
		observers: make(map[Observer]struct{}),
	}
}

func (b *Bus) Subscribe(kind Kind, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers[kind] == nil {
		b.handlers[kind] = make(map[string]Handler)
	}
	id := uuid.NewString()
	b.handlers[kind][id] = handler
	return &Subscription{id: id, kind: kind, bus: b}
}

// Publish stamps the event if needed and hands it to every handler of its
// kind. A nil Bus drops the event.
func (b *Bus) Publish(event Event) error {
	if b == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.RLock()
	subs := make([]Handler, 0, len(b.handlers[event.Kind]))
	for _, h := range b.handlers[event.Kind] {
		subs = append(subs, h)
	}
	observers := make([]Observer, 0, len(b.observers))
	for obs := range b.observers {
		observers = append(observers, obs)
	}
	b.mu.RUnlock()

	var all error
	for _, h := range subs {
		if err := h(event); err != nil {
			all = errors.Join(all, err)
		}
	}

	if len(observers) > 0 {
		for _, obs := range observers {
			obs.OnDelivered(event.Kind, len(subs), all)
		}
		b.mu.Lock()
		b.metrics.Published++
		b.metrics.DeliveredHandlers += uint64(len(subs))
		if all != nil {
			b.metrics.Errors++
		}
		b.mu.Unlock()
	}
	return all
}

// PublishWithFilters drops the event when any filter rejects it. A nil Bus
// drops the event.
func (b *Bus) PublishWithFilters(event Event, filters ...Filter) error {
	if b == nil {
		return nil
	}
	for _, f := range filters {
		if !f(event) {
			b.mu.Lock()
			if len(b.observers) > 0 {
				b.metrics.DroppedByFilters++
			}
			b.mu.Unlock()
			return nil
		}
	}
	return b.Publish(event)
}

func (b *Bus) AddObserver(obs Observer) {
	b.mu.Lock()
	b.observers[obs] = struct{}{}
	b.mu.Unlock()
}

func (b *Bus) RemoveObserver(obs Observer) {
	b.mu.Lock()
	delete(b.observers, obs)
	b.mu.Unlock()
}

func (b *Bus) Metrics() Metrics {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.metrics
}
