package events

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/frontline-pass/frontline/internal/util"
)

// HandlerFunc handles one event.
type HandlerFunc func(ctx context.Context, event Event) error

// EventBus is an asynchronous publish-subscribe bus. Grants, registrations
// and health reports are published here; notifiers and telemetry subscribe.
type EventBus struct {
	mu       sync.RWMutex
	subs     map[EventType][]subscriber
	stopped  bool
	inflight sync.WaitGroup
	logger   zerolog.Logger
}

type subscriber struct {
	name string
	fn   HandlerFunc
}

// NewEventBus returns a running bus with no subscribers.
func NewEventBus() *EventBus {
	return &EventBus{
		subs:   make(map[EventType][]subscriber),
		logger: util.ComponentLogger("events"),
	}
}

// Subscribe registers a handler for an event type. The name identifies the
// handler in logs and for Unsubscribe.
func (eb *EventBus) Subscribe(eventType EventType, name string, handler HandlerFunc) {
	eb.mu.Lock()
	eb.subs[eventType] = append(eb.subs[eventType], subscriber{name: name, fn: handler})
	eb.mu.Unlock()

	eb.logger.Debug().Str("event", string(eventType)).Str("handler", name).Msg("handler subscribed")
}

// Unsubscribe removes every handler registered under name for eventType.
func (eb *EventBus) Unsubscribe(eventType EventType, name string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subs[eventType] = slices.DeleteFunc(slices.Clone(eb.subs[eventType]), func(s subscriber) bool {
		return s.name == name
	})
}

// snapshot copies the handlers for t. ok is false once the bus is stopped.
func (eb *EventBus) snapshot(t EventType) (subs []subscriber, ok bool) {
	if eb.stopped {
		return nil, false
	}
	return slices.Clone(eb.subs[t]), true
}

// Emit dispatches event to its handlers, each on its own goroutine. Handler
// errors and panics are logged and never reach the caller.
func (eb *EventBus) Emit(ctx context.Context, event Event) {
	// The read lock is held while goroutines are registered so Stop cannot
	// start waiting before they are counted.
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	subs, ok := eb.snapshot(event.Type)
	if !ok || len(subs) == 0 {
		return
	}

	eb.logger.Trace().
		Str("event", string(event.Type)).
		Str("source", event.Source).
		Int("handlers", len(subs)).
		Msg("dispatching event")

	// Handlers outlive the emitting request.
	ctx = context.WithoutCancel(ctx)
	eb.inflight.Add(len(subs))
	for _, s := range subs {
		s := s
		go func() {
			defer eb.inflight.Done()
			eb.invoke(ctx, s, event)
		}()
	}
}

func (eb *EventBus) invoke(ctx context.Context, s subscriber, event Event) {
	l := eb.logger.With().Str("event", string(event.Type)).Str("handler", s.name).Logger()
	defer func() {
		if r := recover(); r != nil {
			l.Error().Interface("panic", r).Msg("handler panicked")
		}
	}()

	if err := s.fn(ctx, event); err != nil {
		l.Error().Err(err).Msg("handler failed")
	}
}

// Wait blocks until every handler started by Emit has returned.
func (eb *EventBus) Wait() {
	eb.inflight.Wait()
}

// Stop rejects further events and waits for in-flight handlers. Calling it
// again is a no-op.
func (eb *EventBus) Stop() {
	eb.mu.Lock()
	if eb.stopped {
		eb.mu.Unlock()
		return
	}
	eb.stopped = true
	eb.mu.Unlock()

	eb.inflight.Wait()
	eb.logger.Info().Msg("event bus stopped")
}

// HandlerCount reports how many handlers are registered for eventType.
func (eb *EventBus) HandlerCount(eventType EventType) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subs[eventType])
}
