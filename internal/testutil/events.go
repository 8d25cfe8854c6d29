package testutil

import (
	"context"
	"sync"

	"github.com/nodusapp/nodus/internal/events"
)

// EventRecorder collects published events for assertions.
type EventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

// Record subscribes the recorder to every topic on bus.
func (r *EventRecorder) Record(bus *events.Bus) {
	bus.SubscribeAll(func(_ context.Context, e events.Event) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, e)
		return nil
	})
}

func (r *EventRecorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

// Topic returns the recorded events on topic, oldest first.
func (r *EventRecorder) Topic(topic events.Topic) []events.Event {
	var out []events.Event
	for _, e := range r.Events() {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}

func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
