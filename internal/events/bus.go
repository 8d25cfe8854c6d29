// Package events notifies interested parties after data changes. Delivery is
// synchronous and best effort: a failing subscriber never fails the write
// that produced the event.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Topic string

const (
	HabitChanged            Topic = "habitChanged"
	TaskChanged             Topic = "taskChanged"
	TaskExecutionChanged    Topic = "taskExecutionChanged"
	FinanceChanged          Topic = "financeChanged"
	FinanceExecutionChanged Topic = "financeExecutionChanged"
	NoteChanged             Topic = "noteChanged"
)

// Topics lists every topic the application publishes.
var Topics = []Topic{
	HabitChanged,
	TaskChanged,
	TaskExecutionChanged,
	FinanceChanged,
	FinanceExecutionChanged,
	NoteChanged,
}

// Event carries the identifiers of what changed. Zero ids are absent.
type Event struct {
	ID          uuid.UUID
	Topic       Topic
	OccurredAt  time.Time
	ProjectID   int64
	HabitID     int64
	TaskID      int64
	ExecutionID int64
	FinanceID   int64
	NoteID      int64
}

// Handler reacts to an event. Returned errors are logged and dropped.
type Handler func(ctx context.Context, e Event) error

// Publisher is what use cases depend on.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Discard drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(context.Context, Event) {}

type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic]map[uint64]Handler
	nextID uint64
	logger *slog.Logger
	now    func() time.Time
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{
		subs:   make(map[Topic]map[uint64]Handler),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Subscribe registers h for topic and returns a func that removes it.
func (b *Bus) Subscribe(topic Topic, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[uint64]Handler)
	}
	b.subs[topic][id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[topic], id)
		})
	}
}

// SubscribeAll registers h for every topic in Topics.
func (b *Bus) SubscribeAll(h Handler) (unsubscribe func()) {
	cancels := make([]func(), 0, len(Topics))
	for _, topic := range Topics {
		cancels = append(cancels, b.Subscribe(topic, h))
	}
	return func() {
		for _, c := range cancels {
			c()
		}
	}
}

// Publish delivers e to the current subscribers of its topic. Missing ID and
// OccurredAt are filled in.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = b.now()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[e.Topic]))
	for _, h := range b.subs[e.Topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := b.deliver(ctx, h, e); err != nil {
			b.logger.WarnContext(ctx, "event subscriber failed",
				"topic", string(e.Topic),
				"event_id", e.ID.String(),
				"error", err.Error(),
			)
		}
	}
}

func (b *Bus) deliver(ctx context.Context, h Handler, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panic: %v", r)
		}
	}()
	return h(ctx, e)
}

// Subscribers returns how many handlers listen on topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
