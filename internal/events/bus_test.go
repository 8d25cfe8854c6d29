package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishDeliversToTopic(t *testing.T) {
	bus := NewBus(nil)
	var got []Event
	bus.Subscribe(TaskExecutionChanged, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	bus.Subscribe(NoteChanged, func(context.Context, Event) error {
		t.Fatal("note subscriber must not see execution events")
		return nil
	})

	bus.Publish(context.Background(), Event{Topic: TaskExecutionChanged, ProjectID: 1, TaskID: 5, ExecutionID: 9})

	require.Len(t, got, 1)
	assert.NotEqual(t, uuid.Nil, got[0].ID)
	assert.False(t, got[0].OccurredAt.IsZero())
	assert.Equal(t, int64(9), got[0].ExecutionID)
}

func TestBus_KeepsProvidedIdentity(t *testing.T) {
	bus := NewBus(nil)
	id := uuid.New()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var got Event
	bus.Subscribe(TaskChanged, func(_ context.Context, e Event) error {
		got = e
		return nil
	})
	bus.Publish(context.Background(), Event{ID: id, Topic: TaskChanged, OccurredAt: at})

	assert.Equal(t, id, got.ID)
	assert.Equal(t, at, got.OccurredAt)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil)
	calls := 0
	unsubscribe := bus.Subscribe(HabitChanged, func(context.Context, Event) error {
		calls++
		return nil
	})
	bus.Publish(context.Background(), Event{Topic: HabitChanged})
	unsubscribe()
	unsubscribe()
	bus.Publish(context.Background(), Event{Topic: HabitChanged})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.Subscribers(HabitChanged))
}

func TestBus_IsolatesFailingSubscribers(t *testing.T) {
	var buf bytes.Buffer
	bus := NewBus(slog.New(slog.NewTextHandler(&buf, nil)))

	delivered := 0
	bus.Subscribe(FinanceExecutionChanged, func(context.Context, Event) error {
		panic("boom")
	})
	bus.Subscribe(FinanceExecutionChanged, func(context.Context, Event) error {
		return errors.New("subscriber down")
	})
	bus.Subscribe(FinanceExecutionChanged, func(context.Context, Event) error {
		delivered++
		return nil
	})

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), Event{Topic: FinanceExecutionChanged, FinanceID: 3})
	})
	assert.Equal(t, 1, delivered)
	assert.Contains(t, buf.String(), "subscriber panic: boom")
	assert.Contains(t, buf.String(), "subscriber down")
}

func TestBus_SubscribeAllWithLogSubscriber(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	bus := NewBus(logger)

	unsubscribe := bus.SubscribeAll(NewLogSubscriber(logger))
	for _, topic := range Topics {
		assert.Equal(t, 1, bus.Subscribers(topic))
	}

	bus.Publish(context.Background(), Event{Topic: NoteChanged, ProjectID: 2, NoteID: 7})
	out := buf.String()
	assert.Contains(t, out, "topic=noteChanged")
	assert.Contains(t, out, "note_id=7")
	assert.NotContains(t, out, "task_id")

	unsubscribe()
	assert.Equal(t, 0, bus.Subscribers(NoteChanged))
}
