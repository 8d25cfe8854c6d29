package events

import (
	"context"
	"log/slog"
)

// NewLogSubscriber returns a handler that records each event at debug level.
func NewLogSubscriber(logger *slog.Logger) Handler {
	return func(ctx context.Context, e Event) error {
		attrs := []any{
			"topic", string(e.Topic),
			"event_id", e.ID.String(),
		}
		for _, f := range []struct {
			key string
			id  int64
		}{
			{"project_id", e.ProjectID},
			{"habit_id", e.HabitID},
			{"task_id", e.TaskID},
			{"execution_id", e.ExecutionID},
			{"finance_id", e.FinanceID},
			{"note_id", e.NoteID},
		} {
			if f.id != 0 {
				attrs = append(attrs, f.key, f.id)
			}
		}
		logger.DebugContext(ctx, "entity_changed", attrs...)
		return nil
	}
}
