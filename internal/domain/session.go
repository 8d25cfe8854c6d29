package domain

import (
	"math"
	"time"
)

// TaskExecution is one time-tracking session on a task.
type TaskExecution struct {
	ID        int64
	TaskID    int64
	StartTime *time.Time
	EndTime   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTaskExecution validates a session; start must not be after end when
// both are present.
func NewTaskExecution(taskID int64, start, end *time.Time) (*TaskExecution, error) {
	verr := NewValidationError("task execution")
	if taskID <= 0 {
		verr.Add("task_id must be greater than 0")
	}
	checkSpan(verr, start, end)
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return &TaskExecution{TaskID: taskID, StartTime: start, EndTime: end}, nil
}

func checkSpan(verr *ValidationError, start, end *time.Time) {
	if start != nil && end != nil && start.After(*end) {
		verr.Add("start_time must not be after end_time")
	}
}

// Active reports whether the session is started and still open.
func (e *TaskExecution) Active() bool {
	return e.StartTime != nil && e.EndTime == nil
}

// Completed reports whether the session has an end marker.
func (e *TaskExecution) Completed() bool {
	return e.EndTime != nil
}

// DurationMinutes returns the rounded session length. It reports false while
// either marker is missing.
func (e *TaskExecution) DurationMinutes() (int, bool) {
	if e.StartTime == nil || e.EndTime == nil {
		return 0, false
	}
	return int(math.Round(e.EndTime.Sub(*e.StartTime).Minutes())), true
}

// Stop closes the session at t.
func (e *TaskExecution) Stop(t time.Time) error {
	if e.EndTime != nil {
		return &InvariantViolation{Reason: "task execution is already stopped"}
	}
	verr := NewValidationError("task execution")
	checkSpan(verr, e.StartTime, &t)
	if err := verr.Err(); err != nil {
		return err
	}
	e.EndTime = &t
	return nil
}

// Reschedule moves the markers that are given; a nil marker is kept.
func (e *TaskExecution) Reschedule(start, end *time.Time) error {
	if start == nil {
		start = e.StartTime
	}
	if end == nil {
		end = e.EndTime
	}
	verr := NewValidationError("task execution")
	checkSpan(verr, start, end)
	if err := verr.Err(); err != nil {
		return err
	}
	e.StartTime, e.EndTime = start, end
	return nil
}
