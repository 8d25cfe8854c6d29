package contract

import "time"

// HabitSchedule answers when a habit is next due. Scheduled is false for
// habits without a recurrence rule. A scheduled habit with no Next has a
// series that already ended.
type HabitSchedule struct {
	HabitID   int64      `json:"habit_id"`
	Rule      string     `json:"rule,omitempty"`
	Scheduled bool       `json:"scheduled"`
	Next      *time.Time `json:"next,omitempty"`
}

// Ended reports whether a scheduled series has no further occurrences.
func (s HabitSchedule) Ended() bool {
	return s.Scheduled && s.Next == nil
}
