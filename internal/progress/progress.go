// Package progress measures how far a habit or task is toward its goal from
// its recorded sessions.
package progress

import (
	"github.com/nodusapp/nodus/internal/domain"
)

type Result struct {
	Mode       domain.CompletionMode
	Progress   int
	Goal       int
	IsComplete bool
}

// Percent returns progress as a fraction of the goal, capped at 1.
func (r Result) Percent() float64 {
	if r.Goal <= 0 {
		return 0
	}
	p := float64(r.Progress) / float64(r.Goal)
	if p > 1 {
		return 1
	}
	return p
}

// Remaining returns how much is left before the goal is met.
func (r Result) Remaining() int {
	return max(r.Goal-r.Progress, 0)
}

// Evaluate computes progress for mode against goal. BY_COUNT counts finished
// sessions; BY_DURATION sums the rounded minutes of sessions with both
// markers. Open sessions never count.
func Evaluate(mode domain.CompletionMode, goal int, executions []*domain.TaskExecution) (Result, error) {
	verr := domain.NewValidationError("progress")
	if !mode.Valid() {
		verr.Add("unknown completion mode %d", int(mode))
	}
	if goal < 1 {
		verr.Add("goal must be at least 1, got %d", goal)
	}
	if err := verr.Err(); err != nil {
		return Result{}, err
	}

	total := 0
	for _, e := range executions {
		if e == nil {
			continue
		}
		switch mode {
		case domain.CompletionByCount:
			if e.Completed() {
				total++
			}
		case domain.CompletionByDuration:
			if mins, ok := e.DurationMinutes(); ok {
				total += mins
			}
		}
	}

	return Result{
		Mode:       mode,
		Progress:   total,
		Goal:       goal,
		IsComplete: total >= goal,
	}, nil
}
