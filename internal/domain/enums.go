package domain

import (
	"fmt"
	"strings"
)

// CompletionMode decides how progress toward a goal is measured. The numeric
// values are the stored column values.
type CompletionMode int

const (
	CompletionByCount    CompletionMode = 1
	CompletionByDuration CompletionMode = 2
)

func (m CompletionMode) Valid() bool {
	return m == CompletionByCount || m == CompletionByDuration
}

func (m CompletionMode) String() string {
	switch m {
	case CompletionByCount:
		return "BY_COUNT"
	case CompletionByDuration:
		return "BY_DURATION"
	default:
		return fmt.Sprintf("CompletionMode(%d)", int(m))
	}
}

// Unit names what the goal of a mode counts.
func (m CompletionMode) Unit() string {
	if m == CompletionByDuration {
		return "min"
	}
	return "sessions"
}

// ParseCompletionMode accepts "count", "duration", their BY_ forms, or the
// numeric column values.
func ParseCompletionMode(s string) (CompletionMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "COUNT", "BY_COUNT", "1":
		return CompletionByCount, nil
	case "DURATION", "BY_DURATION", "2":
		return CompletionByDuration, nil
	}
	return 0, fmt.Errorf("unknown completion mode %q (use count or duration)", s)
}
