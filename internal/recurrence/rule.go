// Package recurrence expands RFC 5545 recurrence rules into concrete
// occurrence dates. It covers the subset habits use: DAILY, WEEKLY, MONTHLY
// and YEARLY frequencies with INTERVAL, BYDAY (weekly), BYMONTHDAY (monthly)
// and UNTIL/COUNT termination.
package recurrence

import (
	"fmt"
	"slices"
	"time"
)

type Frequency string

const (
	Daily   Frequency = "DAILY"
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
	Yearly  Frequency = "YEARLY"
)

func (f Frequency) valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

type EndKind int

const (
	EndNever EndKind = iota
	EndUntil
	EndCount
)

// Termination describes when a series stops. Exactly one mode is active.
type Termination struct {
	Kind  EndKind
	Until time.Time
	Count int
}

func Never() Termination { return Termination{Kind: EndNever} }

// Until ends the series at t, inclusive.
func Until(t time.Time) Termination { return Termination{Kind: EndUntil, Until: t} }

// Count ends the series after n occurrences.
func Count(n int) Termination { return Termination{Kind: EndCount, Count: n} }

// Rule is an immutable recurrence specification. Build one with New or Parse.
type Rule struct {
	freq       Frequency
	interval   int
	byWeekday  []time.Weekday
	byMonthDay []int
	end        Termination
}

// Option customizes a Rule under construction.
type Option func(*Rule)

// WithWeekdays sets the BYDAY constraint (WEEKLY only).
func WithWeekdays(days ...time.Weekday) Option {
	return func(r *Rule) {
		r.byWeekday = append(r.byWeekday, days...)
	}
}

// WithMonthDays sets the BYMONTHDAY constraint (MONTHLY only).
func WithMonthDays(days ...int) Option {
	return func(r *Rule) {
		r.byMonthDay = append(r.byMonthDay, days...)
	}
}

// WithEnd sets the termination mode. The default is Never.
func WithEnd(t Termination) Option {
	return func(r *Rule) {
		r.end = t
	}
}

// New builds a validated Rule.
func New(freq Frequency, interval int, opts ...Option) (Rule, error) {
	r := Rule{freq: freq, interval: interval}
	for _, opt := range opts {
		opt(&r)
	}
	r.normalize()
	if err := r.validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

func (r *Rule) normalize() {
	slices.SortFunc(r.byWeekday, func(a, b time.Weekday) int {
		return weekOffset(a) - weekOffset(b)
	})
	r.byWeekday = slices.Compact(r.byWeekday)
	slices.Sort(r.byMonthDay)
	r.byMonthDay = slices.Compact(r.byMonthDay)
	// UNTIL is written with whole seconds.
	if r.end.Kind == EndUntil {
		r.end.Until = r.end.Until.UTC().Truncate(time.Second)
	}
}

func (r Rule) validate() error {
	if !r.freq.valid() {
		return &ParseError{Reason: fmt.Sprintf("unsupported frequency %q", r.freq)}
	}
	if r.interval < 1 {
		return &ParseError{Reason: fmt.Sprintf("interval must be at least 1, got %d", r.interval)}
	}
	if len(r.byWeekday) > 0 && r.freq != Weekly {
		return &ParseError{Reason: "BYDAY is only supported with FREQ=WEEKLY"}
	}
	for _, d := range r.byWeekday {
		if d < time.Sunday || d > time.Saturday {
			return &ParseError{Reason: fmt.Sprintf("weekday %d out of range 0..6", d)}
		}
	}
	if len(r.byMonthDay) > 0 && r.freq != Monthly {
		return &ParseError{Reason: "BYMONTHDAY is only supported with FREQ=MONTHLY"}
	}
	for _, d := range r.byMonthDay {
		if d < 1 || d > 31 {
			return &ParseError{Reason: fmt.Sprintf("month day %d out of range 1..31", d)}
		}
	}
	switch r.end.Kind {
	case EndNever:
	case EndUntil:
		if r.end.Until.IsZero() {
			return &ParseError{Reason: "UNTIL requires a date"}
		}
	case EndCount:
		if r.end.Count < 1 {
			return &ParseError{Reason: fmt.Sprintf("COUNT must be at least 1, got %d", r.end.Count)}
		}
	default:
		return &ParseError{Reason: "unknown termination mode"}
	}
	return nil
}

func (r Rule) Frequency() Frequency { return r.freq }
func (r Rule) Interval() int         { return r.interval }
func (r Rule) End() Termination      { return r.end }

// Weekdays returns a copy of the BYDAY set, Monday first.
func (r Rule) Weekdays() []time.Weekday { return slices.Clone(r.byWeekday) }

// MonthDays returns a copy of the BYMONTHDAY set in ascending order.
func (r Rule) MonthDays() []int { return slices.Clone(r.byMonthDay) }

// IsZero reports whether r was never constructed.
func (r Rule) IsZero() bool { return r.freq == "" }

// Equal reports whether two rules describe the same series.
func (r Rule) Equal(o Rule) bool {
	return r.freq == o.freq &&
		r.interval == o.interval &&
		slices.Equal(r.byWeekday, o.byWeekday) &&
		slices.Equal(r.byMonthDay, o.byMonthDay) &&
		r.end.Kind == o.end.Kind &&
		r.end.Count == o.end.Count &&
		r.end.Until.Equal(o.end.Until)
}

// weekOffset positions a weekday inside a Monday-start week.
func weekOffset(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// ParseError reports malformed rule text or an invalid rule construction.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Text == "" {
		return "invalid recurrence rule: " + e.Reason
	}
	return fmt.Sprintf("invalid recurrence rule %q: %s", e.Text, e.Reason)
}
