package recurrence

import (
	"iter"
	"time"
)

// DefaultLimit caps expansion when the caller gives no limit, so a rule
// without UNTIL or COUNT never runs unbounded.
const DefaultLimit = 366

// maxEmptyPeriods stops the scan for rules whose periods can never hold a
// valid date, such as BYMONTHDAY=30 stepping through Februaries only.
const maxEmptyPeriods = 1000

// NextOccurrence returns the earliest occurrence at or after from for a
// series anchored at beginAt. It reports false when the series has ended
// before reaching from.
func NextOccurrence(r Rule, from, beginAt time.Time) (time.Time, bool) {
	if r.IsZero() {
		return time.Time{}, false
	}
	var (
		next  time.Time
		found bool
	)
	r.walk(beginAt, r.startPeriod(beginAt, from), func(t time.Time) bool {
		if t.Before(from) {
			return true
		}
		next, found = t, true
		return false
	})
	return next, found
}

// Occurrences lazily yields occurrences in ascending order starting at
// beginAt. A limit of zero or less means DefaultLimit.
func Occurrences(r Rule, beginAt time.Time, limit int) iter.Seq[time.Time] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return func(yield func(time.Time) bool) {
		if r.IsZero() {
			return
		}
		n := 0
		r.walk(beginAt, 0, func(t time.Time) bool {
			if !yield(t) {
				return false
			}
			n++
			return n < limit
		})
	}
}

// Between returns the occurrences inside [from, to], at most DefaultLimit.
func Between(r Rule, beginAt, from, to time.Time) []time.Time {
	if r.IsZero() || to.Before(from) {
		return nil
	}
	var out []time.Time
	r.walk(beginAt, r.startPeriod(beginAt, from), func(t time.Time) bool {
		if t.After(to) {
			return false
		}
		if t.Before(from) {
			return true
		}
		out = append(out, t)
		return len(out) < DefaultLimit
	})
	return out
}

// walk yields every occurrence of the series from period startPeriod on,
// honoring the anchor and the termination mode.
func (r Rule) walk(anchor time.Time, startPeriod int, yield func(time.Time) bool) {
	emitted, empty := 0, 0
	for k := startPeriod; ; k++ {
		produced := false
		for _, t := range r.candidates(anchor, k) {
			if t.Before(anchor) {
				continue
			}
			produced = true
			if r.end.Kind == EndUntil && t.After(r.end.Until) {
				return
			}
			if r.end.Kind == EndCount && emitted >= r.end.Count {
				return
			}
			emitted++
			if !yield(t) {
				return
			}
		}
		if produced {
			empty = 0
			continue
		}
		empty++
		if empty >= maxEmptyPeriods {
			return
		}
	}
}

// startPeriod skips whole periods that end before from. COUNT rules always
// start at the anchor because earlier occurrences consume the count.
func (r Rule) startPeriod(anchor, from time.Time) int {
	if r.end.Kind == EndCount || !from.After(anchor) {
		return 0
	}
	t := from.In(anchor.Location())
	ay, am, ad := anchor.Date()
	ty, tm, td := t.Date()

	var n int
	switch r.freq {
	case Daily:
		n = civilDay(ty, tm, td) - civilDay(ay, am, ad)
	case Weekly:
		tWeek := civilDay(ty, tm, td) - weekOffset(t.Weekday())
		aWeek := civilDay(ay, am, ad) - weekOffset(anchor.Weekday())
		n = (tWeek - aWeek) / 7
	case Monthly:
		n = (ty-ay)*12 + int(tm-am)
	case Yearly:
		n = ty - ay
	}
	if n < 0 {
		return 0
	}
	return n / r.interval
}

// candidates lists period k's dates in ascending order, keeping the anchor's
// wall-clock time and location. Dates that do not exist are skipped.
func (r Rule) candidates(anchor time.Time, k int) []time.Time {
	y, m, d := anchor.Date()
	hh, mm, ss := anchor.Clock()
	ns, loc := anchor.Nanosecond(), anchor.Location()
	at := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, hh, mm, ss, ns, loc)
	}

	switch r.freq {
	case Daily:
		return []time.Time{at(y, m, d+k*r.interval)}

	case Weekly:
		weekStart := d - weekOffset(anchor.Weekday()) + 7*k*r.interval
		days := r.byWeekday
		if len(days) == 0 {
			days = []time.Weekday{anchor.Weekday()}
		}
		out := make([]time.Time, 0, len(days))
		for _, wd := range days {
			out = append(out, at(y, m, weekStart+weekOffset(wd)))
		}
		return out

	case Monthly:
		first := time.Date(y, m+time.Month(k*r.interval), 1, 0, 0, 0, 0, time.UTC)
		py, pm := first.Year(), first.Month()
		dim := daysIn(py, pm)
		days := r.byMonthDay
		if len(days) == 0 {
			days = []int{d}
		}
		out := make([]time.Time, 0, len(days))
		for _, md := range days {
			if md > dim {
				continue
			}
			out = append(out, at(py, pm, md))
		}
		return out

	case Yearly:
		py := y + k*r.interval
		if d > daysIn(py, m) {
			return nil
		}
		return []time.Time{at(py, m, d)}
	}
	return nil
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func civilDay(y int, m time.Month, d int) int {
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
