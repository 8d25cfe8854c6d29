package recurrence

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) Rule {
	t.Helper()
	r, err := Parse(text)
	require.NoError(t, err)
	return r
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

func TestNextOccurrence_WeeklyByDay(t *testing.T) {
	r := mustParse(t, "FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,WE,FR")
	monday := day(2024, time.January, 1)

	next, ok := NextOccurrence(r, monday, monday)
	require.True(t, ok)
	assert.Equal(t, monday, next)

	next, ok = NextOccurrence(r, day(2024, time.January, 2), monday)
	require.True(t, ok)
	assert.Equal(t, day(2024, time.January, 3), next)

	next, ok = NextOccurrence(r, day(2024, time.March, 7), monday)
	require.True(t, ok)
	assert.Equal(t, day(2024, time.March, 8), next)
}

func TestNextOccurrence_FromBeforeAnchor(t *testing.T) {
	r := mustParse(t, "FREQ=DAILY;INTERVAL=2")
	anchor := day(2024, time.May, 10)

	next, ok := NextOccurrence(r, day(2024, time.January, 1), anchor)
	require.True(t, ok)
	assert.Equal(t, anchor, next)
}

func TestNextOccurrence_SeriesEnded(t *testing.T) {
	anchor := day(2024, time.January, 1)

	next, ok := NextOccurrence(mustParse(t, "FREQ=DAILY;COUNT=3"), day(2024, time.January, 3), anchor)
	require.True(t, ok)
	assert.Equal(t, day(2024, time.January, 3), next)

	_, ok = NextOccurrence(mustParse(t, "FREQ=DAILY;COUNT=3"), day(2024, time.January, 4), anchor)
	assert.False(t, ok)

	_, ok = NextOccurrence(mustParse(t, "FREQ=DAILY;UNTIL=20240105T000000Z"), day(2024, time.January, 6), anchor)
	assert.False(t, ok)

	_, ok = NextOccurrence(Rule{}, anchor, anchor)
	assert.False(t, ok)
}

func TestOccurrences_WeeklyInterval(t *testing.T) {
	r := mustParse(t, "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE")
	got := slices.Collect(Occurrences(r, day(2024, time.January, 3), 5))

	assert.Equal(t, []time.Time{
		day(2024, time.January, 3),
		day(2024, time.January, 15),
		day(2024, time.January, 17),
		day(2024, time.January, 29),
		day(2024, time.January, 31),
	}, got)
}

func TestOccurrences_MonthlySkipsShortMonths(t *testing.T) {
	r := mustParse(t, "FREQ=MONTHLY;INTERVAL=1")
	got := slices.Collect(Occurrences(r, day(2024, time.January, 31), 5))

	assert.Equal(t, []time.Time{
		day(2024, time.January, 31),
		day(2024, time.March, 31),
		day(2024, time.May, 31),
		day(2024, time.July, 31),
		day(2024, time.August, 31),
	}, got)
}

func TestOccurrences_MonthlyByMonthDay(t *testing.T) {
	r := mustParse(t, "FREQ=MONTHLY;BYMONTHDAY=1,30")
	got := slices.Collect(Occurrences(r, day(2024, time.January, 15), 4))

	assert.Equal(t, []time.Time{
		day(2024, time.January, 30),
		day(2024, time.February, 1),
		day(2024, time.March, 1),
		day(2024, time.March, 30),
	}, got)
}

func TestOccurrences_YearlyLeapDay(t *testing.T) {
	r := mustParse(t, "FREQ=YEARLY")
	got := slices.Collect(Occurrences(r, day(2024, time.February, 29), 3))

	assert.Equal(t, []time.Time{
		day(2024, time.February, 29),
		day(2028, time.February, 29),
		day(2032, time.February, 29),
	}, got)
}

func TestOccurrences_CountAndUntil(t *testing.T) {
	anchor := day(2024, time.January, 1)

	counted := slices.Collect(Occurrences(mustParse(t, "FREQ=DAILY;COUNT=3"), anchor, 0))
	assert.Len(t, counted, 3)

	until := slices.Collect(Occurrences(mustParse(t, "FREQ=DAILY;UNTIL=20240103T090000Z"), anchor, 0))
	assert.Equal(t, []time.Time{anchor, day(2024, time.January, 2), day(2024, time.January, 3)}, until)

	wholeDay := slices.Collect(Occurrences(mustParse(t, "FREQ=DAILY;UNTIL=20240103"), anchor, 0))
	assert.Len(t, wholeDay, 3)
}

func TestOccurrences_DefaultLimitAndEarlyStop(t *testing.T) {
	r := mustParse(t, "FREQ=DAILY")
	anchor := day(2024, time.January, 1)

	assert.Len(t, slices.Collect(Occurrences(r, anchor, 0)), DefaultLimit)

	n := 0
	for range Occurrences(r, anchor, 0) {
		n++
		if n == 4 {
			break
		}
	}
	assert.Equal(t, 4, n)
}

func TestOccurrences_ImpossibleRuleTerminates(t *testing.T) {
	r, err := New(Monthly, 12, WithMonthDays(30))
	require.NoError(t, err)

	got := slices.Collect(Occurrences(r, day(2024, time.February, 1), 5))
	assert.Empty(t, got)
}

func TestOccurrences_MonotonicAndAnchored(t *testing.T) {
	rules := []string{
		"FREQ=DAILY;INTERVAL=5",
		"FREQ=WEEKLY;BYDAY=TU,SU",
		"FREQ=MONTHLY;INTERVAL=2;BYMONTHDAY=29,31",
		"FREQ=YEARLY;INTERVAL=3",
	}
	anchor := day(2023, time.March, 15)
	for _, text := range rules {
		t.Run(text, func(t *testing.T) {
			prev := time.Time{}
			for occ := range Occurrences(mustParse(t, text), anchor, 60) {
				assert.False(t, occ.Before(anchor))
				assert.True(t, occ.After(prev), "occurrences must strictly increase")
				prev = occ
			}
		})
	}
}

func TestOccurrences_KeepsAnchorClockAndZone(t *testing.T) {
	zone := time.FixedZone("UTC-3", -3*60*60)
	anchor := time.Date(2024, time.January, 30, 7, 45, 0, 0, zone)
	r := mustParse(t, "FREQ=DAILY")

	for occ := range Occurrences(r, anchor, 5) {
		h, m, _ := occ.Clock()
		assert.Equal(t, 7, h)
		assert.Equal(t, 45, m)
		assert.Equal(t, zone, occ.Location())
	}
}

func TestBetween(t *testing.T) {
	r := mustParse(t, "FREQ=WEEKLY;BYDAY=MO,FR")
	anchor := day(2024, time.January, 1)

	got := Between(r, anchor, day(2024, time.February, 1), day(2024, time.February, 12))
	assert.Equal(t, []time.Time{
		day(2024, time.February, 2),
		day(2024, time.February, 5),
		day(2024, time.February, 9),
		day(2024, time.February, 12),
	}, got)

	assert.Empty(t, Between(r, anchor, day(2024, time.March, 1), day(2024, time.February, 1)))
}
