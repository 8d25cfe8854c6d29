package domain

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskExecution_StartAfterEnd(t *testing.T) {
	start := testNow
	end := testNow.Add(-time.Minute)
	_, err := NewTaskExecution(1, &start, &end)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestTaskExecution_Active(t *testing.T) {
	start := testNow
	e, err := NewTaskExecution(1, &start, nil)
	require.NoError(t, err)
	assert.True(t, e.Active())
	assert.False(t, e.Completed())

	_, ok := e.DurationMinutes()
	assert.False(t, ok)
}

func TestTaskExecution_DurationRounds(t *testing.T) {
	start := testNow
	end := testNow.Add(90*time.Minute + 31*time.Second)
	e := &TaskExecution{TaskID: 1, StartTime: &start, EndTime: &end}

	mins, ok := e.DurationMinutes()
	require.True(t, ok)
	assert.Equal(t, 91, mins)
}

func TestTaskExecution_StopTwice(t *testing.T) {
	start := testNow
	e := &TaskExecution{TaskID: 1, StartTime: &start}

	require.NoError(t, e.Stop(testNow.Add(time.Hour)))
	assert.False(t, e.Active())

	err := e.Stop(testNow.Add(2 * time.Hour))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariant))
	assert.Equal(t, testNow.Add(time.Hour), *e.EndTime)
}

func TestTaskExecution_StopBeforeStart(t *testing.T) {
	start := testNow
	e := &TaskExecution{TaskID: 1, StartTime: &start}
	err := e.Stop(testNow.Add(-time.Hour))
	require.Error(t, err)
	assert.Nil(t, e.EndTime)
}

func TestFinanceExecution_SignedAmount(t *testing.T) {
	fe, err := NewFinanceExecution(FinanceExecutionInput{ProjectID: 1, Date: testNow, Amount: -40, CurrencyID: 1})
	require.NoError(t, err)
	assert.Equal(t, -40.0, fe.Amount)
}

func TestFinanceExecution_Invalid(t *testing.T) {
	_, err := NewFinanceExecution(FinanceExecutionInput{Amount: math.NaN()})
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "date is required")
	assert.Contains(t, msg, "finite")
	assert.Contains(t, msg, "currency_id")
}

func TestNewFinance_AmountPositive(t *testing.T) {
	_, err := NewFinance(FinanceInput{ProjectID: 1, Title: "Rent", Amount: 0, CurrencyID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount must be greater than 0")

	f, err := NewFinance(FinanceInput{ProjectID: 1, Title: " Rent ", Amount: 500, CurrencyID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Rent", f.Title)
}

func TestNote_Excerpt(t *testing.T) {
	n := &Note{Content: "# Title\n*bold* and `code`"}
	assert.Equal(t, " Title\nbold and code", n.Excerpt())

	long := &Note{Content: "abcdefghij" + "abcdefghij" + "abcdefghij" + "abcdefghij" + "abcdefghij" + "tail"}
	assert.Equal(t, "abcdefghijabcdefghijabcdefghijabcdefghijabcdefghij...", long.Excerpt())
}

func TestNewNote_TitleLength(t *testing.T) {
	_, err := NewNote(NoteInput{ProjectID: 1, Title: strings.Repeat("x", 101)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 100 characters")
}

func TestTaskExecution_RescheduleKeepsNilMarkers(t *testing.T) {
	start := time.Date(2025, 3, 9, 18, 0, 0, 0, time.UTC)
	end := start.Add(40 * time.Minute)
	e := &TaskExecution{TaskID: 1, StartTime: &start, EndTime: &end}

	later := start.Add(5 * time.Minute)
	require.NoError(t, e.Reschedule(&later, nil))
	assert.True(t, e.StartTime.Equal(later))
	require.NotNil(t, e.EndTime)
	assert.True(t, e.EndTime.Equal(end))

	tooLate := end.Add(time.Minute)
	err := e.Reschedule(&tooLate, nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.True(t, e.StartTime.Equal(later), "a rejected update leaves the markers alone")
}
