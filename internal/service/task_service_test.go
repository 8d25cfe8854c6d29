package service

import (
	"context"
	"testing"
	"time"

	"github.com/nodusapp/nodus/internal/domain"
	"github.com/nodusapp/nodus/internal/events"
	"github.com/nodusapp/nodus/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_CreateChecksReferences(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.project(t, "Home")
	other := h.project(t, "Work")
	habit := testutil.NewTestHabit(other.ID, "Inbox zero")
	require.NoError(t, h.habits.Create(ctx, habit))
	svc := h.taskService()

	due := time.Date(2025, 3, 12, 17, 0, 0, 0, time.FixedZone("ART", -3*3600))
	task, err := svc.Create(ctx, domain.TaskInput{ProjectID: p.ID, Title: "  Water plants ", DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, "Water plants", task.Title)
	assert.Equal(t, time.UTC, task.DueDate.Location())
	assert.True(t, task.DueDate.Equal(due))

	_, err = svc.Create(ctx, domain.TaskInput{ProjectID: 999, Title: "Orphan"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Create(ctx, domain.TaskInput{ProjectID: p.ID, Title: "Cross", HabitID: &habit.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Create(ctx, domain.TaskInput{ProjectID: p.ID, Title: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got := h.rec.Topic(events.TaskChanged)
	require.Len(t, got, 1)
	assert.Equal(t, task.ID, got[0].TaskID)
	assert.Zero(t, got[0].HabitID)
}

func TestTask_UpdateAndDelete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.project(t, "Home")
	svc := h.taskService()

	task, err := svc.Create(ctx, domain.TaskInput{ProjectID: p.ID, Title: "Clean"})
	require.NoError(t, err)

	goal := 3
	updated, err := svc.Update(ctx, task.ID, domain.TaskInput{ProjectID: p.ID, Title: "Clean kitchen", CountGoal: &goal})
	require.NoError(t, err)
	assert.Equal(t, task.ID, updated.ID)
	assert.True(t, updated.CreatedAt.Equal(task.CreatedAt))

	list, err := svc.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Clean kitchen", list[0].Title)
	assert.Equal(t, 3, list[0].CountGoal)

	require.NoError(t, svc.Delete(ctx, task.ID))
	assert.ErrorIs(t, svc.Delete(ctx, task.ID), domain.ErrNotFound)
	assert.Len(t, h.rec.Topic(events.TaskChanged), 3)
}

func TestTask_Progress(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.project(t, "Study")
	svc := h.taskService()

	byCount := h.task(t, p.ID, "Flashcards", testutil.WithTaskGoal(domain.CompletionByCount, 2))
	byDuration := h.task(t, p.ID, "Reading", testutil.WithTaskGoal(domain.CompletionByDuration, 60))

	for _, taskID := range []int64{byCount.ID, byDuration.ID} {
		require.NoError(t, h.executions.Create(ctx, testutil.NewTestExecution(taskID, t0, t0.Add(25*time.Minute))))
		require.NoError(t, h.executions.Create(ctx, testutil.NewTestExecution(taskID, t0.Add(time.Hour), t0.Add(90*time.Minute))))
	}
	open := testutil.NewTestExecution(byDuration.ID, t0.Add(2*time.Hour), time.Time{})
	require.NoError(t, h.executions.Create(ctx, open))

	count, err := svc.Progress(ctx, byCount.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count.Progress)
	assert.True(t, count.IsComplete)
	assert.InDelta(t, 1.0, count.Percent, 1e-9)
	assert.Nil(t, count.ActiveExecutionID)

	duration, err := svc.Progress(ctx, byDuration.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CompletionByDuration, duration.Mode)
	assert.Equal(t, 55, duration.Progress, "open sessions never count")
	assert.False(t, duration.IsComplete)
	require.NotNil(t, duration.ActiveExecutionID)
	assert.Equal(t, open.ID, *duration.ActiveExecutionID)

	_, err = svc.Progress(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
