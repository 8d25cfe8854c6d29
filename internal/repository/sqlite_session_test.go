package repository

import (
	"context"
	"testing"
	"time"

	"github.com/nodusapp/nodus/internal/domain"
	"github.com/nodusapp/nodus/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionTestSetup creates the project and task scaffolding needed by session tests.
func sessionTestSetup(t *testing.T) (*SQLiteTaskExecutionRepo, *SQLiteTaskRepo, int64) {
	t.Helper()
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("SessProj")
	require.NoError(t, NewSQLiteProjectRepo(database).Create(ctx, proj))

	tasks := NewSQLiteTaskRepo(database)
	task := testutil.NewTestTask(proj.ID, "Practice piano")
	require.NoError(t, tasks.Create(ctx, task))

	return NewSQLiteTaskExecutionRepo(database), tasks, task.ID
}

var base = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func TestTaskExecutionRepo_CreateAndGetByID(t *testing.T) {
	repo, _, taskID := sessionTestSetup(t)
	ctx := context.Background()

	e := testutil.NewTestExecution(taskID, base, base.Add(25*time.Minute))
	require.NoError(t, repo.Create(ctx, e))

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, taskID, got.TaskID)
	require.NotNil(t, got.StartTime)
	require.NotNil(t, got.EndTime)
	assert.True(t, base.Equal(*got.StartTime))
	mins, ok := got.DurationMinutes()
	assert.True(t, ok)
	assert.Equal(t, 25, mins)
}

func TestTaskExecutionRepo_GetByID_NotFound(t *testing.T) {
	repo, _, _ := sessionTestSetup(t)

	_, err := repo.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskExecutionRepo_GetActiveByTask(t *testing.T) {
	repo, _, taskID := sessionTestSetup(t)
	ctx := context.Background()

	active, err := repo.GetActiveByTask(ctx, taskID)
	require.NoError(t, err)
	assert.Nil(t, active, "no sessions yet")

	require.NoError(t, repo.Create(ctx, testutil.NewTestExecution(taskID, base, base.Add(time.Hour))))
	active, err = repo.GetActiveByTask(ctx, taskID)
	require.NoError(t, err)
	assert.Nil(t, active, "completed sessions are not active")

	open := testutil.NewTestExecution(taskID, base.Add(2*time.Hour), time.Time{})
	require.NoError(t, repo.Create(ctx, open))
	active, err = repo.GetActiveByTask(ctx, taskID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, open.ID, active.ID)
	assert.True(t, active.Active())
}

func TestTaskExecutionRepo_SecondOpenSessionRejected(t *testing.T) {
	repo, _, taskID := sessionTestSetup(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestExecution(taskID, base, time.Time{})))
	err := repo.Create(ctx, testutil.NewTestExecution(taskID, base.Add(time.Minute), time.Time{}))
	assert.Error(t, err)
}

func TestTaskExecutionRepo_ListCountUpdate(t *testing.T) {
	repo, _, taskID := sessionTestSetup(t)
	ctx := context.Background()

	first := testutil.NewTestExecution(taskID, base, base.Add(10*time.Minute))
	second := testutil.NewTestExecution(taskID, base.Add(time.Hour), time.Time{})
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.ListByTask(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	n, err := repo.CountCompletedByTask(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	end := base.Add(90 * time.Minute)
	second.EndTime = &end
	require.NoError(t, repo.Update(ctx, second))
	n, err = repo.CountCompletedByTask(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestTaskExecutionRepo_DeletedWithTask(t *testing.T) {
	repo, tasks, taskID := sessionTestSetup(t)
	ctx := context.Background()

	e := testutil.NewTestExecution(taskID, base, base.Add(time.Minute))
	require.NoError(t, repo.Create(ctx, e))
	require.NoError(t, tasks.Delete(ctx, taskID))

	_, err := repo.GetByID(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskExecutionRepo_Delete(t *testing.T) {
	repo, _, taskID := sessionTestSetup(t)
	ctx := context.Background()

	e := testutil.NewTestExecution(taskID, base, time.Time{})
	require.NoError(t, repo.Create(ctx, e))
	require.NoError(t, repo.Delete(ctx, e.ID))
	assert.ErrorIs(t, repo.Delete(ctx, e.ID), domain.ErrNotFound)
}
