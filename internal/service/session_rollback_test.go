package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nodusapp/nodus/internal/domain"
	"github.com/nodusapp/nodus/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSession_RollbackOnInsertFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.project(t, "Rollback")
	task := h.task(t, p.ID, "Read chapter")

	injected := errors.New("injected insert failure")
	// ExecContext #1 is the session insert.
	failing := h.sessions(&testutil.FailOnNthExecUoW{DB: h.db, FailOn: 1, Err: injected})

	_, err := failing.Start(ctx, task.ID)
	require.ErrorIs(t, err, injected)

	list, err := h.executions.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, list, "no session row may survive the failed transaction")
	assert.Empty(t, h.rec.Events(), "a rolled back write must not notify")

	// The lock was released, so a healthy start goes through.
	_, err = h.sessions(h.uow).Start(ctx, task.ID)
	assert.NoError(t, err)
}

func TestStopSession_RollbackLeavesSessionOpen(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.project(t, "Rollback")
	task := h.task(t, p.ID, "Read chapter")

	started, err := h.sessions(h.uow).Start(ctx, task.ID)
	require.NoError(t, err)
	h.rec.Reset()

	injected := errors.New("injected update failure")
	failing := h.sessions(&testutil.FailOnNthExecUoW{DB: h.db, FailOn: 1, Err: injected})
	_, err = failing.Stop(ctx, started.ID)
	require.ErrorIs(t, err, injected)

	stored, err := h.executions.GetByID(ctx, started.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active())
	assert.Empty(t, h.rec.Events())
}

func TestUpdateSession_RollbackKeepsMarkers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.project(t, "Rollback")
	task := h.task(t, p.ID, "Read chapter")

	start := t0.Add(-time.Hour)
	logged, err := h.sessions(h.uow).Log(ctx, task.ID, start, start.Add(30*time.Minute))
	require.NoError(t, err)
	h.rec.Reset()

	injected := errors.New("injected session write failure")
	failing := h.sessions(&testutil.FailOnNthExecUoW{DB: h.db, FailOn: 1, Table: "task_executions", Err: injected})
	later := start.Add(10 * time.Minute)
	_, err = failing.Update(ctx, logged.ID, &later, nil)
	require.ErrorIs(t, err, injected)

	stored, err := h.executions.GetByID(ctx, logged.ID)
	require.NoError(t, err)
	assert.True(t, stored.StartTime.Equal(start))
	assert.True(t, stored.Completed())
	assert.Empty(t, h.rec.Events())
}

func TestStartSession_ConcurrentStartsOpenOneSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.project(t, "Race")
	task := h.task(t, p.ID, "Contended")
	svc := h.sessions(h.uow)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
		other     []error
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Start(ctx, task.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInvariant):
				conflicts++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, other)
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflicts)

	list, err := h.executions.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Len(t, h.rec.Events(), 1)
}
