package repository

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/nodusapp/nodus/internal/domain"
	"github.com/nodusapp/nodus/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerFixture struct {
	finances   *SQLiteFinanceRepo
	executions *SQLiteFinanceExecutionRepo
	projectID  int64
	ars, usd   int64
}

func ledgerSetup(t *testing.T) ledgerFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Household")
	require.NoError(t, NewSQLiteProjectRepo(database).Create(ctx, proj))

	currencies := NewSQLiteCurrencyRepo(database)
	ars, err := currencies.GetByCode(ctx, "ARS")
	require.NoError(t, err)
	usd, err := currencies.GetByCode(ctx, "USD")
	require.NoError(t, err)

	return ledgerFixture{
		finances:   NewSQLiteFinanceRepo(database),
		executions: NewSQLiteFinanceExecutionRepo(database),
		projectID:  proj.ID,
		ars:        ars.ID,
		usd:        usd.ID,
	}
}

func day(d int) time.Time {
	return time.Date(2025, 5, d, 0, 0, 0, 0, time.UTC)
}

func TestFinanceRepo_CRUD(t *testing.T) {
	fx := ledgerSetup(t)
	ctx := context.Background()

	f := testutil.NewTestFinance(fx.projectID, fx.ars, "Rent", 1200)
	require.NoError(t, fx.finances.Create(ctx, f))

	got, err := fx.finances.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rent", got.Title)
	assert.Equal(t, 1200.0, got.Amount)
	assert.Nil(t, got.TaskID)

	got.Amount = 1300
	require.NoError(t, fx.finances.Update(ctx, got))
	list, err := fx.finances.ListByProject(ctx, fx.projectID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1300.0, list[0].Amount)

	require.NoError(t, fx.finances.Delete(ctx, f.ID))
	_, err = fx.finances.GetByID(ctx, f.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Amounts 100, -40 and 15.5 in one currency sum to 75.5.
func TestFinanceExecutionRepo_SumByProject(t *testing.T) {
	fx := ledgerSetup(t)
	ctx := context.Background()

	for i, amount := range []float64{100, -40, 15.5} {
		require.NoError(t, fx.executions.Create(ctx, testutil.NewTestFinanceExecution(fx.projectID, fx.ars, day(i+1), amount)))
	}
	require.NoError(t, fx.executions.Create(ctx, testutil.NewTestFinanceExecution(fx.projectID, fx.usd, day(4), 9)))

	total, err := fx.executions.SumByProject(ctx, fx.projectID, &fx.ars)
	require.NoError(t, err)
	assert.InDelta(t, 75.5, total, 1e-9)

	all, err := fx.executions.SumByProject(ctx, fx.projectID, nil)
	require.NoError(t, err)
	assert.InDelta(t, 84.5, all, 1e-9)
}

func TestFinanceExecutionRepo_SumWithoutRowsIsZero(t *testing.T) {
	fx := ledgerSetup(t)

	total, err := fx.executions.SumByProject(context.Background(), fx.projectID, nil)
	require.NoError(t, err)
	assert.Zero(t, total)
}

// 25 executions at page size 10: page 3 holds the 5 oldest.
func TestFinanceExecutionRepo_ListByProjectPage(t *testing.T) {
	fx := ledgerSetup(t)
	ctx := context.Background()

	rent := testutil.NewTestFinance(fx.projectID, fx.ars, "Rent", 10)
	require.NoError(t, fx.finances.Create(ctx, rent))

	for d := 1; d <= 25; d++ {
		e := testutil.NewTestFinanceExecution(fx.projectID, fx.ars, day(d), float64(d))
		if d == 1 {
			e.FinanceID = &rent.ID
		}
		require.NoError(t, fx.executions.Create(ctx, e))
	}

	rows, info, err := fx.executions.ListByProjectPage(ctx, fx.projectID, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, PageInfo{Page: 3, PageSize: 10, Total: 25, TotalPages: 3}, info)
	require.Len(t, rows, 5)
	assert.True(t, day(5).Equal(rows[0].Execution.Date))
	assert.True(t, day(1).Equal(rows[4].Execution.Date))
	assert.Equal(t, "Rent", rows[4].FinanceTitle)
	assert.Empty(t, rows[0].FinanceTitle)
	assert.Equal(t, "ARS", rows[0].CurrencyCode)

	first, _, err := fx.executions.ListByProjectPage(ctx, fx.projectID, 1, 10)
	require.NoError(t, err)
	require.Len(t, first, 10)
	assert.True(t, day(25).Equal(first[0].Execution.Date))

	beyond, info, err := fx.executions.ListByProjectPage(ctx, fx.projectID, 4, 10)
	require.NoError(t, err)
	assert.Empty(t, beyond)
	assert.Equal(t, 25, info.Total)
	assert.Equal(t, 3, info.TotalPages)

	huge, info, err := fx.executions.ListByProjectPage(ctx, fx.projectID, math.MaxInt, 10)
	require.NoError(t, err)
	assert.Empty(t, huge)
	assert.Equal(t, 25, info.Total)
}

func TestFinanceExecutionRepo_SameDateOrderedByIDDesc(t *testing.T) {
	fx := ledgerSetup(t)
	ctx := context.Background()

	a := testutil.NewTestFinanceExecution(fx.projectID, fx.ars, day(3), 1)
	b := testutil.NewTestFinanceExecution(fx.projectID, fx.ars, day(3), 2)
	require.NoError(t, fx.executions.Create(ctx, a))
	require.NoError(t, fx.executions.Create(ctx, b))

	rows, _, err := fx.executions.ListByProjectPage(ctx, fx.projectID, 1, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, b.ID, rows[0].Execution.ID)
}

func TestFinanceExecutionRepo_PageBounds(t *testing.T) {
	fx := ledgerSetup(t)
	ctx := context.Background()

	_, _, err := fx.executions.ListByProjectPage(ctx, fx.projectID, 0, 10)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, _, err = fx.executions.ListByProjectPage(ctx, fx.projectID, 1, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFinanceExecutionRepo_TotalsByCurrency(t *testing.T) {
	fx := ledgerSetup(t)
	ctx := context.Background()

	require.NoError(t, fx.executions.Create(ctx, testutil.NewTestFinanceExecution(fx.projectID, fx.usd, day(1), 20)))
	require.NoError(t, fx.executions.Create(ctx, testutil.NewTestFinanceExecution(fx.projectID, fx.ars, day(2), 500)))
	require.NoError(t, fx.executions.Create(ctx, testutil.NewTestFinanceExecution(fx.projectID, fx.ars, day(3), -120)))

	totals, err := fx.executions.TotalsByCurrency(ctx, fx.projectID)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, CurrencyTotal{CurrencyID: fx.ars, Code: "ARS", Symbol: "ARS$", Total: 380, Count: 2}, totals[0])
	assert.Equal(t, "USD", totals[1].Code)
	assert.Equal(t, 20.0, totals[1].Total)
}

func TestFinanceExecutionRepo_KeepsRowsWhenFinanceDeleted(t *testing.T) {
	fx := ledgerSetup(t)
	ctx := context.Background()

	f := testutil.NewTestFinance(fx.projectID, fx.ars, "Gym", 30)
	require.NoError(t, fx.finances.Create(ctx, f))
	e := testutil.NewTestFinanceExecution(fx.projectID, fx.ars, day(1), 30)
	e.FinanceID = &f.ID
	require.NoError(t, fx.executions.Create(ctx, e))

	require.NoError(t, fx.finances.Delete(ctx, f.ID))

	got, err := fx.executions.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FinanceID)
}
