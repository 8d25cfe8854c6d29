package cli

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/nodusapp/nodus/internal/app"
	"github.com/nodusapp/nodus/internal/config"
	"github.com/nodusapp/nodus/internal/domain"
	"github.com/nodusapp/nodus/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cliNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{PageSize: 20, OccurrenceLimit: 10, RuleCacheSize: 8}
	svcs, err := app.New(testutil.NewTestDB(t), cfg, nil)
	require.NoError(t, err)

	return &App{
		Projects:   svcs.Projects,
		Currencies: svcs.Currencies,
		Habits:     svcs.Habits,
		Tasks:      svcs.Tasks,
		Sessions:   svcs.Sessions,
		Ledger:     svcs.Ledger,
		Finances:   svcs.Finances,
		Notes:      svcs.Notes,
		PageSize:   cfg.PageSize,
		Now:        func() time.Time { return cliNow },
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(a)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func seedProject(t *testing.T, a *App, name string) *domain.Project {
	t.Helper()
	p, err := a.Projects.Create(context.Background(), domain.ProjectInput{Name: name})
	require.NoError(t, err)
	return p
}

func seedTask(t *testing.T, a *App, projectID int64, title string) *domain.Task {
	t.Helper()
	task, err := a.Tasks.Create(context.Background(), domain.TaskInput{ProjectID: projectID, Title: title})
	require.NoError(t, err)
	return task
}

// --- Projects ---

func TestProjectCmd_AddListShow(t *testing.T) {
	a := testApp(t)

	out, err := executeCmd(t, a, "project", "add", "--name", "Household", "--color", "#ff8800")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project Household")

	out, err = executeCmd(t, a, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Household")

	out, err = executeCmd(t, a, "project", "show", "house")
	require.NoError(t, err)
	assert.Contains(t, out, "Household")
	assert.Contains(t, out, "#ff8800")
}

func TestProjectCmd_ListEmpty(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects found.")
}

func TestProjectCmd_AddRejectsShortName(t *testing.T) {
	a := testApp(t)
	_, err := executeCmd(t, a, "project", "add", "--name", "ab")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProjectCmd_UpdateKeepsUnsetFields(t *testing.T) {
	a := testApp(t)
	p, err := a.Projects.Create(context.Background(), domain.ProjectInput{Name: "Garden", Color: "#00ff00"})
	require.NoError(t, err)

	_, err = executeCmd(t, a, "project", "update", "Garden", "--name", "Backyard")
	require.NoError(t, err)

	got, err := a.Projects.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backyard", got.Name)
	assert.Equal(t, "#00ff00", got.Color)
}

func TestProjectCmd_AmbiguousPrefix(t *testing.T) {
	a := testApp(t)
	seedProject(t, a, "Garden")
	seedProject(t, a, "Garage")

	_, err := executeCmd(t, a, "project", "show", "Gar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestCurrencyCmd_List(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "currency", "list")
	require.NoError(t, err)
	for _, code := range []string{"USD", "EUR", "ARS"} {
		assert.Contains(t, out, code)
	}
}

// --- Habits ---

func TestHabitCmd_AddNextSpawn(t *testing.T) {
	a := testApp(t)
	p := seedProject(t, a, "Health")

	out, err := executeCmd(t, a, "habit", "add",
		"--project", "Health", "--title", "Stretch",
		"--rule", "freq=daily", "--begin", "2025-03-10T12:00:00Z")
	require.NoError(t, err)
	assert.Contains(t, out, "Created habit Stretch")

	habits, err := a.Habits.ListByProject(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	h := habits[0]
	assert.Equal(t, "FREQ=DAILY;INTERVAL=1", h.RecurrenceRule)

	id := "#" + itoa(h.ID)
	out, err = executeCmd(t, a, "habit", "next", id)
	require.NoError(t, err)
	assert.Contains(t, out, "next due")

	out, err = executeCmd(t, a, "habit", "occurrences", id, "--limit", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-03-12")
	assert.NotContains(t, out, "2025-03-13")

	out, err = executeCmd(t, a, "habit", "calendar", id, "--days", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-03-11")
	assert.NotContains(t, out, "2025-03-13")

	out, err = executeCmd(t, a, "habit", "spawn", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Task Stretch")

	tasks, err := a.Tasks.ListByProject(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].HabitID)
	assert.Equal(t, h.ID, *tasks[0].HabitID)
}

func TestHabitCmd_AddRejectsBadRule(t *testing.T) {
	a := testApp(t)
	seedProject(t, a, "Health")

	_, err := executeCmd(t, a, "habit", "add", "--project", "Health", "--title", "Stretch", "--rule", "FREQ=HOURLY")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestHabitCmd_BadMode(t *testing.T) {
	a := testApp(t)
	seedProject(t, a, "Health")

	_, err := executeCmd(t, a, "habit", "add", "--project", "Health", "--title", "Stretch", "--mode", "weekly")
	require.Error(t, err)
}

// --- Tasks and sessions ---

func TestTaskCmd_AddAndProgress(t *testing.T) {
	a := testApp(t)
	p := seedProject(t, a, "Study")

	_, err := executeCmd(t, a, "task", "add", "--project", "Study", "--title", "Read chapter",
		"--mode", "duration", "--goal", "30", "--due", "2025-03-11")
	require.NoError(t, err)

	tasks, err := a.Tasks.ListByProject(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	task := tasks[0]
	assert.Equal(t, domain.CompletionByDuration, task.CompletionMode)
	assert.Equal(t, 30, task.CountGoal)
	require.NotNil(t, task.DueDate)

	_, err = executeCmd(t, a, "session", "log", itoa(task.ID), "--minutes", "20", "--start", "2025-03-09T10:00:00Z")
	require.NoError(t, err)

	out, err := executeCmd(t, a, "task", "progress", itoa(task.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "20 / 30 min")

	out, err = executeCmd(t, a, "task", "list", "--project", itoa(p.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "Read chapter")
}

func TestTaskCmd_Update(t *testing.T) {
	a := testApp(t)
	p := seedProject(t, a, "Study")
	task := seedTask(t, a, p.ID, "Read")

	_, err := executeCmd(t, a, "task", "update", itoa(task.ID), "--title", "Read more", "--goal", "3")
	require.NoError(t, err)

	got, err := a.Tasks.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Read more", got.Title)
	assert.Equal(t, 3, got.CountGoal)
	assert.Equal(t, domain.CompletionByCount, got.CompletionMode)
}

func TestSessionCmd_StartStopLifecycle(t *testing.T) {
	a := testApp(t)
	p := seedProject(t, a, "Study")
	task := seedTask(t, a, p.ID, "Practice")
	taskArg := itoa(task.ID)

	out, err := executeCmd(t, a, "session", "start", taskArg)
	require.NoError(t, err)
	assert.Contains(t, out, "Started session")

	_, err = executeCmd(t, a, "session", "start", taskArg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvariant)

	active, err := a.Sessions.ActiveSession(context.Background(), task.ID)
	require.NoError(t, err)
	require.NotNil(t, active)

	out, err = executeCmd(t, a, "session", "active", taskArg)
	require.NoError(t, err)
	assert.Contains(t, out, "running since")

	out, err = executeCmd(t, a, "session", "stop", itoa(active.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "Stopped session")

	out, err = executeCmd(t, a, "session", "active", taskArg)
	require.NoError(t, err)
	assert.Contains(t, out, "No running session")

	out, err = executeCmd(t, a, "session", "list", taskArg)
	require.NoError(t, err)
	assert.Contains(t, out, itoa(active.ID))
}

func TestSessionCmd_UnknownTask(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "session", "start", "999")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionCmd_LogRequiresPositiveMinutes(t *testing.T) {
	a := testApp(t)
	p := seedProject(t, a, "Study")
	task := seedTask(t, a, p.ID, "Practice")

	_, err := executeCmd(t, a, "session", "log", itoa(task.ID), "--minutes", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--minutes")
}

func TestSessionCmd_UpdateStartOnly(t *testing.T) {
	a := testApp(t)
	p := seedProject(t, a, "Study")
	task := seedTask(t, a, p.ID, "Practice")

	_, err := executeCmd(t, a, "session", "log", itoa(task.ID), "--minutes", "40", "--start", "2025-03-09T12:00:00Z")
	require.NoError(t, err)
	sessions, err := a.Sessions.ListByTask(context.Background(), task.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	_, err = executeCmd(t, a, "session", "update", itoa(sessions[0].ID), "--start", "2025-03-09T12:10:00Z")
	require.NoError(t, err)

	active, err := a.Sessions.ActiveSession(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Nil(t, active)
	sessions, err = a.Sessions.ListByTask(context.Background(), task.ID)
	require.NoError(t, err)
	mins, ok := sessions[0].DurationMinutes()
	require.True(t, ok)
	assert.Equal(t, 30, mins)
}

func TestParseID(t *testing.T) {
	id, err := parseID("task", "#42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseID("task", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task")
}

// --- Money ---

func TestFinanceAndLedgerCmds(t *testing.T) {
	a := testApp(t)
	seedProject(t, a, "Home")

	out, err := executeCmd(t, a, "finance", "add", "--project", "Home", "--title", "Rent",
		"--amount", "950", "--currency", "eur")
	require.NoError(t, err)
	assert.Contains(t, out, "Created finance Rent")

	out, err = executeCmd(t, a, "finance", "list", "--project", "Home")
	require.NoError(t, err)
	assert.Contains(t, out, "Rent")
	assert.Contains(t, out, "EUR")

	_, err = executeCmd(t, a, "ledger", "execute", "1", "--date", "2025-03-01T12:00:00Z")
	require.NoError(t, err)
	_, err = executeCmd(t, a, "ledger", "record", "--project", "Home", "--amount", "-42.5",
		"--currency", "EUR", "--date", "2025-03-02T12:00:00Z")
	require.NoError(t, err)
	_, err = executeCmd(t, a, "ledger", "record", "--project", "Home", "--amount", "10",
		"--currency", "USD", "--date", "2025-03-03T12:00:00Z")
	require.NoError(t, err)

	out, err = executeCmd(t, a, "ledger", "sum", "--project", "Home", "--currency", "EUR")
	require.NoError(t, err)
	assert.Contains(t, out, "907.50")

	out, err = executeCmd(t, a, "ledger", "list", "--project", "Home", "--size", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "page 1 of 2 (3 total)")
	assert.Contains(t, out, "2025-03-03")
	assert.NotContains(t, out, "2025-03-01")

	out, err = executeCmd(t, a, "ledger", "totals", "--project", "Home")
	require.NoError(t, err)
	assert.Contains(t, out, "EUR")
	assert.Contains(t, out, "USD")
}

func TestLedgerCmd_RecordUnknownCurrency(t *testing.T) {
	a := testApp(t)
	seedProject(t, a, "Home")

	_, err := executeCmd(t, a, "ledger", "record", "--project", "Home", "--amount", "1", "--currency", "XYZ")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedgerCmd_ListPageZero(t *testing.T) {
	a := testApp(t)
	seedProject(t, a, "Home")

	_, err := executeCmd(t, a, "ledger", "list", "--project", "Home", "--page", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// --- Notes ---

func TestNoteCmds(t *testing.T) {
	a := testApp(t)
	seedProject(t, a, "Kitchen")

	out, err := executeCmd(t, a, "note", "add", "--project", "Kitchen", "--title", "Omelette",
		"--content", "# Steps\nBeat the **eggs**.")
	require.NoError(t, err)
	assert.Contains(t, out, "Created note Omelette")

	_, err = executeCmd(t, a, "note", "add", "--project", "Kitchen", "--title", "Bread", "--content", "Flour and water.")
	require.NoError(t, err)

	out, err = executeCmd(t, a, "note", "search", "eggs", "--project", "Kitchen")
	require.NoError(t, err)
	assert.Contains(t, out, "Omelette")
	assert.NotContains(t, out, "Bread")
	assert.Contains(t, out, "Beat the eggs.")

	_, err = executeCmd(t, a, "note", "update", "1", "--title", "Cheese omelette")
	require.NoError(t, err)

	out, err = executeCmd(t, a, "note", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Cheese omelette")
	assert.Contains(t, out, "Beat the **eggs**.")

	_, err = executeCmd(t, a, "note", "remove", "1")
	require.NoError(t, err)
	_, err = executeCmd(t, a, "note", "show", "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteCmd_TitleTooLong(t *testing.T) {
	a := testApp(t)
	seedProject(t, a, "Kitchen")

	_, err := executeCmd(t, a, "note", "add", "--project", "Kitchen", "--title", strings.Repeat("x", 101))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
