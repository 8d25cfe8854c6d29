package cli

import (
	"io"
	"time"

	"github.com/nodusapp/nodus/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects   service.ProjectService
	Currencies service.CurrencyService
	Habits     service.HabitService
	Tasks      service.TaskService
	Sessions   service.SessionService
	Ledger     service.LedgerService
	Finances   service.FinanceService
	Notes      service.NoteService

	// PageSize is the default for paginated listings.
	PageSize int
	// Now is the reference time for relative dates. Defaults to time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) pageSize() int {
	if a.PageSize > 0 {
		return a.PageSize
	}
	return 20
}

// NewRootCmd creates the top-level "nodus" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "nodus",
		Short:         "Habits, tasks, time tracking and a money ledger per project",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newCurrencyCmd(app),
		newHabitCmd(app),
		newTaskCmd(app),
		newSessionCmd(app),
		newFinanceCmd(app),
		newLedgerCmd(app),
		newNoteCmd(app),
	)

	return root
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
