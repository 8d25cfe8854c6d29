package cli

import (
	"fmt"
	"time"

	"github.com/nodusapp/nodus/internal/cli/formatter"
	"github.com/nodusapp/nodus/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newHabitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage recurring habits",
	}

	cmd.AddCommand(
		newHabitAddCmd(app),
		newHabitListCmd(app),
		newHabitNextCmd(app),
		newHabitOccurrencesCmd(app),
		newHabitCalendarCmd(app),
		newHabitSpawnCmd(app),
		newHabitRemoveCmd(app),
	)

	return cmd
}

// planFlags are the goal and location flags shared by habits and tasks.
type planFlags struct {
	mode     domain.CompletionMode
	goal     int
	location string
	lat, lon float64
}

func (f *planFlags) register(flags *pflag.FlagSet) {
	flags.Var(&modeValue{mode: &f.mode}, "mode", "Completion mode: count or duration")
	flags.IntVar(&f.goal, "goal", 0, "Sessions (count) or minutes (duration) needed")
	flags.StringVar(&f.location, "location", "", "Location name")
	flags.Float64Var(&f.lat, "lat", 0, "Location latitude")
	flags.Float64Var(&f.lon, "lon", 0, "Location longitude")
}

func (f *planFlags) locationValue(flags *pflag.FlagSet) domain.Location {
	return domain.Location{
		Name: f.location,
		Lat:  optionalFloat(flags, "lat", f.lat),
		Lon:  optionalFloat(flags, "lon", f.lon),
	}
}

func newHabitAddCmd(app *App) *cobra.Command {
	var (
		project, title, rule string
		strict               bool
		dueMinutes           int
		begin                time.Time
		plan                 planFlags
	)
	beginFlag := newTimeValue(&begin)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a habit",
		Example: `  nodus habit add --project Health --title Stretch --rule "FREQ=WEEKLY;BYDAY=MO,WE,FR"
  nodus habit add --project Health --title Read --mode duration --goal 30 --rule FREQ=DAILY`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			h, err := app.Habits.Create(ctx, domain.HabitInput{
				ProjectID:      projectID,
				Title:          title,
				IsStrict:       strict,
				CompletionMode: plan.mode,
				CountGoal:      optionalInt(flags, "goal", plan.goal),
				DueMinutes:     optionalInt(flags, "due-minutes", dueMinutes),
				BeginAt:        beginFlag.ptr(),
				RecurrenceRule: rule,
				Location:       plan.locationValue(flags),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Created habit %s %s\n", h.Title, formatter.FormatID(h.ID))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&project, "project", "", "Project id or name")
	flags.StringVar(&title, "title", "", "Habit title")
	flags.StringVar(&rule, "rule", "", "RFC 5545 recurrence rule")
	flags.Var(beginFlag, "begin", "Series start (defaults to now)")
	flags.BoolVar(&strict, "strict", false, "Missed occurrences count against the habit")
	flags.IntVar(&dueMinutes, "due-minutes", 0, "Minutes after an occurrence the habit is due")
	plan.register(flags)
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newHabitListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's habits",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := resolveProjectID(cmd.Context(), app, project)
			if err != nil {
				return err
			}
			habits, err := app.Habits.ListByProject(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatHabitList(habits))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project id or name")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newHabitNextCmd(app *App) *cobra.Command {
	var from time.Time
	fromFlag := newTimeValue(&from)

	cmd := &cobra.Command{
		Use:   "next HABIT",
		Short: "Show when a habit is next due",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("habit", args[0])
			if err != nil {
				return err
			}
			at := app.now()
			if p := fromFlag.ptr(); p != nil {
				at = *p
			}
			s, err := app.Habits.NextOccurrence(cmd.Context(), id, at)
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatSchedule(s, app.now()))
			return nil
		},
	}

	cmd.Flags().Var(fromFlag, "from", "Reference time (defaults to now)")
	return cmd
}

func newHabitOccurrencesCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "occurrences HABIT",
		Short: "List a habit's first occurrences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("habit", args[0])
			if err != nil {
				return err
			}
			times, err := app.Habits.Occurrences(cmd.Context(), id, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatOccurrences(times))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum occurrences (defaults to the configured limit)")
	return cmd
}

func newHabitCalendarCmd(app *App) *cobra.Command {
	var (
		from, to time.Time
		days     int
	)
	fromFlag, toFlag := newTimeValue(&from), newTimeValue(&to)

	cmd := &cobra.Command{
		Use:   "calendar HABIT",
		Short: "List a habit's occurrences in a date range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("habit", args[0])
			if err != nil {
				return err
			}
			start := app.now()
			if p := fromFlag.ptr(); p != nil {
				start = *p
			}
			end := start.AddDate(0, 0, days)
			if p := toFlag.ptr(); p != nil {
				end = *p
			}
			times, err := app.Habits.Calendar(cmd.Context(), id, start, end)
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatOccurrences(times))
			return nil
		},
	}

	cmd.Flags().Var(fromFlag, "from", "Range start (defaults to now)")
	cmd.Flags().Var(toFlag, "to", "Range end (overrides --days)")
	cmd.Flags().IntVar(&days, "days", 7, "Range length in days from --from")

	return cmd
}

func newHabitSpawnCmd(app *App) *cobra.Command {
	var from time.Time
	fromFlag := newTimeValue(&from)

	cmd := &cobra.Command{
		Use:   "spawn HABIT",
		Short: "Create the task for a habit's next occurrence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("habit", args[0])
			if err != nil {
				return err
			}
			at := app.now()
			if p := fromFlag.ptr(); p != nil {
				at = *p
			}
			t, err := app.Habits.SpawnTask(cmd.Context(), id, at)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Task %s %s due %s\n",
				t.Title, formatter.FormatID(t.ID), t.DueDate.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().Var(fromFlag, "from", "Reference time (defaults to now)")
	return cmd
}

func newHabitRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove HABIT",
		Short: "Remove a habit; its tasks are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("habit", args[0])
			if err != nil {
				return err
			}
			if err := app.Habits.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Removed habit %s\n", formatter.FormatID(id))
			return nil
		},
	}
}
