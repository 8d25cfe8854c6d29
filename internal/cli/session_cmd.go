package cli

import (
	"fmt"
	"time"

	"github.com/nodusapp/nodus/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Track time spent on tasks",
	}

	cmd.AddCommand(
		newSessionStartCmd(app),
		newSessionStopCmd(app),
		newSessionActiveCmd(app),
		newSessionLogCmd(app),
		newSessionUpdateCmd(app),
		newSessionListCmd(app),
		newSessionRemoveCmd(app),
	)

	return cmd
}

func newSessionStartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "start TASK",
		Short: "Start a session on a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			e, err := app.Sessions.Start(cmd.Context(), taskID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Started session %s on task %s\n", formatter.FormatID(e.ID), formatter.FormatID(taskID))
			return nil
		},
	}
}

func newSessionStopCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stop SESSION",
		Short: "Stop a running session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("session", args[0])
			if err != nil {
				return err
			}
			e, err := app.Sessions.Stop(cmd.Context(), id)
			if err != nil {
				return err
			}
			mins, _ := e.DurationMinutes()
			fmt.Fprintf(out(cmd), "Stopped session %s after %s\n", formatter.FormatID(e.ID), formatter.FormatMinutes(mins))
			return nil
		},
	}
}

func newSessionActiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "active TASK",
		Short: "Show the running session of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			e, err := app.Sessions.ActiveSession(cmd.Context(), taskID)
			if err != nil {
				return err
			}
			if e == nil {
				fmt.Fprintf(out(cmd), "No running session on task %s.\n", formatter.FormatID(taskID))
				return nil
			}
			fmt.Fprintf(out(cmd), "Session %s running since %s\n",
				formatter.FormatID(e.ID), formatter.HumanTimestamp(*e.StartTime, app.now()))
			return nil
		},
	}
}

func newSessionLogCmd(app *App) *cobra.Command {
	var (
		start   time.Time
		minutes int
	)
	startFlag := newTimeValue(&start)

	cmd := &cobra.Command{
		Use:   "log TASK",
		Short: "Record a finished session after the fact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			if minutes <= 0 {
				return fmt.Errorf("--minutes must be positive")
			}
			begin := app.now().Add(-time.Duration(minutes) * time.Minute)
			if p := startFlag.ptr(); p != nil {
				begin = *p
			}
			e, err := app.Sessions.Log(cmd.Context(), taskID, begin, begin.Add(time.Duration(minutes)*time.Minute))
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Logged %s session %s on task %s\n",
				formatter.FormatMinutes(minutes), formatter.FormatID(e.ID), formatter.FormatID(taskID))
			return nil
		},
	}

	cmd.Flags().IntVar(&minutes, "minutes", 0, "Session duration in minutes")
	cmd.Flags().Var(startFlag, "start", "Session start (defaults to minutes ago)")
	_ = cmd.MarkFlagRequired("minutes")

	return cmd
}

func newSessionUpdateCmd(app *App) *cobra.Command {
	var start, end time.Time
	startFlag, endFlag := newTimeValue(&start), newTimeValue(&end)

	cmd := &cobra.Command{
		Use:   "update SESSION",
		Short: "Correct a session's start or end time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("session", args[0])
			if err != nil {
				return err
			}
			e, err := app.Sessions.Update(cmd.Context(), id, startFlag.ptr(), endFlag.ptr())
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Updated session %s %s\n", formatter.FormatID(e.ID), formatter.SessionPill(e))
			return nil
		},
	}

	cmd.Flags().Var(startFlag, "start", "New start time")
	cmd.Flags().Var(endFlag, "end", "New end time")

	return cmd
}

func newSessionListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list TASK",
		Short: "List a task's sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			sessions, err := app.Sessions.ListByTask(cmd.Context(), taskID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatSessionList(sessions, app.now()))
			return nil
		},
	}
}

func newSessionRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove SESSION",
		Short: "Remove a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("session", args[0])
			if err != nil {
				return err
			}
			if err := app.Sessions.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Removed session %s\n", formatter.FormatID(id))
			return nil
		},
	}
}
