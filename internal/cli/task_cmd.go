package cli

import (
	"fmt"
	"time"

	"github.com/nodusapp/nodus/internal/cli/formatter"
	"github.com/nodusapp/nodus/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskUpdateCmd(app),
		newTaskProgressCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		project, title string
		habit          int64
		due            time.Time
		plan           planFlags
	)
	dueFlag := newTimeValue(&due)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			in := domain.TaskInput{
				ProjectID:      projectID,
				Title:          title,
				DueDate:        dueFlag.ptr(),
				CompletionMode: plan.mode,
				CountGoal:      optionalInt(flags, "goal", plan.goal),
				Location:       plan.locationValue(flags),
			}
			if flags.Changed("habit") {
				in.HabitID = &habit
			}
			t, err := app.Tasks.Create(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Created task %s %s\n", t.Title, formatter.FormatID(t.ID))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&project, "project", "", "Project id or name")
	flags.StringVar(&title, "title", "", "Task title")
	flags.Int64Var(&habit, "habit", 0, "Habit id the task belongs to")
	flags.Var(dueFlag, "due", "Due date")
	plan.register(flags)
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's tasks by due date",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := resolveProjectID(cmd.Context(), app, project)
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.ListByProject(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatTaskList(tasks, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project id or name")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var (
		title string
		due   time.Time
		plan  planFlags
	)
	dueFlag := newTimeValue(&due)

	cmd := &cobra.Command{
		Use:   "update TASK",
		Short: "Change a task's title, due date, goal or location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.GetByID(ctx, id)
			if err != nil {
				return err
			}

			goal := t.CountGoal
			in := domain.TaskInput{
				ProjectID:      t.ProjectID,
				HabitID:        t.HabitID,
				Title:          t.Title,
				DueDate:        t.DueDate,
				CompletionMode: t.CompletionMode,
				CountGoal:      &goal,
				Location:       t.Location,
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				in.Title = title
			}
			if p := dueFlag.ptr(); p != nil {
				in.DueDate = p
			}
			if flags.Changed("mode") {
				in.CompletionMode = plan.mode
			}
			if flags.Changed("goal") {
				in.CountGoal = &plan.goal
			}
			if flags.Changed("location") || flags.Changed("lat") || flags.Changed("lon") {
				in.Location = plan.locationValue(flags)
			}

			if _, err := app.Tasks.Update(ctx, id, in); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Updated task %s\n", formatter.FormatID(id))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&title, "title", "", "New title")
	flags.Var(dueFlag, "due", "New due date")
	plan.register(flags)

	return cmd
}

func newTaskProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress TASK",
		Short: "Show progress toward a task's goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			p, err := app.Tasks.Progress(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatTaskProgress(p))
			return nil
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove TASK",
		Short: "Remove a task and its sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Removed task %s\n", formatter.FormatID(id))
			return nil
		},
	}
}
