package cli

import (
	"fmt"

	"github.com/nodusapp/nodus/internal/cli/formatter"
	"github.com/nodusapp/nodus/internal/domain"
	"github.com/spf13/cobra"
)

func newFinanceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finance",
		Short: "Manage planned money records",
	}

	cmd.AddCommand(
		newFinanceAddCmd(app),
		newFinanceListCmd(app),
		newFinanceRemoveCmd(app),
	)

	return cmd
}

func newFinanceAddCmd(app *App) *cobra.Command {
	var (
		project, title, currency string
		amount                   float64
		task, habit              int64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a finance record",
		Example: `  nodus finance add --project Home --title Rent --amount 950 --currency EUR
  nodus finance add --project Health --title "Gym fee" --amount 30 --currency USD --habit 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			currencyID, err := resolveCurrencyID(ctx, app, currency)
			if err != nil {
				return err
			}
			in := domain.FinanceInput{
				ProjectID:  projectID,
				Title:      title,
				Amount:     amount,
				CurrencyID: currencyID,
			}
			if cmd.Flags().Changed("task") {
				in.TaskID = &task
			}
			if cmd.Flags().Changed("habit") {
				in.HabitID = &habit
			}
			f, err := app.Finances.Create(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Created finance %s %s\n", f.Title, formatter.FormatID(f.ID))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&project, "project", "", "Project id or name")
	flags.StringVar(&title, "title", "", "Finance title")
	flags.Float64Var(&amount, "amount", 0, "Planned amount (positive)")
	flags.StringVar(&currency, "currency", "", "ISO 4217 currency code")
	flags.Int64Var(&task, "task", 0, "Task id to link")
	flags.Int64Var(&habit, "habit", 0, "Habit id to link")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("currency")

	return cmd
}

func newFinanceListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's finance records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			finances, err := app.Finances.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			currencies, err := app.Currencies.List(ctx)
			if err != nil {
				return err
			}
			codes := make(map[int64]string, len(currencies))
			for _, c := range currencies {
				codes[c.ID] = c.Code
			}
			fmt.Fprintln(out(cmd), formatter.FormatFinanceList(finances, codes))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project id or name")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newFinanceRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove FINANCE",
		Short: "Remove a finance record; ledger entries are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("finance", args[0])
			if err != nil {
				return err
			}
			if err := app.Finances.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Removed finance %s\n", formatter.FormatID(id))
			return nil
		},
	}
}
