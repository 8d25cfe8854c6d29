package cli

import (
	"fmt"
	"time"

	"github.com/nodusapp/nodus/internal/cli/formatter"
	"github.com/nodusapp/nodus/internal/domain"
	"github.com/spf13/cobra"
)

func newLedgerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Record and inspect realized money movements",
	}

	cmd.AddCommand(
		newLedgerSumCmd(app),
		newLedgerListCmd(app),
		newLedgerTotalsCmd(app),
		newLedgerRecordCmd(app),
		newLedgerExecuteCmd(app),
		newLedgerRemoveCmd(app),
	)

	return cmd
}

func newLedgerSumCmd(app *App) *cobra.Command {
	var project, currency string

	cmd := &cobra.Command{
		Use:   "sum",
		Short: "Sum a project's ledger, optionally for one currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			var currencyID *int64
			symbol := ""
			if currency != "" {
				c, err := app.Currencies.GetByCode(ctx, currency)
				if err != nil {
					return err
				}
				currencyID, symbol = &c.ID, c.Symbol
			}
			sum, err := app.Ledger.SumByProject(ctx, projectID, currencyID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatAmount(sum, symbol))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project id or name")
	cmd.Flags().StringVar(&currency, "currency", "", "Only sum entries in this currency")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newLedgerListCmd(app *App) *cobra.Command {
	var (
		project        string
		page, pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ledger entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("size") {
				pageSize = app.pageSize()
			}
			lp, err := app.Ledger.ListByProjectPaginated(ctx, projectID, page, pageSize)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatLedgerPage(lp))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project id or name")
	cmd.Flags().IntVar(&page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&pageSize, "size", 0, "Entries per page")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newLedgerTotalsCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Show a project's ledger totals per currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			totals, err := app.Ledger.TotalsByCurrency(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatTotals(totals))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project id or name")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newLedgerRecordCmd(app *App) *cobra.Command {
	var (
		project, currency string
		amount            float64
		finance           int64
		date              time.Time
	)
	dateFlag := newTimeValue(&date)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a money movement (negative amounts are expenses)",
		Example: `  nodus ledger record --project Home --amount -42.5 --currency EUR --date 2025-03-01
  nodus ledger record --project Home --amount 950 --currency EUR --finance 3`,
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
			in := domain.FinanceExecutionInput{
				ProjectID:  projectID,
				Amount:     amount,
				CurrencyID: currencyID,
				Date:       app.now(),
			}
			if p := dateFlag.ptr(); p != nil {
				in.Date = *p
			}
			if cmd.Flags().Changed("finance") {
				in.FinanceID = &finance
			}
			fe, err := app.Ledger.Record(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Recorded %s %s\n", formatter.FormatAmount(fe.Amount, ""), formatter.FormatID(fe.ID))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&project, "project", "", "Project id or name")
	flags.Float64Var(&amount, "amount", 0, "Signed amount")
	flags.StringVar(&currency, "currency", "", "ISO 4217 currency code")
	flags.Var(dateFlag, "date", "Date of the movement (defaults to now)")
	flags.Int64Var(&finance, "finance", 0, "Finance record this realizes")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("currency")

	return cmd
}

func newLedgerExecuteCmd(app *App) *cobra.Command {
	var date time.Time
	dateFlag := newTimeValue(&date)

	cmd := &cobra.Command{
		Use:   "execute FINANCE",
		Short: "Record a finance record's amount in the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			financeID, err := parseID("finance", args[0])
			if err != nil {
				return err
			}
			at := app.now()
			if p := dateFlag.ptr(); p != nil {
				at = *p
			}
			fe, err := app.Ledger.Execute(cmd.Context(), financeID, at)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Recorded %s %s from finance %s\n",
				formatter.FormatAmount(fe.Amount, ""), formatter.FormatID(fe.ID), formatter.FormatID(financeID))
			return nil
		},
	}

	cmd.Flags().Var(dateFlag, "date", "Date of the movement (defaults to now)")
	return cmd
}

func newLedgerRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ENTRY",
		Short: "Remove a ledger entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("ledger entry", args[0])
			if err != nil {
				return err
			}
			if err := app.Ledger.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Removed ledger entry %s\n", formatter.FormatID(id))
			return nil
		},
	}
}
