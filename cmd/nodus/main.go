package main

import (
	"fmt"
	"os"

	"github.com/nodusapp/nodus/internal/app"
	"github.com/nodusapp/nodus/internal/cli"
	"github.com/nodusapp/nodus/internal/config"
	"github.com/nodusapp/nodus/internal/db"
	"github.com/nodusapp/nodus/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	svcs, err := app.New(database, cfg, logger)
	if err != nil {
		return err
	}

	rootCmd := cli.NewRootCmd(&cli.App{
		Projects:   svcs.Projects,
		Currencies: svcs.Currencies,
		Habits:     svcs.Habits,
		Tasks:      svcs.Tasks,
		Sessions:   svcs.Sessions,
		Ledger:     svcs.Ledger,
		Finances:   svcs.Finances,
		Notes:      svcs.Notes,
		PageSize:   cfg.PageSize,
	})
	return rootCmd.Execute()
}
