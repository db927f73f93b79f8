package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/SscSPs/general_ledger/internal/platform/config"
	"github.com/SscSPs/general_ledger/internal/platform/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&migrateCmd{app: a}, "setup")
	commander.Register(&seedAccountsCmd{app: a}, "setup")
	commander.Register(&createFiscalYearCmd{app: a}, "periods")
	commander.Register(&openPeriodCmd{app: a}, "periods")
	commander.Register(&closePeriodCmd{app: a}, "periods")
	commander.Register(&recordRateCmd{app: a}, "rates")
	commander.Register(&postJournalCmd{app: a}, "journal")
	commander.Register(&reverseJournalCmd{app: a}, "journal")
	commander.Register(&trialBalanceCmd{app: a}, "reports")
	commander.Register(&accountLedgerCmd{app: a}, "reports")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
