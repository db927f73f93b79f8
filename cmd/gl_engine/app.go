package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"github.com/SscSPs/general_ledger/internal/adapters/audit"
	"github.com/SscSPs/general_ledger/internal/adapters/database/pgsql"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/core/policy"
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/platform/config"
	"github.com/SscSPs/general_ledger/internal/platform/logging"
	"github.com/SscSPs/general_ledger/internal/platform/retry"
	"github.com/SscSPs/general_ledger/pkg/database"
)

// app is shared by every command. The database and the broker are only
// connected once a command actually runs.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

// engine is the wired ledger for one job.
type engine struct {
	txm      portsrepo.TransactionManager
	services *portssvc.ServiceContainer
	retryFor func(ctx context.Context, op func(ctx context.Context) error) error
	closers  []func()
}

// jobFlags are accepted by every ledger command.
type jobFlags struct {
	tenantID string
	actor    string
}

func (j *jobFlags) register(f *flag.FlagSet) {
	f.StringVar(&j.tenantID, "tenant", "", "Tenant the job runs for (required).")
	f.StringVar(&j.actor, "actor", defaultActor(), "Actor recorded on every change.")
}

func (j *jobFlags) validate() error {
	if j.tenantID == "" {
		return fmt.Errorf("-tenant is required")
	}
	if j.actor == "" {
		return fmt.Errorf("-actor is required")
	}
	return nil
}

func defaultActor() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "gl_engine"
}

// start opens a job-scoped logger and connects the engine.
func (a *app) start(ctx context.Context, command, tenantID string) (context.Context, *engine, error) {
	ctx, jobLogger := logging.StartJob(ctx, a.logger, command, tenantID)
	jobLogger.Info("Job started")

	pool, err := database.NewPgxPool(ctx, a.cfg.DatabaseURL, a.cfg.DBMaxConns, a.cfg.EnableDBCheck)
	if err != nil {
		return ctx, nil, err
	}
	e := &engine{txm: pgsql.NewTxManager(pool)}
	e.closers = append(e.closers, func() { database.ClosePgxPool(pool) })

	sink, err := a.auditSink(e, jobLogger)
	if err != nil {
		e.close()
		return ctx, nil, err
	}

	e.services = services.NewContainer(e.txm, services.ContainerConfig{
		Closing: services.ClosingConfig{
			FunctionalCurrency:            a.cfg.FunctionalCurrency,
			RetainedEarningsAccountCode:   a.cfg.RetainedEarningsAccountCode,
			AccruedLiabilitiesAccountCode: a.cfg.AccruedLiabilitiesAccountCode,
		},
		AccrualPolicy: a.accrualPolicy(),
		AuditSink:     sink,
	})
	e.retryFor = func(ctx context.Context, op func(ctx context.Context) error) error {
		return retry.OnStorageUnavailable(ctx, a.cfg.StorageRetryMaxElapsed, op)
	}
	return ctx, e, nil
}

func (a *app) auditSink(e *engine, logger *slog.Logger) (portssvc.AuditSink, error) {
	if a.cfg.AuditSink != config.AuditSinkAMQP {
		return audit.NewLogSink(logger), nil
	}
	conn, err := audit.Dial(a.cfg.AMQPURL)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, func() {
		if err := conn.Close(); err != nil {
			logger.Warn("Failed to close broker connection", slog.String("error", err.Error()))
		}
	})
	return audit.NewAMQPSink(conn.Channel, a.cfg.AuditExchange)
}

func (a *app) accrualPolicy() portssvc.AccrualPolicy {
	if !a.cfg.AccrualEnabled {
		return policy.None{}
	}
	return policy.Concentration{
		WindowDays:             a.cfg.AccrualWindowDays,
		ConcentrationThreshold: a.cfg.AccrualConcentrationThreshold,
		AccrualRatio:           a.cfg.AccrualRatio,
		AccountCodes:           a.cfg.AccrualAccountCodes,
	}
}

// inTx runs fn in one serializable transaction, retried while storage is unavailable.
func (e *engine) inTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	return e.retryFor(ctx, func(ctx context.Context) error {
		return e.txm.WithTx(ctx, portsrepo.TxOptions{Isolation: portsrepo.Serializable}, fn)
	})
}

func (e *engine) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// finish logs the outcome of a job and maps it to an exit status.
func finish(ctx context.Context, err error) subcommands.ExitStatus {
	logger := logging.FromContext(ctx)
	if err != nil {
		logger.Error("Job failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	logger.Info("Job finished")
	return subcommands.ExitSuccess
}

func usageError(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitUsageError
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
