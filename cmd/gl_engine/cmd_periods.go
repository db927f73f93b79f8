package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"github.com/google/subcommands"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/platform/logging"
)

// resolvePeriod accepts either a period id or a period name such as 2024-01.
func resolvePeriod(ctx context.Context, e *engine, tenantID, ref string) (*domain.AccountingPeriod, error) {
	periods, err := e.services.Period.ListPeriods(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for i := range periods {
		if periods[i].PeriodID == ref || periods[i].Name == ref {
			return &periods[i], nil
		}
	}
	return nil, fmt.Errorf("%w: period %s", apperrors.ErrNotFound, ref)
}

type createFiscalYearCmd struct {
	app *app
	jobFlags
	name   string
	start  string
	months int
}

func (*createFiscalYearCmd) Name() string     { return "create-fiscal-year" }
func (*createFiscalYearCmd) Synopsis() string { return "create a fiscal year and its monthly periods" }
func (*createFiscalYearCmd) Usage() string {
	return `gl_engine create-fiscal-year -tenant <id> -name <FY2024> -start <YYYY-MM-DD> [-months 12]

  Creates the fiscal year and one FUTURE period per month.
`
}

func (c *createFiscalYearCmd) SetFlags(f *flag.FlagSet) {
	c.jobFlags.register(f)
	f.StringVar(&c.name, "name", "", "Fiscal year name (required).")
	f.StringVar(&c.start, "start", "", "First day of the fiscal year (required).")
	f.IntVar(&c.months, "months", 12, "Number of monthly periods.")
}

func (c *createFiscalYearCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.validate(); err != nil {
		return usageError(err)
	}
	start, err := domain.ParseDate(c.start)
	if err != nil {
		return usageError(fmt.Errorf("invalid -start: %w", err))
	}

	ctx, e, err := c.app.start(ctx, c.Name(), c.tenantID)
	if err != nil {
		return finish(ctx, err)
	}
	defer e.close()

	req := dto.CreateFiscalYearRequest{
		TenantID:  c.tenantID,
		Name:      c.name,
		StartDate: start,
		Months:    c.months,
		CreatedBy: c.actor,
	}
	var periods []domain.AccountingPeriod
	err = e.inTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		_, periods, err = e.services.Period.CreateFiscalYear(ctx, tx, req)
		return err
	})
	if err == nil {
		err = printJSON(periods)
	}
	return finish(ctx, err)
}

type openPeriodCmd struct {
	app *app
	jobFlags
	period string
}

func (*openPeriodCmd) Name() string     { return "open-period" }
func (*openPeriodCmd) Synopsis() string { return "open a FUTURE accounting period" }
func (*openPeriodCmd) Usage() string {
	return `gl_engine open-period -tenant <id> -period <YYYY-MM|id>

  Opens the period. Earlier periods of the fiscal year must be closed.
`
}

func (c *openPeriodCmd) SetFlags(f *flag.FlagSet) {
	c.jobFlags.register(f)
	f.StringVar(&c.period, "period", "", "Period name or id (required).")
}

func (c *openPeriodCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.validate(); err != nil {
		return usageError(err)
	}
	if c.period == "" {
		return usageError(fmt.Errorf("-period is required"))
	}

	ctx, e, err := c.app.start(ctx, c.Name(), c.tenantID)
	if err != nil {
		return finish(ctx, err)
	}
	defer e.close()

	target, err := resolvePeriod(ctx, e, c.tenantID, c.period)
	if err != nil {
		return finish(ctx, err)
	}
	var opened *domain.AccountingPeriod
	err = e.inTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		opened, err = e.services.Period.OpenPeriod(ctx, tx, c.tenantID, target.PeriodID, c.actor)
		return err
	})
	if err == nil {
		err = printJSON(opened)
	}
	return finish(ctx, err)
}

type closePeriodCmd struct {
	app *app
	jobFlags
	period string
}

func (*closePeriodCmd) Name() string     { return "close-period" }
func (*closePeriodCmd) Synopsis() string { return "run the period-end close" }
func (*closePeriodCmd) Usage() string {
	return `gl_engine close-period -tenant <id> -period <YYYY-MM|id>

  Posts accruals and their reversals, zeroes revenue and expense accounts into
  retained earnings and marks the period CLOSED. Nothing is kept on failure.
`
}

func (c *closePeriodCmd) SetFlags(f *flag.FlagSet) {
	c.jobFlags.register(f)
	f.StringVar(&c.period, "period", "", "Period name or id (required).")
}

func (c *closePeriodCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.validate(); err != nil {
		return usageError(err)
	}
	if c.period == "" {
		return usageError(fmt.Errorf("-period is required"))
	}

	ctx, e, err := c.app.start(ctx, c.Name(), c.tenantID)
	if err != nil {
		return finish(ctx, err)
	}
	defer e.close()

	target, err := resolvePeriod(ctx, e, c.tenantID, c.period)
	if err != nil {
		return finish(ctx, err)
	}
	var result *domain.CloseResult
	err = e.inTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		result, err = e.services.Closing.ClosePeriod(ctx, tx, c.tenantID, target.PeriodID, c.actor)
		return err
	})
	if err == nil {
		logging.FromContext(ctx).Info("Period closed",
			slog.String("period", result.Period.Name),
			slog.String("net_income", result.NetIncome.String()),
			slog.Int("accruals", len(result.AccrualHeaderIDs)))
		err = printJSON(result)
	}
	return finish(ctx, err)
}
