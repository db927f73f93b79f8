package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/subcommands"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/platform/logging"
)

type trialBalanceCmd struct {
	app *app
	jobFlags
	asOf string
}

func (*trialBalanceCmd) Name() string     { return "trial-balance" }
func (*trialBalanceCmd) Synopsis() string { return "print the trial balance" }
func (*trialBalanceCmd) Usage() string {
	return `gl_engine trial-balance -tenant <id> [-as-of <YYYY-MM-DD>]

  Prints every account with posted activity up to the date, in the functional
  currency. Exits non-zero if debits and credits differ.
`
}

func (c *trialBalanceCmd) SetFlags(f *flag.FlagSet) {
	c.jobFlags.register(f)
	f.StringVar(&c.asOf, "as-of", "", "Report date. Defaults to today.")
}

func (c *trialBalanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.validate(); err != nil {
		return usageError(err)
	}
	asOf, err := dateOrToday(c.asOf)
	if err != nil {
		return usageError(fmt.Errorf("invalid -as-of: %w", err))
	}

	ctx, e, err := c.app.start(ctx, c.Name(), c.tenantID)
	if err != nil {
		return finish(ctx, err)
	}
	defer e.close()

	var tb *domain.TrialBalance
	err = e.retryFor(ctx, func(ctx context.Context) error {
		tb, err = e.services.Reporting.TrialBalance(ctx, c.tenantID, asOf)
		return err
	})
	if tb != nil {
		if perr := printJSON(tb); perr != nil && err == nil {
			err = perr
		}
	}
	if err == nil {
		logging.FromContext(ctx).Info("Trial balance",
			slog.String("total_debit", tb.TotalDebit.String()),
			slog.String("total_credit", tb.TotalCredit.String()),
			slog.Int("accounts", len(tb.Rows)))
	}
	return finish(ctx, err)
}

type accountLedgerCmd struct {
	app *app
	jobFlags
	account string
	limit   int
	token   string
}

func (*accountLedgerCmd) Name() string     { return "account-ledger" }
func (*accountLedgerCmd) Synopsis() string { return "list the posted lines of an account" }
func (*accountLedgerCmd) Usage() string {
	return `gl_engine account-ledger -tenant <id> -account <code> [-limit 50] [-token <next>]

  Lists posted lines newest first. Pass the printed nextToken to get the next page.
`
}

func (c *accountLedgerCmd) SetFlags(f *flag.FlagSet) {
	c.jobFlags.register(f)
	f.StringVar(&c.account, "account", "", "Account code (required).")
	f.IntVar(&c.limit, "limit", 50, "Page size.")
	f.StringVar(&c.token, "token", "", "Next page token from a previous call.")
}

func (c *accountLedgerCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.validate(); err != nil {
		return usageError(err)
	}
	if c.account == "" {
		return usageError(fmt.Errorf("-account is required"))
	}

	ctx, e, err := c.app.start(ctx, c.Name(), c.tenantID)
	if err != nil {
		return finish(ctx, err)
	}
	defer e.close()

	params := dto.ListAccountEntriesParams{Limit: c.limit}
	if c.token != "" {
		params.NextToken = &c.token
	}
	var page *dto.ListAccountEntriesResponse
	err = e.retryFor(ctx, func(ctx context.Context) error {
		account, err := e.services.Account.GetAccountByCode(ctx, c.tenantID, c.account)
		if err != nil {
			return err
		}
		if page, err = e.services.Reporting.AccountLedger(ctx, c.tenantID, account.AccountID, params); err != nil {
			return err
		}
		return nil
	})
	if err == nil {
		err = printJSON(page)
	}
	return finish(ctx, err)
}

func dateOrToday(s string) (time.Time, error) {
	if s == "" {
		return domain.DateOf(time.Now()), nil
	}
	return domain.ParseDate(s)
}
