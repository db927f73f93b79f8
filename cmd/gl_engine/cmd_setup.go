package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"github.com/google/subcommands"

	"github.com/SscSPs/general_ledger/internal/adapters/chart"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/platform/logging"
)

type seedAccountsCmd struct {
	app *app
	jobFlags
	file string
}

func (*seedAccountsCmd) Name() string     { return "seed-accounts" }
func (*seedAccountsCmd) Synopsis() string { return "create the accounts of a YAML chart" }
func (*seedAccountsCmd) Usage() string {
	return `gl_engine seed-accounts -tenant <id> -f <chart.yaml>

  Creates every account of the chart that the tenant does not have yet.
  Accounts whose code already exists are left untouched.
`
}

func (c *seedAccountsCmd) SetFlags(f *flag.FlagSet) {
	c.jobFlags.register(f)
	f.StringVar(&c.file, "f", "", "Chart of accounts file (required).")
}

func (c *seedAccountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.validate(); err != nil {
		return usageError(err)
	}
	if c.file == "" {
		return usageError(fmt.Errorf("-f is required"))
	}
	reqs, err := chart.LoadFile(c.file)
	if err != nil {
		return usageError(err)
	}
	for i := range reqs {
		reqs[i].TenantID = c.tenantID
		reqs[i].CreatedBy = c.actor
	}

	ctx, e, err := c.app.start(ctx, c.Name(), c.tenantID)
	if err != nil {
		return finish(ctx, err)
	}
	defer e.close()

	var created int
	err = e.inTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		created, err = e.services.Account.SeedAccounts(ctx, tx, c.tenantID, c.actor, reqs)
		return err
	})
	if err == nil {
		logging.FromContext(ctx).Info("Chart seeded",
			slog.Int("created", created),
			slog.Int("listed", len(reqs)))
	}
	return finish(ctx, err)
}
