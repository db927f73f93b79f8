package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/dto"
)

type recordRateCmd struct {
	app *app
	jobFlags
	from string
	to   string
	rate string
	date string
}

func (*recordRateCmd) Name() string     { return "record-rate" }
func (*recordRateCmd) Synopsis() string { return "record an exchange rate" }
func (*recordRateCmd) Usage() string {
	return `gl_engine record-rate -tenant <id> -from EUR -to USD -rate 1.0837 -date <YYYY-MM-DD>

  Appends a rate. Rates are never updated; a second rate for the same pair and
  date is rejected.
`
}

func (c *recordRateCmd) SetFlags(f *flag.FlagSet) {
	c.jobFlags.register(f)
	f.StringVar(&c.from, "from", "", "Source currency (required).")
	f.StringVar(&c.to, "to", "", "Target currency (required).")
	f.StringVar(&c.rate, "rate", "", "Units of -to per unit of -from (required).")
	f.StringVar(&c.date, "date", "", "Effective date (required).")
}

func (c *recordRateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.validate(); err != nil {
		return usageError(err)
	}
	rate, err := decimal.NewFromString(c.rate)
	if err != nil {
		return usageError(fmt.Errorf("invalid -rate: %w", err))
	}
	date, err := domain.ParseDate(c.date)
	if err != nil {
		return usageError(fmt.Errorf("invalid -date: %w", err))
	}

	ctx, e, err := c.app.start(ctx, c.Name(), c.tenantID)
	if err != nil {
		return finish(ctx, err)
	}
	defer e.close()

	req := dto.RecordExchangeRateRequest{
		TenantID:         c.tenantID,
		FromCurrencyCode: strings.ToUpper(c.from),
		ToCurrencyCode:   strings.ToUpper(c.to),
		Rate:             rate,
		EffectiveDate:    date,
		CreatedBy:        c.actor,
	}
	var recorded *domain.ExchangeRate
	err = e.inTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		recorded, err = e.services.ExchangeRate.RecordRate(ctx, tx, req)
		return err
	})
	if err == nil {
		err = printJSON(recorded)
	}
	return finish(ctx, err)
}
