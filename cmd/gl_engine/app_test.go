package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/general_ledger/internal/adapters/audit"
	"github.com/SscSPs/general_ledger/internal/adapters/database/memory"
	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/core/policy"
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/platform/config"
)

const testTenant = "tenant-1"

// memoryEngine wires the services over the in-memory store with a 2024 fiscal year
// and a two-account chart.
func memoryEngine(t *testing.T) *engine {
	t.Helper()
	store := memory.NewStore()
	e := &engine{
		txm:      store,
		services: services.NewContainer(store, services.ContainerConfig{
			Closing: services.ClosingConfig{
				FunctionalCurrency:          "USD",
				RetainedEarningsAccountCode: "3900",
			},
			AccrualPolicy: policy.None{},
			AuditSink:     audit.NewLogSink(nil),
		}),
		retryFor: func(ctx context.Context, op func(ctx context.Context) error) error { return op(ctx) },
	}

	err := e.inTx(context.Background(), func(ctx context.Context, tx portsrepo.LedgerTx) error {
		_, err := e.services.Account.SeedAccounts(ctx, tx, testTenant, "tester", []dto.CreateAccountRequest{
			{Code: "1000", Name: "Cash", AccountType: "ASSET"},
			{Code: "4000", Name: "Sales", AccountType: "REVENUE"},
		})
		if err != nil {
			return err
		}
		_, periods, err := e.services.Period.CreateFiscalYear(ctx, tx, dto.CreateFiscalYearRequest{
			TenantID: testTenant, Name: "FY2024", StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), Months: 12, CreatedBy: "tester",
		})
		if err != nil {
			return err
		}
		_, err = e.services.Period.OpenPeriod(ctx, tx, testTenant, periods[0].PeriodID, "tester")
		return err
	})
	require.NoError(t, err)
	return e
}

func TestResolvePeriod(t *testing.T) {
	ctx := context.Background()
	e := memoryEngine(t)

	byName, err := resolvePeriod(ctx, e, testTenant, "2024-03")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", byName.Name)

	byID, err := resolvePeriod(ctx, e, testTenant, byName.PeriodID)
	require.NoError(t, err)
	assert.Equal(t, byName.PeriodID, byID.PeriodID)

	_, err = resolvePeriod(ctx, e, testTenant, "2025-01")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostJournal_ResolvesAccountCodesAndPosts(t *testing.T) {
	ctx := context.Background()
	e := memoryEngine(t)
	cmd := &postJournalCmd{jobFlags: jobFlags{tenantID: testTenant, actor: "tester"}}

	entry := &journalEntry{
		DocumentDate: time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		Currency:     "USD",
		Description:  "Cash sale",
		Lines: []journalEntryLine{
			{AccountCode: "1000", Debit: decimal.RequireFromString("250.00")},
			{AccountCode: "4000", Credit: decimal.RequireFromString("250.00")},
		},
	}

	var posted *domain.JournalHeader
	err := e.inTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		req, err := cmd.draftRequest(ctx, tx, entry)
		if err != nil {
			return err
		}
		draft, err := e.services.Journal.CreateDraft(ctx, tx, req)
		if err != nil {
			return err
		}
		if _, err := e.services.Journal.Approve(ctx, tx, testTenant, draft.HeaderID, "tester"); err != nil {
			return err
		}
		posted, err = e.services.Journal.Post(ctx, tx, testTenant, draft.HeaderID, "tester")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Posted, posted.Status)

	tb, err := e.services.Reporting.TrialBalance(ctx, testTenant, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, tb.Balanced())
	assert.Equal(t, "250.00", tb.TotalDebit.StringFixed(2))
}

func TestPostJournal_UnknownAccountCode(t *testing.T) {
	ctx := context.Background()
	e := memoryEngine(t)
	cmd := &postJournalCmd{jobFlags: jobFlags{tenantID: testTenant, actor: "tester"}}
	entry := &journalEntry{Lines: []journalEntryLine{{AccountCode: "9999"}}}

	err := e.inTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		_, err := cmd.draftRequest(ctx, tx, entry)
		return err
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "line #1: account 9999")
}

func TestEngineInTx_UsesRetry(t *testing.T) {
	e := memoryEngine(t)
	calls := 0
	e.retryFor = func(ctx context.Context, op func(ctx context.Context) error) error {
		calls++
		return op(ctx)
	}
	boom := errors.New("boom")
	err := e.inTx(context.Background(), func(context.Context, portsrepo.LedgerTx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestAccrualPolicy(t *testing.T) {
	a := &app{cfg: &config.Config{AccrualEnabled: false}}
	assert.IsType(t, policy.None{}, a.accrualPolicy())

	a.cfg = &config.Config{
		AccrualEnabled:                true,
		AccrualWindowDays:             5,
		AccrualConcentrationThreshold: decimal.RequireFromString("0.5"),
		AccrualRatio:                  decimal.NewFromInt(1),
		AccrualAccountCodes:           []string{"6200"},
	}
	p, ok := a.accrualPolicy().(policy.Concentration)
	require.True(t, ok)
	assert.Equal(t, 5, p.WindowDays)
	assert.Equal(t, []string{"6200"}, p.AccountCodes)
}

func TestJobFlagsValidate(t *testing.T) {
	assert.Error(t, (&jobFlags{actor: "x"}).validate())
	assert.Error(t, (&jobFlags{tenantID: "t"}).validate())
	assert.NoError(t, (&jobFlags{tenantID: "t", actor: "x"}).validate())
}
