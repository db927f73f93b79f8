package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalStatus_CanTransitionTo(t *testing.T) {
	statuses := []domain.JournalStatus{domain.Draft, domain.Approved, domain.Posted, domain.Reversed}
	allowed := map[[2]domain.JournalStatus]bool{
		{domain.Draft, domain.Approved}:  true,
		{domain.Approved, domain.Posted}: true,
		{domain.Posted, domain.Reversed}: true,
	}
	for _, from := range statuses {
		for _, to := range statuses {
			assert.Equal(t, allowed[[2]domain.JournalStatus{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestJournalStatus_AffectsBalances(t *testing.T) {
	assert.False(t, domain.Draft.AffectsBalances())
	assert.False(t, domain.Approved.AffectsBalances())
	assert.True(t, domain.Posted.AffectsBalances())
	assert.True(t, domain.Reversed.AffectsBalances())
}

func TestPeriodStatus_Transitions(t *testing.T) {
	assert.True(t, domain.PeriodFuture.CanTransitionTo(domain.PeriodOpen))
	assert.True(t, domain.PeriodOpen.CanTransitionTo(domain.PeriodClosing))
	assert.True(t, domain.PeriodClosing.CanTransitionTo(domain.PeriodClosed))

	assert.False(t, domain.PeriodClosing.CanTransitionTo(domain.PeriodOpen))
	assert.False(t, domain.PeriodClosed.CanTransitionTo(domain.PeriodOpen))
	assert.False(t, domain.PeriodFuture.CanTransitionTo(domain.PeriodClosed))
	assert.False(t, domain.PeriodOpen.CanTransitionTo(domain.PeriodClosed))
}

func TestPeriodStatus_Accepts(t *testing.T) {
	tests := []struct {
		status domain.PeriodStatus
		origin domain.EntryOrigin
		want   bool
	}{
		{domain.PeriodOpen, domain.OriginManual, true},
		{domain.PeriodOpen, domain.OriginReversal, true},
		{domain.PeriodClosing, domain.OriginManual, false},
		{domain.PeriodClosing, domain.OriginClosing, true},
		{domain.PeriodClosing, domain.OriginAccrual, true},
		{domain.PeriodFuture, domain.OriginManual, false},
		{domain.PeriodFuture, domain.OriginReversal, false},
		{domain.PeriodFuture, domain.OriginAccrualReversal, true},
		{domain.PeriodClosed, domain.OriginReversal, false},
		{domain.PeriodClosed, domain.OriginClosing, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.Accepts(tt.origin), "%s accepts %s", tt.status, tt.origin)
	}
}

func TestAccountType_NormalSide(t *testing.T) {
	assert.Equal(t, domain.Debit, domain.Asset.NormalSide())
	assert.Equal(t, domain.Debit, domain.Expense.NormalSide())
	assert.Equal(t, domain.Credit, domain.Liability.NormalSide())
	assert.Equal(t, domain.Credit, domain.Equity.NormalSide())
	assert.Equal(t, domain.Credit, domain.Revenue.NormalSide())

	_, err := domain.ParseAccountType("INCOME")
	assert.Error(t, err)
}

func TestCurrencyScale(t *testing.T) {
	usd, err := domain.CurrencyScale("USD")
	require.NoError(t, err)
	assert.Equal(t, int32(2), usd)

	jpy, err := domain.CurrencyScale("jpy")
	require.NoError(t, err)
	assert.Equal(t, int32(0), jpy)

	_, err = domain.CurrencyScale("XXZ")
	assert.Error(t, err)

	unit, err := domain.MinorUnit("USD")
	require.NoError(t, err)
	assert.True(t, unit.Equal(decimal.RequireFromString("0.01")))

	fits, err := domain.FitsCurrency(decimal.RequireFromString("10.005"), "USD")
	require.NoError(t, err)
	assert.False(t, fits)

	rounded, err := domain.RoundToCurrency(decimal.RequireFromString("10.005"), "USD")
	require.NoError(t, err)
	assert.Equal(t, "10.01", rounded.StringFixed(2))
}

func TestMonthlyPeriods(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	periods := domain.MonthlyPeriods("t1", "fy", start, 12)
	require.Len(t, periods, 12)

	assert.Equal(t, "2024-01", periods[0].Name)
	assert.Equal(t, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), periods[0].EndDate)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), periods[1].EndDate)
	assert.Equal(t, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), periods[11].EndDate)
	for i := 1; i < len(periods); i++ {
		assert.Equal(t, periods[i-1].EndDate.AddDate(0, 0, 1), periods[i].StartDate, "no gaps between periods")
		assert.Equal(t, domain.PeriodFuture, periods[i].Status)
	}

	jan := periods[0]
	assert.True(t, jan.Contains(time.Date(2024, time.January, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, jan.Contains(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, jan.EndDate, jan.Clamp(time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)))
}

func TestMonthlyPeriods_StartOnMonthEnd(t *testing.T) {
	start := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	periods := domain.MonthlyPeriods("t1", "fy", start, 4)
	require.Len(t, periods, 4)

	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }
	assert.Equal(t, day(time.January, 31), periods[0].StartDate)
	assert.Equal(t, day(time.February, 28), periods[0].EndDate)
	assert.Equal(t, day(time.February, 29), periods[1].StartDate)
	assert.Equal(t, day(time.March, 30), periods[1].EndDate)
	assert.Equal(t, day(time.March, 31), periods[2].StartDate)
	assert.Equal(t, day(time.April, 29), periods[2].EndDate)
	assert.Equal(t, day(time.April, 30), periods[3].StartDate)
	assert.Equal(t, day(time.May, 30), periods[3].EndDate)

	names := map[string]bool{}
	for i, p := range periods {
		assert.False(t, names[p.Name], "duplicate period name %s", p.Name)
		names[p.Name] = true
		assert.True(t, p.StartDate.Before(p.EndDate), "period %d is not forward", i)
		if i > 0 {
			assert.Equal(t, periods[i-1].EndDate.AddDate(0, 0, 1), p.StartDate, "no gaps or overlaps")
		}
	}
}

func TestJournalLine_Swapped(t *testing.T) {
	line := domain.JournalLine{
		AccountID:       "cash",
		Debit:           decimal.RequireFromString("100.00"),
		FunctionalDebit: decimal.RequireFromString("110.00"),
	}
	swapped := line.Swapped()
	assert.Equal(t, domain.Credit, swapped.Side())
	assert.True(t, swapped.Credit.Equal(line.Debit))
	assert.True(t, swapped.FunctionalCredit.Equal(line.FunctionalDebit))
	assert.True(t, swapped.Debit.IsZero())
	assert.Equal(t, domain.Debit, line.Side(), "original line is untouched")
}
