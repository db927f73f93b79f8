package mapping_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/utils/mapping"
)

func TestJournalLine_UnfrozenAmountsAreNull(t *testing.T) {
	draft := domain.JournalLine{LineID: "l1", Debit: decimal.RequireFromString("10")}
	m := mapping.ToModelJournalLine(draft)
	assert.False(t, m.FunctionalDebit.Valid)
	assert.False(t, m.FunctionalCredit.Valid)
	assert.False(t, m.Memo.Valid)

	back := mapping.ToDomainJournalLine(m)
	assert.True(t, back.FunctionalDebit.IsZero())
	assert.True(t, back.Debit.Equal(draft.Debit))
}

func TestJournalLine_FrozenAmountsKeepZeroSide(t *testing.T) {
	posted := domain.JournalLine{
		LineID:          "l1",
		Debit:           decimal.RequireFromString("10"),
		FunctionalDebit: decimal.RequireFromString("11"),
		Dimensions:      domain.Dimensions{CostCenter: "ops"},
		Memo:            "rent",
	}
	m := mapping.ToModelJournalLine(posted)
	assert.True(t, m.FunctionalDebit.Valid)
	assert.True(t, m.FunctionalCredit.Valid)
	assert.True(t, m.FunctionalCredit.Decimal.IsZero())
	assert.Equal(t, "ops", m.CostCenter)

	back := mapping.ToDomainJournalLine(m)
	assert.Equal(t, "rent", back.Memo)
	assert.Equal(t, "ops", back.Dimensions.CostCenter)
}

func TestJournalHeader_NullableFields(t *testing.T) {
	draft := domain.JournalHeader{
		HeaderID:     "h1",
		DocumentDate: time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		PostingDate:  time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		Status:       domain.Draft,
		Origin:       domain.OriginManual,
	}
	m := mapping.ToModelJournalHeader(draft)
	assert.False(t, m.ExchangeRate.Valid)
	assert.False(t, m.ApprovedAt.Valid)
	assert.False(t, m.ReversalOfID.Valid)

	back := mapping.ToDomainJournalHeader(m, nil)
	assert.Nil(t, back.ApprovedAt)
	assert.Empty(t, back.Lines)
	assert.Equal(t, domain.Draft, back.Status)
	assert.True(t, back.PostingDate.Equal(draft.PostingDate))
}

func TestAccountingPeriod_ClosedFields(t *testing.T) {
	closedAt := time.Date(2024, time.February, 1, 9, 0, 0, 0, time.UTC)
	p := domain.AccountingPeriod{PeriodID: "p1", Status: domain.PeriodClosed, ClosedBy: "user-1", ClosedAt: &closedAt}

	back := mapping.ToDomainAccountingPeriod(mapping.ToModelAccountingPeriod(p))
	assert.Equal(t, "user-1", back.ClosedBy)
	assert.Equal(t, closedAt, *back.ClosedAt)
}
