package policy_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/core/policy"
)

type MockActivityReader struct {
	mock.Mock
}

func (m *MockActivityReader) SumActivity(ctx context.Context, tenantID string, filter domain.ActivityFilter) ([]domain.AccountActivity, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountActivity), args.Error(1)
}

func (m *MockActivityReader) ListAccountEntries(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, tenantID, accountID, limit, nextToken)
	return args.Get(0).([]domain.LedgerEntry), nil, args.Error(2)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func january() domain.AccountingPeriod {
	return domain.AccountingPeriod{
		PeriodID:  "p-2024-01",
		TenantID:  "t1",
		Name:      "2024-01",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodClosing,
	}
}

func TestNone(t *testing.T) {
	proposals, err := policy.None{}.ProposeAccruals(context.Background(), nil, domain.AccrualInput{})
	assert.NoError(t, err)
	assert.Empty(t, proposals)
}

func TestConcentration_ProposesForConcentratedAccounts(t *testing.T) {
	reader := new(MockActivityReader)
	period := january()
	input := domain.AccrualInput{
		TenantID: "t1",
		Period:   period,
		ExpenseAccounts: []domain.Account{
			{AccountID: "util", Code: "6200", AccountType: domain.Expense},
			{AccountID: "rent", Code: "6100", AccountType: domain.Expense},
			{AccountID: "idle", Code: "6300", AccountType: domain.Expense},
		},
		PeriodActivity: map[string]domain.AccountActivity{
			"util": {AccountID: "util", DebitTotal: d("100.00")},
			"rent": {AccountID: "rent", DebitTotal: d("1000.00")},
		},
	}

	windowStart := time.Date(2024, 1, 27, 0, 0, 0, 0, time.UTC)
	reader.On("SumActivity", mock.Anything, "t1", mock.MatchedBy(func(f domain.ActivityFilter) bool {
		return f.From != nil && f.From.Equal(windowStart) && f.To.Equal(period.EndDate) && len(f.AccountIDs) == 2
	})).Return([]domain.AccountActivity{
		{AccountID: "util", DebitTotal: d("80.00")},
		{AccountID: "rent", DebitTotal: d("100.00")},
	}, nil).Once()

	p := policy.Concentration{WindowDays: 5, ConcentrationThreshold: d("0.5"), AccrualRatio: d("1")}
	proposals, err := p.ProposeAccruals(context.Background(), reader, input)
	require.NoError(t, err)

	require.Len(t, proposals, 1)
	assert.Equal(t, "util", proposals[0].ExpenseAccountID)
	assert.True(t, proposals[0].Amount.Equal(d("80.00")))
	reader.AssertExpectations(t)
}

func TestConcentration_RespectsAccountCodes(t *testing.T) {
	reader := new(MockActivityReader)
	input := domain.AccrualInput{
		TenantID:        "t1",
		Period:          january(),
		ExpenseAccounts: []domain.Account{{AccountID: "util", Code: "6200", AccountType: domain.Expense}},
		PeriodActivity:  map[string]domain.AccountActivity{"util": {AccountID: "util", DebitTotal: d("100.00")}},
	}

	p := policy.Concentration{WindowDays: 5, ConcentrationThreshold: d("0.5"), AccrualRatio: d("1"), AccountCodes: []string{"6100"}}
	proposals, err := p.ProposeAccruals(context.Background(), reader, input)
	require.NoError(t, err)
	assert.Empty(t, proposals)
	reader.AssertNotCalled(t, "SumActivity", mock.Anything, mock.Anything, mock.Anything)
}

func TestConcentration_RejectsEmptyWindow(t *testing.T) {
	_, err := policy.Concentration{}.ProposeAccruals(context.Background(), nil, domain.AccrualInput{})
	assert.Error(t, err)
}
