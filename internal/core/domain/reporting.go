package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountActivity aggregates functional debits and credits of one account.
type AccountActivity struct {
	AccountID   string          `json:"accountID"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
}

// Net returns debit minus credit.
func (a AccountActivity) Net() decimal.Decimal {
	return a.DebitTotal.Sub(a.CreditTotal)
}

// IsZero reports whether the account had no activity at all.
func (a AccountActivity) IsZero() bool {
	return a.DebitTotal.IsZero() && a.CreditTotal.IsZero()
}

// ActivityFilter selects balance-affecting lines by posting date (inclusive bounds).
type ActivityFilter struct {
	From       *time.Time // Nil means since inception
	To         time.Time
	AccountIDs []string // Empty means all accounts
}

// TrialBalanceRow represents a single row in a trial balance report.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
}

// TrialBalance proves that total debits equal total credits as of a date.
type TrialBalance struct {
	TenantID    string            `json:"tenantID"`
	AsOf        time.Time         `json:"asOf"`
	Currency    string            `json:"currency"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// Balanced reports whether the debit and credit totals are exactly equal.
func (tb TrialBalance) Balanced() bool {
	return tb.TotalDebit.Equal(tb.TotalCredit)
}

// LedgerEntry is one balance-affecting line as seen from its account.
type LedgerEntry struct {
	HeaderID         string          `json:"headerID"`
	LineID           string          `json:"lineID"`
	PostingDate      time.Time       `json:"postingDate"`
	Description      string          `json:"description"`
	FunctionalDebit  decimal.Decimal `json:"functionalDebit"`
	FunctionalCredit decimal.Decimal `json:"functionalCredit"`
	CreatedAt        time.Time       `json:"createdAt"`
}
