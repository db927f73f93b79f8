package domain

import "github.com/shopspring/decimal"

// AccrualInput is what an accrual policy sees when a period is being closed.
type AccrualInput struct {
	TenantID           string
	Period             AccountingPeriod
	FunctionalCurrency string
	ExpenseAccounts    []Account
	// PeriodActivity holds the whole-period activity of each expense account.
	PeriodActivity map[string]AccountActivity
}

// AccrualProposal asks the closing service to accrue Amount against an expense account.
type AccrualProposal struct {
	ExpenseAccountID string
	Amount           decimal.Decimal // Functional currency, positive
	Description      string
}

// CloseResult summarises a completed period close.
type CloseResult struct {
	Period                   AccountingPeriod `json:"period"`
	AccrualHeaderIDs         []string         `json:"accrualHeaderIDs"`
	AccrualReversalHeaderIDs []string         `json:"accrualReversalHeaderIDs"`
	ClosingHeaderID          string           `json:"closingHeaderID,omitempty"` // Empty when the period had no revenue/expense activity
	NetIncome                decimal.Decimal  `json:"netIncome"`
}
