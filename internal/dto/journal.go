package dto

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineRequest is one requested journal line. Exactly one of Debit and Credit must be
// set and positive.
type LineRequest struct {
	AccountID  string            `json:"accountID"`
	Debit      decimal.Decimal   `json:"debit"`
	Credit     decimal.Decimal   `json:"credit"`
	Dimensions domain.Dimensions `json:"dimensions"`
	Memo       string            `json:"memo" validate:"max=255"`
}

// CreateDraftRequest defines the data needed to create a draft journal header.
type CreateDraftRequest struct {
	TenantID     string        `json:"tenantID" validate:"required"`
	DocumentDate time.Time     `json:"documentDate" validate:"required"`
	PostingDate  *time.Time    `json:"postingDate,omitempty"` // Defaults to DocumentDate
	CurrencyCode string        `json:"currencyCode" validate:"required,len=3,uppercase"`
	Description  string        `json:"description" validate:"required,max=500"`
	Reference    string        `json:"reference" validate:"max=100"`
	CreatedBy    string        `json:"createdBy" validate:"required"`
	Lines        []LineRequest `json:"lines" validate:"dive"`
}

// SystemEntryRequest is a header generated by the engine itself (closing entries,
// accruals and their reversals). Amounts are in the functional currency.
type SystemEntryRequest struct {
	TenantID     string             `validate:"required"`
	PostingDate  time.Time          `validate:"required"`
	Description  string             `validate:"required,max=500"`
	Reference    string             `validate:"max=100"`
	Origin       domain.EntryOrigin `validate:"required"`
	ReversalOfID string
	Actor        string `validate:"required"`
	Lines        []LineRequest
}

// Line builders used by the closing workflow.

// DebitLine returns a debit line request.
func DebitLine(accountID string, amount decimal.Decimal, memo string) LineRequest {
	return LineRequest{AccountID: accountID, Debit: amount, Memo: memo}
}

// CreditLine returns a credit line request.
func CreditLine(accountID string, amount decimal.Decimal, memo string) LineRequest {
	return LineRequest{AccountID: accountID, Credit: amount, Memo: memo}
}
