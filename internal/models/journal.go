package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// JournalHeader is a row of the journal_headers table.
type JournalHeader struct {
	HeaderID       string              `db:"header_id"`
	TenantID       string              `db:"tenant_id"`
	PeriodID       string              `db:"period_id"`
	DocumentDate   time.Time           `db:"document_date"`
	PostingDate    time.Time           `db:"posting_date"`
	Reference      sql.NullString      `db:"reference"`
	Description    string              `db:"description"`
	CurrencyCode   string              `db:"currency_code"`
	ExchangeRate   decimal.NullDecimal `db:"exchange_rate"` // Null until posted
	Status         string              `db:"status"`
	Origin         string              `db:"origin"`
	ReversalOfID   sql.NullString      `db:"reversal_of_id"`
	ReversedByID   sql.NullString      `db:"reversed_by_id"`
	ReversalReason sql.NullString      `db:"reversal_reason"`
	ApprovedBy     sql.NullString      `db:"approved_by"`
	ApprovedAt     sql.NullTime        `db:"approved_at"`
	PostedBy       sql.NullString      `db:"posted_by"`
	PostedAt       sql.NullTime        `db:"posted_at"`
	AuditFields
}

// JournalLine is a row of the journal_lines table.
type JournalLine struct {
	LineID           string              `db:"line_id"`
	HeaderID         string              `db:"header_id"`
	LineNo           int                 `db:"line_no"`
	AccountID        string              `db:"account_id"`
	Debit            decimal.Decimal     `db:"debit"`
	Credit           decimal.Decimal     `db:"credit"`
	FunctionalDebit  decimal.NullDecimal `db:"functional_debit"` // Null until posted
	FunctionalCredit decimal.NullDecimal `db:"functional_credit"`
	CostCenter       string              `db:"cost_center"`
	Project          string              `db:"project"`
	Memo             sql.NullString      `db:"memo"`
}
