package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal header.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Approved JournalStatus = "APPROVED"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// CanTransitionTo is the header state machine: draft -> approved -> posted -> reversed.
func (s JournalStatus) CanTransitionTo(next JournalStatus) bool {
	switch s {
	case Draft:
		return next == Approved
	case Approved:
		return next == Posted
	case Posted:
		return next == Reversed
	case Reversed:
		return false
	}
	return false
}

// AffectsBalances reports whether lines of a header in this status count toward
// account balances. A reversed header still counts: its reversal offsets it.
func (s JournalStatus) AffectsBalances() bool {
	switch s {
	case Posted, Reversed:
		return true
	case Draft, Approved:
		return false
	}
	return false
}

// MustBalance reports whether debit == credit must hold in this status.
func (s JournalStatus) MustBalance() bool {
	return s != Draft
}

// EntryOrigin records who generated a header. Period gating depends on it.
type EntryOrigin string

const (
	OriginManual          EntryOrigin = "MANUAL"
	OriginReversal        EntryOrigin = "REVERSAL"
	OriginClosing         EntryOrigin = "CLOSING"
	OriginAccrual         EntryOrigin = "ACCRUAL"
	OriginAccrualReversal EntryOrigin = "ACCRUAL_REVERSAL"
)

// IsSystem reports whether the origin is generated by the closing workflow.
func (o EntryOrigin) IsSystem() bool {
	return o == OriginClosing || o == OriginAccrual || o == OriginAccrualReversal
}

// Dimensions are opaque analytic tags carried by a line.
type Dimensions struct {
	CostCenter string `json:"costCenter,omitempty"`
	Project    string `json:"project,omitempty"`
}

// JournalHeader is a balanced set of lines representing one business event.
// The header exclusively owns its lines.
type JournalHeader struct {
	HeaderID       string          `json:"headerID"`
	TenantID       string          `json:"tenantID"`
	PeriodID       string          `json:"periodID"`
	DocumentDate   time.Time       `json:"documentDate"`
	PostingDate    time.Time       `json:"postingDate"`
	Reference      string          `json:"reference,omitempty"`
	Description    string          `json:"description"`
	CurrencyCode   string          `json:"currencyCode"`
	ExchangeRate   decimal.Decimal `json:"exchangeRate"` // To functional currency; frozen at post
	Status         JournalStatus   `json:"status"`
	Origin         EntryOrigin     `json:"origin"`
	ReversalOfID   string          `json:"reversalOfID,omitempty"`
	ReversedByID   string          `json:"reversedByID,omitempty"`
	ReversalReason string          `json:"reversalReason,omitempty"`
	ApprovedBy     string          `json:"approvedBy,omitempty"`
	ApprovedAt     *time.Time      `json:"approvedAt,omitempty"`
	PostedBy       string          `json:"postedBy,omitempty"`
	PostedAt       *time.Time      `json:"postedAt,omitempty"`
	Lines          []JournalLine   `json:"lines"`
	AuditFields
}

// JournalLine affects one account on exactly one side.
type JournalLine struct {
	LineID    string          `json:"lineID"`
	HeaderID  string          `json:"headerID"`
	LineNo    int             `json:"lineNo"` // Zero based position in the header
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`  // Transaction currency
	Credit    decimal.Decimal `json:"credit"` // Transaction currency
	// Functional amounts are filled in and frozen when the header is posted.
	FunctionalDebit  decimal.Decimal `json:"functionalDebit"`
	FunctionalCredit decimal.Decimal `json:"functionalCredit"`
	Dimensions       Dimensions      `json:"dimensions"`
	Memo             string          `json:"memo,omitempty"`
}

// Side returns the side this line is on.
func (l JournalLine) Side() Side {
	if l.Debit.IsPositive() {
		return Debit
	}
	return Credit
}

// Amount returns the transaction-currency amount regardless of side.
func (l JournalLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// FunctionalAmount returns the frozen functional amount regardless of side.
func (l JournalLine) FunctionalAmount() decimal.Decimal {
	if l.Side() == Debit {
		return l.FunctionalDebit
	}
	return l.FunctionalCredit
}

// Swapped returns a copy of the line with debit and credit exchanged.
func (l JournalLine) Swapped() JournalLine {
	l.Debit, l.Credit = l.Credit, l.Debit
	l.FunctionalDebit, l.FunctionalCredit = l.FunctionalCredit, l.FunctionalDebit
	return l
}

// Totals sums transaction-currency debits and credits.
func (h JournalHeader) Totals() (debit, credit decimal.Decimal) {
	for _, l := range h.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// FunctionalTotals sums the frozen functional debits and credits.
func (h JournalHeader) FunctionalTotals() (debit, credit decimal.Decimal) {
	for _, l := range h.Lines {
		debit = debit.Add(l.FunctionalDebit)
		credit = credit.Add(l.FunctionalCredit)
	}
	return debit, credit
}

// AccountIDs returns the distinct accounts referenced by the lines, in line order.
func (h JournalHeader) AccountIDs() []string {
	seen := make(map[string]struct{}, len(h.Lines))
	ids := make([]string, 0, len(h.Lines))
	for _, l := range h.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

// BalanceCheck is the outcome of converting a header to the functional currency.
type BalanceCheck struct {
	FunctionalCurrency string          `json:"functionalCurrency"`
	Rate               decimal.Decimal `json:"rate"`
	RateID             string          `json:"rateID,omitempty"`
	DebitTotal         decimal.Decimal `json:"debitTotal"`
	CreditTotal        decimal.Decimal `json:"creditTotal"`
	Lines              []JournalLine   `json:"lines"` // Copies with functional amounts filled in
}
