package domain

import "fmt"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Side is the debit or credit side of a line or of an account's normal balance.
type Side string

const (
	Debit  Side = "DEBIT"
	Credit Side = "CREDIT"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Debit {
		return Credit
	}
	return Debit
}

// ParseAccountType validates a raw account type.
func ParseAccountType(s string) (AccountType, error) {
	switch t := AccountType(s); t {
	case Asset, Liability, Equity, Revenue, Expense:
		return t, nil
	default:
		return "", fmt.Errorf("unknown account type %q", s)
	}
}

// NormalSide is the side on which balances of this type increase.
func (t AccountType) NormalSide() Side {
	switch t {
	case Asset, Expense:
		return Debit
	case Liability, Equity, Revenue:
		return Credit
	}
	panic(fmt.Sprintf("domain: unknown account type %q", string(t)))
}

// IsTemporary reports whether accounts of this type are zeroed at period close.
func (t AccountType) IsTemporary() bool {
	return t == Revenue || t == Expense
}

// Account represents a financial account in the chart of accounts.
// The balance is never stored here: it is derived from posted lines.
type Account struct {
	AccountID       string      `json:"accountID"`
	TenantID        string      `json:"tenantID"`
	Code            string      `json:"code"` // Unique per tenant
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID string      `json:"parentAccountID,omitempty"` // Empty for top-level accounts
	Description     string      `json:"description,omitempty"`
	IsActive        bool        `json:"isActive"` // Soft delete flag
	AuditFields
}

// NormalSide derives the normal balance side from the account type.
func (a Account) NormalSide() Side {
	return a.AccountType.NormalSide()
}
