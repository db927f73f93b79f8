package models

import "database/sql"

// Account is a row of the accounts table.
type Account struct {
	AccountID       string         `db:"account_id"`
	TenantID        string         `db:"tenant_id"`
	Code            string         `db:"code"` // Unique per tenant
	Name            string         `db:"name"`
	AccountType     string         `db:"account_type"`
	ParentAccountID sql.NullString `db:"parent_account_id"`
	Description     sql.NullString `db:"description"`
	IsActive        bool           `db:"is_active"`
	AuditFields
}
