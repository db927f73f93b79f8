package models

import (
	"database/sql"
	"time"
)

// FiscalYear is a row of the fiscal_years table.
type FiscalYear struct {
	FiscalYearID string    `db:"fiscal_year_id"`
	TenantID     string    `db:"tenant_id"`
	Name         string    `db:"name"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	AuditFields
}

// AccountingPeriod is a row of the accounting_periods table.
type AccountingPeriod struct {
	PeriodID     string         `db:"period_id"`
	TenantID     string         `db:"tenant_id"`
	FiscalYearID string         `db:"fiscal_year_id"`
	Name         string         `db:"name"`
	Sequence     int            `db:"sequence"`
	StartDate    time.Time      `db:"start_date"`
	EndDate      time.Time      `db:"end_date"`
	Status       string         `db:"status"`
	ClosedBy     sql.NullString `db:"closed_by"`
	ClosedAt     sql.NullTime   `db:"closed_at"`
	AuditFields
}
