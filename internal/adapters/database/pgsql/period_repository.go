package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/models"
	"github.com/SscSPs/general_ledger/internal/utils/mapping"
)

const periodColumns = `period_id, tenant_id, fiscal_year_id, name, sequence, start_date, end_date, status,
	closed_by, closed_at, created_at, created_by, last_updated_at, last_updated_by`

func scanPeriod(row pgx.Row) (*domain.AccountingPeriod, error) {
	var m models.AccountingPeriod
	if err := row.Scan(
		&m.PeriodID,
		&m.TenantID,
		&m.FiscalYearID,
		&m.Name,
		&m.Sequence,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.ClosedBy,
		&m.ClosedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	); err != nil {
		return nil, err
	}
	p := mapping.ToDomainAccountingPeriod(m)
	return &p, nil
}

// FindPeriodByID retrieves a specific period.
func (r BaseRepository) FindPeriodByID(ctx context.Context, tenantID, periodID string) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE tenant_id = $1 AND period_id = $2`
	p, err := scanPeriod(r.db.QueryRow(ctx, query, tenantID, periodID))
	if err != nil {
		return nil, mapError(fmt.Sprintf("find period %s", periodID), err)
	}
	return p, nil
}

// FindPeriodByDate retrieves the period whose range contains date.
func (r BaseRepository) FindPeriodByDate(ctx context.Context, tenantID string, date time.Time) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE tenant_id = $1 AND $2::date BETWEEN start_date AND end_date`
	p, err := scanPeriod(r.db.QueryRow(ctx, query, tenantID, date))
	if err != nil {
		return nil, mapError(fmt.Sprintf("find period for %s", date.Format(domain.DateLayout)), err)
	}
	return p, nil
}

// ListPeriods retrieves all periods of a tenant ordered by start date.
func (r BaseRepository) ListPeriods(ctx context.Context, tenantID string) ([]domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE tenant_id = $1 ORDER BY start_date`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, mapError("list periods", err)
	}
	defer rows.Close()

	periods := []domain.AccountingPeriod{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, mapError("list periods", err)
		}
		periods = append(periods, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list periods", err)
	}
	return periods, nil
}

// FindFiscalYearByID retrieves a specific fiscal year.
func (r BaseRepository) FindFiscalYearByID(ctx context.Context, tenantID, fiscalYearID string) (*domain.FiscalYear, error) {
	query := `
		SELECT fiscal_year_id, tenant_id, name, start_date, end_date, created_at, created_by, last_updated_at, last_updated_by
		FROM fiscal_years
		WHERE tenant_id = $1 AND fiscal_year_id = $2`
	var m models.FiscalYear
	err := r.db.QueryRow(ctx, query, tenantID, fiscalYearID).Scan(
		&m.FiscalYearID, &m.TenantID, &m.Name, &m.StartDate, &m.EndDate,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapError(fmt.Sprintf("find fiscal year %s", fiscalYearID), err)
	}
	fy := mapping.ToDomainFiscalYear(m)
	return &fy, nil
}

// SaveFiscalYear inserts a fiscal year and batches the inserts of its periods.
func (t *pgTx) SaveFiscalYear(ctx context.Context, fiscalYear domain.FiscalYear, periods []domain.AccountingPeriod) error {
	op := fmt.Sprintf("save fiscal year %s", fiscalYear.Name)
	fy := mapping.ToModelFiscalYear(fiscalYear)
	_, err := t.db.Exec(ctx, `
		INSERT INTO fiscal_years (fiscal_year_id, tenant_id, name, start_date, end_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		fy.FiscalYearID, fy.TenantID, fy.Name, fy.StartDate, fy.EndDate,
		fy.CreatedAt, fy.CreatedBy, fy.LastUpdatedAt, fy.LastUpdatedBy,
	)
	if err != nil {
		return mapError(op, err)
	}

	query := `INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	batch := &pgx.Batch{}
	for _, period := range periods {
		p := mapping.ToModelAccountingPeriod(period)
		batch.Queue(query,
			p.PeriodID, p.TenantID, p.FiscalYearID, p.Name, p.Sequence, p.StartDate, p.EndDate, p.Status,
			p.ClosedBy, p.ClosedAt, p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy,
		)
	}
	if err := t.db.SendBatch(ctx, batch).Close(); err != nil {
		return mapError(op+" periods", err)
	}
	return nil
}

// LockPeriod reads a period with FOR SHARE (postings) or FOR UPDATE (transitions).
func (t *pgTx) LockPeriod(ctx context.Context, tenantID, periodID string, mode domain.LockMode) (*domain.AccountingPeriod, error) {
	lock := "FOR SHARE"
	if mode == domain.LockExclusive {
		lock = "FOR UPDATE"
	}
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE tenant_id = $1 AND period_id = $2 ` + lock
	p, err := scanPeriod(t.db.QueryRow(ctx, query, tenantID, periodID))
	if err != nil {
		return nil, mapError(fmt.Sprintf("lock period %s", periodID), err)
	}
	return p, nil
}

// UpdatePeriodStatus writes the status and closing fields of a period whose stored
// status is still from.
func (t *pgTx) UpdatePeriodStatus(ctx context.Context, period domain.AccountingPeriod, from domain.PeriodStatus) error {
	op := fmt.Sprintf("update period %s", period.PeriodID)
	m := mapping.ToModelAccountingPeriod(period)
	query := `
		UPDATE accounting_periods
		SET status = $4, closed_by = $5, closed_at = $6, last_updated_at = $7, last_updated_by = $8
		WHERE tenant_id = $1 AND period_id = $2 AND status = $3`
	tag, err := t.db.Exec(ctx, query,
		m.TenantID, m.PeriodID, string(from),
		m.Status, m.ClosedBy, m.ClosedAt, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(op, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current string
	err = t.db.QueryRow(ctx, `SELECT status FROM accounting_periods WHERE tenant_id = $1 AND period_id = $2`, m.TenantID, m.PeriodID).Scan(&current)
	if err != nil {
		return mapError(op, err)
	}
	e := apperrors.IllegalTransition("Period.UpdateStatus", "", current, m.Status)
	e.PeriodID = period.PeriodID
	return e
}
