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

const headerColumns = `header_id, tenant_id, period_id, document_date, posting_date, reference, description,
	currency_code, exchange_rate, status, origin, reversal_of_id, reversed_by_id, reversal_reason,
	approved_by, approved_at, posted_by, posted_at, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, header_id, line_no, account_id, debit, credit, functional_debit, functional_credit,
	cost_center, project, memo`

// FindHeaderByID retrieves a header and its lines ordered by line number.
func (r BaseRepository) FindHeaderByID(ctx context.Context, tenantID, headerID string) (*domain.JournalHeader, error) {
	op := fmt.Sprintf("find journal header %s", headerID)
	query := `SELECT ` + headerColumns + ` FROM journal_headers WHERE tenant_id = $1 AND header_id = $2`

	var m models.JournalHeader
	err := r.db.QueryRow(ctx, query, tenantID, headerID).Scan(
		&m.HeaderID,
		&m.TenantID,
		&m.PeriodID,
		&m.DocumentDate,
		&m.PostingDate,
		&m.Reference,
		&m.Description,
		&m.CurrencyCode,
		&m.ExchangeRate,
		&m.Status,
		&m.Origin,
		&m.ReversalOfID,
		&m.ReversedByID,
		&m.ReversalReason,
		&m.ApprovedBy,
		&m.ApprovedAt,
		&m.PostedBy,
		&m.PostedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapError(op, err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+lineColumns+` FROM journal_lines WHERE header_id = $1 ORDER BY line_no`, headerID)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	var lines []models.JournalLine
	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(
			&l.LineID,
			&l.HeaderID,
			&l.LineNo,
			&l.AccountID,
			&l.Debit,
			&l.Credit,
			&l.FunctionalDebit,
			&l.FunctionalCredit,
			&l.CostCenter,
			&l.Project,
			&l.Memo,
		); err != nil {
			return nil, mapError(op, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}

	header := mapping.ToDomainJournalHeader(m, lines)
	return &header, nil
}

// CountHeadersByStatus counts headers in the given statuses with a posting date in [from, to].
func (r BaseRepository) CountHeadersByStatus(ctx context.Context, tenantID string, from, to time.Time, statuses []domain.JournalStatus) (int, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	query := `
		SELECT count(*)
		FROM journal_headers
		WHERE tenant_id = $1 AND posting_date BETWEEN $2 AND $3 AND status = ANY($4)`
	var n int
	if err := r.db.QueryRow(ctx, query, tenantID, from, to, names).Scan(&n); err != nil {
		return 0, mapError("count journal headers", err)
	}
	return n, nil
}

// InsertHeader inserts a header and batches the inserts of its lines.
func (t *pgTx) InsertHeader(ctx context.Context, header domain.JournalHeader) error {
	op := fmt.Sprintf("insert journal header %s", header.HeaderID)
	m := mapping.ToModelJournalHeader(header)
	query := `
		INSERT INTO journal_headers (` + headerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := t.db.Exec(ctx, query,
		m.HeaderID,
		m.TenantID,
		m.PeriodID,
		m.DocumentDate,
		m.PostingDate,
		m.Reference,
		m.Description,
		m.CurrencyCode,
		m.ExchangeRate,
		m.Status,
		m.Origin,
		m.ReversalOfID,
		m.ReversedByID,
		m.ReversalReason,
		m.ApprovedBy,
		m.ApprovedAt,
		m.PostedBy,
		m.PostedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(op, err)
	}

	lineQuery := `INSERT INTO journal_lines (` + lineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	batch := &pgx.Batch{}
	for _, line := range header.Lines {
		l := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery,
			l.LineID,
			l.HeaderID,
			l.LineNo,
			l.AccountID,
			l.Debit,
			l.Credit,
			l.FunctionalDebit,
			l.FunctionalCredit,
			l.CostCenter,
			l.Project,
			l.Memo,
		)
	}
	// Close reports the first failed insert of the batch.
	if err := t.db.SendBatch(ctx, batch).Close(); err != nil {
		return mapError(op+" lines", err)
	}
	return nil
}

// UpdateHeaderStatus writes the lifecycle fields of a header whose stored status is still from.
func (t *pgTx) UpdateHeaderStatus(ctx context.Context, header domain.JournalHeader, from domain.JournalStatus) error {
	const opName = "Journal.UpdateStatus"
	op := fmt.Sprintf("update journal header %s", header.HeaderID)
	m := mapping.ToModelJournalHeader(header)
	query := `
		UPDATE journal_headers
		SET status = $4, period_id = $5, exchange_rate = $6,
		    approved_by = $7, approved_at = $8, posted_by = $9, posted_at = $10,
		    reversed_by_id = $11, reversal_reason = $12,
		    last_updated_at = $13, last_updated_by = $14
		WHERE tenant_id = $1 AND header_id = $2 AND status = $3`
	tag, err := t.db.Exec(ctx, query,
		m.TenantID, m.HeaderID, string(from),
		m.Status, m.PeriodID, m.ExchangeRate,
		m.ApprovedBy, m.ApprovedAt, m.PostedBy, m.PostedAt,
		m.ReversedByID, m.ReversalReason,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(op, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current string
	err = t.db.QueryRow(ctx, `SELECT status FROM journal_headers WHERE tenant_id = $1 AND header_id = $2`, m.TenantID, m.HeaderID).Scan(&current)
	if err != nil {
		return mapError(op, err)
	}
	return apperrors.IllegalTransition(opName, header.HeaderID, current, m.Status)
}

// FreezeLineAmounts stores the functional amounts of every line of header.
func (t *pgTx) FreezeLineAmounts(ctx context.Context, header domain.JournalHeader) error {
	query := `UPDATE journal_lines SET functional_debit = $3, functional_credit = $4 WHERE header_id = $1 AND line_id = $2`
	batch := &pgx.Batch{}
	for _, line := range header.Lines {
		l := mapping.ToModelJournalLine(line)
		batch.Queue(query, header.HeaderID, l.LineID, l.FunctionalDebit, l.FunctionalCredit)
	}
	if err := t.db.SendBatch(ctx, batch).Close(); err != nil {
		return mapError(fmt.Sprintf("freeze amounts of %s", header.HeaderID), err)
	}
	return nil
}
