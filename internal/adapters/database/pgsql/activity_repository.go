package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/utils/pagination"
)

// SumActivity totals the frozen functional amounts per account over posted and
// reversed headers.
func (r BaseRepository) SumActivity(ctx context.Context, tenantID string, filter domain.ActivityFilter) ([]domain.AccountActivity, error) {
	query := `
		SELECT
			l.account_id,
			COALESCE(SUM(l.functional_debit), 0) AS debit_total,
			COALESCE(SUM(l.functional_credit), 0) AS credit_total
		FROM journal_lines l
		JOIN journal_headers h ON h.header_id = l.header_id
		WHERE h.tenant_id = $1
			AND h.status IN ('POSTED', 'REVERSED')
			AND h.posting_date <= $2
			AND ($3::date IS NULL OR h.posting_date >= $3::date)
			AND ($4::text[] IS NULL OR l.account_id = ANY($4::text[]))
		GROUP BY l.account_id
		ORDER BY l.account_id`

	var accountIDs []string
	if len(filter.AccountIDs) > 0 {
		accountIDs = filter.AccountIDs
	}
	rows, err := r.db.Query(ctx, query, tenantID, filter.To, filter.From, accountIDs)
	if err != nil {
		return nil, mapError("sum activity", err)
	}
	defer rows.Close()

	activity := []domain.AccountActivity{}
	for rows.Next() {
		var a domain.AccountActivity
		if err := rows.Scan(&a.AccountID, &a.DebitTotal, &a.CreditTotal); err != nil {
			return nil, mapError("sum activity", err)
		}
		activity = append(activity, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("sum activity", err)
	}
	return activity, nil
}

// ListAccountEntries pages through the balance-affecting lines of an account, newest
// first, with keyset pagination on (posting date, created at, line id).
func (r BaseRepository) ListAccountEntries(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	var (
		cursorDate    *time.Time
		cursorCreated *time.Time
		cursorLine    *string
	)
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursorDate, cursorCreated, cursorLine = &c.PostingDate, &c.CreatedAt, &c.LineID
	}

	query := `
		SELECT h.header_id, l.line_id, h.posting_date, h.description,
		       COALESCE(l.functional_debit, 0), COALESCE(l.functional_credit, 0), h.created_at
		FROM journal_lines l
		JOIN journal_headers h ON h.header_id = l.header_id
		WHERE h.tenant_id = $1
			AND l.account_id = $2
			AND h.status IN ('POSTED', 'REVERSED')
			AND ($3::date IS NULL OR (h.posting_date, h.created_at, l.line_id) < ($3::date, $4::timestamptz, $5::text))
		ORDER BY h.posting_date DESC, h.created_at DESC, l.line_id DESC
		LIMIT $6`

	// Fetch one extra row to know whether another page exists.
	rows, err := r.db.Query(ctx, query, tenantID, accountID, cursorDate, cursorCreated, cursorLine, limit+1)
	if err != nil {
		return nil, nil, mapError("list account entries", err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		var (
			e             domain.LedgerEntry
			debit, credit decimal.Decimal
		)
		if err := rows.Scan(&e.HeaderID, &e.LineID, &e.PostingDate, &e.Description, &debit, &credit, &e.CreatedAt); err != nil {
			return nil, nil, mapError("list account entries", err)
		}
		e.PostingDate = domain.DateOf(e.PostingDate)
		e.CreatedAt = e.CreatedAt.UTC()
		e.FunctionalDebit, e.FunctionalCredit = debit, credit
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapError("list account entries", err)
	}

	if len(entries) <= limit {
		return entries, nil, nil
	}
	page := entries[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.Cursor{PostingDate: last.PostingDate, CreatedAt: last.CreatedAt, LineID: last.LineID})
	return page, &token, nil
}
