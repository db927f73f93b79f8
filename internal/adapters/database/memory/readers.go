package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/utils/pagination"
)

type view struct {
	st *state
}

var _ portsrepo.LedgerQueries = view{}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, apperrors.ErrNotFound)
}

func (v view) FindAccountByID(_ context.Context, tenantID, accountID string) (*domain.Account, error) {
	a, ok := v.st.accounts[accountID]
	if !ok || a.TenantID != tenantID {
		return nil, notFound("account", accountID)
	}
	return &a, nil
}

func (v view) FindAccountByCode(_ context.Context, tenantID, code string) (*domain.Account, error) {
	for _, a := range v.st.accounts {
		if a.TenantID == tenantID && a.Code == code {
			return &a, nil
		}
	}
	return nil, notFound("account code", code)
}

func (v view) FindAccountsByIDs(_ context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := v.st.accounts[id]; ok && a.TenantID == tenantID {
			out[id] = a
		}
	}
	return out, nil
}

func (v view) ListAccounts(_ context.Context, tenantID string) ([]domain.Account, error) {
	out := make([]domain.Account, 0)
	for _, a := range v.st.accounts {
		if a.TenantID == tenantID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (v view) FindHeaderByID(_ context.Context, tenantID, headerID string) (*domain.JournalHeader, error) {
	h, ok := v.st.headers[headerID]
	if !ok || h.TenantID != tenantID {
		return nil, notFound("journal header", headerID)
	}
	h = copyHeader(h)
	return &h, nil
}

func (v view) CountHeadersByStatus(_ context.Context, tenantID string, from, to time.Time, statuses []domain.JournalStatus) (int, error) {
	want := make(map[domain.JournalStatus]struct{}, len(statuses))
	for _, s := range statuses {
		want[s] = struct{}{}
	}
	count := 0
	for _, h := range v.st.headers {
		if h.TenantID != tenantID || h.PostingDate.Before(from) || h.PostingDate.After(to) {
			continue
		}
		if _, ok := want[h.Status]; ok {
			count++
		}
	}
	return count, nil
}

func (v view) FindLatestRate(_ context.Context, tenantID, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	var best *domain.ExchangeRate
	for i := range v.st.rates {
		r := v.st.rates[i]
		if r.TenantID != tenantID || r.FromCurrencyCode != fromCurrencyCode || r.ToCurrencyCode != toCurrencyCode || r.EffectiveDate.After(asOf) {
			continue
		}
		if best == nil || r.EffectiveDate.After(best.EffectiveDate) {
			best = &r
		}
	}
	if best == nil {
		return nil, notFound("exchange rate", fromCurrencyCode+"->"+toCurrencyCode)
	}
	return best, nil
}

func (v view) FindPeriodByID(_ context.Context, tenantID, periodID string) (*domain.AccountingPeriod, error) {
	p, ok := v.st.periods[periodID]
	if !ok || p.TenantID != tenantID {
		return nil, notFound("period", periodID)
	}
	return &p, nil
}

func (v view) FindPeriodByDate(_ context.Context, tenantID string, date time.Time) (*domain.AccountingPeriod, error) {
	for _, p := range v.st.periods {
		if p.TenantID == tenantID && p.Contains(date) {
			return &p, nil
		}
	}
	return nil, notFound("period for", date.Format(domain.DateLayout))
}

func (v view) ListPeriods(_ context.Context, tenantID string) ([]domain.AccountingPeriod, error) {
	out := make([]domain.AccountingPeriod, 0)
	for _, p := range v.st.periods {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (v view) FindFiscalYearByID(_ context.Context, tenantID, fiscalYearID string) (*domain.FiscalYear, error) {
	fy, ok := v.st.fiscalYears[fiscalYearID]
	if !ok || fy.TenantID != tenantID {
		return nil, notFound("fiscal year", fiscalYearID)
	}
	return &fy, nil
}

// balanceHeaders yields the tenant's balance-affecting headers inside the date range.
func (v view) balanceHeaders(tenantID string, from *time.Time, to time.Time, fn func(h domain.JournalHeader)) {
	for _, h := range v.st.headers {
		if h.TenantID != tenantID || !h.Status.AffectsBalances() || h.PostingDate.After(to) {
			continue
		}
		if from != nil && h.PostingDate.Before(*from) {
			continue
		}
		fn(h)
	}
}

func (v view) SumActivity(_ context.Context, tenantID string, filter domain.ActivityFilter) ([]domain.AccountActivity, error) {
	var only map[string]struct{}
	if len(filter.AccountIDs) > 0 {
		only = make(map[string]struct{}, len(filter.AccountIDs))
		for _, id := range filter.AccountIDs {
			only[id] = struct{}{}
		}
	}

	totals := make(map[string]*domain.AccountActivity)
	v.balanceHeaders(tenantID, filter.From, filter.To, func(h domain.JournalHeader) {
		for _, l := range h.Lines {
			if only != nil {
				if _, ok := only[l.AccountID]; !ok {
					continue
				}
			}
			a, ok := totals[l.AccountID]
			if !ok {
				a = &domain.AccountActivity{AccountID: l.AccountID, DebitTotal: decimal.Zero, CreditTotal: decimal.Zero}
				totals[l.AccountID] = a
			}
			a.DebitTotal = a.DebitTotal.Add(l.FunctionalDebit)
			a.CreditTotal = a.CreditTotal.Add(l.FunctionalCredit)
		}
	})

	out := make([]domain.AccountActivity, 0, len(totals))
	for _, a := range totals {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}

func (v view) ListAccountEntries(_ context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	var entries []domain.LedgerEntry
	v.balanceHeaders(tenantID, nil, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC), func(h domain.JournalHeader) {
		for _, l := range h.Lines {
			if l.AccountID != accountID {
				continue
			}
			if cursor != nil && !cursor.After(h.PostingDate, h.CreatedAt, l.LineID) {
				continue
			}
			entries = append(entries, domain.LedgerEntry{
				HeaderID:         h.HeaderID,
				LineID:           l.LineID,
				PostingDate:      h.PostingDate,
				Description:      h.Description,
				FunctionalDebit:  l.FunctionalDebit,
				FunctionalCredit: l.FunctionalCredit,
				CreatedAt:        h.CreatedAt,
			})
		}
	})
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.PostingDate.Equal(b.PostingDate) {
			return a.PostingDate.After(b.PostingDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.LineID > b.LineID
	})

	if limit <= 0 || len(entries) <= limit {
		return entries, nil, nil
	}
	page := entries[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.Cursor{PostingDate: last.PostingDate, CreatedAt: last.CreatedAt, LineID: last.LineID})
	return page, &token, nil
}
