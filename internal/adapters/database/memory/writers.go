package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
)

func (t *memTx) SaveAccount(_ context.Context, account domain.Account) error {
	if _, ok := t.st.accounts[account.AccountID]; ok {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
	}
	for _, a := range t.st.accounts {
		if a.TenantID == account.TenantID && a.Code == account.Code {
			return fmt.Errorf("account code %s: %w", account.Code, apperrors.ErrDuplicate)
		}
	}
	t.st.accounts[account.AccountID] = account
	return nil
}

func (t *memTx) UpdateAccount(_ context.Context, account domain.Account) error {
	stored, ok := t.st.accounts[account.AccountID]
	if !ok || stored.TenantID != account.TenantID {
		return notFound("account", account.AccountID)
	}
	stored.Name = account.Name
	stored.Description = account.Description
	stored.IsActive = account.IsActive
	stored.LastUpdatedAt = account.LastUpdatedAt
	stored.LastUpdatedBy = account.LastUpdatedBy
	t.st.accounts[account.AccountID] = stored
	return nil
}

func (t *memTx) InsertHeader(_ context.Context, header domain.JournalHeader) error {
	if _, ok := t.st.headers[header.HeaderID]; ok {
		return fmt.Errorf("journal header %s: %w", header.HeaderID, apperrors.ErrDuplicate)
	}
	t.st.headers[header.HeaderID] = copyHeader(header)
	return nil
}

func (t *memTx) UpdateHeaderStatus(_ context.Context, header domain.JournalHeader, from domain.JournalStatus) error {
	stored, ok := t.st.headers[header.HeaderID]
	if !ok || stored.TenantID != header.TenantID {
		return notFound("journal header", header.HeaderID)
	}
	if stored.Status != from {
		return apperrors.IllegalTransition("memory.UpdateHeaderStatus", header.HeaderID, string(stored.Status), string(header.Status))
	}
	stored.Status = header.Status
	stored.PeriodID = header.PeriodID
	stored.ExchangeRate = header.ExchangeRate
	stored.ApprovedBy, stored.ApprovedAt = header.ApprovedBy, header.ApprovedAt
	stored.PostedBy, stored.PostedAt = header.PostedBy, header.PostedAt
	stored.ReversedByID, stored.ReversalReason = header.ReversedByID, header.ReversalReason
	stored.LastUpdatedAt, stored.LastUpdatedBy = header.LastUpdatedAt, header.LastUpdatedBy
	t.st.headers[header.HeaderID] = stored
	return nil
}

func (t *memTx) FreezeLineAmounts(_ context.Context, header domain.JournalHeader) error {
	stored, ok := t.st.headers[header.HeaderID]
	if !ok || stored.TenantID != header.TenantID {
		return notFound("journal header", header.HeaderID)
	}
	frozen := make(map[string]domain.JournalLine, len(header.Lines))
	for _, l := range header.Lines {
		frozen[l.LineID] = l
	}
	for i, l := range stored.Lines {
		f, ok := frozen[l.LineID]
		if !ok {
			return notFound("journal line", l.LineID)
		}
		stored.Lines[i].FunctionalDebit = f.FunctionalDebit
		stored.Lines[i].FunctionalCredit = f.FunctionalCredit
	}
	t.st.headers[header.HeaderID] = stored
	return nil
}

func (t *memTx) SaveExchangeRate(_ context.Context, rate domain.ExchangeRate) error {
	for _, r := range t.st.rates {
		if r.TenantID == rate.TenantID && r.FromCurrencyCode == rate.FromCurrencyCode &&
			r.ToCurrencyCode == rate.ToCurrencyCode && r.EffectiveDate.Equal(rate.EffectiveDate) {
			return fmt.Errorf("exchange rate %s->%s on %s: %w", rate.FromCurrencyCode, rate.ToCurrencyCode,
				rate.EffectiveDate.Format(domain.DateLayout), apperrors.ErrDuplicate)
		}
	}
	t.st.rates = append(t.st.rates, rate)
	return nil
}

func (t *memTx) SaveFiscalYear(_ context.Context, fiscalYear domain.FiscalYear, periods []domain.AccountingPeriod) error {
	if _, ok := t.st.fiscalYears[fiscalYear.FiscalYearID]; ok {
		return fmt.Errorf("fiscal year %s: %w", fiscalYear.FiscalYearID, apperrors.ErrDuplicate)
	}
	t.st.fiscalYears[fiscalYear.FiscalYearID] = fiscalYear
	for _, p := range periods {
		t.st.periods[p.PeriodID] = p
	}
	return nil
}

// LockPeriod only reads: memory transactions are already serialized.
func (t *memTx) LockPeriod(ctx context.Context, tenantID, periodID string, _ domain.LockMode) (*domain.AccountingPeriod, error) {
	return t.FindPeriodByID(ctx, tenantID, periodID)
}

func (t *memTx) UpdatePeriodStatus(_ context.Context, period domain.AccountingPeriod, from domain.PeriodStatus) error {
	stored, ok := t.st.periods[period.PeriodID]
	if !ok || stored.TenantID != period.TenantID {
		return notFound("period", period.PeriodID)
	}
	if stored.Status != from {
		e := apperrors.IllegalTransition("memory.UpdatePeriodStatus", "", string(stored.Status), string(period.Status))
		e.PeriodID = period.PeriodID
		return e
	}
	stored.Status = period.Status
	stored.ClosedBy, stored.ClosedAt = period.ClosedBy, period.ClosedAt
	stored.LastUpdatedAt, stored.LastUpdatedBy = period.LastUpdatedAt, period.LastUpdatedBy
	t.st.periods[period.PeriodID] = stored
	return nil
}
