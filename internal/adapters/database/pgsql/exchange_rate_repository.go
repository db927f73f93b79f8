package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/models"
	"github.com/SscSPs/general_ledger/internal/utils/mapping"
)

// FindLatestRate retrieves the rate with the latest effective date on or before asOf.
func (r BaseRepository) FindLatestRate(ctx context.Context, tenantID, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, tenant_id, from_currency_code, to_currency_code, rate, effective_date,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM exchange_rates
		WHERE tenant_id = $1 AND from_currency_code = $2 AND to_currency_code = $3 AND effective_date <= $4
		ORDER BY effective_date DESC
		LIMIT 1`
	var m models.ExchangeRate
	err := r.db.QueryRow(ctx, query, tenantID, fromCurrencyCode, toCurrencyCode, asOf).Scan(
		&m.ExchangeRateID, &m.TenantID, &m.FromCurrencyCode, &m.ToCurrencyCode, &m.Rate, &m.EffectiveDate,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapError(fmt.Sprintf("find rate %s->%s", fromCurrencyCode, toCurrencyCode), err)
	}
	rate := mapping.ToDomainExchangeRate(m)
	return &rate, nil
}

// SaveExchangeRate appends a rate. The (tenant, pair, effective date) key is unique.
func (t *pgTx) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)
	query := `
		INSERT INTO exchange_rates (
			exchange_rate_id, tenant_id, from_currency_code, to_currency_code, rate, effective_date,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := t.db.Exec(ctx, query,
		m.ExchangeRateID, m.TenantID, m.FromCurrencyCode, m.ToCurrencyCode, m.Rate, m.EffectiveDate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapError(fmt.Sprintf("save rate %s->%s", m.FromCurrencyCode, m.ToCurrencyCode), err)
}
