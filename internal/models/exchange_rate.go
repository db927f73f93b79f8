package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a row of the append-only exchange_rates table.
type ExchangeRate struct {
	ExchangeRateID   string          `db:"exchange_rate_id"`
	TenantID         string          `db:"tenant_id"`
	FromCurrencyCode string          `db:"from_currency_code"`
	ToCurrencyCode   string          `db:"to_currency_code"`
	Rate             decimal.Decimal `db:"rate"`
	EffectiveDate    time.Time       `db:"effective_date"`
	AuditFields
}
