package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate converts one unit of FromCurrencyCode into Rate units of
// ToCurrencyCode from EffectiveDate on. Rates are append-only.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	TenantID         string          `json:"tenantID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	EffectiveDate    time.Time       `json:"effectiveDate"`
	AuditFields
}

// AppliedRate is the rate resolved for a currency pair as of a date.
type AppliedRate struct {
	Rate          decimal.Decimal `json:"rate"`
	RateID        string          `json:"rateID,omitempty"` // Empty for identity conversions
	EffectiveDate time.Time       `json:"effectiveDate"`
	Inverted      bool            `json:"inverted"` // Derived from the opposite-direction rate
}

// Conversion is the result of converting an amount at a specific rate.
type Conversion struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	AppliedRate
}
