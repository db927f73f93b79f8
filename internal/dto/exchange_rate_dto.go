package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordExchangeRateRequest defines the data needed to append an exchange rate.
type RecordExchangeRateRequest struct {
	TenantID         string          `json:"tenantID" validate:"required"`
	FromCurrencyCode string          `json:"fromCurrencyCode" validate:"required,len=3,uppercase"`
	ToCurrencyCode   string          `json:"toCurrencyCode" validate:"required,len=3,uppercase,nefield=FromCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	EffectiveDate    time.Time       `json:"effectiveDate" validate:"required"`
	CreatedBy        string          `json:"createdBy" validate:"required"`
}
