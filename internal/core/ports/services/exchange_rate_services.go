package services

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// RateSource resolves the rate converting one unit of from into to as of a date.
// It returns an apperrors.ErrNoRateAvailable error rather than guessing a rate.
type RateSource interface {
	RateAsOf(ctx context.Context, q portsrepo.ExchangeRateReader, tenantID, from, to string, asOf time.Time) (*domain.AppliedRate, error)
}

// ExchangeRateSvcFacade defines operations on exchange rates and conversions
type ExchangeRateSvcFacade interface {
	RateSource

	// RecordRate appends a new exchange rate.
	RecordRate(ctx context.Context, tx portsrepo.LedgerTx, req dto.RecordExchangeRateRequest) (*domain.ExchangeRate, error)

	// Convert converts amount from one currency to another at the latest rate effective
	// on or before asOf, rounded to the target currency's scale.
	Convert(ctx context.Context, q portsrepo.ExchangeRateReader, tenantID string, amount decimal.Decimal, from, to string, asOf time.Time) (*domain.Conversion, error)
}
