package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// inverseRatePrecision is the number of fraction digits kept when inverting a rate.
const inverseRatePrecision = 12

// exchangeRateService provides business logic for exchange rates.
type exchangeRateService struct {
	BaseService
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(options ...ServiceOption) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{BaseService: newBaseService(options...)}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// RecordRate handles the creation of a new exchange rate.
func (s *exchangeRateService) RecordRate(ctx context.Context, tx portsrepo.LedgerTx, req dto.RecordExchangeRateRequest) (*domain.ExchangeRate, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	for _, code := range []string{req.FromCurrencyCode, req.ToCurrencyCode} {
		if _, err := domain.CurrencyScale(code); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	now := s.Now()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		TenantID:         req.TenantID,
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		Rate:             req.Rate,
		EffectiveDate:    domain.DateOf(req.EffectiveDate),
		AuditFields:      domain.NewAuditFields(req.CreatedBy, now),
	}

	if err := tx.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate",
			slog.String("from", rate.FromCurrencyCode),
			slog.String("to", rate.ToCurrencyCode),
			slog.String("effective_date", rate.EffectiveDate.Format(domain.DateLayout)))
		return nil, fmt.Errorf("failed to record exchange rate: %w", err)
	}

	s.LogInfo(ctx, "Exchange rate recorded",
		slog.String("rate_id", rate.ExchangeRateID),
		slog.String("from", rate.FromCurrencyCode),
		slog.String("to", rate.ToCurrencyCode),
		slog.String("rate", rate.Rate.String()))
	return &rate, nil
}

// RateAsOf prefers a direct rate and falls back to the inverse of the latest
// opposite-direction rate. Identical currencies convert at exactly 1.
func (s *exchangeRateService) RateAsOf(ctx context.Context, q portsrepo.ExchangeRateReader, tenantID, from, to string, asOf time.Time) (*domain.AppliedRate, error) {
	const op = "ExchangeRate.RateAsOf"
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	asOf = domain.DateOf(asOf)

	if from == to {
		return &domain.AppliedRate{Rate: decimal.NewFromInt(1), EffectiveDate: asOf}, nil
	}

	direct, err := q.FindLatestRate(ctx, tenantID, from, to, asOf)
	if err == nil {
		return &domain.AppliedRate{Rate: direct.Rate, RateID: direct.ExchangeRateID, EffectiveDate: direct.EffectiveDate}, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up rate %s->%s: %w", from, to, err)
	}

	inverse, err := q.FindLatestRate(ctx, tenantID, to, from, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "No exchange rate available",
				slog.String("from", from),
				slog.String("to", to),
				slog.String("as_of", asOf.Format(domain.DateLayout)))
			return nil, apperrors.NoRate(op, from, to, asOf.Format(domain.DateLayout))
		}
		return nil, fmt.Errorf("failed to look up rate %s->%s: %w", to, from, err)
	}
	if !inverse.Rate.IsPositive() {
		return nil, apperrors.NoRate(op, from, to, asOf.Format(domain.DateLayout))
	}

	return &domain.AppliedRate{
		Rate:          decimal.NewFromInt(1).DivRound(inverse.Rate, inverseRatePrecision),
		RateID:        inverse.ExchangeRateID,
		EffectiveDate: inverse.EffectiveDate,
		Inverted:      true,
	}, nil
}

// Convert converts amount into the target currency, rounded to its scale.
func (s *exchangeRateService) Convert(ctx context.Context, q portsrepo.ExchangeRateReader, tenantID string, amount decimal.Decimal, from, to string, asOf time.Time) (*domain.Conversion, error) {
	scale, err := domain.CurrencyScale(to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	rate, err := s.RateAsOf(ctx, q, tenantID, from, to, asOf)
	if err != nil {
		return nil, err
	}
	return &domain.Conversion{
		Amount:      amount.Mul(rate.Rate).Round(scale),
		Currency:    strings.ToUpper(to),
		AppliedRate: *rate,
	}, nil
}
