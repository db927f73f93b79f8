package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/dto"
)

type ExchangeRateServiceTestSuite struct {
	ledgerSuite
}

func TestExchangeRateService(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}

func (s *ExchangeRateServiceTestSuite) record(req dto.RecordExchangeRateRequest) error {
	return s.inTx(func(ctx context.Context, tx portsrepo.LedgerTx) error {
		_, err := s.svc.ExchangeRate.RecordRate(ctx, tx, req)
		return err
	})
}

func (s *ExchangeRateServiceTestSuite) TestRecordRate_Validation() {
	base := dto.RecordExchangeRateRequest{
		TenantID: tenant, FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: d("1.1"),
		EffectiveDate: date(2024, time.January, 1), CreatedBy: actor,
	}
	tests := []struct {
		name   string
		mutate func(*dto.RecordExchangeRateRequest)
	}{
		{"same currency", func(r *dto.RecordExchangeRateRequest) { r.ToCurrencyCode = "EUR" }},
		{"zero rate", func(r *dto.RecordExchangeRateRequest) { r.Rate = d("0") }},
		{"negative rate", func(r *dto.RecordExchangeRateRequest) { r.Rate = d("-1.1") }},
		{"lowercase code", func(r *dto.RecordExchangeRateRequest) { r.FromCurrencyCode = "eur" }},
		{"unknown currency", func(r *dto.RecordExchangeRateRequest) { r.FromCurrencyCode = "XXZ" }},
		{"missing date", func(r *dto.RecordExchangeRateRequest) { r.EffectiveDate = time.Time{} }},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := base
			tt.mutate(&req)
			s.ErrorIs(s.record(req), apperrors.ErrValidation)
		})
	}
}

func (s *ExchangeRateServiceTestSuite) TestRecordRate_Duplicate() {
	req := dto.RecordExchangeRateRequest{
		TenantID: tenant, FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: d("1.1"),
		EffectiveDate: date(2024, time.January, 1), CreatedBy: actor,
	}
	s.Require().NoError(s.record(req))
	req.Rate = d("1.2")
	s.ErrorIs(s.record(req), apperrors.ErrDuplicate)
}

func (s *ExchangeRateServiceTestSuite) TestRateAsOf_PicksLatestEffective() {
	s.recordRate("EUR", "USD", "1.10", date(2024, time.January, 1))
	s.recordRate("EUR", "USD", "1.20", date(2024, time.January, 15))
	q := s.store.Queries()

	rate, err := s.svc.ExchangeRate.RateAsOf(s.ctx, q, tenant, "EUR", "USD", date(2024, time.January, 14))
	s.Require().NoError(err)
	s.Equal("1.1", rate.Rate.String())
	s.False(rate.Inverted)

	rate, err = s.svc.ExchangeRate.RateAsOf(s.ctx, q, tenant, "EUR", "USD", date(2024, time.January, 15))
	s.Require().NoError(err)
	s.Equal("1.2", rate.Rate.String())
	s.Equal(date(2024, time.January, 15), rate.EffectiveDate)

	_, err = s.svc.ExchangeRate.RateAsOf(s.ctx, q, tenant, "EUR", "USD", date(2023, time.December, 31))
	s.ErrorIs(err, apperrors.ErrNoRateAvailable)
}

func (s *ExchangeRateServiceTestSuite) TestRateAsOf_IdentityAndInverse() {
	q := s.store.Queries()
	rate, err := s.svc.ExchangeRate.RateAsOf(s.ctx, q, tenant, "USD", "usd", date(2024, time.January, 1))
	s.Require().NoError(err)
	s.True(rate.Rate.Equal(d("1")))
	s.Empty(rate.RateID)

	s.recordRate("USD", "JPY", "150", date(2024, time.January, 1))
	rate, err = s.svc.ExchangeRate.RateAsOf(s.ctx, q, tenant, "JPY", "USD", date(2024, time.January, 2))
	s.Require().NoError(err)
	s.True(rate.Inverted)
	s.Equal("0.006666666667", rate.Rate.String())
}

func (s *ExchangeRateServiceTestSuite) TestRateAsOf_TenantIsolation() {
	s.recordRate("EUR", "USD", "1.10", date(2024, time.January, 1))
	_, err := s.svc.ExchangeRate.RateAsOf(s.ctx, s.store.Queries(), "tenant-2", "EUR", "USD", date(2024, time.January, 2))
	s.ErrorIs(err, apperrors.ErrNoRateAvailable)
}

func (s *ExchangeRateServiceTestSuite) TestConvert() {
	s.recordRate("GBP", "USD", "1.27", date(2024, time.January, 1))
	q := s.store.Queries()

	conv, err := s.svc.ExchangeRate.Convert(s.ctx, q, tenant, d("10.005"), "GBP", "USD", date(2024, time.January, 2))
	s.Require().NoError(err)
	s.Equal("12.71", conv.Amount.StringFixed(2))
	s.Equal("USD", conv.Currency)

	conv, err = s.svc.ExchangeRate.Convert(s.ctx, q, tenant, d("127"), "USD", "GBP", date(2024, time.January, 2))
	s.Require().NoError(err)
	s.Equal("100.00", conv.Amount.StringFixed(2))
	s.True(conv.Inverted)

	_, err = s.svc.ExchangeRate.Convert(s.ctx, q, tenant, d("1"), "CHF", "USD", date(2024, time.January, 2))
	s.ErrorIs(err, apperrors.ErrNoRateAvailable)
}
