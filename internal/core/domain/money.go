package domain

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// CurrencyScale returns the number of fraction digits of an ISO 4217 currency.
func CurrencyScale(code string) (int32, error) {
	cur := money.GetCurrency(strings.ToUpper(code))
	if cur == nil {
		return 0, fmt.Errorf("unknown currency %q", code)
	}
	return int32(cur.Fraction), nil
}

// MinorUnit is the smallest representable amount of the currency, e.g. 0.01 for USD.
func MinorUnit(code string) (decimal.Decimal, error) {
	scale, err := CurrencyScale(code)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.New(1, -scale), nil
}

// RoundToCurrency rounds half away from zero to the currency's scale.
func RoundToCurrency(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	scale, err := CurrencyScale(code)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Round(scale), nil
}

// FitsCurrency reports whether amount has no more fraction digits than the currency allows.
func FitsCurrency(amount decimal.Decimal, code string) (bool, error) {
	scale, err := CurrencyScale(code)
	if err != nil {
		return false, err
	}
	return amount.Equal(amount.Round(scale)), nil
}
