package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLedgerError_IsKindAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("post journal: %w", Storage("post", cause))

	assert.True(t, errors.Is(err, ErrStorageUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrUnbalancedEntry))
	assert.True(t, IsRetryable(err))
}

func TestLedgerError_DomainKindsAreNotRetryable(t *testing.T) {
	kinds := []error{
		Unbalanced("approve", "h1", decimal.RequireFromString("100.00"), decimal.RequireFromString("99.99")),
		InvalidLine("create_draft", "", 1, "amount must be positive"),
		PeriodNotOpen("approve", "h1", "p1", "period is closed"),
		NoRate("convert", "EUR", "USD", "2024-01-15"),
		IllegalTransition("post", "h1", "DRAFT", "POSTED"),
		IncompleteClose("close_period", "p1", 3),
	}
	for _, err := range kinds {
		assert.False(t, IsRetryable(err), err.Error())
	}
}

func TestLedgerError_MessageCarriesDetail(t *testing.T) {
	err := Unbalanced("approve", "h1", decimal.RequireFromString("100.00"), decimal.RequireFromString("99.99"))
	assert.Contains(t, err.Error(), "debit 100, credit 99.99")
	assert.Contains(t, err.Error(), "header h1")

	var le *LedgerError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &le))
	assert.Equal(t, NoLine, le.LineIndex)
	assert.True(t, le.DebitTotal.Equal(decimal.RequireFromString("100")))

	closeErr := IncompleteClose("close_period", "p1", 2)
	assert.Contains(t, closeErr.Error(), "2 offending headers")
	assert.Contains(t, closeErr.Error(), "period p1")

	lineErr := InvalidLine("create_draft", "", 0, "both debit and credit set")
	assert.Contains(t, lineErr.Error(), "(line 0)")
}
