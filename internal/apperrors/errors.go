package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Ledger error kinds. Every domain-rule violation is final: the caller has to
// correct the input, retrying the same call yields the same result.
var (
	ErrUnbalancedEntry   = errors.New("unbalanced entry")
	ErrInvalidLine       = errors.New("invalid journal line")
	ErrPeriodNotOpen     = errors.New("period not open")
	ErrNoRateAvailable   = errors.New("no exchange rate available")
	ErrIllegalTransition = errors.New("illegal state transition")
	ErrIncompleteClose   = errors.New("incomplete close")
)

// ErrStorageUnavailable marks persistence failures (connection loss, deadlock,
// serialization failure). It is the only kind eligible for caller-side retry.
var ErrStorageUnavailable = errors.New("storage unavailable")

// NoLine is the LineIndex of errors that do not point at a specific line.
const NoLine = -1

// LedgerError is a rejection with enough structured detail for the caller to build
// an actionable message.
type LedgerError struct {
	Kind        error
	Op          string
	HeaderID    string
	PeriodID    string
	LineIndex   int
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
	Count       int
	Detail      string
	Err         error
}

func (e *LedgerError) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.HeaderID != "" {
		fmt.Fprintf(&b, " (header %s)", e.HeaderID)
	}
	if e.LineIndex != NoLine {
		fmt.Fprintf(&b, " (line %d)", e.LineIndex)
	}
	if e.PeriodID != "" {
		fmt.Fprintf(&b, " (period %s)", e.PeriodID)
	}
	if errors.Is(e.Kind, ErrUnbalancedEntry) {
		fmt.Fprintf(&b, " (debit %s, credit %s)", e.DebitTotal.String(), e.CreditTotal.String())
	}
	if errors.Is(e.Kind, ErrIncompleteClose) {
		fmt.Fprintf(&b, " (%d offending headers)", e.Count)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the underlying cause to errors.Is/As.
func (e *LedgerError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New returns a LedgerError of the given kind that points at no line.
func New(kind error, op string, detail string) *LedgerError {
	return &LedgerError{Kind: kind, Op: op, Detail: detail, LineIndex: NoLine}
}

// InvalidLine reports a rejected line at index idx (zero based).
func InvalidLine(op string, headerID string, idx int, detail string) *LedgerError {
	return &LedgerError{Kind: ErrInvalidLine, Op: op, HeaderID: headerID, LineIndex: idx, Detail: detail}
}

// Unbalanced reports the functional-currency totals that failed to match.
func Unbalanced(op string, headerID string, debit, credit decimal.Decimal) *LedgerError {
	return &LedgerError{
		Kind:        ErrUnbalancedEntry,
		Op:          op,
		HeaderID:    headerID,
		LineIndex:   NoLine,
		DebitTotal:  debit,
		CreditTotal: credit,
		Detail:      "debits and credits differ by " + debit.Sub(credit).Abs().String(),
	}
}

// PeriodNotOpen reports a posting date that no open period accepts.
func PeriodNotOpen(op string, headerID string, periodID string, detail string) *LedgerError {
	return &LedgerError{Kind: ErrPeriodNotOpen, Op: op, HeaderID: headerID, PeriodID: periodID, LineIndex: NoLine, Detail: detail}
}

// IllegalTransition reports a state change the state machine does not allow.
func IllegalTransition(op string, entityID string, from, to string) *LedgerError {
	return &LedgerError{
		Kind:      ErrIllegalTransition,
		Op:        op,
		HeaderID:  entityID,
		LineIndex: NoLine,
		Detail:    fmt.Sprintf("cannot move from %s to %s", from, to),
	}
}

// IncompleteClose reports the number of draft/approved headers blocking a close.
func IncompleteClose(op string, periodID string, count int) *LedgerError {
	return &LedgerError{Kind: ErrIncompleteClose, Op: op, PeriodID: periodID, LineIndex: NoLine, Count: count,
		Detail: "draft or approved headers remain in period"}
}

// NoRate reports a missing conversion rate.
func NoRate(op string, from, to string, asOf string) *LedgerError {
	return &LedgerError{Kind: ErrNoRateAvailable, Op: op, LineIndex: NoLine,
		Detail: fmt.Sprintf("no %s->%s rate effective on or before %s", from, to, asOf)}
}

// Storage wraps a persistence failure as StorageUnavailable.
func Storage(op string, err error) *LedgerError {
	return &LedgerError{Kind: ErrStorageUnavailable, Op: op, LineIndex: NoLine, Err: err}
}

// IsRetryable reports whether err may succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
