package repositories

import (
	"context"
)

// LedgerQueries is every read the engine performs. It is served either by the
// connection pool or from inside a transaction.
type LedgerQueries interface {
	AccountReader
	JournalReader
	PeriodReader
	ExchangeRateReader
	ActivityReader
}

// LedgerTx is the explicit unit of work handed to every mutating operation.
// All reads and writes through it belong to one database transaction.
type LedgerTx interface {
	LedgerQueries
	AccountWriter
	JournalWriter
	PeriodWriter
	ExchangeRateWriter

	// AfterCommit registers fn to run once the transaction has committed. It is never
	// called when the transaction rolls back.
	AfterCommit(fn func(ctx context.Context))
}

// IsolationLevel of a unit of work.
type IsolationLevel int

const (
	ReadCommitted IsolationLevel = iota
	RepeatableRead
	Serializable
)

// TxOptions configures a unit of work.
type TxOptions struct {
	Isolation IsolationLevel
}

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// WithTx runs fn inside one transaction. The transaction commits when fn returns
	// nil and rolls back otherwise; after-commit hooks run only after a commit.
	WithTx(ctx context.Context, opts TxOptions, fn func(ctx context.Context, tx LedgerTx) error) error

	// Queries returns a reader outside of any transaction.
	Queries() LedgerQueries
}
