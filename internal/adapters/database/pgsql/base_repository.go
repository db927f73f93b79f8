// Package pgsql implements the repository ports on PostgreSQL through pgx.
package pgsql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/platform/logging"
)

// querier is implemented by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository serves every read port against a querier.
type BaseRepository struct {
	db querier
}

// pgTx is a unit of work on one pgx transaction.
type pgTx struct {
	BaseRepository
	hooks []func(ctx context.Context)
}

var (
	_ portsrepo.LedgerQueries = BaseRepository{}
	_ portsrepo.LedgerTx      = (*pgTx)(nil)
)

// AfterCommit registers fn to run after the transaction commits.
func (t *pgTx) AfterCommit(fn func(ctx context.Context)) {
	t.hooks = append(t.hooks, fn)
}

// TxManager opens units of work on a connection pool.
type TxManager struct {
	Pool *pgxpool.Pool
}

// NewTxManager creates a TxManager on pool.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{Pool: pool}
}

var _ portsrepo.TransactionManager = (*TxManager)(nil)

// Queries returns a reader that runs every query on its own pooled connection.
func (m *TxManager) Queries() portsrepo.LedgerQueries {
	return BaseRepository{db: m.Pool}
}

func isoLevel(level portsrepo.IsolationLevel) pgx.TxIsoLevel {
	switch level {
	case portsrepo.Serializable:
		return pgx.Serializable
	case portsrepo.RepeatableRead:
		return pgx.RepeatableRead
	default:
		return pgx.ReadCommitted
	}
}

// WithTx runs fn in a transaction, commits when it returns nil and rolls back
// otherwise. After-commit hooks run once the commit has succeeded.
func (m *TxManager) WithTx(ctx context.Context, opts portsrepo.TxOptions, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := m.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: isoLevel(opts.Isolation)})
	if err != nil {
		return mapError("begin transaction", err)
	}
	defer m.rollback(ctx, tx) // No-op once committed

	work := &pgTx{BaseRepository: BaseRepository{db: tx}}
	if err := fn(ctx, work); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError("commit transaction", err)
	}

	for _, hook := range work.hooks {
		hook(ctx)
	}
	return nil
}

func (m *TxManager) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logging.FromContext(ctx).Warn("Failed to roll back transaction", slog.String("error", err.Error()))
	}
}
