// Package memory is a transactional in-process implementation of every repository
// port. Transactions are serialized and run against a private copy of the committed
// state, so a failed transaction leaves no trace.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

type state struct {
	accounts    map[string]domain.Account
	headers     map[string]domain.JournalHeader
	fiscalYears map[string]domain.FiscalYear
	periods     map[string]domain.AccountingPeriod
	rates       []domain.ExchangeRate
}

func newState() *state {
	return &state{
		accounts:    make(map[string]domain.Account),
		headers:     make(map[string]domain.JournalHeader),
		fiscalYears: make(map[string]domain.FiscalYear),
		periods:     make(map[string]domain.AccountingPeriod),
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts:    make(map[string]domain.Account, len(s.accounts)),
		headers:     make(map[string]domain.JournalHeader, len(s.headers)),
		fiscalYears: make(map[string]domain.FiscalYear, len(s.fiscalYears)),
		periods:     make(map[string]domain.AccountingPeriod, len(s.periods)),
		rates:       append([]domain.ExchangeRate(nil), s.rates...),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.headers {
		c.headers[k] = copyHeader(v)
	}
	for k, v := range s.fiscalYears {
		c.fiscalYears[k] = v
	}
	for k, v := range s.periods {
		c.periods[k] = v
	}
	return c
}

func copyHeader(h domain.JournalHeader) domain.JournalHeader {
	h.Lines = append([]domain.JournalLine(nil), h.Lines...)
	return h
}

// Store is the in-memory TransactionManager.
type Store struct {
	txMu sync.Mutex // Serializes transactions

	mu        sync.RWMutex
	committed *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{committed: newState()}
}

var _ portsrepo.TransactionManager = (*Store)(nil)

// WithTx runs fn against a private copy of the committed state and publishes the copy
// only when fn succeeds. After-commit hooks run once the store is unlocked.
func (s *Store) WithTx(ctx context.Context, _ portsrepo.TxOptions, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := s.runTx(ctx, fn)
	if err != nil {
		return err
	}
	for _, hook := range tx.hooks {
		hook(ctx)
	}
	return nil
}

// runTx holds txMu for the duration of fn, releasing it even if fn panics.
func (s *Store) runTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) (*memTx, error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	tx := &memTx{view: view{st: work}}
	if err := fn(ctx, tx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return tx, nil
}

// Queries reads the state committed at the time of the call. Committed states are
// never mutated, so the returned view is stable.
func (s *Store) Queries() portsrepo.LedgerQueries {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{st: s.committed}
}

type memTx struct {
	view
	hooks []func(ctx context.Context)
}

var _ portsrepo.LedgerTx = (*memTx)(nil)

func (t *memTx) AfterCommit(fn func(ctx context.Context)) {
	t.hooks = append(t.hooks, fn)
}
