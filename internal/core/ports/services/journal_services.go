package services

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal headers
type JournalReaderSvc interface {
	// GetHeader retrieves a header together with its lines.
	GetHeader(ctx context.Context, tenantID, headerID string) (*domain.JournalHeader, error)
}

// JournalWriterSvc defines the posting workflow of journal headers
type JournalWriterSvc interface {
	// CreateDraft validates the line shape and persists a new draft header.
	CreateDraft(ctx context.Context, tx portsrepo.LedgerTx, req dto.CreateDraftRequest) (*domain.JournalHeader, error)

	// ValidateBalance converts every line at the document-date rate and checks that
	// functional debits and credits differ by less than one minor unit.
	ValidateBalance(ctx context.Context, q portsrepo.LedgerQueries, header domain.JournalHeader) (*domain.BalanceCheck, error)

	// Approve moves a draft to approved if it balances and its posting date is open.
	Approve(ctx context.Context, tx portsrepo.LedgerTx, tenantID, headerID, actor string) (*domain.JournalHeader, error)

	// Post moves an approved header to posted and freezes its functional amounts.
	Post(ctx context.Context, tx portsrepo.LedgerTx, tenantID, headerID, actor string) (*domain.JournalHeader, error)

	// Reverse posts a mirror header in the current open period and marks the original
	// reversed. It returns the reversal header.
	Reverse(ctx context.Context, tx portsrepo.LedgerTx, tenantID, headerID, reason, actor string) (*domain.JournalHeader, error)

	// PostSystemEntry creates and posts a functional-currency header generated by the
	// closing workflow in a single step.
	PostSystemEntry(ctx context.Context, tx portsrepo.LedgerTx, req dto.SystemEntryRequest) (*domain.JournalHeader, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
