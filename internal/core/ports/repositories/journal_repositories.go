package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal headers and their lines.
type JournalReader interface {
	// FindHeaderByID retrieves a header together with its lines ordered by line number.
	FindHeaderByID(ctx context.Context, tenantID, headerID string) (*domain.JournalHeader, error)

	// CountHeadersByStatus counts headers whose posting date lies in [from, to].
	CountHeadersByStatus(ctx context.Context, tenantID string, from, to time.Time, statuses []domain.JournalStatus) (int, error)
}

// JournalWriter defines write operations for journal headers.
type JournalWriter interface {
	// InsertHeader persists a header and all of its lines.
	InsertHeader(ctx context.Context, header domain.JournalHeader) error

	// UpdateHeaderStatus persists the header's status, approval, posting, reversal link
	// and exchange rate fields, but only if the stored status is still `from`.
	// A mismatch yields apperrors.ErrIllegalTransition.
	UpdateHeaderStatus(ctx context.Context, header domain.JournalHeader, from domain.JournalStatus) error

	// FreezeLineAmounts stores the functional-currency amounts of the header's lines.
	FreezeLineAmounts(ctx context.Context, header domain.JournalHeader) error
}
