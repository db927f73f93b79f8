package dto

import "github.com/SscSPs/general_ledger/internal/core/domain"

// ListAccountEntriesParams holds pagination parameters for an account ledger.
type ListAccountEntriesParams struct {
	Limit     int     `json:"limit" validate:"omitempty,min=1,max=500"`
	NextToken *string `json:"nextToken,omitempty"`
}

// ListAccountEntriesResponse is one page of an account ledger.
type ListAccountEntriesResponse struct {
	Entries   []domain.LedgerEntry `json:"entries"`
	NextToken *string              `json:"nextToken,omitempty"`
}
