package main

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJournal(t *testing.T) {
	raw := `
documentDate: 2024-01-15
postingDate: 2024-01-16
currency: eur
description: Office rent
reference: INV-7
lines:
  - account: "6100"
    debit: "1200.00"
    costCenter: HQ
  - account: "1000"
    credit: "1200.00"
    memo: bank transfer
`
	entry, err := decodeJournal(strings.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), entry.DocumentDate)
	require.NotNil(t, entry.PostingDate)
	assert.Equal(t, time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC), *entry.PostingDate)
	assert.Equal(t, "EUR", entry.Currency)
	assert.Equal(t, "INV-7", entry.Reference)
	require.Len(t, entry.Lines, 2)

	assert.Equal(t, "6100", entry.Lines[0].AccountCode)
	assert.True(t, entry.Lines[0].Debit.Equal(decimal.RequireFromString("1200")))
	assert.True(t, entry.Lines[0].Credit.IsZero())
	assert.Equal(t, "HQ", entry.Lines[0].Dimensions.CostCenter)
	assert.True(t, entry.Lines[1].Credit.Equal(decimal.RequireFromString("1200")))
	assert.Equal(t, "bank transfer", entry.Lines[1].Memo)
}

func TestDecodeJournal_PostingDateDefaultsToNil(t *testing.T) {
	entry, err := decodeJournal(strings.NewReader("documentDate: 2024-01-15\ncurrency: USD\ndescription: x\nlines: []\n"))
	require.NoError(t, err)
	assert.Nil(t, entry.PostingDate)
	assert.Empty(t, entry.Lines)
}

func TestDecodeJournal_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"empty", "", "journal file is empty"},
		{"unknown field", "documentDate: 2024-01-15\namount: 3\n", "failed to decode journal file"},
		{"bad document date", "documentDate: 15/01/2024\n", "invalid documentDate"},
		{"bad posting date", "documentDate: 2024-01-15\npostingDate: tomorrow\n", "invalid postingDate"},
		{"bad amount", "documentDate: 2024-01-15\nlines:\n  - account: \"1000\"\n    debit: ten\n", "line #1: invalid debit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeJournal(strings.NewReader(tt.raw))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
