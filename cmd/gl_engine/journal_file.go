package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// journalFile is the YAML layout accepted by post-journal. Lines reference accounts
// by code and carry amounts as strings so that no float parsing happens:
//
//	documentDate: 2024-01-15
//	currency: EUR
//	description: Office rent
//	lines:
//	  - account: "6100"
//	    debit: "1200.00"
//	  - account: "1000"
//	    credit: "1200.00"
type journalFile struct {
	DocumentDate string            `yaml:"documentDate"`
	PostingDate  string            `yaml:"postingDate,omitempty"`
	Currency     string            `yaml:"currency"`
	Description  string            `yaml:"description"`
	Reference    string            `yaml:"reference,omitempty"`
	Lines        []journalFileLine `yaml:"lines"`
}

type journalFileLine struct {
	Account    string `yaml:"account"`
	Debit      string `yaml:"debit,omitempty"`
	Credit     string `yaml:"credit,omitempty"`
	CostCenter string `yaml:"costCenter,omitempty"`
	Project    string `yaml:"project,omitempty"`
	Memo       string `yaml:"memo,omitempty"`
}

// journalEntry is a decoded journal file. Accounts are still codes.
type journalEntry struct {
	DocumentDate time.Time
	PostingDate  *time.Time
	Currency     string
	Description  string
	Reference    string
	Lines        []journalEntryLine
}

type journalEntryLine struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Dimensions  domain.Dimensions
	Memo        string
}

func loadJournalFile(path string) (*journalEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	defer f.Close()
	return decodeJournal(f)
}

// decodeJournal parses dates and amounts. Balance and line rules are left to the
// journal service.
func decodeJournal(r io.Reader) (*journalEntry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var jf journalFile
	if err := dec.Decode(&jf); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("journal file is empty")
		}
		return nil, fmt.Errorf("failed to decode journal file: %w", err)
	}

	entry := &journalEntry{
		Currency:    strings.ToUpper(jf.Currency),
		Description: jf.Description,
		Reference:   jf.Reference,
	}
	var err error
	if entry.DocumentDate, err = domain.ParseDate(jf.DocumentDate); err != nil {
		return nil, fmt.Errorf("invalid documentDate %q: %w", jf.DocumentDate, err)
	}
	if jf.PostingDate != "" {
		pd, err := domain.ParseDate(jf.PostingDate)
		if err != nil {
			return nil, fmt.Errorf("invalid postingDate %q: %w", jf.PostingDate, err)
		}
		entry.PostingDate = &pd
	}

	for i, l := range jf.Lines {
		line := journalEntryLine{
			AccountCode: l.Account,
			Dimensions:  domain.Dimensions{CostCenter: l.CostCenter, Project: l.Project},
			Memo:        l.Memo,
		}
		if line.Debit, err = parseAmount(l.Debit); err != nil {
			return nil, fmt.Errorf("line #%d: invalid debit: %w", i+1, err)
		}
		if line.Credit, err = parseAmount(l.Credit); err != nil {
			return nil, fmt.Errorf("line #%d: invalid credit: %w", i+1, err)
		}
		entry.Lines = append(entry.Lines, line)
	}
	return entry, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
