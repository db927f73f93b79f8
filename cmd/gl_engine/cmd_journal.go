package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"github.com/google/subcommands"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/platform/logging"
)

type postJournalCmd struct {
	app *app
	jobFlags
	file      string
	draftOnly bool
}

func (*postJournalCmd) Name() string     { return "post-journal" }
func (*postJournalCmd) Synopsis() string { return "record a journal entry from a YAML file" }
func (*postJournalCmd) Usage() string {
	return `gl_engine post-journal -tenant <id> -f <entry.yaml> [-draft]

  Creates the entry as a draft, approves it and posts it in one transaction.
  With -draft only the draft is created.
`
}

func (c *postJournalCmd) SetFlags(f *flag.FlagSet) {
	c.jobFlags.register(f)
	f.StringVar(&c.file, "f", "", "Journal entry file (required).")
	f.BoolVar(&c.draftOnly, "draft", false, "Stop after creating the draft.")
}

func (c *postJournalCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.validate(); err != nil {
		return usageError(err)
	}
	if c.file == "" {
		return usageError(fmt.Errorf("-f is required"))
	}
	entry, err := loadJournalFile(c.file)
	if err != nil {
		return usageError(err)
	}

	ctx, e, err := c.app.start(ctx, c.Name(), c.tenantID)
	if err != nil {
		return finish(ctx, err)
	}
	defer e.close()

	var header *domain.JournalHeader
	err = e.inTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		req, err := c.draftRequest(ctx, tx, entry)
		if err != nil {
			return err
		}
		if header, err = e.services.Journal.CreateDraft(ctx, tx, req); err != nil {
			return err
		}
		if c.draftOnly {
			return nil
		}
		if _, err = e.services.Journal.Approve(ctx, tx, c.tenantID, header.HeaderID, c.actor); err != nil {
			return err
		}
		header, err = e.services.Journal.Post(ctx, tx, c.tenantID, header.HeaderID, c.actor)
		return err
	})
	if err == nil {
		logging.FromContext(ctx).Info("Journal recorded",
			slog.String("header_id", header.HeaderID),
			slog.String("status", string(header.Status)))
		err = printJSON(header)
	}
	return finish(ctx, err)
}

// draftRequest resolves account codes inside the job's transaction.
func (c *postJournalCmd) draftRequest(ctx context.Context, tx portsrepo.LedgerTx, entry *journalEntry) (dto.CreateDraftRequest, error) {
	req := dto.CreateDraftRequest{
		TenantID:     c.tenantID,
		DocumentDate: entry.DocumentDate,
		PostingDate:  entry.PostingDate,
		CurrencyCode: entry.Currency,
		Description:  entry.Description,
		Reference:    entry.Reference,
		CreatedBy:    c.actor,
		Lines:        make([]dto.LineRequest, 0, len(entry.Lines)),
	}
	for i, l := range entry.Lines {
		account, err := tx.FindAccountByCode(ctx, c.tenantID, l.AccountCode)
		if err != nil {
			return req, fmt.Errorf("line #%d: account %s: %w", i+1, l.AccountCode, err)
		}
		req.Lines = append(req.Lines, dto.LineRequest{
			AccountID:  account.AccountID,
			Debit:      l.Debit,
			Credit:     l.Credit,
			Dimensions: l.Dimensions,
			Memo:       l.Memo,
		})
	}
	return req, nil
}

type reverseJournalCmd struct {
	app *app
	jobFlags
	headerID string
	reason   string
}

func (*reverseJournalCmd) Name() string     { return "reverse-journal" }
func (*reverseJournalCmd) Synopsis() string { return "reverse a posted journal entry" }
func (*reverseJournalCmd) Usage() string {
	return `gl_engine reverse-journal -tenant <id> -header <id> -reason <text>

  Posts a mirror entry into the current open period and marks the original REVERSED.
`
}

func (c *reverseJournalCmd) SetFlags(f *flag.FlagSet) {
	c.jobFlags.register(f)
	f.StringVar(&c.headerID, "header", "", "Header to reverse (required).")
	f.StringVar(&c.reason, "reason", "", "Reversal reason (required).")
}

func (c *reverseJournalCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.validate(); err != nil {
		return usageError(err)
	}
	if c.headerID == "" || c.reason == "" {
		return usageError(fmt.Errorf("-header and -reason are required"))
	}

	ctx, e, err := c.app.start(ctx, c.Name(), c.tenantID)
	if err != nil {
		return finish(ctx, err)
	}
	defer e.close()

	var reversal *domain.JournalHeader
	err = e.inTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		reversal, err = e.services.Journal.Reverse(ctx, tx, c.tenantID, c.headerID, c.reason, c.actor)
		return err
	})
	if err == nil {
		err = printJSON(reversal)
	}
	return finish(ctx, err)
}
