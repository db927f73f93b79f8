package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/utils/accounting"
)

const (
	entityHeader = "journal_header"
	minLines     = 2
)

// journalService constructs, validates and transitions journal headers.
type journalService struct {
	BaseService
	txm                portsrepo.TransactionManager
	periods            portssvc.PeriodSvcFacade
	rates              portssvc.RateSource
	cache              portssvc.BalanceCacheInvalidator
	functionalCurrency string
}

// NewJournalService creates a new JournalService. cache may be nil.
func NewJournalService(
	txm portsrepo.TransactionManager,
	functionalCurrency string,
	periods portssvc.PeriodSvcFacade,
	rates portssvc.RateSource,
	cache portssvc.BalanceCacheInvalidator,
	options ...ServiceOption,
) portssvc.JournalSvcFacade {
	return &journalService{
		BaseService:        newBaseService(options...),
		txm:                txm,
		periods:            periods,
		rates:              rates,
		cache:              cache,
		functionalCurrency: strings.ToUpper(functionalCurrency),
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// GetHeader retrieves a header together with its lines.
func (s *journalService) GetHeader(ctx context.Context, tenantID, headerID string) (*domain.JournalHeader, error) {
	header, err := s.txm.Queries().FindHeaderByID(ctx, tenantID, headerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get journal header %s: %w", headerID, err)
	}
	return header, nil
}

// buildLines checks the shape of every requested line and that it references an
// account of the tenant. Inactive accounts are only accepted by closing entries,
// which must be able to zero them.
func (s *journalService) buildLines(ctx context.Context, q portsrepo.AccountReader, op, tenantID, headerID, currency string, reqs []dto.LineRequest, allowInactive bool) ([]domain.JournalLine, error) {
	if len(reqs) < minLines {
		return nil, apperrors.InvalidLine(op, headerID, apperrors.NoLine, fmt.Sprintf("a journal entry needs at least %d lines, got %d", minLines, len(reqs)))
	}

	accountIDs := make([]string, 0, len(reqs))
	for _, r := range reqs {
		accountIDs = append(accountIDs, r.AccountID)
	}
	accounts, err := q.FindAccountsByIDs(ctx, tenantID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	lines := make([]domain.JournalLine, len(reqs))
	for i, r := range reqs {
		hasDebit, hasCredit := !r.Debit.IsZero(), !r.Credit.IsZero()
		switch {
		case hasDebit && hasCredit:
			return nil, apperrors.InvalidLine(op, headerID, i, "line has both a debit and a credit")
		case !hasDebit && !hasCredit:
			return nil, apperrors.InvalidLine(op, headerID, i, "line has neither a debit nor a credit")
		case r.Debit.IsNegative() || r.Credit.IsNegative():
			return nil, apperrors.InvalidLine(op, headerID, i, "amount must be positive")
		}
		amount := r.Debit
		if hasCredit {
			amount = r.Credit
		}
		fits, err := domain.FitsCurrency(amount, currency)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if !fits {
			return nil, apperrors.InvalidLine(op, headerID, i, fmt.Sprintf("amount %s has more fraction digits than %s allows", amount, currency))
		}
		account, ok := accounts[r.AccountID]
		if !ok {
			return nil, apperrors.InvalidLine(op, headerID, i, fmt.Sprintf("account %s not found", r.AccountID))
		}
		if !account.IsActive && !allowInactive {
			return nil, apperrors.InvalidLine(op, headerID, i, fmt.Sprintf("account %s is inactive", account.Code))
		}

		lines[i] = domain.JournalLine{
			LineID:     uuid.NewString(),
			HeaderID:   headerID,
			LineNo:     i,
			AccountID:  r.AccountID,
			Debit:      r.Debit,
			Credit:     r.Credit,
			Dimensions: r.Dimensions,
			Memo:       r.Memo,
		}
	}
	return lines, nil
}

// CreateDraft validates the line shape and persists a new draft header.
func (s *journalService) CreateDraft(ctx context.Context, tx portsrepo.LedgerTx, req dto.CreateDraftRequest) (*domain.JournalHeader, error) {
	const op = "Journal.CreateDraft"
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	headerID := uuid.NewString()
	lines, err := s.buildLines(ctx, tx, op, req.TenantID, headerID, req.CurrencyCode, req.Lines, false)
	if err != nil {
		return nil, err
	}

	documentDate := domain.DateOf(req.DocumentDate)
	postingDate := documentDate
	if req.PostingDate != nil {
		postingDate = domain.DateOf(*req.PostingDate)
	}
	period, err := tx.FindPeriodByDate(ctx, req.TenantID, postingDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.PeriodNotOpen(op, headerID, "", "no accounting period covers "+postingDate.Format(domain.DateLayout))
		}
		return nil, fmt.Errorf("failed to find period: %w", err)
	}

	header := domain.JournalHeader{
		HeaderID:     headerID,
		TenantID:     req.TenantID,
		PeriodID:     period.PeriodID,
		DocumentDate: documentDate,
		PostingDate:  postingDate,
		Reference:    req.Reference,
		Description:  req.Description,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.Draft,
		Origin:       domain.OriginManual,
		Lines:        lines,
		AuditFields:  domain.NewAuditFields(req.CreatedBy, s.Now()),
	}

	if err := tx.InsertHeader(ctx, header); err != nil {
		s.LogError(ctx, err, "Failed to save draft", slog.String("header_id", headerID))
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	s.EmitAfterCommit(tx, s.headerEvent(header, domain.EventDraftCreated, "", req.CreatedBy))
	s.LogInfo(ctx, "Draft journal created",
		slog.String("header_id", headerID),
		slog.String("currency", header.CurrencyCode),
		slog.Int("lines", len(lines)))
	return &header, nil
}

// ValidateBalance requires equal debit and credit totals in the transaction currency,
// then converts every line at the document-date rate and compares the functional
// totals. Totals are rounded to the functional scale, so a difference below one minor
// unit means they are equal.
func (s *journalService) ValidateBalance(ctx context.Context, q portsrepo.LedgerQueries, header domain.JournalHeader) (*domain.BalanceCheck, error) {
	const op = "Journal.ValidateBalance"
	scale, err := domain.CurrencyScale(s.functionalCurrency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	epsilon, _ := domain.MinorUnit(s.functionalCurrency)

	if txDebit, txCredit := header.Totals(); !txDebit.Equal(txCredit) {
		err := apperrors.Unbalanced(op, header.HeaderID, txDebit, txCredit)
		err.Detail += " in " + header.CurrencyCode
		return nil, err
	}

	rate, err := s.rates.RateAsOf(ctx, q, header.TenantID, header.CurrencyCode, s.functionalCurrency, header.DocumentDate)
	if err != nil {
		var lerr *apperrors.LedgerError
		if errors.As(err, &lerr) {
			lerr.HeaderID = header.HeaderID
		}
		return nil, err
	}

	lines, err := accounting.ConvertLines(header.Lines, rate.Rate, scale)
	if err != nil {
		var lerr *apperrors.LedgerError
		if errors.As(err, &lerr) {
			lerr.HeaderID = header.HeaderID
		}
		return nil, err
	}
	converted := header
	converted.Lines = lines
	debit, credit := converted.FunctionalTotals()

	if !accounting.WithinTolerance(debit, credit, epsilon) {
		return nil, apperrors.Unbalanced(op, header.HeaderID, debit, credit)
	}
	return &domain.BalanceCheck{
		FunctionalCurrency: s.functionalCurrency,
		Rate:               rate.Rate,
		RateID:             rate.RateID,
		DebitTotal:         debit,
		CreditTotal:        credit,
		Lines:              lines,
	}, nil
}

func (s *journalService) loadForTransition(ctx context.Context, tx portsrepo.LedgerTx, op, tenantID, headerID string, to domain.JournalStatus) (*domain.JournalHeader, error) {
	header, err := tx.FindHeaderByID(ctx, tenantID, headerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal header %s: %w", headerID, err)
	}
	if !header.Status.CanTransitionTo(to) {
		return nil, apperrors.IllegalTransition(op, headerID, string(header.Status), string(to))
	}
	return header, nil
}

// Approve moves a draft to approved if it balances and its posting date is open.
func (s *journalService) Approve(ctx context.Context, tx portsrepo.LedgerTx, tenantID, headerID, actor string) (*domain.JournalHeader, error) {
	const op = "Journal.Approve"
	header, err := s.loadForTransition(ctx, tx, op, tenantID, headerID, domain.Approved)
	if err != nil {
		return nil, err
	}
	if _, err := s.ValidateBalance(ctx, tx, *header); err != nil {
		s.LogWarn(ctx, "Draft rejected on approval", slog.String("header_id", headerID), slog.String("error", err.Error()))
		return nil, err
	}
	period, err := s.periods.RequirePostable(ctx, tx, tenantID, header.PostingDate, header.Origin, headerID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	header.Status = domain.Approved
	header.PeriodID = period.PeriodID
	header.ApprovedBy = actor
	header.ApprovedAt = &now
	header.Touch(actor, now)
	if err := tx.UpdateHeaderStatus(ctx, *header, domain.Draft); err != nil {
		return nil, fmt.Errorf("failed to approve journal header %s: %w", headerID, err)
	}

	s.EmitAfterCommit(tx, s.headerEvent(*header, domain.EventApproved, domain.Draft, actor))
	s.LogInfo(ctx, "Journal approved", slog.String("header_id", headerID))
	return header, nil
}

// Post moves an approved header to posted. Balance and period are checked again
// under the period lock and the functional amounts are frozen on the lines.
func (s *journalService) Post(ctx context.Context, tx portsrepo.LedgerTx, tenantID, headerID, actor string) (*domain.JournalHeader, error) {
	const op = "Journal.Post"
	header, err := s.loadForTransition(ctx, tx, op, tenantID, headerID, domain.Posted)
	if err != nil {
		return nil, err
	}
	period, err := s.periods.RequirePostable(ctx, tx, tenantID, header.PostingDate, header.Origin, headerID)
	if err != nil {
		return nil, err
	}
	check, err := s.ValidateBalance(ctx, tx, *header)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	header.Lines = check.Lines
	header.ExchangeRate = check.Rate
	header.PeriodID = period.PeriodID
	header.Status = domain.Posted
	header.PostedBy = actor
	header.PostedAt = &now
	header.Touch(actor, now)

	if err := tx.FreezeLineAmounts(ctx, *header); err != nil {
		return nil, fmt.Errorf("failed to freeze functional amounts of %s: %w", headerID, err)
	}
	if err := tx.UpdateHeaderStatus(ctx, *header, domain.Approved); err != nil {
		return nil, fmt.Errorf("failed to post journal header %s: %w", headerID, err)
	}

	s.afterBalanceChange(tx, *header)
	s.EmitAfterCommit(tx, s.headerEvent(*header, domain.EventPosted, domain.Approved, actor))
	s.LogInfo(ctx, "Journal posted",
		slog.String("header_id", headerID),
		slog.String("period_id", period.PeriodID),
		slog.String("rate", check.Rate.String()),
		slog.String("functional_total", check.DebitTotal.String()))
	return header, nil
}

// Reverse posts a mirror of a posted header in the current open period and marks the
// original reversed. The original's lines are never touched; the mirror reuses their
// frozen functional amounts so the two net to exactly zero.
func (s *journalService) Reverse(ctx context.Context, tx portsrepo.LedgerTx, tenantID, headerID, reason, actor string) (*domain.JournalHeader, error) {
	const op = "Journal.Reverse"
	original, err := s.loadForTransition(ctx, tx, op, tenantID, headerID, domain.Reversed)
	if err != nil {
		return nil, err
	}

	current, err := s.periods.CurrentOpenPeriod(ctx, tx, tenantID)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	date := current.Clamp(now)

	reversalID := uuid.NewString()
	period, err := s.periods.RequirePostable(ctx, tx, tenantID, date, domain.OriginReversal, reversalID)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.JournalLine, len(original.Lines))
	for i, l := range original.Lines {
		swapped := l.Swapped()
		swapped.LineID = uuid.NewString()
		swapped.HeaderID = reversalID
		lines[i] = swapped
	}
	reversal := domain.JournalHeader{
		HeaderID:       reversalID,
		TenantID:       tenantID,
		PeriodID:       period.PeriodID,
		DocumentDate:   date,
		PostingDate:    date,
		Reference:      original.Reference,
		Description:    "Reversal of " + original.Description,
		CurrencyCode:   original.CurrencyCode,
		ExchangeRate:   original.ExchangeRate,
		Status:         domain.Posted,
		Origin:         domain.OriginReversal,
		ReversalOfID:   original.HeaderID,
		ReversalReason: reason,
		ApprovedBy:     actor,
		ApprovedAt:     &now,
		PostedBy:       actor,
		PostedAt:       &now,
		Lines:          lines,
		AuditFields:    domain.NewAuditFields(actor, now),
	}
	if err := tx.InsertHeader(ctx, reversal); err != nil {
		return nil, fmt.Errorf("failed to save reversal of %s: %w", headerID, err)
	}

	original.Status = domain.Reversed
	original.ReversedByID = reversalID
	original.ReversalReason = reason
	original.Touch(actor, now)
	if err := tx.UpdateHeaderStatus(ctx, *original, domain.Posted); err != nil {
		return nil, fmt.Errorf("failed to mark %s reversed: %w", headerID, err)
	}

	s.afterBalanceChange(tx, reversal)
	reversedEvent := s.headerEvent(*original, domain.EventReversed, domain.Posted, actor)
	reversedEvent.Details["reversal_id"] = reversalID
	reversedEvent.Details["reason"] = reason
	s.EmitAfterCommit(tx, reversedEvent)
	s.EmitAfterCommit(tx, s.headerEvent(reversal, domain.EventPosted, "", actor))

	s.LogInfo(ctx, "Journal reversed",
		slog.String("header_id", headerID),
		slog.String("reversal_id", reversalID),
		slog.String("posting_date", date.Format(domain.DateLayout)))
	return &reversal, nil
}

// PostSystemEntry creates and posts a functional-currency header generated by the
// closing workflow. When ReversalOfID is set the referenced header is marked reversed.
func (s *journalService) PostSystemEntry(ctx context.Context, tx portsrepo.LedgerTx, req dto.SystemEntryRequest) (*domain.JournalHeader, error) {
	const op = "Journal.PostSystemEntry"
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.Origin.IsSystem() {
		return nil, fmt.Errorf("%w: origin %s is not a system origin", apperrors.ErrValidation, req.Origin)
	}

	headerID := uuid.NewString()
	lines, err := s.buildLines(ctx, tx, op, req.TenantID, headerID, s.functionalCurrency, req.Lines, req.Origin == domain.OriginClosing)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].FunctionalDebit = lines[i].Debit
		lines[i].FunctionalCredit = lines[i].Credit
	}

	postingDate := domain.DateOf(req.PostingDate)
	now := s.Now()
	header := domain.JournalHeader{
		HeaderID:     headerID,
		TenantID:     req.TenantID,
		DocumentDate: postingDate,
		PostingDate:  postingDate,
		Reference:    req.Reference,
		Description:  req.Description,
		CurrencyCode: s.functionalCurrency,
		ExchangeRate: decimal.NewFromInt(1),
		Status:       domain.Posted,
		Origin:       req.Origin,
		ReversalOfID: req.ReversalOfID,
		ApprovedBy:   req.Actor,
		ApprovedAt:   &now,
		PostedBy:     req.Actor,
		PostedAt:     &now,
		Lines:        lines,
		AuditFields:  domain.NewAuditFields(req.Actor, now),
	}
	if debit, credit := header.FunctionalTotals(); !debit.Equal(credit) {
		return nil, apperrors.Unbalanced(op, headerID, debit, credit)
	}

	period, err := s.periods.RequirePostable(ctx, tx, req.TenantID, postingDate, req.Origin, headerID)
	if err != nil {
		return nil, err
	}
	header.PeriodID = period.PeriodID

	if err := tx.InsertHeader(ctx, header); err != nil {
		return nil, fmt.Errorf("failed to save %s entry: %w", req.Origin, err)
	}

	if req.ReversalOfID != "" {
		original, err := s.loadForTransition(ctx, tx, op, req.TenantID, req.ReversalOfID, domain.Reversed)
		if err != nil {
			return nil, err
		}
		original.Status = domain.Reversed
		original.ReversedByID = headerID
		original.Touch(req.Actor, now)
		if err := tx.UpdateHeaderStatus(ctx, *original, domain.Posted); err != nil {
			return nil, fmt.Errorf("failed to mark %s reversed: %w", req.ReversalOfID, err)
		}
		event := s.headerEvent(*original, domain.EventReversed, domain.Posted, req.Actor)
		event.Details["reversal_id"] = headerID
		s.EmitAfterCommit(tx, event)
	}

	s.afterBalanceChange(tx, header)
	s.EmitAfterCommit(tx, s.headerEvent(header, domain.EventPosted, "", req.Actor))
	s.LogInfo(ctx, "System entry posted",
		slog.String("header_id", headerID),
		slog.String("origin", string(req.Origin)),
		slog.String("posting_date", postingDate.Format(domain.DateLayout)))
	return &header, nil
}

// afterBalanceChange drops cached balances of the touched accounts once tx commits.
func (s *journalService) afterBalanceChange(tx portsrepo.LedgerTx, header domain.JournalHeader) {
	if s.cache == nil {
		return
	}
	tenantID, accountIDs := header.TenantID, header.AccountIDs()
	tx.AfterCommit(func(ctx context.Context) {
		s.cache.InvalidateAccounts(tenantID, accountIDs)
	})
}

func (s *journalService) headerEvent(header domain.JournalHeader, kind domain.AuditEventKind, from domain.JournalStatus, actor string) domain.AuditEvent {
	return domain.AuditEvent{
		TenantID:   header.TenantID,
		Kind:       kind,
		EntityType: entityHeader,
		EntityID:   header.HeaderID,
		OldStatus:  string(from),
		NewStatus:  string(header.Status),
		Actor:      actor,
		Details: map[string]string{
			"origin":       string(header.Origin),
			"posting_date": header.PostingDate.Format(domain.DateLayout),
			"currency":     header.CurrencyCode,
		},
	}
}
