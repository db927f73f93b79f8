package mapping

import (
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/models"
)

// ToModelJournalHeader converts a domain JournalHeader to a model row. Lines are
// mapped separately.
func ToModelJournalHeader(d domain.JournalHeader) models.JournalHeader {
	return models.JournalHeader{
		HeaderID:       d.HeaderID,
		TenantID:       d.TenantID,
		PeriodID:       d.PeriodID,
		DocumentDate:   d.DocumentDate,
		PostingDate:    d.PostingDate,
		Reference:      NullString(d.Reference),
		Description:    d.Description,
		CurrencyCode:   d.CurrencyCode,
		ExchangeRate:   NullDecimal(d.ExchangeRate),
		Status:         string(d.Status),
		Origin:         string(d.Origin),
		ReversalOfID:   NullString(d.ReversalOfID),
		ReversedByID:   NullString(d.ReversedByID),
		ReversalReason: NullString(d.ReversalReason),
		ApprovedBy:     NullString(d.ApprovedBy),
		ApprovedAt:     NullTime(d.ApprovedAt),
		PostedBy:       NullString(d.PostedBy),
		PostedAt:       NullTime(d.PostedAt),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalHeader converts a model row and its lines to a domain JournalHeader.
func ToDomainJournalHeader(m models.JournalHeader, lines []models.JournalLine) domain.JournalHeader {
	return domain.JournalHeader{
		HeaderID:       m.HeaderID,
		TenantID:       m.TenantID,
		PeriodID:       m.PeriodID,
		DocumentDate:   domain.DateOf(m.DocumentDate),
		PostingDate:    domain.DateOf(m.PostingDate),
		Reference:      m.Reference.String,
		Description:    m.Description,
		CurrencyCode:   m.CurrencyCode,
		ExchangeRate:   DecimalOrZero(m.ExchangeRate),
		Status:         domain.JournalStatus(m.Status),
		Origin:         domain.EntryOrigin(m.Origin),
		ReversalOfID:   m.ReversalOfID.String,
		ReversedByID:   m.ReversedByID.String,
		ReversalReason: m.ReversalReason.String,
		ApprovedBy:     m.ApprovedBy.String,
		ApprovedAt:     TimePtr(m.ApprovedAt),
		PostedBy:       m.PostedBy.String,
		PostedAt:       TimePtr(m.PostedAt),
		Lines:          ToDomainJournalLineSlice(lines),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model row.
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	frozen := !d.FunctionalDebit.IsZero() || !d.FunctionalCredit.IsZero()
	m := models.JournalLine{
		LineID:     d.LineID,
		HeaderID:   d.HeaderID,
		LineNo:     d.LineNo,
		AccountID:  d.AccountID,
		Debit:      d.Debit,
		Credit:     d.Credit,
		CostCenter: d.Dimensions.CostCenter,
		Project:    d.Dimensions.Project,
		Memo:       NullString(d.Memo),
	}
	// A frozen line stores both sides so the zero side reads back as 0, not NULL.
	if frozen {
		m.FunctionalDebit.Decimal, m.FunctionalDebit.Valid = d.FunctionalDebit, true
		m.FunctionalCredit.Decimal, m.FunctionalCredit.Valid = d.FunctionalCredit, true
	}
	return m
}

// ToDomainJournalLine converts a model row to a domain JournalLine.
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:           m.LineID,
		HeaderID:         m.HeaderID,
		LineNo:           m.LineNo,
		AccountID:        m.AccountID,
		Debit:            m.Debit,
		Credit:           m.Credit,
		FunctionalDebit:  DecimalOrZero(m.FunctionalDebit),
		FunctionalCredit: DecimalOrZero(m.FunctionalCredit),
		Dimensions:       domain.Dimensions{CostCenter: m.CostCenter, Project: m.Project},
		Memo:             m.Memo.String,
	}
}

// ToDomainJournalLineSlice converts model lines to domain lines.
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
