package mapping

import (
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/models"
)

// ToModelFiscalYear converts a domain FiscalYear to a model FiscalYear
func ToModelFiscalYear(d domain.FiscalYear) models.FiscalYear {
	return models.FiscalYear{
		FiscalYearID: d.FiscalYearID,
		TenantID:     d.TenantID,
		Name:         d.Name,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFiscalYear converts a model FiscalYear to a domain FiscalYear
func ToDomainFiscalYear(m models.FiscalYear) domain.FiscalYear {
	return domain.FiscalYear{
		FiscalYearID: m.FiscalYearID,
		TenantID:     m.TenantID,
		Name:         m.Name,
		StartDate:    domain.DateOf(m.StartDate),
		EndDate:      domain.DateOf(m.EndDate),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAccountingPeriod converts a domain AccountingPeriod to a model AccountingPeriod
func ToModelAccountingPeriod(d domain.AccountingPeriod) models.AccountingPeriod {
	return models.AccountingPeriod{
		PeriodID:     d.PeriodID,
		TenantID:     d.TenantID,
		FiscalYearID: d.FiscalYearID,
		Name:         d.Name,
		Sequence:     d.Sequence,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		Status:       string(d.Status),
		ClosedBy:     NullString(d.ClosedBy),
		ClosedAt:     NullTime(d.ClosedAt),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccountingPeriod converts a model AccountingPeriod to a domain AccountingPeriod
func ToDomainAccountingPeriod(m models.AccountingPeriod) domain.AccountingPeriod {
	return domain.AccountingPeriod{
		PeriodID:     m.PeriodID,
		TenantID:     m.TenantID,
		FiscalYearID: m.FiscalYearID,
		Name:         m.Name,
		Sequence:     m.Sequence,
		StartDate:    domain.DateOf(m.StartDate),
		EndDate:      domain.DateOf(m.EndDate),
		Status:       domain.PeriodStatus(m.Status),
		ClosedBy:     m.ClosedBy.String,
		ClosedAt:     TimePtr(m.ClosedAt),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
