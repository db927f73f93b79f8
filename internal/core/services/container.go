package services

import (
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
)

// ContainerConfig carries the ledger settings the services need.
type ContainerConfig struct {
	Closing       ClosingConfig
	AccrualPolicy portssvc.AccrualPolicy
	AuditSink     portssvc.AuditSink
}

// NewContainer creates a new service container with properly initialized dependencies
func NewContainer(txm portsrepo.TransactionManager, cfg ContainerConfig, options ...ServiceOption) *portssvc.ServiceContainer {
	if cfg.AuditSink != nil {
		options = append([]ServiceOption{WithAuditSink(cfg.AuditSink)}, options...)
	}
	currency := cfg.Closing.FunctionalCurrency

	// Reporting owns the balance cache the journal service invalidates.
	reporting := NewReportingService(txm, currency, options...)
	rates := NewExchangeRateService(options...)
	periods := NewPeriodService(txm, options...)
	journal := NewJournalService(txm, currency, periods, rates, reporting, options...)

	return &portssvc.ServiceContainer{
		Account:      NewAccountService(txm, options...),
		ExchangeRate: rates,
		Journal:      journal,
		Period:       periods,
		Closing:      NewClosingService(cfg.Closing, journal, periods, cfg.AccrualPolicy, options...),
		Reporting:    reporting,
	}
}
