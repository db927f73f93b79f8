package domain

import "time"

// AuditEventKind names a state transition reported to the audit sink.
type AuditEventKind string

const (
	EventDraftCreated  AuditEventKind = "draft_created"
	EventApproved      AuditEventKind = "approved"
	EventPosted        AuditEventKind = "posted"
	EventReversed      AuditEventKind = "reversed"
	EventPeriodOpened  AuditEventKind = "period_opened"
	EventPeriodClosing AuditEventKind = "period_closing"
	EventPeriodClosed  AuditEventKind = "period_closed"
)

// AuditEvent carries old/new status of one transition and the acting principal.
type AuditEvent struct {
	EventID    string            `json:"eventID"`
	TenantID   string            `json:"tenantID"`
	Kind       AuditEventKind    `json:"kind"`
	EntityType string            `json:"entityType"` // journal_header or accounting_period
	EntityID   string            `json:"entityID"`
	OldStatus  string            `json:"oldStatus,omitempty"`
	NewStatus  string            `json:"newStatus"`
	Actor      string            `json:"actor"`
	OccurredAt time.Time         `json:"occurredAt"`
	Details    map[string]string `json:"details,omitempty"`
}
