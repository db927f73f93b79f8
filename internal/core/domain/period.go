package domain

import "time"

// PeriodStatus is the lifecycle state of an accounting period.
type PeriodStatus string

const (
	PeriodFuture  PeriodStatus = "FUTURE"
	PeriodOpen    PeriodStatus = "OPEN"
	PeriodClosing PeriodStatus = "CLOSING"
	PeriodClosed  PeriodStatus = "CLOSED"
)

// CanTransitionTo is the period state machine: future -> open -> closing -> closed.
// Transitions are monotonic. A failed close never moves closing back to open;
// the enclosing transaction is rolled back instead.
func (s PeriodStatus) CanTransitionTo(next PeriodStatus) bool {
	switch s {
	case PeriodFuture:
		return next == PeriodOpen
	case PeriodOpen:
		return next == PeriodClosing
	case PeriodClosing:
		return next == PeriodClosed
	case PeriodClosed:
		return false
	}
	return false
}

// IsActive reports whether the period counts against the one-active-per-year rule.
func (s PeriodStatus) IsActive() bool {
	return s == PeriodOpen || s == PeriodClosing
}

// Accepts reports whether a header of the given origin may be posted into a
// period in this status.
func (s PeriodStatus) Accepts(origin EntryOrigin) bool {
	switch s {
	case PeriodOpen:
		return true
	case PeriodClosing:
		return origin == OriginClosing || origin == OriginAccrual
	case PeriodFuture:
		// Only the automatic reversal of a period-end accrual may land in a period
		// that is not open yet.
		return origin == OriginAccrualReversal
	case PeriodClosed:
		return false
	}
	return false
}

// LockMode selects the row lock taken on a period inside a transaction.
type LockMode int

const (
	// LockShare is held by postings: it blocks a concurrent close.
	LockShare LockMode = iota
	// LockExclusive is held by status transitions.
	LockExclusive
)

// FiscalYear groups consecutive accounting periods.
type FiscalYear struct {
	FiscalYearID string    `json:"fiscalYearID"`
	TenantID     string    `json:"tenantID"`
	Name         string    `json:"name"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"` // Inclusive
	AuditFields
}

// AccountingPeriod is a date range that gates postings. It never holds its headers.
type AccountingPeriod struct {
	PeriodID     string       `json:"periodID"`
	TenantID     string       `json:"tenantID"`
	FiscalYearID string       `json:"fiscalYearID"`
	Name         string       `json:"name"` // e.g. 2024-01
	Sequence     int          `json:"sequence"`
	StartDate    time.Time    `json:"startDate"`
	EndDate      time.Time    `json:"endDate"` // Inclusive
	Status       PeriodStatus `json:"status"`
	ClosedBy     string       `json:"closedBy,omitempty"`
	ClosedAt     *time.Time   `json:"closedAt,omitempty"`
	AuditFields
}

// Contains reports whether the calendar date of t falls inside the period.
func (p AccountingPeriod) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// Clamp returns t moved into the period's date range.
func (p AccountingPeriod) Clamp(t time.Time) time.Time {
	d := DateOf(t)
	if d.Before(p.StartDate) {
		return p.StartDate
	}
	if d.After(p.EndDate) {
		return p.EndDate
	}
	return d
}

// MonthlyPeriods splits a fiscal year starting at start into n contiguous one-month
// periods. A start late in the month is clamped in shorter months.
func MonthlyPeriods(tenantID, fiscalYearID string, start time.Time, n int) []AccountingPeriod {
	start = DateOf(start)
	periods := make([]AccountingPeriod, 0, n)
	for i := 0; i < n; i++ {
		from := monthAnchor(start, i)
		to := monthAnchor(start, i+1).AddDate(0, 0, -1)
		periods = append(periods, AccountingPeriod{
			TenantID:     tenantID,
			FiscalYearID: fiscalYearID,
			Name:         from.Format("2006-01"),
			Sequence:     i + 1,
			StartDate:    from,
			EndDate:      to,
			Status:       PeriodFuture,
		})
	}
	return periods
}

// monthAnchor is start moved forward by months, keeping its day of month but clamped
// to the last day of the target month (Jan 31 + 1 month is Feb 29 in 2024, not Mar 2).
func monthAnchor(start time.Time, months int) time.Time {
	first := time.Date(start.Year(), start.Month()+time.Month(months), 1, 0, 0, 0, 0, start.Location())
	last := first.AddDate(0, 1, -1).Day()
	day := start.Day()
	if day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

// PostingWindow answers whether a date may receive a posting of a given origin.
type PostingWindow struct {
	Period    *AccountingPeriod `json:"period,omitempty"` // Nil when no period covers the date
	Permitted bool              `json:"permitted"`
	Reason    string            `json:"reason,omitempty"`
}
