// Package policy holds the period-end accrual heuristics used by the closing service.
package policy

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
)

// None never proposes an accrual.
type None struct{}

// ProposeAccruals implements portssvc.AccrualPolicy.
func (None) ProposeAccruals(context.Context, portsrepo.ActivityReader, domain.AccrualInput) ([]domain.AccrualProposal, error) {
	return nil, nil
}

// Concentration accrues for expense accounts whose period debits cluster in the last
// WindowDays of the period. Such a pattern suggests a recurring cost that is booked
// late, so a similar amount is expected to be incurred but not yet invoiced.
//
// For each eligible account the share of the period's debits that fall inside the
// window is compared with ConcentrationThreshold; at or above it, the window's debits
// times AccrualRatio are proposed.
type Concentration struct {
	WindowDays             int
	ConcentrationThreshold decimal.Decimal // In (0, 1]
	AccrualRatio           decimal.Decimal
	// AccountCodes restricts the policy to these expense accounts. Empty means all.
	AccountCodes []string
}

var (
	_ portssvc.AccrualPolicy = None{}
	_ portssvc.AccrualPolicy = Concentration{}
)

// ProposeAccruals implements portssvc.AccrualPolicy. Proposals are ordered by
// account code so the same input always produces the same headers.
func (c Concentration) ProposeAccruals(ctx context.Context, q portsrepo.ActivityReader, input domain.AccrualInput) ([]domain.AccrualProposal, error) {
	if c.WindowDays < 1 {
		return nil, fmt.Errorf("accrual window must be at least one day, got %d", c.WindowDays)
	}

	allowed := make(map[string]struct{}, len(c.AccountCodes))
	for _, code := range c.AccountCodes {
		allowed[code] = struct{}{}
	}

	candidates := make([]domain.Account, 0, len(input.ExpenseAccounts))
	for _, a := range input.ExpenseAccounts {
		if len(allowed) > 0 {
			if _, ok := allowed[a.Code]; !ok {
				continue
			}
		}
		if input.PeriodActivity[a.AccountID].DebitTotal.IsPositive() {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Code < candidates[j].Code })

	windowStart := input.Period.EndDate.AddDate(0, 0, 1-c.WindowDays)
	if windowStart.Before(input.Period.StartDate) {
		windowStart = input.Period.StartDate
	}
	ids := make([]string, len(candidates))
	for i, a := range candidates {
		ids[i] = a.AccountID
	}
	windowActivity, err := q.SumActivity(ctx, input.TenantID, domain.ActivityFilter{From: &windowStart, To: input.Period.EndDate, AccountIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to sum window activity: %w", err)
	}
	inWindow := make(map[string]decimal.Decimal, len(windowActivity))
	for _, a := range windowActivity {
		inWindow[a.AccountID] = a.DebitTotal
	}

	var proposals []domain.AccrualProposal
	for _, a := range candidates {
		total := input.PeriodActivity[a.AccountID].DebitTotal
		window := inWindow[a.AccountID]
		if !window.IsPositive() {
			continue
		}
		share := window.Div(total)
		if share.LessThan(c.ConcentrationThreshold) {
			continue
		}
		proposals = append(proposals, domain.AccrualProposal{
			ExpenseAccountID: a.AccountID,
			Amount:           window.Mul(c.AccrualRatio),
			Description:      fmt.Sprintf("Accrued %s %s", a.Code, input.Period.Name),
		})
	}
	return proposals, nil
}
