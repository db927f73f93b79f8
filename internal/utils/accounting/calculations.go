package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NaturalBalance signs a debit/credit activity by the account type's normal side.
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func NaturalBalance(activity domain.AccountActivity, accountType domain.AccountType) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return activity.DebitTotal.Sub(activity.CreditTotal), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return activity.CreditTotal.Sub(activity.DebitTotal), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, activity.AccountID)
	}
}

// ConvertLines fills in the functional amounts of lines at rate, rounded to scale.
// The rounding residual of each side is spread one minor unit at a time over the
// lines of that side, largest transaction amount first, so that a header balanced in
// its transaction currency stays exactly balanced after conversion. A line never
// ends up with a negative functional amount; when the residual cannot be placed the
// result is an InvalidLine error. The input slice is not modified.
func ConvertLines(lines []domain.JournalLine, rate decimal.Decimal, scale int32) ([]domain.JournalLine, error) {
	const op = "Accounting.ConvertLines"
	out := make([]domain.JournalLine, len(lines))
	copy(out, lines)

	var debitTotal, creditTotal decimal.Decimal
	for i := range out {
		out[i].FunctionalDebit = out[i].Debit.Mul(rate).Round(scale)
		out[i].FunctionalCredit = out[i].Credit.Mul(rate).Round(scale)
		if out[i].FunctionalDebit.IsNegative() || out[i].FunctionalCredit.IsNegative() {
			return nil, apperrors.InvalidLine(op, "", i, fmt.Sprintf("functional amount is negative at rate %s", rate))
		}
		debitTotal = debitTotal.Add(out[i].Debit)
		creditTotal = creditTotal.Add(out[i].Credit)
	}

	unit := decimal.New(1, -scale)
	for _, side := range []domain.Side{domain.Debit, domain.Credit} {
		total := debitTotal
		if side == domain.Credit {
			total = creditTotal
		}
		residual := total.Mul(rate).Round(scale).Sub(sumFunctional(out, side))
		if err := spreadResidual(op, out, side, residual, unit); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// spreadResidual moves residual onto the lines of side in steps of unit, visiting the
// lines by descending transaction amount and skipping lines already at zero when the
// residual is negative.
func spreadResidual(op string, lines []domain.JournalLine, side domain.Side, residual, unit decimal.Decimal) error {
	if residual.IsZero() {
		return nil
	}
	order := make([]int, 0, len(lines))
	for i, l := range lines {
		if sideAmount(l, side).IsPositive() {
			order = append(order, i)
		}
	}
	if len(order) == 0 {
		return apperrors.InvalidLine(op, "", apperrors.NoLine, fmt.Sprintf("no %s line can absorb a residual of %s", side, residual))
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sideAmount(lines[order[a]], side).GreaterThan(sideAmount(lines[order[b]], side))
	})

	step := unit
	if residual.IsNegative() {
		step = unit.Neg()
	}
	for !residual.IsZero() {
		moved := false
		for _, i := range order {
			if residual.IsZero() {
				break
			}
			next := functionalAmount(lines[i], side).Add(step)
			if next.IsNegative() {
				continue
			}
			setFunctionalAmount(&lines[i], side, next)
			residual = residual.Sub(step)
			moved = true
		}
		if !moved {
			return apperrors.InvalidLine(op, "", order[0], fmt.Sprintf("residual %s would make a %s line negative", residual, side))
		}
	}
	return nil
}

func sideAmount(l domain.JournalLine, side domain.Side) decimal.Decimal {
	if side == domain.Debit {
		return l.Debit
	}
	return l.Credit
}

func functionalAmount(l domain.JournalLine, side domain.Side) decimal.Decimal {
	if side == domain.Debit {
		return l.FunctionalDebit
	}
	return l.FunctionalCredit
}

func setFunctionalAmount(l *domain.JournalLine, side domain.Side, amount decimal.Decimal) {
	if side == domain.Debit {
		l.FunctionalDebit = amount
	} else {
		l.FunctionalCredit = amount
	}
}

func sumFunctional(lines []domain.JournalLine, side domain.Side) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(functionalAmount(l, side))
	}
	return total
}

// WithinTolerance reports whether |debit - credit| is strictly less than epsilon.
func WithinTolerance(debit, credit, epsilon decimal.Decimal) bool {
	return debit.Sub(credit).Abs().LessThan(epsilon)
}
