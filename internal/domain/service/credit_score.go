package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumibank/credit-service/internal/domain/model"
)

// ---------------------------------------------------------------------------
// CreditScoreEngine – domain service aggregating loan history into a score
// ---------------------------------------------------------------------------

// Sub-score weights. They sum with the flat base to 100 for a customer with
// a perfect profile.
var (
	weightRepayment = decimal.NewFromInt(30)
	weightLoanCount = decimal.NewFromInt(20)
	weightRecency   = decimal.NewFromInt(20)
	weightVolume    = decimal.NewFromInt(20)
	baseScore       = decimal.NewFromInt(10)

	recencyPenaltyStep = decimal.NewFromInt(5)
)

// ScoreResult carries the composite score together with the two active-loan
// aggregates the eligibility decision needs downstream.
type ScoreResult struct {
	ActiveLoanAmount decimal.Decimal
	ActiveEMITotal   decimal.Decimal
	Score            int
}

// CreditScoreEngine computes a 0-100 creditworthiness score from a customer's
// complete loan history. It never reads the cached current_debt field; active
// exposure is always recomputed from the loan set.
type CreditScoreEngine struct{}

// NewCreditScoreEngine returns a new engine instance.
func NewCreditScoreEngine() *CreditScoreEngine {
	return &CreditScoreEngine{}
}

// Score evaluates the customer's loan history as of the given day.
//
// A customer whose active loans already exceed the approved limit scores 0
// outright; repayment history cannot compensate for over-extension.
// Otherwise four weighted sub-scores plus a flat base are summed, clamped to
// [0, 100] and truncated to an integer:
//
//   - repayment   (30): average of min(emis_paid_on_time/tenure, 1); no
//     history defaults to a ratio of 1
//   - loan count  (20): min(count, 5) / 5
//   - recency     (20): minus 5 for every loan beyond the first started in
//     the current calendar year
//   - volume      (20): scaled down as lifetime borrowing approaches the
//     approved limit
func (e *CreditScoreEngine) Score(customer model.Customer, loans []model.Loan, today time.Time) ScoreResult {
	activeAmount := decimal.Zero
	activeEMI := decimal.Zero
	for _, loan := range loans {
		if loan.ActiveOn(today) {
			activeAmount = activeAmount.Add(loan.Amount())
			activeEMI = activeEMI.Add(loan.MonthlyRepayment())
		}
	}

	result := ScoreResult{
		ActiveLoanAmount: activeAmount,
		ActiveEMITotal:   activeEMI,
	}

	// Hard gate: over-extended customers score zero, full stop.
	if activeAmount.GreaterThan(customer.ApprovedLimit()) {
		result.Score = 0
		return result
	}

	total := e.repaymentScore(loans).
		Add(e.loanCountScore(loans)).
		Add(e.recencyScore(loans, today)).
		Add(e.volumeScore(customer, loans)).
		Add(baseScore)

	result.Score = int(clampScore(total).IntPart())
	return result
}

// repaymentScore rewards on-time EMI history. Loans with a zero tenure are
// skipped; a customer with no scorable loans is treated as fully reliable.
func (e *CreditScoreEngine) repaymentScore(loans []model.Loan) decimal.Decimal {
	ratioSum := decimal.Zero
	scorable := 0
	one := decimal.NewFromInt(1)

	for _, loan := range loans {
		if loan.TenureMonths() <= 0 {
			continue
		}
		ratio := decimal.NewFromInt(int64(loan.EMIsPaidOnTime())).
			Div(decimal.NewFromInt(int64(loan.TenureMonths())))
		if ratio.GreaterThan(one) {
			ratio = one
		}
		ratioSum = ratioSum.Add(ratio)
		scorable++
	}

	avg := one
	if scorable > 0 {
		avg = ratioSum.Div(decimal.NewFromInt(int64(scorable)))
	}
	return weightRepayment.Mul(avg)
}

// loanCountScore rewards history depth, saturating at five loans.
func (e *CreditScoreEngine) loanCountScore(loans []model.Loan) decimal.Decimal {
	count := len(loans)
	if count > 5 {
		count = 5
	}
	return weightLoanCount.Mul(decimal.NewFromInt(int64(count))).
		Div(decimal.NewFromInt(5))
}

// recencyScore penalises loan stacking: more than one loan started in the
// current calendar year costs 5 points each.
func (e *CreditScoreEngine) recencyScore(loans []model.Loan, today time.Time) decimal.Decimal {
	recent := 0
	for _, loan := range loans {
		if loan.StartedInYear(today.Year()) {
			recent++
		}
	}

	score := weightRecency
	if recent > 1 {
		score = score.Sub(recencyPenaltyStep.Mul(decimal.NewFromInt(int64(recent - 1))))
	}
	if score.IsNegative() {
		return decimal.Zero
	}
	return score
}

// volumeScore scales down as lifetime borrowing approaches the approved
// limit. A zero limit counts as fully consumed.
func (e *CreditScoreEngine) volumeScore(customer model.Customer, loans []model.Loan) decimal.Decimal {
	one := decimal.NewFromInt(1)

	ratio := one
	if customer.ApprovedLimit().IsPositive() {
		total := decimal.Zero
		for _, loan := range loans {
			total = total.Add(loan.Amount())
		}
		ratio = total.Div(customer.ApprovedLimit())
		if ratio.GreaterThan(one) {
			ratio = one
		}
	}

	score := weightVolume.Mul(one.Sub(ratio))
	if score.IsNegative() {
		return decimal.Zero
	}
	return score
}

func clampScore(d decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(hundred) {
		return hundred
	}
	return d
}
