package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumibank/credit-service/internal/domain/model"
	"github.com/lumibank/credit-service/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// EligibilityEngine – score-slab pricing and affordability decisioning
// ---------------------------------------------------------------------------

// Slab floors: the minimum annual rate a customer may be charged given their
// score. Scores above 50 keep the requested rate untouched.
var (
	rateFloorMidSlab = decimal.NewFromInt(12)
	rateFloorLowSlab = decimal.NewFromInt(16)

	salaryEMICap = decimal.NewFromFloat(0.5)
)

// MinimumRateForScore maps a credit score to the slab's rate floor.
// ok is false when the score is too low for any lending at all.
func MinimumRateForScore(score int) (floor decimal.Decimal, ok bool) {
	switch {
	case score > 50:
		return decimal.Zero, true
	case score > 30:
		return rateFloorMidSlab, true
	case score > 10:
		return rateFloorLowSlab, true
	default:
		return decimal.Zero, false
	}
}

// LoanRequest is the terms a customer asks for.
type LoanRequest struct {
	Amount       decimal.Decimal
	InterestRate decimal.Decimal // annual, percent
	TenureMonths int
}

// Decision is the outcome of one eligibility evaluation. On every path that
// reaches the amortization step the corrected rate and installment are
// populated, even when approval is ultimately denied, so callers can report
// them for transparency.
type Decision struct {
	Status             valueobject.DecisionStatus
	Reason             string
	CorrectedRate      decimal.Decimal
	MonthlyInstallment decimal.Decimal
	Score              int
	TenureMonths       int
	Approved           bool
	RateCorrected      bool
}

// EligibilityEngine runs the decision pipeline: score, slab pricing,
// amortization, affordability. It is a pure function of its inputs; the
// evaluation date is always passed in explicitly.
type EligibilityEngine struct {
	scorer *CreditScoreEngine
}

// NewEligibilityEngine wires the score engine.
func NewEligibilityEngine(scorer *CreditScoreEngine) *EligibilityEngine {
	return &EligibilityEngine{scorer: scorer}
}

// Evaluate decides whether the customer may take the requested loan as of
// the given day. Rejections are normal outcomes, not errors; the only error
// path is an amortization contract violation, which validated input cannot
// reach.
func (e *EligibilityEngine) Evaluate(
	customer model.Customer,
	loans []model.Loan,
	req LoanRequest,
	today time.Time,
) (Decision, error) {
	score := e.scorer.Score(customer, loans, today)

	decision := Decision{
		Score:         score.Score,
		CorrectedRate: req.InterestRate,
		TenureMonths:  req.TenureMonths,
	}

	if score.Score == 0 {
		decision.Status = valueobject.DecisionScoreZeroReject
		decision.Reason = "credit score zero: active loans exceed approved limit"
		return decision, nil
	}

	floor, eligible := MinimumRateForScore(score.Score)
	if !eligible {
		decision.Status = valueobject.DecisionScoreTooLowReject
		decision.Reason = "credit score too low for any rate slab"
		return decision, nil
	}

	if floor.GreaterThan(req.InterestRate) {
		decision.Status = valueobject.DecisionRateCorrected
		decision.CorrectedRate = floor
		decision.RateCorrected = true
	}

	installment, err := model.MonthlyInstallment(req.Amount, decision.CorrectedRate, req.TenureMonths)
	if err != nil {
		return Decision{}, err
	}
	decision.MonthlyInstallment = installment

	affordable := score.ActiveEMITotal.Add(installment).
		LessThanOrEqual(customer.MonthlySalary().Mul(salaryEMICap))
	if !affordable {
		decision.Status = valueobject.DecisionEMIExceedsSalaryReject
		decision.Reason = "emi exceeds 50% of monthly salary"
		return decision, nil
	}

	decision.Status = valueobject.DecisionApproved
	decision.Approved = true
	return decision, nil
}
