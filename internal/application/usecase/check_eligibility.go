package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumibank/credit-service/internal/application/dto"
	"github.com/lumibank/credit-service/internal/domain/port"
	"github.com/lumibank/credit-service/internal/domain/service"
)

// CheckEligibilityUseCase runs the eligibility decision without committing
// anything. Calling it twice with identical inputs and no intervening loan
// creation yields identical output.
type CheckEligibilityUseCase struct {
	customerRepo port.CustomerRepository
	loanRepo     port.LoanRepository
	engine       *service.EligibilityEngine
	now          func() time.Time
}

// NewCheckEligibilityUseCase wires dependencies. The clock is injected so
// the "today" used for active-loan filtering stays deterministic in tests.
func NewCheckEligibilityUseCase(
	customerRepo port.CustomerRepository,
	loanRepo port.LoanRepository,
	engine *service.EligibilityEngine,
	now func() time.Time,
) *CheckEligibilityUseCase {
	return &CheckEligibilityUseCase{
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		engine:       engine,
		now:          now,
	}
}

// Execute evaluates the requested terms against the customer's history.
func (uc *CheckEligibilityUseCase) Execute(
	ctx context.Context,
	req dto.LoanTermsRequest,
) (dto.EligibilityResponse, error) {
	if err := validateLoanTerms(req); err != nil {
		return dto.EligibilityResponse{}, err
	}

	customer, err := uc.customerRepo.FindByCustomerID(ctx, req.CustomerID)
	if err != nil {
		return dto.EligibilityResponse{}, fmt.Errorf("find customer: %w", err)
	}

	loans, err := uc.loanRepo.FindByCustomerID(ctx, req.CustomerID)
	if err != nil {
		return dto.EligibilityResponse{}, fmt.Errorf("load loan history: %w", err)
	}

	decision, err := uc.engine.Evaluate(customer, loans, service.LoanRequest{
		Amount:       req.LoanAmount,
		InterestRate: req.InterestRate,
		TenureMonths: req.TenureMonths,
	}, uc.now())
	if err != nil {
		return dto.EligibilityResponse{}, fmt.Errorf("evaluate eligibility: %w", err)
	}

	return dto.EligibilityResponse{
		CustomerID:            req.CustomerID,
		Approval:              decision.Approved,
		InterestRate:          req.InterestRate,
		CorrectedInterestRate: decision.CorrectedRate,
		TenureMonths:          decision.TenureMonths,
		MonthlyInstallment:    decision.MonthlyInstallment,
		Reason:                decision.Reason,
	}, nil
}

// validateLoanTerms rejects malformed terms before the engine runs; the
// engine itself assumes validated input.
func validateLoanTerms(req dto.LoanTermsRequest) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("validate terms: customer id must be positive, got %d", req.CustomerID)
	}
	if req.LoanAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("validate terms: loan amount must be positive, got %s", req.LoanAmount)
	}
	if req.InterestRate.IsNegative() {
		return fmt.Errorf("validate terms: interest rate must not be negative, got %s", req.InterestRate)
	}
	if req.TenureMonths < 1 {
		return fmt.Errorf("validate terms: tenure must be at least one month, got %d", req.TenureMonths)
	}
	return nil
}
