package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/lumibank/credit-service/internal/application/dto"
	"github.com/lumibank/credit-service/internal/domain/event"
	"github.com/lumibank/credit-service/internal/domain/model"
	"github.com/lumibank/credit-service/internal/domain/port"
	"github.com/lumibank/credit-service/internal/domain/service"
)

// CreateLoanUseCase runs the eligibility decision and, on approval, commits
// the loan together with the customer's debt increment.
type CreateLoanUseCase struct {
	customerRepo port.CustomerRepository
	loanRepo     port.LoanRepository
	publisher    port.EventPublisher
	engine       *service.EligibilityEngine
	now          func() time.Time
}

// NewCreateLoanUseCase wires dependencies.
func NewCreateLoanUseCase(
	customerRepo port.CustomerRepository,
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	engine *service.EligibilityEngine,
	now func() time.Time,
) *CreateLoanUseCase {
	return &CreateLoanUseCase{
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		publisher:    publisher,
		engine:       engine,
		now:          now,
	}
}

// Execute decides and, on approval, issues the loan. A policy rejection is a
// successful execution with LoanApproved=false; only infrastructure
// failures surface as errors.
func (uc *CreateLoanUseCase) Execute(
	ctx context.Context,
	req dto.LoanTermsRequest,
) (dto.CreateLoanResponse, error) {
	if err := validateLoanTerms(req); err != nil {
		return dto.CreateLoanResponse{}, err
	}

	customer, err := uc.customerRepo.FindByCustomerID(ctx, req.CustomerID)
	if err != nil {
		return dto.CreateLoanResponse{}, fmt.Errorf("find customer: %w", err)
	}

	loans, err := uc.loanRepo.FindByCustomerID(ctx, req.CustomerID)
	if err != nil {
		return dto.CreateLoanResponse{}, fmt.Errorf("load loan history: %w", err)
	}

	today := uc.now()
	decision, err := uc.engine.Evaluate(customer, loans, service.LoanRequest{
		Amount:       req.LoanAmount,
		InterestRate: req.InterestRate,
		TenureMonths: req.TenureMonths,
	}, today)
	if err != nil {
		return dto.CreateLoanResponse{}, fmt.Errorf("evaluate eligibility: %w", err)
	}

	if !decision.Approved {
		evt := event.NewLoanApplicationRejected(req.CustomerID, decision.Score, decision.Reason)
		if err := uc.publisher.Publish(ctx, evt); err != nil {
			return dto.CreateLoanResponse{}, fmt.Errorf("publish events: %w", err)
		}
		return dto.CreateLoanResponse{
			CustomerID:         req.CustomerID,
			LoanApproved:       false,
			Message:            decision.Reason,
			MonthlyInstallment: decision.MonthlyInstallment,
		}, nil
	}

	loan, err := model.NewLoan(
		req.CustomerID,
		req.LoanAmount, decision.CorrectedRate, decision.MonthlyInstallment,
		decision.TenureMonths, today,
	)
	if err != nil {
		return dto.CreateLoanResponse{}, fmt.Errorf("create loan: %w", err)
	}

	loan, err = uc.loanRepo.Issue(ctx, loan)
	if err != nil {
		return dto.CreateLoanResponse{}, fmt.Errorf("issue loan: %w", err)
	}

	evt := event.NewLoanIssued(
		loan.LoanID(), loan.CustomerID(),
		loan.Amount(), loan.InterestRate(), loan.MonthlyRepayment(),
		loan.TenureMonths(), loan.EndDate(),
	)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		return dto.CreateLoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	loanID := loan.LoanID()
	return dto.CreateLoanResponse{
		LoanID:             &loanID,
		CustomerID:         loan.CustomerID(),
		LoanApproved:       true,
		Message:            "loan approved",
		MonthlyInstallment: loan.MonthlyRepayment(),
	}, nil
}
