package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lumibank/credit-service/internal/application/dto"
	"github.com/lumibank/credit-service/internal/application/usecase"
	"github.com/lumibank/credit-service/internal/domain/port"
	"github.com/lumibank/credit-service/pkg/observability"
)

// CreditHandler exposes the credit decisioning operations over gRPC.
type CreditHandler struct {
	UnimplementedCreditServiceServer

	register  *usecase.RegisterCustomerUseCase
	check     *usecase.CheckEligibilityUseCase
	create    *usecase.CreateLoanUseCase
	getLoan   *usecase.GetLoanUseCase
	listLoans *usecase.ListCustomerLoansUseCase
	metrics   *observability.DecisionMetrics
	logger    *slog.Logger
}

// NewCreditHandler creates a new handler with all use-case dependencies.
func NewCreditHandler(
	register *usecase.RegisterCustomerUseCase,
	check *usecase.CheckEligibilityUseCase,
	create *usecase.CreateLoanUseCase,
	getLoan *usecase.GetLoanUseCase,
	listLoans *usecase.ListCustomerLoansUseCase,
	metrics *observability.DecisionMetrics,
	logger *slog.Logger,
) *CreditHandler {
	return &CreditHandler{
		register:  register,
		check:     check,
		create:    create,
		getLoan:   getLoan,
		listLoans: listLoans,
		metrics:   metrics,
		logger:    logger,
	}
}

// RegisterCustomer handles new customer registration.
func (h *CreditHandler) RegisterCustomer(ctx context.Context, req *RegisterCustomerRequest) (*RegisterCustomerResponse, error) {
	income, err := decimal.NewFromString(req.MonthlyIncome)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid monthly_income: %v", err)
	}

	resp, err := h.register.Execute(ctx, dto.RegisterCustomerRequest{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Age:           req.Age,
		PhoneNumber:   req.PhoneNumber,
		MonthlyIncome: income,
	})
	if err != nil {
		return nil, h.toStatus(err)
	}

	h.metrics.CustomersRegistered.Inc()
	h.logger.Info("customer registered", "customer_id", resp.CustomerID)

	return &RegisterCustomerResponse{
		CustomerID:    resp.CustomerID,
		Name:          resp.Name,
		Age:           resp.Age,
		PhoneNumber:   resp.PhoneNumber,
		MonthlyIncome: resp.MonthlyIncome.String(),
		ApprovedLimit: resp.ApprovedLimit.String(),
	}, nil
}

// CheckEligibility evaluates loan terms without committing anything.
func (h *CreditHandler) CheckEligibility(ctx context.Context, req *CheckEligibilityRequest) (*CheckEligibilityResponse, error) {
	terms, err := parseLoanTerms(req.Terms)
	if err != nil {
		return nil, err
	}

	resp, err := h.check.Execute(ctx, terms)
	if err != nil {
		return nil, h.toStatus(err)
	}

	h.metrics.Decisions.WithLabelValues(decisionOutcome(resp.Approval)).Inc()

	return &CheckEligibilityResponse{
		CustomerID:            resp.CustomerID,
		Approval:              resp.Approval,
		InterestRate:          resp.InterestRate.String(),
		CorrectedInterestRate: resp.CorrectedInterestRate.String(),
		TenureMonths:          resp.TenureMonths,
		MonthlyInstallment:    resp.MonthlyInstallment.String(),
		Reason:                resp.Reason,
	}, nil
}

// CreateLoan evaluates loan terms and, on approval, issues the loan.
func (h *CreditHandler) CreateLoan(ctx context.Context, req *CreateLoanRequest) (*CreateLoanResponse, error) {
	terms, err := parseLoanTerms(req.Terms)
	if err != nil {
		return nil, err
	}

	resp, err := h.create.Execute(ctx, terms)
	if err != nil {
		return nil, h.toStatus(err)
	}

	h.metrics.Decisions.WithLabelValues(decisionOutcome(resp.LoanApproved)).Inc()

	out := &CreateLoanResponse{
		CustomerID:         resp.CustomerID,
		LoanApproved:       resp.LoanApproved,
		Message:            resp.Message,
		MonthlyInstallment: resp.MonthlyInstallment.String(),
	}
	if resp.LoanID != nil {
		out.LoanID = *resp.LoanID
		h.metrics.LoansIssued.Inc()
		h.logger.Info("loan issued", "loan_id", out.LoanID, "customer_id", resp.CustomerID)
	}
	return out, nil
}

// GetLoan retrieves a loan with its customer details.
func (h *CreditHandler) GetLoan(ctx context.Context, req *GetLoanRequest) (*GetLoanResponse, error) {
	resp, err := h.getLoan.Execute(ctx, dto.GetLoanRequest{LoanID: req.LoanID})
	if err != nil {
		return nil, h.toStatus(err)
	}

	return &GetLoanResponse{
		LoanID: resp.LoanID,
		Customer: CustomerSummary{
			CustomerID:  resp.Customer.CustomerID,
			FirstName:   resp.Customer.FirstName,
			LastName:    resp.Customer.LastName,
			PhoneNumber: resp.Customer.PhoneNumber,
			Age:         resp.Customer.Age,
		},
		LoanAmount:         resp.LoanAmount.String(),
		InterestRate:       resp.InterestRate.String(),
		MonthlyInstallment: resp.MonthlyInstallment.String(),
		TenureMonths:       resp.TenureMonths,
	}, nil
}

// ListCustomerLoans lists every loan held by a customer.
func (h *CreditHandler) ListCustomerLoans(ctx context.Context, req *ListCustomerLoansRequest) (*ListCustomerLoansResponse, error) {
	resp, err := h.listLoans.Execute(ctx, dto.ListCustomerLoansRequest{CustomerID: req.CustomerID})
	if err != nil {
		return nil, h.toStatus(err)
	}

	items := make([]CustomerLoanItem, 0, len(resp.Loans))
	for _, l := range resp.Loans {
		items = append(items, CustomerLoanItem{
			LoanID:             l.LoanID,
			LoanAmount:         l.LoanAmount.String(),
			InterestRate:       l.InterestRate.String(),
			MonthlyInstallment: l.MonthlyInstallment.String(),
			RepaymentsLeft:     l.RepaymentsLeft,
		})
	}

	return &ListCustomerLoansResponse{
		CustomerID: resp.CustomerID,
		Loans:      items,
	}, nil
}

func parseLoanTerms(t LoanTerms) (dto.LoanTermsRequest, error) {
	amount, err := decimal.NewFromString(t.LoanAmount)
	if err != nil {
		return dto.LoanTermsRequest{}, status.Errorf(codes.InvalidArgument, "invalid loan_amount: %v", err)
	}
	rate, err := decimal.NewFromString(t.InterestRate)
	if err != nil {
		return dto.LoanTermsRequest{}, status.Errorf(codes.InvalidArgument, "invalid interest_rate: %v", err)
	}
	return dto.LoanTermsRequest{
		CustomerID:   t.CustomerID,
		LoanAmount:   amount,
		InterestRate: rate,
		TenureMonths: t.TenureMonths,
	}, nil
}

func decisionOutcome(approved bool) string {
	if approved {
		return "approved"
	}
	return "rejected"
}

// toStatus maps application errors onto gRPC status codes.
func (h *CreditHandler) toStatus(err error) error {
	switch {
	case errors.Is(err, port.ErrCustomerNotFound), errors.Is(err, port.ErrLoanNotFound):
		return status.Error(codes.NotFound, err.Error())
	case strings.Contains(err.Error(), "validate terms"),
		strings.Contains(err.Error(), "create customer"):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		h.logger.Error("request failed", "error", err)
		return status.Error(codes.Internal, err.Error())
	}
}
