package usecase

import (
	"context"
	"fmt"

	"github.com/lumibank/credit-service/internal/application/dto"
	"github.com/lumibank/credit-service/internal/domain/port"
)

// GetLoanUseCase retrieves a single loan with its customer details.
type GetLoanUseCase struct {
	customerRepo port.CustomerRepository
	loanRepo     port.LoanRepository
}

func NewGetLoanUseCase(customerRepo port.CustomerRepository, loanRepo port.LoanRepository) *GetLoanUseCase {
	return &GetLoanUseCase{customerRepo: customerRepo, loanRepo: loanRepo}
}

func (uc *GetLoanUseCase) Execute(ctx context.Context, req dto.GetLoanRequest) (dto.LoanDetailResponse, error) {
	loan, err := uc.loanRepo.FindByLoanID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanDetailResponse{}, fmt.Errorf("find loan: %w", err)
	}

	customer, err := uc.customerRepo.FindByCustomerID(ctx, loan.CustomerID())
	if err != nil {
		return dto.LoanDetailResponse{}, fmt.Errorf("find customer: %w", err)
	}

	return dto.LoanDetailResponse{
		LoanID: loan.LoanID(),
		Customer: dto.CustomerSummary{
			CustomerID:  customer.CustomerID(),
			FirstName:   customer.FirstName(),
			LastName:    customer.LastName(),
			PhoneNumber: customer.PhoneNumber(),
			Age:         customer.Age(),
		},
		LoanAmount:         loan.Amount(),
		InterestRate:       loan.InterestRate(),
		MonthlyInstallment: loan.MonthlyRepayment(),
		TenureMonths:       loan.TenureMonths(),
	}, nil
}

// ListCustomerLoansUseCase lists every loan held by a customer.
type ListCustomerLoansUseCase struct {
	customerRepo port.CustomerRepository
	loanRepo     port.LoanRepository
}

func NewListCustomerLoansUseCase(customerRepo port.CustomerRepository, loanRepo port.LoanRepository) *ListCustomerLoansUseCase {
	return &ListCustomerLoansUseCase{customerRepo: customerRepo, loanRepo: loanRepo}
}

func (uc *ListCustomerLoansUseCase) Execute(ctx context.Context, req dto.ListCustomerLoansRequest) (dto.ListCustomerLoansResponse, error) {
	if _, err := uc.customerRepo.FindByCustomerID(ctx, req.CustomerID); err != nil {
		return dto.ListCustomerLoansResponse{}, fmt.Errorf("find customer: %w", err)
	}

	loans, err := uc.loanRepo.FindByCustomerID(ctx, req.CustomerID)
	if err != nil {
		return dto.ListCustomerLoansResponse{}, fmt.Errorf("load loans: %w", err)
	}

	items := make([]dto.CustomerLoanItem, 0, len(loans))
	for _, loan := range loans {
		items = append(items, dto.CustomerLoanItem{
			LoanID:             loan.LoanID(),
			LoanAmount:         loan.Amount(),
			InterestRate:       loan.InterestRate(),
			MonthlyInstallment: loan.MonthlyRepayment(),
			RepaymentsLeft:     loan.RepaymentsLeft(),
		})
	}

	return dto.ListCustomerLoansResponse{
		CustomerID: req.CustomerID,
		Loans:      items,
	}, nil
}
