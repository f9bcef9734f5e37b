package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumibank/credit-service/internal/application/dto"
	"github.com/lumibank/credit-service/internal/application/usecase"
	"github.com/lumibank/credit-service/internal/domain/model"
	"github.com/lumibank/credit-service/internal/domain/port"
)

func TestGetLoan_Execute(t *testing.T) {
	t.Run("returns the loan with its customer details", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{
			findFunc: func(_ context.Context, id int) (model.Customer, error) {
				return reconstructCustomer(id, 60_000), nil
			},
		}
		loanRepo := &mockLoanRepository{
			findByLoanIDFunc: func(_ context.Context, loanID int) (model.Loan, error) {
				return reconstructLoan(loanID, 7, 500_000, 36, 12, 17_579,
					time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)), nil
			},
		}

		uc := usecase.NewGetLoanUseCase(customerRepo, loanRepo)

		resp, err := uc.Execute(context.Background(), dto.GetLoanRequest{LoanID: 42})

		require.NoError(t, err)
		assert.Equal(t, 42, resp.LoanID)
		assert.Equal(t, 7, resp.Customer.CustomerID)
		assert.Equal(t, "Asha", resp.Customer.FirstName)
		assert.Equal(t, "Venkatesan", resp.Customer.LastName)
		assert.True(t, resp.LoanAmount.Equal(decimal.NewFromInt(500_000)))
		assert.Equal(t, 36, resp.TenureMonths)
	})

	t.Run("fails when the loan does not exist", func(t *testing.T) {
		uc := usecase.NewGetLoanUseCase(&mockCustomerRepository{}, &mockLoanRepository{})

		_, err := uc.Execute(context.Background(), dto.GetLoanRequest{LoanID: 404})

		require.Error(t, err)
		assert.ErrorIs(t, err, port.ErrLoanNotFound)
	})
}

func TestListCustomerLoans_Execute(t *testing.T) {
	t.Run("lists loans with repayments left", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{
			findFunc: func(_ context.Context, id int) (model.Customer, error) {
				return reconstructCustomer(id, 60_000), nil
			},
		}
		loanRepo := &mockLoanRepository{
			findByCustomerIDFunc: func(_ context.Context, id int) ([]model.Loan, error) {
				return midSlabHistory(id), nil
			},
		}

		uc := usecase.NewListCustomerLoansUseCase(customerRepo, loanRepo)

		resp, err := uc.Execute(context.Background(), dto.ListCustomerLoansRequest{CustomerID: 7})

		require.NoError(t, err)
		assert.Equal(t, 7, resp.CustomerID)
		require.Len(t, resp.Loans, 3)
		assert.Equal(t, 11, resp.Loans[0].LoanID)
		assert.Equal(t, 24-6, resp.Loans[0].RepaymentsLeft)
		assert.Equal(t, 36-9, resp.Loans[1].RepaymentsLeft)
		assert.Equal(t, 12-3, resp.Loans[2].RepaymentsLeft)
	})

	t.Run("returns an empty list for a customer with no loans", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{
			findFunc: func(_ context.Context, id int) (model.Customer, error) {
				return reconstructCustomer(id, 60_000), nil
			},
		}
		loanRepo := &mockLoanRepository{}

		uc := usecase.NewListCustomerLoansUseCase(customerRepo, loanRepo)

		resp, err := uc.Execute(context.Background(), dto.ListCustomerLoansRequest{CustomerID: 5})

		require.NoError(t, err)
		assert.Empty(t, resp.Loans)
	})

	t.Run("fails when the customer does not exist", func(t *testing.T) {
		uc := usecase.NewListCustomerLoansUseCase(&mockCustomerRepository{}, &mockLoanRepository{})

		_, err := uc.Execute(context.Background(), dto.ListCustomerLoansRequest{CustomerID: 99})

		require.Error(t, err)
		assert.ErrorIs(t, err, port.ErrCustomerNotFound)
	})
}
