package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumibank/credit-service/internal/application/dto"
	"github.com/lumibank/credit-service/internal/application/usecase"
	"github.com/lumibank/credit-service/internal/domain/model"
	"github.com/lumibank/credit-service/internal/domain/port"
	"github.com/lumibank/credit-service/internal/domain/service"
)

func newCheckEligibilityUseCase(customerRepo *mockCustomerRepository, loanRepo *mockLoanRepository) *usecase.CheckEligibilityUseCase {
	engine := service.NewEligibilityEngine(service.NewCreditScoreEngine())
	return usecase.NewCheckEligibilityUseCase(customerRepo, loanRepo, engine, fixedNow)
}

func TestCheckEligibility_Execute(t *testing.T) {
	t.Run("approves a first-time borrower at the requested rate", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{
			findFunc: func(_ context.Context, id int) (model.Customer, error) {
				return reconstructCustomer(id, 100_000), nil
			},
		}
		loanRepo := &mockLoanRepository{}

		uc := newCheckEligibilityUseCase(customerRepo, loanRepo)

		resp, err := uc.Execute(context.Background(), dto.LoanTermsRequest{
			CustomerID:   1,
			LoanAmount:   decimal.NewFromInt(300_000),
			InterestRate: decimal.NewFromInt(12),
			TenureMonths: 24,
		})

		require.NoError(t, err)
		assert.True(t, resp.Approval)
		assert.True(t, resp.CorrectedInterestRate.Equal(decimal.NewFromInt(12)))
		assert.True(t, resp.MonthlyInstallment.Equal(decimal.RequireFromString("14122.04")),
			"installment = %s", resp.MonthlyInstallment)
		assert.Empty(t, resp.Reason)
	})

	t.Run("corrects the rate up to the slab floor for a mid-score customer", func(t *testing.T) {
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

		uc := newCheckEligibilityUseCase(customerRepo, loanRepo)

		resp, err := uc.Execute(context.Background(), dto.LoanTermsRequest{
			CustomerID:   7,
			LoanAmount:   decimal.NewFromInt(200_000),
			InterestRate: decimal.NewFromInt(10),
			TenureMonths: 12,
		})

		require.NoError(t, err)
		assert.True(t, resp.Approval)
		assert.True(t, resp.InterestRate.Equal(decimal.NewFromInt(10)))
		assert.True(t, resp.CorrectedInterestRate.Equal(decimal.NewFromInt(12)),
			"corrected rate = %s", resp.CorrectedInterestRate)
		assert.True(t, resp.MonthlyInstallment.Equal(decimal.RequireFromString("17769.76")),
			"installment = %s", resp.MonthlyInstallment)
	})

	t.Run("yields identical output on repeated checks", func(t *testing.T) {
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

		uc := newCheckEligibilityUseCase(customerRepo, loanRepo)

		req := dto.LoanTermsRequest{
			CustomerID:   7,
			LoanAmount:   decimal.NewFromInt(200_000),
			InterestRate: decimal.NewFromInt(10),
			TenureMonths: 12,
		}

		first, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		second, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)

		// Nothing was issued in between, so the decision must not drift.
		assert.Equal(t, first, second)
	})

	t.Run("rejects when the installment would exceed half the salary", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{
			findFunc: func(_ context.Context, id int) (model.Customer, error) {
				return reconstructCustomer(id, 25_000), nil
			},
		}
		loanRepo := &mockLoanRepository{}

		uc := newCheckEligibilityUseCase(customerRepo, loanRepo)

		resp, err := uc.Execute(context.Background(), dto.LoanTermsRequest{
			CustomerID:   2,
			LoanAmount:   decimal.NewFromInt(300_000),
			InterestRate: decimal.NewFromInt(12),
			TenureMonths: 24,
		})

		require.NoError(t, err)
		assert.False(t, resp.Approval)
		assert.Contains(t, resp.Reason, "emi exceeds 50% of monthly salary")
		// Rate and installment still reported on an affordability rejection.
		assert.True(t, resp.MonthlyInstallment.Equal(decimal.RequireFromString("14122.04")))
	})

	t.Run("rejects outright when active loans exceed the approved limit", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{
			findFunc: func(_ context.Context, id int) (model.Customer, error) {
				return reconstructCustomer(id, 40_000), nil
			},
		}
		loanRepo := &mockLoanRepository{
			findByCustomerIDFunc: func(_ context.Context, id int) ([]model.Loan, error) {
				// 1500000 active against a 1400000 limit.
				return []model.Loan{
					reconstructLoan(21, id, 1_500_000, 36, 4, 48_000, fixedToday.AddDate(0, -4, 0)),
				}, nil
			},
		}

		uc := newCheckEligibilityUseCase(customerRepo, loanRepo)

		resp, err := uc.Execute(context.Background(), dto.LoanTermsRequest{
			CustomerID:   3,
			LoanAmount:   decimal.NewFromInt(100_000),
			InterestRate: decimal.NewFromInt(15),
			TenureMonths: 12,
		})

		require.NoError(t, err)
		assert.False(t, resp.Approval)
		assert.Contains(t, resp.Reason, "credit score zero")
		assert.True(t, resp.MonthlyInstallment.IsZero())
	})

	t.Run("fails when the customer does not exist", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{}
		loanRepo := &mockLoanRepository{}

		uc := newCheckEligibilityUseCase(customerRepo, loanRepo)

		_, err := uc.Execute(context.Background(), dto.LoanTermsRequest{
			CustomerID:   99,
			LoanAmount:   decimal.NewFromInt(100_000),
			InterestRate: decimal.NewFromInt(12),
			TenureMonths: 12,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, port.ErrCustomerNotFound)
	})

	t.Run("fails with invalid terms before touching the repositories", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{
			findFunc: func(_ context.Context, _ int) (model.Customer, error) {
				return model.Customer{}, fmt.Errorf("should not be called")
			},
		}
		loanRepo := &mockLoanRepository{}

		uc := newCheckEligibilityUseCase(customerRepo, loanRepo)

		_, err := uc.Execute(context.Background(), dto.LoanTermsRequest{
			CustomerID:   1,
			LoanAmount:   decimal.NewFromInt(-5),
			InterestRate: decimal.NewFromInt(12),
			TenureMonths: 12,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "validate terms")
	})
}
