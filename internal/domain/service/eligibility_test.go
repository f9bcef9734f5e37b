package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumibank/credit-service/internal/domain/model"
	"github.com/lumibank/credit-service/internal/domain/service"
	"github.com/lumibank/credit-service/internal/domain/valueobject"
)

func TestMinimumRateForScore(t *testing.T) {
	tests := []struct {
		name      string
		score     int
		wantFloor int64
		wantOK    bool
	}{
		{"top slab has no floor", 80, 0, true},
		{"just above mid slab", 51, 0, true},
		{"mid slab upper bound", 50, 12, true},
		{"mid slab lower bound", 31, 12, true},
		{"low slab upper bound", 30, 16, true},
		{"low slab lower bound", 11, 16, true},
		{"too low for any slab", 10, 0, false},
		{"zero score", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			floor, ok := service.MinimumRateForScore(tt.score)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, floor.Equal(decimal.NewFromInt(tt.wantFloor)),
					"floor = %s, want %d", floor, tt.wantFloor)
			}
		})
	}
}

func newEligibilityEngine() *service.EligibilityEngine {
	return service.NewEligibilityEngine(service.NewCreditScoreEngine())
}

func evalToday() time.Time {
	return time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
}

func TestEligibilityEngine_ApprovesAtRequestedRate(t *testing.T) {
	engine := newEligibilityEngine()

	decision, err := engine.Evaluate(customerEarning(100_000), nil, service.LoanRequest{
		Amount:       decimal.NewFromInt(300_000),
		InterestRate: decimal.NewFromInt(12),
		TenureMonths: 24,
	}, evalToday())

	require.NoError(t, err)
	assert.True(t, decision.Approved)
	assert.True(t, decision.Status.Equal(valueobject.DecisionApproved))
	assert.False(t, decision.RateCorrected)
	assert.True(t, decision.CorrectedRate.Equal(decimal.NewFromInt(12)))
	assert.True(t, decision.MonthlyInstallment.Equal(decimal.RequireFromString("14122.04")),
		"installment = %s", decision.MonthlyInstallment)
	assert.Equal(t, 80, decision.Score)
}

func TestEligibilityEngine_CorrectsRateToSlabFloor(t *testing.T) {
	engine := newEligibilityEngine()

	// Mixed history scoring 50 lands in the (30, 50] slab with a 12% floor.
	loans := []model.Loan{
		historicLoan(945_000, 24, 6, 0,
			time.Date(2022, time.February, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.January, 22, 0, 0, 0, 0, time.UTC)),
		historicLoan(700_000, 36, 9, 0,
			time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC)),
		historicLoan(500_000, 12, 3, 10_000,
			time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2027, time.January, 5, 0, 0, 0, 0, time.UTC)),
	}

	decision, err := engine.Evaluate(customerEarning(60_000), loans, service.LoanRequest{
		Amount:       decimal.NewFromInt(200_000),
		InterestRate: decimal.NewFromInt(10),
		TenureMonths: 12,
	}, evalToday())

	require.NoError(t, err)
	assert.True(t, decision.Approved)
	assert.True(t, decision.RateCorrected)
	assert.True(t, decision.CorrectedRate.Equal(decimal.NewFromInt(12)),
		"corrected rate = %s", decision.CorrectedRate)
	// The installment is priced at the corrected rate.
	assert.True(t, decision.MonthlyInstallment.Equal(decimal.RequireFromString("17769.76")),
		"installment = %s", decision.MonthlyInstallment)
}

func TestEligibilityEngine_KeepsRequestedRateAboveFloor(t *testing.T) {
	engine := newEligibilityEngine()

	loans := []model.Loan{
		historicLoan(945_000, 24, 6, 0,
			time.Date(2022, time.February, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.January, 22, 0, 0, 0, 0, time.UTC)),
		historicLoan(700_000, 36, 9, 0,
			time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC)),
		historicLoan(500_000, 12, 3, 10_000,
			time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2027, time.January, 5, 0, 0, 0, 0, time.UTC)),
	}

	// Requested 16% already clears the 12% floor; nothing to correct.
	decision, err := engine.Evaluate(customerEarning(60_000), loans, service.LoanRequest{
		Amount:       decimal.NewFromInt(200_000),
		InterestRate: decimal.NewFromInt(16),
		TenureMonths: 12,
	}, evalToday())

	require.NoError(t, err)
	assert.True(t, decision.Approved)
	assert.False(t, decision.RateCorrected)
	assert.True(t, decision.CorrectedRate.Equal(decimal.NewFromInt(16)))
	assert.True(t, decision.MonthlyInstallment.Equal(decimal.RequireFromString("18146.17")))
}

func TestEligibilityEngine_RejectsUnaffordableInstallment(t *testing.T) {
	engine := newEligibilityEngine()

	decision, err := engine.Evaluate(customerEarning(25_000), nil, service.LoanRequest{
		Amount:       decimal.NewFromInt(300_000),
		InterestRate: decimal.NewFromInt(12),
		TenureMonths: 24,
	}, evalToday())

	require.NoError(t, err)
	assert.False(t, decision.Approved)
	assert.True(t, decision.Status.Equal(valueobject.DecisionEMIExceedsSalaryReject))
	assert.Equal(t, "emi exceeds 50% of monthly salary", decision.Reason)
	// The installment is still reported so the caller can show it.
	assert.True(t, decision.MonthlyInstallment.Equal(decimal.RequireFromString("14122.04")))
}

func TestEligibilityEngine_ExistingEMIsCountTowardTheCap(t *testing.T) {
	engine := newEligibilityEngine()

	// 14122.04 alone fits within half of 30000, but an active 2000/month
	// loan pushes the total over.
	loans := []model.Loan{
		historicLoan(100_000, 36, 12, 2_000,
			time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2027, time.May, 17, 0, 0, 0, 0, time.UTC)),
	}

	decision, err := engine.Evaluate(customerEarning(30_000), loans, service.LoanRequest{
		Amount:       decimal.NewFromInt(300_000),
		InterestRate: decimal.NewFromInt(12),
		TenureMonths: 24,
	}, evalToday())

	require.NoError(t, err)
	assert.False(t, decision.Approved)
	assert.True(t, decision.Status.Equal(valueobject.DecisionEMIExceedsSalaryReject))
}

func TestEligibilityEngine_RejectsOverExtendedCustomer(t *testing.T) {
	engine := newEligibilityEngine()

	loans := []model.Loan{
		historicLoan(1_500_000, 36, 4, 48_000,
			evalToday().AddDate(0, -4, 0),
			evalToday().AddDate(2, 0, 0)),
	}

	decision, err := engine.Evaluate(customerEarning(40_000), loans, service.LoanRequest{
		Amount:       decimal.NewFromInt(100_000),
		InterestRate: decimal.NewFromInt(15),
		TenureMonths: 12,
	}, evalToday())

	require.NoError(t, err)
	assert.False(t, decision.Approved)
	assert.True(t, decision.Status.Equal(valueobject.DecisionScoreZeroReject))
	assert.Equal(t, 0, decision.Score)
	// Amortization never ran.
	assert.True(t, decision.MonthlyInstallment.IsZero())
}
