package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MonthlyInstallment computes the fixed EMI for an amortizing loan using
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// with monthly rate r = annualRatePercent / 100 / 12. The power term is
// computed by repeated decimal multiplication; money never touches binary
// floating point. The result is rounded to 2 decimal places, half away
// from zero.
//
// A non-positive tenure or principal is a caller contract violation and
// returns an error rather than producing infinity or NaN.
func MonthlyInstallment(principal, annualRatePercent decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	if tenureMonths < 1 {
		return decimal.Zero, fmt.Errorf("tenure must be at least one month, got %d", tenureMonths)
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("principal must be positive, got %s", principal)
	}
	if annualRatePercent.IsNegative() {
		return decimal.Zero, fmt.Errorf("annual rate must not be negative, got %s", annualRatePercent)
	}

	months := decimal.NewFromInt(int64(tenureMonths))
	if annualRatePercent.IsZero() {
		// Zero-interest: even split.
		return principal.Div(months).Round(2), nil
	}

	r := annualRatePercent.Div(decimal.NewFromInt(1200))
	factor := powInt(decimal.NewFromInt(1).Add(r), tenureMonths)
	one := decimal.NewFromInt(1)

	payment := principal.Mul(r).Mul(factor).Div(factor.Sub(one))
	return payment.Round(2), nil
}

// powInt raises base to a small positive integer exponent exactly.
func powInt(base decimal.Decimal, exp int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for i := 0; i < exp; i++ {
		result = result.Mul(base)
	}
	return result
}
