package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// daysPerMonth is the fixed tenure-to-end-date conversion. A 30-day month is
// an approximation, not calendar arithmetic; the ingestion files and the
// issuance path both use it, so changing it is a data migration.
const daysPerMonth = 30

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// Loan is immutable once issued; there is no amendment or cancellation path.
type Loan struct {
	loanID           int
	customerID       int
	amount           decimal.Decimal
	interestRate     decimal.Decimal // annual, percent
	monthlyRepayment decimal.Decimal
	tenureMonths     int
	emisPaidOnTime   int
	startDate        time.Time
	endDate          time.Time
}

// NewLoan creates a loan ready for issuance. The loan id is allocated by the
// repository; the end date is startDate plus tenure months of 30 days each,
// and no EMIs have been paid yet.
func NewLoan(
	customerID int,
	amount, interestRate, monthlyRepayment decimal.Decimal,
	tenureMonths int,
	startDate time.Time,
) (Loan, error) {
	if customerID <= 0 {
		return Loan{}, fmt.Errorf("customer id must be positive, got %d", customerID)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return Loan{}, errors.New("loan amount must be positive")
	}
	if interestRate.IsNegative() {
		return Loan{}, errors.New("interest rate must not be negative")
	}
	if tenureMonths < 1 {
		return Loan{}, fmt.Errorf("tenure must be at least one month, got %d", tenureMonths)
	}

	start := dateOnly(startDate)
	return Loan{
		customerID:       customerID,
		amount:           amount,
		interestRate:     interestRate,
		monthlyRepayment: monthlyRepayment,
		tenureMonths:     tenureMonths,
		emisPaidOnTime:   0,
		startDate:        start,
		endDate:          start.AddDate(0, 0, tenureMonths*daysPerMonth),
	}, nil
}

// ReconstructLoan rebuilds a Loan from persistence or bulk ingestion.
func ReconstructLoan(
	loanID, customerID int,
	amount, interestRate, monthlyRepayment decimal.Decimal,
	tenureMonths, emisPaidOnTime int,
	startDate, endDate time.Time,
) Loan {
	return Loan{
		loanID:           loanID,
		customerID:       customerID,
		amount:           amount,
		interestRate:     interestRate,
		monthlyRepayment: monthlyRepayment,
		tenureMonths:     tenureMonths,
		emisPaidOnTime:   emisPaidOnTime,
		startDate:        dateOnly(startDate),
		endDate:          dateOnly(endDate),
	}
}

// WithLoanID returns a copy carrying the id allocated by the repository.
func (l Loan) WithLoanID(id int) Loan {
	next := l
	next.loanID = id
	return next
}

// ActiveOn reports whether the loan counts toward current exposure on the
// given day. A loan ending today is still active (inclusive bound).
func (l Loan) ActiveOn(day time.Time) bool {
	return !l.endDate.Before(dateOnly(day))
}

// StartedInYear reports whether the loan was taken in the given calendar year.
func (l Loan) StartedInYear(year int) bool {
	return l.startDate.Year() == year
}

// RepaymentsLeft returns the number of EMIs still outstanding.
func (l Loan) RepaymentsLeft() int {
	left := l.tenureMonths - l.emisPaidOnTime
	if left < 0 {
		return 0
	}
	return left
}

func (l Loan) LoanID() int                       { return l.loanID }
func (l Loan) CustomerID() int                   { return l.customerID }
func (l Loan) Amount() decimal.Decimal           { return l.amount }
func (l Loan) InterestRate() decimal.Decimal     { return l.interestRate }
func (l Loan) MonthlyRepayment() decimal.Decimal { return l.monthlyRepayment }
func (l Loan) TenureMonths() int                 { return l.tenureMonths }
func (l Loan) EMIsPaidOnTime() int               { return l.emisPaidOnTime }
func (l Loan) StartDate() time.Time              { return l.startDate }
func (l Loan) EndDate() time.Time                { return l.endDate }

// dateOnly truncates a timestamp to midnight UTC so that date comparisons
// ignore the time-of-day component.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
