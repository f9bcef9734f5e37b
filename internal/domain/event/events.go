package event

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumibank/credit-service/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Customer events
// ---------------------------------------------------------------------------

// CustomerRegistered is raised when a new customer enters the system.
type CustomerRegistered struct {
	events.BaseEvent
	CustomerID    int             `json:"customer_id"`
	Name          string          `json:"name"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
}

func NewCustomerRegistered(customerID int, name string, monthlySalary, approvedLimit decimal.Decimal) CustomerRegistered {
	return CustomerRegistered{
		BaseEvent:     events.NewBaseEvent("credit.customer.registered", strconv.Itoa(customerID), "Customer"),
		CustomerID:    customerID,
		Name:          name,
		MonthlySalary: monthlySalary,
		ApprovedLimit: approvedLimit,
	}
}

// ---------------------------------------------------------------------------
// Loan events
// ---------------------------------------------------------------------------

// LoanIssued is raised when an approved loan is committed together with the
// customer's debt increment.
type LoanIssued struct {
	events.BaseEvent
	LoanID             int             `json:"loan_id"`
	CustomerID         int             `json:"customer_id"`
	Amount             decimal.Decimal `json:"loan_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	TenureMonths       int             `json:"tenure"`
	EndDate            time.Time       `json:"end_date"`
}

func NewLoanIssued(
	loanID, customerID int,
	amount, interestRate, monthlyInstallment decimal.Decimal,
	tenureMonths int,
	endDate time.Time,
) LoanIssued {
	return LoanIssued{
		BaseEvent:          events.NewBaseEvent("credit.loan.issued", strconv.Itoa(loanID), "Loan"),
		LoanID:             loanID,
		CustomerID:         customerID,
		Amount:             amount,
		InterestRate:       interestRate,
		MonthlyInstallment: monthlyInstallment,
		TenureMonths:       tenureMonths,
		EndDate:            endDate,
	}
}

// LoanApplicationRejected is raised when a create-loan request fails the
// eligibility decision. Policy rejections are events, never errors.
type LoanApplicationRejected struct {
	events.BaseEvent
	CustomerID int    `json:"customer_id"`
	Score      int    `json:"credit_score"`
	Reason     string `json:"reason"`
}

func NewLoanApplicationRejected(customerID, score int, reason string) LoanApplicationRejected {
	return LoanApplicationRejected{
		BaseEvent:  events.NewBaseEvent("credit.loan_application.rejected", strconv.Itoa(customerID), "Customer"),
		CustomerID: customerID,
		Score:      score,
		Reason:     reason,
	}
}
