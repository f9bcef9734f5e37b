package dto

import (
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// RegisterCustomerRequest carries the data needed to register a new customer.
type RegisterCustomerRequest struct {
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Age           int             `json:"age"`
	PhoneNumber   string          `json:"phone_number"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
}

// LoanTermsRequest carries the terms for an eligibility check or a loan
// creation; both operations take the same input.
type LoanTermsRequest struct {
	CustomerID   int             `json:"customer_id"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TenureMonths int             `json:"tenure"`
}

// GetLoanRequest identifies a loan to retrieve.
type GetLoanRequest struct {
	LoanID int `json:"loan_id"`
}

// ListCustomerLoansRequest identifies a customer whose loans to list.
type ListCustomerLoansRequest struct {
	CustomerID int `json:"customer_id"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// CustomerResponse is the external representation of a registered customer.
type CustomerResponse struct {
	CustomerID    int             `json:"customer_id"`
	Name          string          `json:"name"`
	Age           int             `json:"age"`
	PhoneNumber   string          `json:"phone_number"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
}

// EligibilityResponse reports the outcome of an eligibility check. The
// corrected rate and installment are present even on an affordability
// rejection, for transparency.
type EligibilityResponse struct {
	CustomerID            int             `json:"customer_id"`
	Approval              bool            `json:"approval"`
	InterestRate          decimal.Decimal `json:"interest_rate"`
	CorrectedInterestRate decimal.Decimal `json:"corrected_interest_rate"`
	TenureMonths          int             `json:"tenure"`
	MonthlyInstallment    decimal.Decimal `json:"monthly_installment"`
	Reason                string          `json:"reason,omitempty"`
}

// CreateLoanResponse reports the result of a loan creation attempt.
// LoanID is nil when the loan was not approved.
type CreateLoanResponse struct {
	LoanID             *int            `json:"loan_id"`
	CustomerID         int             `json:"customer_id"`
	LoanApproved       bool            `json:"loan_approved"`
	Message            string          `json:"message,omitempty"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
}

// CustomerSummary is the customer block embedded in a loan detail response.
type CustomerSummary struct {
	CustomerID  int    `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Age         int    `json:"age"`
}

// LoanDetailResponse is the external representation of a single loan.
type LoanDetailResponse struct {
	LoanID             int             `json:"loan_id"`
	Customer           CustomerSummary `json:"customer"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	TenureMonths       int             `json:"tenure"`
}

// CustomerLoanItem is one row in a customer's loan listing.
type CustomerLoanItem struct {
	LoanID             int             `json:"loan_id"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	RepaymentsLeft     int             `json:"repayments_left"`
}

// ListCustomerLoansResponse lists a customer's loans.
type ListCustomerLoansResponse struct {
	CustomerID int                `json:"customer_id"`
	Loans      []CustomerLoanItem `json:"loans"`
}
