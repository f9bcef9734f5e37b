package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var lakh = decimal.NewFromInt(100_000)

// ApprovedLimitFor derives a customer's credit ceiling from monthly salary:
// 36 times the salary, rounded to the nearest multiple of 100,000.
// Rounding is half away from zero (shopspring Round semantics).
func ApprovedLimitFor(monthlySalary decimal.Decimal) decimal.Decimal {
	return monthlySalary.Mul(decimal.NewFromInt(36)).Div(lakh).Round(0).Mul(lakh)
}

// ---------------------------------------------------------------------------
// Customer aggregate root
// ---------------------------------------------------------------------------

// Customer is an immutable aggregate. The only field that changes after
// registration is the running debt, and that mutation happens inside the
// issuance transaction, never through this type.
type Customer struct {
	customerID    int
	firstName     string
	lastName      string
	age           int
	phoneNumber   string
	monthlySalary decimal.Decimal
	approvedLimit decimal.Decimal
	currentDebt   decimal.Decimal
}

// NewCustomer creates a customer at registration time. The external
// customer_id is allocated by the repository; approved limit is derived from
// salary and the debt ledger starts at zero.
func NewCustomer(firstName, lastName string, age int, phoneNumber string, monthlySalary decimal.Decimal) (Customer, error) {
	if firstName == "" {
		return Customer{}, errors.New("first name is required")
	}
	if lastName == "" {
		return Customer{}, errors.New("last name is required")
	}
	if age < 0 {
		return Customer{}, fmt.Errorf("age must not be negative, got %d", age)
	}
	if monthlySalary.IsNegative() {
		return Customer{}, errors.New("monthly salary must not be negative")
	}

	return Customer{
		firstName:     firstName,
		lastName:      lastName,
		age:           age,
		phoneNumber:   phoneNumber,
		monthlySalary: monthlySalary,
		approvedLimit: ApprovedLimitFor(monthlySalary),
		currentDebt:   decimal.Zero,
	}, nil
}

// ReconstructCustomer rebuilds a Customer from persistence or bulk ingestion.
func ReconstructCustomer(
	customerID int,
	firstName, lastName string,
	age int,
	phoneNumber string,
	monthlySalary, approvedLimit, currentDebt decimal.Decimal,
) Customer {
	return Customer{
		customerID:    customerID,
		firstName:     firstName,
		lastName:      lastName,
		age:           age,
		phoneNumber:   phoneNumber,
		monthlySalary: monthlySalary,
		approvedLimit: approvedLimit,
		currentDebt:   currentDebt,
	}
}

// WithCustomerID returns a copy carrying the externally-visible id allocated
// by the repository.
func (c Customer) WithCustomerID(id int) Customer {
	next := c
	next.customerID = id
	return next
}

func (c Customer) CustomerID() int                { return c.customerID }
func (c Customer) FirstName() string              { return c.firstName }
func (c Customer) LastName() string               { return c.lastName }
func (c Customer) Age() int                       { return c.age }
func (c Customer) PhoneNumber() string            { return c.phoneNumber }
func (c Customer) MonthlySalary() decimal.Decimal { return c.monthlySalary }
func (c Customer) ApprovedLimit() decimal.Decimal { return c.approvedLimit }
func (c Customer) CurrentDebt() decimal.Decimal   { return c.currentDebt }

// FullName returns the display name used on response payloads.
func (c Customer) FullName() string {
	return c.firstName + " " + c.lastName
}
