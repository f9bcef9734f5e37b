package usecase_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumibank/credit-service/internal/domain/event"
	"github.com/lumibank/credit-service/internal/domain/model"
	"github.com/lumibank/credit-service/internal/domain/port"
)

// --- Mock implementations ---

type mockCustomerRepository struct {
	findFunc       func(ctx context.Context, customerID int) (model.Customer, error)
	createFunc     func(ctx context.Context, customer model.Customer) (model.Customer, error)
	bulkImportFunc func(ctx context.Context, customers []model.Customer) (int, error)
	created        []model.Customer
}

func (m *mockCustomerRepository) FindByCustomerID(ctx context.Context, customerID int) (model.Customer, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, customerID)
	}
	return model.Customer{}, port.ErrCustomerNotFound
}

func (m *mockCustomerRepository) Create(ctx context.Context, customer model.Customer) (model.Customer, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, customer)
	}
	allocated := customer.WithCustomerID(len(m.created) + 1)
	m.created = append(m.created, allocated)
	return allocated, nil
}

func (m *mockCustomerRepository) BulkImport(ctx context.Context, customers []model.Customer) (int, error) {
	if m.bulkImportFunc != nil {
		return m.bulkImportFunc(ctx, customers)
	}
	return len(customers), nil
}

type mockLoanRepository struct {
	findByLoanIDFunc     func(ctx context.Context, loanID int) (model.Loan, error)
	findByCustomerIDFunc func(ctx context.Context, customerID int) ([]model.Loan, error)
	issueFunc            func(ctx context.Context, loan model.Loan) (model.Loan, error)
	bulkImportFunc       func(ctx context.Context, loans []model.Loan) (int, error)
	issued               []model.Loan
}

func (m *mockLoanRepository) FindByLoanID(ctx context.Context, loanID int) (model.Loan, error) {
	if m.findByLoanIDFunc != nil {
		return m.findByLoanIDFunc(ctx, loanID)
	}
	return model.Loan{}, port.ErrLoanNotFound
}

func (m *mockLoanRepository) FindByCustomerID(ctx context.Context, customerID int) ([]model.Loan, error) {
	if m.findByCustomerIDFunc != nil {
		return m.findByCustomerIDFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *mockLoanRepository) Issue(ctx context.Context, loan model.Loan) (model.Loan, error) {
	if m.issueFunc != nil {
		return m.issueFunc(ctx, loan)
	}
	allocated := loan.WithLoanID(1000 + len(m.issued))
	m.issued = append(m.issued, allocated)
	return allocated, nil
}

func (m *mockLoanRepository) BulkImport(ctx context.Context, loans []model.Loan) (int, error) {
	if m.bulkImportFunc != nil {
		return m.bulkImportFunc(ctx, loans)
	}
	return len(loans), nil
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

// --- Fixtures ---

// fixedToday keeps recency scoring deterministic: every "current year" loan
// in the fixtures starts in 2026.
var fixedToday = time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedToday }

func reconstructCustomer(id int, monthlySalary int64) model.Customer {
	salary := decimal.NewFromInt(monthlySalary)
	return model.ReconstructCustomer(
		id, "Asha", "Venkatesan", 34, "9876543210",
		salary, model.ApprovedLimitFor(salary), decimal.Zero,
	)
}

func reconstructLoan(loanID, customerID int, amount int64, tenure, emisPaid int, monthlyRepayment int64, start time.Time) model.Loan {
	return model.ReconstructLoan(
		loanID, customerID,
		decimal.NewFromInt(amount), decimal.NewFromInt(12), decimal.NewFromInt(monthlyRepayment),
		tenure, emisPaid,
		start, start.AddDate(0, 0, tenure*30),
	)
}

// midSlabHistory yields a credit score of exactly 50 for a customer earning
// 60000 a month (approved limit 2200000): partial repayment ratios, three
// lifetime loans totalling 2145000, one taken this year and still running.
func midSlabHistory(customerID int) []model.Loan {
	return []model.Loan{
		reconstructLoan(11, customerID, 945_000, 24, 6, 0, time.Date(2022, time.February, 1, 0, 0, 0, 0, time.UTC)),
		reconstructLoan(12, customerID, 700_000, 36, 9, 0, time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)),
		reconstructLoan(13, customerID, 500_000, 12, 3, 10_000, time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)),
	}
}
