package port

import (
	"context"
	"errors"

	"github.com/lumibank/credit-service/internal/domain/event"
	"github.com/lumibank/credit-service/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// Sentinel errors surfaced to callers as not-found outcomes.
var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrLoanNotFound     = errors.New("loan not found")
)

// CustomerRepository persists and retrieves customers.
type CustomerRepository interface {
	// FindByCustomerID returns the customer with the given external id, or
	// ErrCustomerNotFound.
	FindByCustomerID(ctx context.Context, customerID int) (model.Customer, error)

	// Create allocates the next external customer id (max + 1, serialized
	// against concurrent registration) and persists the customer. The
	// returned copy carries the allocated id.
	Create(ctx context.Context, customer model.Customer) (model.Customer, error)

	// BulkImport inserts customers from an ingestion batch, skipping rows
	// whose external id already exists. It returns the number created.
	BulkImport(ctx context.Context, customers []model.Customer) (int, error)
}

// LoanRepository persists and retrieves loans.
type LoanRepository interface {
	// FindByLoanID returns the loan with the given external id, or
	// ErrLoanNotFound.
	FindByLoanID(ctx context.Context, loanID int) (model.Loan, error)

	// FindByCustomerID returns the customer's complete loan set. Order is
	// not significant to callers.
	FindByCustomerID(ctx context.Context, customerID int) ([]model.Loan, error)

	// Issue commits an approved loan as one atomic unit: allocate the next
	// loan id, insert the loan, and increment the owning customer's
	// current_debt by the principal. Either all three happen or none do.
	// The returned copy carries the allocated id.
	Issue(ctx context.Context, loan model.Loan) (model.Loan, error)

	// BulkImport inserts loans from an ingestion batch, skipping rows whose
	// external id already exists. It returns the number created.
	BulkImport(ctx context.Context, loans []model.Loan) (int, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
