package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lumibank/credit-service/internal/domain/model"
	"github.com/lumibank/credit-service/internal/domain/port"
	pgutil "github.com/lumibank/credit-service/pkg/postgres"
)

// idAllocationRetries bounds how often an insert is retried after losing a
// max+1 id race to a concurrent writer.
const idAllocationRetries = 3

// scannable is satisfied by pgx.Row and pgx.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// CustomerRepo implements port.CustomerRepository.
type CustomerRepo struct {
	pool *pgxpool.Pool
}

// NewCustomerRepo creates a new PostgreSQL-backed customer repository.
func NewCustomerRepo(pool *pgxpool.Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

const customerColumns = `
	customer_id, first_name, last_name, age, phone_number,
	monthly_salary, approved_limit, current_debt
`

// FindByCustomerID retrieves a customer by external id.
func (r *CustomerRepo) FindByCustomerID(ctx context.Context, customerID int) (model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1`

	customer, err := scanCustomerRow(r.pool.QueryRow(ctx, query, customerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Customer{}, port.ErrCustomerNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return customer, nil
}

// Create persists a new customer under the next free external id. Two
// concurrent registrations can pick the same max+1 value; the primary key
// rejects the loser and the insert is retried with a fresh id.
func (r *CustomerRepo) Create(ctx context.Context, customer model.Customer) (model.Customer, error) {
	insert := `
		INSERT INTO customers (
			customer_id, first_name, last_name, age, phone_number,
			monthly_salary, approved_limit, current_debt
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var created model.Customer
	for attempt := 0; attempt <= idAllocationRetries; attempt++ {
		err := pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
			var nextID int
			if err := tx.QueryRow(ctx,
				`SELECT COALESCE(MAX(customer_id), 0) + 1 FROM customers`,
			).Scan(&nextID); err != nil {
				return fmt.Errorf("allocate customer id: %w", err)
			}

			created = customer.WithCustomerID(nextID)
			_, err := tx.Exec(ctx, insert,
				created.CustomerID(), created.FirstName(), created.LastName(),
				created.Age(), created.PhoneNumber(),
				created.MonthlySalary(), created.ApprovedLimit(), created.CurrentDebt(),
			)
			if err != nil {
				return fmt.Errorf("insert customer: %w", err)
			}
			return nil
		})
		if err == nil {
			return created, nil
		}
		if !pgutil.IsUniqueViolation(err) {
			return model.Customer{}, err
		}
	}
	return model.Customer{}, fmt.Errorf("allocate customer id: retries exhausted")
}

// BulkImport inserts ingested customers, keeping their external ids and
// skipping ids that already exist. Returns the number of rows created.
func (r *CustomerRepo) BulkImport(ctx context.Context, customers []model.Customer) (int, error) {
	insert := `
		INSERT INTO customers (
			customer_id, first_name, last_name, age, phone_number,
			monthly_salary, approved_limit, current_debt
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (customer_id) DO NOTHING
	`

	created := 0
	err := pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for _, c := range customers {
			tag, err := tx.Exec(ctx, insert,
				c.CustomerID(), c.FirstName(), c.LastName(), c.Age(), c.PhoneNumber(),
				c.MonthlySalary(), c.ApprovedLimit(), c.CurrentDebt(),
			)
			if err != nil {
				return fmt.Errorf("import customer %d: %w", c.CustomerID(), err)
			}
			created += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func scanCustomerRow(s scannable) (model.Customer, error) {
	var (
		customerID, age                           int
		firstName, lastName, phoneNumber          string
		monthlySalary, approvedLimit, currentDebt decimal.Decimal
	)

	err := s.Scan(
		&customerID, &firstName, &lastName, &age, &phoneNumber,
		&monthlySalary, &approvedLimit, &currentDebt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Customer{}, err
		}
		return model.Customer{}, fmt.Errorf("scan customer: %w", err)
	}

	return model.ReconstructCustomer(
		customerID, firstName, lastName, age, phoneNumber,
		monthlySalary, approvedLimit, currentDebt,
	), nil
}
