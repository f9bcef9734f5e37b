package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lumibank/credit-service/internal/domain/model"
	"github.com/lumibank/credit-service/internal/domain/port"
	pgutil "github.com/lumibank/credit-service/pkg/postgres"
)

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

const loanColumns = `
	loan_id, customer_id, loan_amount, interest_rate, monthly_repayment,
	tenure, emis_paid_on_time, start_date, end_date
`

// FindByLoanID retrieves a loan by external id.
func (r *LoanRepo) FindByLoanID(ctx context.Context, loanID int) (model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1`

	loan, err := scanLoanRow(r.pool.QueryRow(ctx, query, loanID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Loan{}, port.ErrLoanNotFound
	}
	if err != nil {
		return model.Loan{}, err
	}
	return loan, nil
}

// FindByCustomerID retrieves a customer's complete loan history.
func (r *LoanRepo) FindByCustomerID(ctx context.Context, customerID int) ([]model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 ORDER BY loan_id`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := scanLoanRow(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// Issue commits an approved loan atomically: the customer row is locked,
// the next loan id is allocated, the loan inserted, and the customer's debt
// incremented by the principal. Losing a loan-id race to a concurrent
// issuance rolls the whole transaction back and retries it.
func (r *LoanRepo) Issue(ctx context.Context, loan model.Loan) (model.Loan, error) {
	insert := `
		INSERT INTO loans (
			loan_id, customer_id, loan_amount, interest_rate, monthly_repayment,
			tenure, emis_paid_on_time, start_date, end_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	var issued model.Loan
	for attempt := 0; attempt <= idAllocationRetries; attempt++ {
		err := pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
			// Lock the owning customer row so the debt increment cannot
			// interleave with a concurrent issuance for the same customer.
			var exists int
			err := tx.QueryRow(ctx,
				`SELECT 1 FROM customers WHERE customer_id = $1 FOR UPDATE`,
				loan.CustomerID(),
			).Scan(&exists)
			if errors.Is(err, pgx.ErrNoRows) {
				return port.ErrCustomerNotFound
			}
			if err != nil {
				return fmt.Errorf("lock customer: %w", err)
			}

			var nextID int
			if err := tx.QueryRow(ctx,
				`SELECT COALESCE(MAX(loan_id), 0) + 1 FROM loans`,
			).Scan(&nextID); err != nil {
				return fmt.Errorf("allocate loan id: %w", err)
			}

			issued = loan.WithLoanID(nextID)
			if _, err := tx.Exec(ctx, insert,
				issued.LoanID(), issued.CustomerID(),
				issued.Amount(), issued.InterestRate(), issued.MonthlyRepayment(),
				issued.TenureMonths(), issued.EMIsPaidOnTime(),
				issued.StartDate(), issued.EndDate(),
			); err != nil {
				return fmt.Errorf("insert loan: %w", err)
			}

			if _, err := tx.Exec(ctx,
				`UPDATE customers SET current_debt = current_debt + $1 WHERE customer_id = $2`,
				issued.Amount(), issued.CustomerID(),
			); err != nil {
				return fmt.Errorf("increment debt: %w", err)
			}
			return nil
		})
		if err == nil {
			return issued, nil
		}
		if !pgutil.IsUniqueViolation(err) {
			return model.Loan{}, err
		}
	}
	return model.Loan{}, fmt.Errorf("allocate loan id: retries exhausted")
}

// BulkImport inserts ingested loans, keeping their external ids and skipping
// ids that already exist. Debt is not touched here: ingested customer rows
// already carry their current_debt column.
func (r *LoanRepo) BulkImport(ctx context.Context, loans []model.Loan) (int, error) {
	// Rows referencing unknown customers are skipped rather than aborting
	// the whole batch.
	insert := `
		INSERT INTO loans (
			loan_id, customer_id, loan_amount, interest_rate, monthly_repayment,
			tenure, emis_paid_on_time, start_date, end_date
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9
		WHERE EXISTS (SELECT 1 FROM customers WHERE customer_id = $2)
		ON CONFLICT (loan_id) DO NOTHING
	`

	created := 0
	err := pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for _, l := range loans {
			tag, err := tx.Exec(ctx, insert,
				l.LoanID(), l.CustomerID(),
				l.Amount(), l.InterestRate(), l.MonthlyRepayment(),
				l.TenureMonths(), l.EMIsPaidOnTime(),
				l.StartDate(), l.EndDate(),
			)
			if err != nil {
				return fmt.Errorf("import loan %d: %w", l.LoanID(), err)
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

func scanLoanRow(s scannable) (model.Loan, error) {
	var (
		loanID, customerID, tenure, emisPaid   int
		amount, interestRate, monthlyRepayment decimal.Decimal
		startDate, endDate                     time.Time
	)

	err := s.Scan(
		&loanID, &customerID, &amount, &interestRate, &monthlyRepayment,
		&tenure, &emisPaid, &startDate, &endDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Loan{}, err
		}
		return model.Loan{}, fmt.Errorf("scan loan: %w", err)
	}

	return model.ReconstructLoan(
		loanID, customerID, amount, interestRate, monthlyRepayment,
		tenure, emisPaid, startDate, endDate,
	), nil
}
