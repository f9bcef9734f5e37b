package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumibank/credit-service/internal/domain/model"
	"github.com/lumibank/credit-service/internal/domain/port"
)

// Result summarises one ingestion run.
type Result struct {
	Created int
	Skipped int
}

// Ingester loads historical customer and loan workbooks into the store.
// Malformed rows are skipped with a warning, never fatal; re-running an
// ingestion is safe because existing ids are left untouched.
type Ingester struct {
	customerRepo port.CustomerRepository
	loanRepo     port.LoanRepository
	logger       *slog.Logger
}

// NewIngester wires dependencies.
func NewIngester(customerRepo port.CustomerRepository, loanRepo port.LoanRepository, logger *slog.Logger) *Ingester {
	return &Ingester{
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		logger:       logger,
	}
}

var customerColumns = []string{
	"customer_id", "first_name", "last_name", "phone_number",
	"monthly_salary", "approved_limit", "current_debt",
}

// IngestCustomers loads a customer workbook.
func (i *Ingester) IngestCustomers(ctx context.Context, path string) (Result, error) {
	rows, err := readWorkbook(path, customerColumns)
	if err != nil {
		return Result{}, err
	}

	customers := make([]model.Customer, 0, len(rows))
	skipped := 0
	for n, r := range rows {
		customer, err := parseCustomerRow(r)
		if err != nil {
			skipped++
			i.logger.Warn("skipping customer row", "row", n+2, "error", err)
			continue
		}
		customers = append(customers, customer)
	}

	created, err := i.customerRepo.BulkImport(ctx, customers)
	if err != nil {
		return Result{}, fmt.Errorf("import customers: %w", err)
	}
	skipped += len(customers) - created

	i.logger.Info("customers ingested", "created", created, "skipped", skipped)
	return Result{Created: created, Skipped: skipped}, nil
}

var loanColumns = []string{
	"customer_id", "loan_id", "loan_amount", "tenure", "interest_rate",
	"monthly_repayment", "emis_paid_on_time", "start_date", "end_date",
}

// IngestLoans loads a loan workbook. Rows referencing unknown customers are
// dropped by the store and counted as skipped.
func (i *Ingester) IngestLoans(ctx context.Context, path string) (Result, error) {
	rows, err := readWorkbook(path, loanColumns)
	if err != nil {
		return Result{}, err
	}

	loans := make([]model.Loan, 0, len(rows))
	skipped := 0
	for n, r := range rows {
		loan, err := parseLoanRow(r)
		if err != nil {
			skipped++
			i.logger.Warn("skipping loan row", "row", n+2, "error", err)
			continue
		}
		loans = append(loans, loan)
	}

	created, err := i.loanRepo.BulkImport(ctx, loans)
	if err != nil {
		return Result{}, fmt.Errorf("import loans: %w", err)
	}
	skipped += len(loans) - created

	i.logger.Info("loans ingested", "created", created, "skipped", skipped)
	return Result{Created: created, Skipped: skipped}, nil
}

func parseCustomerRow(r row) (model.Customer, error) {
	customerID, err := parseInt(r, "customer_id")
	if err != nil {
		return model.Customer{}, err
	}
	if r["first_name"] == "" || r["last_name"] == "" {
		return model.Customer{}, fmt.Errorf("customer %d: missing name", customerID)
	}

	salary, err := parseDecimal(r, "monthly_salary")
	if err != nil {
		return model.Customer{}, err
	}
	limit, err := parseDecimal(r, "approved_limit")
	if err != nil {
		return model.Customer{}, err
	}
	debt := decimal.Zero
	if r["current_debt"] != "" {
		if debt, err = parseDecimal(r, "current_debt"); err != nil {
			return model.Customer{}, err
		}
	}

	age := 0
	if r["age"] != "" {
		if age, err = parseInt(r, "age"); err != nil {
			return model.Customer{}, err
		}
	}

	return model.ReconstructCustomer(
		customerID, r["first_name"], r["last_name"], age, r["phone_number"],
		salary, limit, debt,
	), nil
}

func parseLoanRow(r row) (model.Loan, error) {
	loanID, err := parseInt(r, "loan_id")
	if err != nil {
		return model.Loan{}, err
	}
	customerID, err := parseInt(r, "customer_id")
	if err != nil {
		return model.Loan{}, err
	}
	amount, err := parseDecimal(r, "loan_amount")
	if err != nil {
		return model.Loan{}, err
	}
	rate, err := parseDecimal(r, "interest_rate")
	if err != nil {
		return model.Loan{}, err
	}
	repayment, err := parseDecimal(r, "monthly_repayment")
	if err != nil {
		return model.Loan{}, err
	}
	tenure, err := parseInt(r, "tenure")
	if err != nil {
		return model.Loan{}, err
	}
	emisPaid := 0
	if r["emis_paid_on_time"] != "" {
		if emisPaid, err = parseInt(r, "emis_paid_on_time"); err != nil {
			return model.Loan{}, err
		}
	}
	startDate, err := parseDate(r, "start_date")
	if err != nil {
		return model.Loan{}, err
	}
	endDate, err := parseDate(r, "end_date")
	if err != nil {
		return model.Loan{}, err
	}

	return model.ReconstructLoan(
		loanID, customerID, amount, rate, repayment,
		tenure, emisPaid, startDate, endDate,
	), nil
}

func parseInt(r row, col string) (int, error) {
	v := r[col]
	if v == "" {
		return 0, fmt.Errorf("missing %s", col)
	}
	// Spreadsheet cells sometimes render integers as "305.0".
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", col, v, err)
	}
	return int(f), nil
}

func parseDecimal(r row, col string) (decimal.Decimal, error) {
	v := r[col]
	if v == "" {
		return decimal.Decimal{}, fmt.Errorf("missing %s", col)
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse %s %q: %w", col, v, err)
	}
	return d, nil
}

// dateLayouts covers the formats excelize renders date cells in, plus plain
// ISO dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06 15:04",
	"01/02/2006",
	time.RFC3339,
}

func parseDate(r row, col string) (time.Time, error) {
	v := r[col]
	if v == "" {
		return time.Time{}, fmt.Errorf("missing %s", col)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse %s %q: unrecognized date format", col, v)
}
