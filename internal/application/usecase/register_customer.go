package usecase

import (
	"context"
	"fmt"

	"github.com/lumibank/credit-service/internal/application/dto"
	"github.com/lumibank/credit-service/internal/domain/event"
	"github.com/lumibank/credit-service/internal/domain/model"
	"github.com/lumibank/credit-service/internal/domain/port"
)

// RegisterCustomerUseCase registers a new customer, deriving the approved
// credit limit from monthly income.
type RegisterCustomerUseCase struct {
	customerRepo port.CustomerRepository
	publisher    port.EventPublisher
}

// NewRegisterCustomerUseCase wires dependencies.
func NewRegisterCustomerUseCase(
	customerRepo port.CustomerRepository,
	publisher port.EventPublisher,
) *RegisterCustomerUseCase {
	return &RegisterCustomerUseCase{
		customerRepo: customerRepo,
		publisher:    publisher,
	}
}

// Execute validates, persists, and announces a new customer. The external
// customer id is allocated inside the repository's transaction.
func (uc *RegisterCustomerUseCase) Execute(
	ctx context.Context,
	req dto.RegisterCustomerRequest,
) (dto.CustomerResponse, error) {
	customer, err := model.NewCustomer(req.FirstName, req.LastName, req.Age, req.PhoneNumber, req.MonthlyIncome)
	if err != nil {
		return dto.CustomerResponse{}, fmt.Errorf("create customer: %w", err)
	}

	customer, err = uc.customerRepo.Create(ctx, customer)
	if err != nil {
		return dto.CustomerResponse{}, fmt.Errorf("save customer: %w", err)
	}

	evt := event.NewCustomerRegistered(
		customer.CustomerID(), customer.FullName(),
		customer.MonthlySalary(), customer.ApprovedLimit(),
	)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		return dto.CustomerResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toCustomerResponse(customer), nil
}

func toCustomerResponse(c model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		CustomerID:    c.CustomerID(),
		Name:          c.FullName(),
		Age:           c.Age(),
		PhoneNumber:   c.PhoneNumber(),
		MonthlyIncome: c.MonthlySalary().Round(2),
		ApprovedLimit: c.ApprovedLimit().Round(2),
	}
}
