package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/billing"
	"github.com/gstbooks/backend/internal/domain/shared"
)

// ExpenseService handles expense records
type ExpenseService struct {
	expenseRepo billing.ExpenseRepository
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo billing.ExpenseRepository) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo}
}

// Create records a new expense
func (s *ExpenseService) Create(ctx context.Context, tenantID uuid.UUID, req CreateExpenseRequest) (*ExpenseResponse, error) {
	expenseDate := time.Now()
	if req.ExpenseDate != nil {
		expenseDate = *req.ExpenseDate
	}

	expense, err := billing.NewExpense(tenantID, req.Category, req.Description, req.Amount, expenseDate)
	if err != nil {
		return nil, err
	}
	if req.PaymentMode != "" {
		expense.SetPaymentMode(req.PaymentMode)
	}
	if req.Notes != "" {
		if err := expense.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// Get returns an expense by ID
func (s *ExpenseService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToExpenseResponse(expense)
	return &response, nil
}

// List returns a page of expenses with the total count
func (s *ExpenseService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ExpenseResponse], error) {
	expenses, err := s.expenseRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.expenseRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(expenses[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Delete removes an expense
func (s *ExpenseService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.expenseRepo.DeleteForTenant(ctx, tenantID, id)
}
