package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Expense records a business outgoing that does not go through a purchase
// bill (rent, utilities, salaries). It feeds the cashflow report directly.
type Expense struct {
	shared.TenantAggregateRoot
	Category    string          `gorm:"size:50;not null;index"`
	Description string          `gorm:"size:200"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExpenseDate time.Time       `gorm:"not null;index"`
	PaymentMode string          `gorm:"size:20"`
	Notes       string          `gorm:"size:200"`
}

// NewExpense creates a new expense record
func NewExpense(tenantID uuid.UUID, category, description string, amount decimal.Decimal, expenseDate time.Time) (*Expense, error) {
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category cannot be empty")
	}
	if len(category) > 50 {
		return nil, shared.NewDomainError(shared.ErrCodeFieldTooLong, "Expense category cannot exceed 50 characters")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if len(description) > 200 {
		return nil, shared.NewDomainError(shared.ErrCodeFieldTooLong, "Expense description cannot exceed 200 characters")
	}

	return &Expense{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Category:            category,
		Description:         description,
		Amount:              amount,
		ExpenseDate:         expenseDate,
	}, nil
}

// SetPaymentMode sets how the expense was paid
func (e *Expense) SetPaymentMode(mode string) {
	e.PaymentMode = mode
	e.Touch()
}

// SetNotes sets the expense notes
func (e *Expense) SetNotes(notes string) error {
	if len(notes) > 200 {
		return shared.NewDomainError(shared.ErrCodeFieldTooLong, "Expense notes cannot exceed 200 characters")
	}
	e.Notes = notes
	e.Touch()
	return nil
}

// UpdateAmount changes the recorded amount
func (e *Expense) UpdateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	e.Amount = amount
	e.Touch()
	return nil
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}
