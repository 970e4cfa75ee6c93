package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/shared"
)

// InvoiceRepository defines the persistence port for invoices
type InvoiceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*Invoice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Invoice, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*Invoice, error)
	NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
	Save(ctx context.Context, invoice *Invoice) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// PurchaseRepository defines the persistence port for purchase bills
type PurchaseRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseBill, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*PurchaseBill, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*PurchaseBill, error)
	Save(ctx context.Context, bill *PurchaseBill) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ExpenseRepository defines the persistence port for expenses
type ExpenseRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Expense, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Expense, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*Expense, error)
	Save(ctx context.Context, expense *Expense) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
