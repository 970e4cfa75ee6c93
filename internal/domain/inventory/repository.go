package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/shared"
)

// StockLevelRepository defines the interface for stock level persistence
type StockLevelRepository interface {
	// FindByProduct finds the stock level for a product, or shared.ErrNotFound
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) (*StockLevel, error)

	// FindAllForTenant lists stock levels for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockLevel, error)

	// CountForTenant counts stock levels for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a stock level
	Save(ctx context.Context, level *StockLevel) error

	// SaveWithLock saves with optimistic locking (version check); returns
	// shared.ErrConcurrencyConflict when the stored version moved on
	SaveWithLock(ctx context.Context, level *StockLevel) error
}

// StockMovementRepository defines the interface for the movement ledger
type StockMovementRepository interface {
	// Append writes a movement row; movements are never updated or deleted
	Append(ctx context.Context, movement *StockMovement) error

	// FindByProduct lists movements for a product, most recent first
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// CountByProduct counts movements for a product
	CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error)
}
