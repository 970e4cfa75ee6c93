package party

import (
	"context"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/shared"
)

// PartyRepository defines the interface for party persistence
type PartyRepository interface {
	// FindByIDForTenant finds a party by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Party, error)

	// FindAllForTenant finds all parties for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Party, error)

	// CountForTenant counts parties for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a party
	Save(ctx context.Context, party *Party) error

	// DeleteForTenant deletes a party for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
