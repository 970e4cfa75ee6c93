package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/catalog"
	"github.com/gstbooks/backend/internal/domain/inventory"
	"github.com/gstbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// lockRetries bounds how many times a conflicting adjustment is replayed
// against a fresh stock level before giving up.
const lockRetries = 3

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	ProductID           uuid.UUID       `json:"product_id" binding:"required"`
	Quantity            decimal.Decimal `json:"quantity" binding:"required"`
	Direction           string          `json:"direction" binding:"required,oneof=ADD REDUCE"`
	AdjustmentDate      *time.Time      `json:"adjustment_date"`
	ReferenceBillNumber string          `json:"reference_bill_number" binding:"max=10"`
	Supplier            string          `json:"supplier" binding:"max=50"`
	Category            string          `json:"category" binding:"max=50"`
	Notes               string          `json:"notes" binding:"max=200"`
}

// StockLevelResponse represents a product's on-hand quantity
type StockLevelResponse struct {
	ProductID      uuid.UUID       `json:"product_id"`
	OnHandQuantity decimal.Decimal `json:"on_hand_quantity"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// StockMovementResponse represents one ledger row
type StockMovementResponse struct {
	ID                  uuid.UUID       `json:"id"`
	ProductID           uuid.UUID       `json:"product_id"`
	Direction           string          `json:"direction"`
	Quantity            decimal.Decimal `json:"quantity"`
	PreviousQuantity    decimal.Decimal `json:"previous_quantity"`
	ResultingQuantity   decimal.Decimal `json:"resulting_quantity"`
	AdjustmentDate      time.Time       `json:"adjustment_date"`
	ReferenceBillNumber string          `json:"reference_bill_number"`
	Supplier            string          `json:"supplier"`
	Category            string          `json:"category"`
	Notes               string          `json:"notes"`
	CreatedAt           time.Time       `json:"created_at"`
}

func toLevelResponse(level *inventory.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ProductID:      level.ProductID,
		OnHandQuantity: level.OnHandQuantity,
		UpdatedAt:      level.UpdatedAt,
		Version:        level.Version,
	}
}

func toMovementResponse(m *inventory.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:                  m.ID,
		ProductID:           m.ProductID,
		Direction:           m.Direction.String(),
		Quantity:            m.Quantity,
		PreviousQuantity:    m.PreviousQuantity,
		ResultingQuantity:   m.ResultingQuantity,
		AdjustmentDate:      m.AdjustmentDate,
		ReferenceBillNumber: m.ReferenceBillNumber,
		Supplier:            m.Supplier,
		Category:            m.Category,
		Notes:               m.Notes,
		CreatedAt:           m.CreatedAt,
	}
}

// StockService handles stock levels, adjustments, and the movement ledger
type StockService struct {
	levelRepo    inventory.StockLevelRepository
	movementRepo inventory.StockMovementRepository
	productRepo  catalog.ProductRepository
}

// NewStockService creates a new StockService
func NewStockService(
	levelRepo inventory.StockLevelRepository,
	movementRepo inventory.StockMovementRepository,
	productRepo catalog.ProductRepository,
) *StockService {
	return &StockService{
		levelRepo:    levelRepo,
		movementRepo: movementRepo,
		productRepo:  productRepo,
	}
}

// Adjust applies a manual stock adjustment. The command is validated fully
// before any state is read or written; a version conflict on save reloads the
// level and replays the adjustment against the fresh quantity.
func (s *StockService) Adjust(ctx context.Context, tenantID uuid.UUID, req AdjustStockRequest) (*StockLevelResponse, error) {
	cmd := inventory.StockAdjustment{
		ProductID:           req.ProductID,
		Quantity:            req.Quantity,
		Direction:           inventory.AdjustmentDirection(req.Direction),
		AdjustmentDate:      time.Now(),
		ReferenceBillNumber: req.ReferenceBillNumber,
		Supplier:            req.Supplier,
		Category:            req.Category,
		Notes:               req.Notes,
	}
	if req.AdjustmentDate != nil {
		cmd.AdjustmentDate = *req.AdjustmentDate
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, req.ProductID); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= lockRetries; attempt++ {
		level, err := s.loadOrCreateLevel(ctx, tenantID, req.ProductID)
		if err != nil {
			return nil, err
		}

		movement, err := level.Apply(cmd)
		if err != nil {
			return nil, err
		}

		if err := s.levelRepo.SaveWithLock(ctx, level); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}

		if err := s.movementRepo.Append(ctx, movement); err != nil {
			return nil, err
		}

		response := toLevelResponse(level)
		return &response, nil
	}
	return nil, lastErr
}

// Level returns the stock level for a product. Products without any recorded
// movement report zero on hand.
func (s *StockService) Level(ctx context.Context, tenantID, productID uuid.UUID) (*StockLevelResponse, error) {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return nil, err
	}

	level, err := s.levelRepo.FindByProduct(ctx, tenantID, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			fresh, newErr := inventory.NewStockLevel(tenantID, productID)
			if newErr != nil {
				return nil, newErr
			}
			response := toLevelResponse(fresh)
			return &response, nil
		}
		return nil, err
	}

	response := toLevelResponse(level)
	return &response, nil
}

// Levels returns a page of stock levels for the tenant
func (s *StockService) Levels(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[StockLevelResponse], error) {
	levels, err := s.levelRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.levelRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]StockLevelResponse, len(levels))
	for i := range levels {
		responses[i] = toLevelResponse(&levels[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Movements returns the ledger for a product, most recent first
func (s *StockService) Movements(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[StockMovementResponse], error) {
	movements, err := s.movementRepo.FindByProduct(ctx, tenantID, productID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.movementRepo.CountByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	responses := make([]StockMovementResponse, len(movements))
	for i := range movements {
		responses[i] = toMovementResponse(&movements[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ApplyDocumentMovements posts one adjustment per line of an issued or
// recorded document. Used by the billing services when a document is
// configured to move inventory.
func (s *StockService) ApplyDocumentMovements(ctx context.Context, tenantID uuid.UUID, cmds []inventory.StockAdjustment) error {
	// Validate everything before touching any level so a bad line cannot
	// leave the document half-applied.
	for _, cmd := range cmds {
		if err := cmd.Validate(); err != nil {
			return err
		}
	}

	for _, cmd := range cmds {
		var lastErr error
		applied := false
		for attempt := 0; attempt <= lockRetries; attempt++ {
			level, err := s.loadOrCreateLevel(ctx, tenantID, cmd.ProductID)
			if err != nil {
				return err
			}
			movement, err := level.Apply(cmd)
			if err != nil {
				return err
			}
			if err := s.levelRepo.SaveWithLock(ctx, level); err != nil {
				if errors.Is(err, shared.ErrConcurrencyConflict) {
					lastErr = err
					continue
				}
				return err
			}
			if err := s.movementRepo.Append(ctx, movement); err != nil {
				return err
			}
			applied = true
			break
		}
		if !applied {
			return lastErr
		}
	}
	return nil
}

func (s *StockService) loadOrCreateLevel(ctx context.Context, tenantID, productID uuid.UUID) (*inventory.StockLevel, error) {
	level, err := s.levelRepo.FindByProduct(ctx, tenantID, productID)
	if err == nil {
		return level, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return inventory.NewStockLevel(tenantID, productID)
}
