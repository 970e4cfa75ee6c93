package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockLevel is the aggregate root holding per-tenant per-product on-hand
// quantity. All mutations go through Apply so the adjuster's validation is the
// single gate for inventory changes.
type StockLevel struct {
	shared.TenantAggregateRoot
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_tenant_product,priority:2"`
	OnHandQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockLevel) TableName() string {
	return "stock_levels"
}

// NewStockLevel creates a new zero-quantity stock level for a product
func NewStockLevel(tenantID, productID uuid.UUID) (*StockLevel, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "product ID cannot be empty")
	}
	return &StockLevel{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		OnHandQuantity:      decimal.Zero,
	}, nil
}

// Apply runs a stock adjustment against the current on-hand quantity and,
// when it validates, records the new quantity and returns the movement row
// for the audit ledger.
func (s *StockLevel) Apply(cmd StockAdjustment) (*StockMovement, error) {
	if cmd.ProductID != s.ProductID {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "adjustment product does not match stock level")
	}

	newQuantity, err := AdjustStock(s.OnHandQuantity, cmd)
	if err != nil {
		return nil, err
	}

	previous := s.OnHandQuantity
	s.OnHandQuantity = newQuantity
	s.Touch()
	s.IncrementVersion()

	return NewStockMovement(s.TenantID, cmd, previous, newQuantity), nil
}

// StockMovement is one row of the inventory audit ledger, written for every
// applied adjustment. Movements are append-only.
type StockMovement struct {
	shared.BaseEntity
	TenantID            uuid.UUID           `gorm:"type:uuid;not null;index"`
	ProductID           uuid.UUID           `gorm:"type:uuid;not null;index"`
	Direction           AdjustmentDirection `gorm:"type:varchar(10);not null"`
	Quantity            decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	PreviousQuantity    decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ResultingQuantity   decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	AdjustmentDate      time.Time           `gorm:"not null;index"`
	ReferenceBillNumber string              `gorm:"size:10"`
	Supplier            string              `gorm:"size:50"`
	Category            string              `gorm:"size:50"`
	Notes               string              `gorm:"size:200"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates the ledger row for an applied adjustment
func NewStockMovement(tenantID uuid.UUID, cmd StockAdjustment, previous, resulting decimal.Decimal) *StockMovement {
	return &StockMovement{
		BaseEntity:          shared.NewBaseEntity(),
		TenantID:            tenantID,
		ProductID:           cmd.ProductID,
		Direction:           cmd.Direction,
		Quantity:            cmd.Quantity,
		PreviousQuantity:    previous,
		ResultingQuantity:   resulting,
		AdjustmentDate:      cmd.AdjustmentDate,
		ReferenceBillNumber: cmd.ReferenceBillNumber,
		Supplier:            cmd.Supplier,
		Category:            cmd.Category,
		Notes:               cmd.Notes,
	}
}
