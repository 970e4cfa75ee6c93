package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AdjustmentDirection determines whether an adjustment adds to or reduces
// on-hand stock
type AdjustmentDirection string

const (
	DirectionAdd    AdjustmentDirection = "ADD"
	DirectionReduce AdjustmentDirection = "REDUCE"
)

// IsValid checks if the value is a known AdjustmentDirection
func (d AdjustmentDirection) IsValid() bool {
	return d == DirectionAdd || d == DirectionReduce
}

// String returns the string representation of AdjustmentDirection
func (d AdjustmentDirection) String() string {
	return string(d)
}

// Field length bounds for the optional adjustment metadata
const (
	MaxReferenceBillLen = 10
	MaxSupplierLen      = 50
	MaxCategoryLen      = 50
	MaxNotesLen         = 200
)

// MaxAdjustmentQuantity is the inclusive upper bound for a single adjustment
var MaxAdjustmentQuantity = decimal.NewFromInt(999999)

// StockAdjustment is a one-shot command describing an inventory change
// (receipt, issue, or manual correction). It carries no state of its own;
// the prior on-hand quantity is owned by the caller and passed to AdjustStock
// explicitly.
type StockAdjustment struct {
	ProductID           uuid.UUID
	Quantity            decimal.Decimal
	Direction           AdjustmentDirection
	AdjustmentDate      time.Time
	ReferenceBillNumber string // optional, <= 10 chars
	Supplier            string // optional, <= 50 chars
	Category            string // optional, <= 50 chars
	Notes               string // optional, <= 200 chars
}

// Validate checks the command in a fixed order: quantity range first, then
// field lengths, with the first failure winning. Direction and product are
// checked last since the range and length bounds are the user-editable inputs.
func (cmd StockAdjustment) Validate() error {
	if cmd.Quantity.IsNegative() || cmd.Quantity.GreaterThan(MaxAdjustmentQuantity) {
		return shared.NewDomainErrorf(shared.ErrCodeQuantityOutOfRange,
			"quantity must be between 0 and %s, got %s", MaxAdjustmentQuantity, cmd.Quantity)
	}
	if len(cmd.ReferenceBillNumber) > MaxReferenceBillLen {
		return shared.NewDomainErrorf(shared.ErrCodeFieldTooLong,
			"referenceBillNumber exceeds %d characters", MaxReferenceBillLen)
	}
	if len(cmd.Supplier) > MaxSupplierLen {
		return shared.NewDomainErrorf(shared.ErrCodeFieldTooLong,
			"supplier exceeds %d characters", MaxSupplierLen)
	}
	if len(cmd.Category) > MaxCategoryLen {
		return shared.NewDomainErrorf(shared.ErrCodeFieldTooLong,
			"category exceeds %d characters", MaxCategoryLen)
	}
	if len(cmd.Notes) > MaxNotesLen {
		return shared.NewDomainErrorf(shared.ErrCodeFieldTooLong,
			"notes exceeds %d characters", MaxNotesLen)
	}
	if !cmd.Direction.IsValid() {
		return shared.NewDomainErrorf("INVALID_DIRECTION",
			"unknown adjustment direction %q", string(cmd.Direction))
	}
	if cmd.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "product ID cannot be empty")
	}
	return nil
}

// AdjustStock validates the command fully before any computation and returns
// the new on-hand quantity. A reduction below zero always fails, regardless
// of caller intent; the result is never clamped. Pure function: reading the
// current quantity and persisting the result atomically is the caller's
// responsibility.
func AdjustStock(current decimal.Decimal, cmd StockAdjustment) (decimal.Decimal, error) {
	if err := cmd.Validate(); err != nil {
		return decimal.Zero, err
	}

	if cmd.Direction == DirectionAdd {
		return current.Add(cmd.Quantity), nil
	}

	result := current.Sub(cmd.Quantity)
	if result.IsNegative() {
		return decimal.Zero, shared.NewDomainErrorf(shared.ErrCodeInsufficientStock,
			"cannot reduce stock by %s, only %s on hand", cmd.Quantity, current)
	}
	return result, nil
}
