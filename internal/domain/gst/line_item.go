package gst

import (
	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DiscountType determines how a line discount is interpreted
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

// IsValid checks if the value is a known DiscountType
func (d DiscountType) IsValid() bool {
	return d == DiscountTypePercentage || d == DiscountTypeFixed
}

// String returns the string representation of DiscountType
func (d DiscountType) String() string {
	return string(d)
}

// LineItem is one row of a purchase bill or sales invoice as fed into the tax
// calculator. The product reference is opaque to this package; rate defaults
// and tax rates are prefilled by the catalog before the item reaches here.
type LineItem struct {
	ProductID      uuid.UUID
	Quantity       decimal.Decimal // > 0; fractional quantities permitted (weight-based units)
	Rate           decimal.Decimal // >= 0, per unit, document base currency
	Discount       decimal.Decimal // >= 0; meaning depends on DiscountType
	DiscountType   DiscountType
	TaxRatePercent decimal.Decimal // >= 0; 0 is valid (exempt goods)
}

var oneHundred = decimal.NewFromInt(100)

// Validate checks the line item invariants. A zero rate is allowed (free
// items); a zero or negative quantity is not. Percentage discounts must lie in
// [0, 100]; fixed discounts must not exceed quantity * rate.
func (li LineItem) Validate() error {
	if !li.DiscountType.IsValid() {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidLineItem,
			"unknown discount type %q", string(li.DiscountType))
	}
	if li.Quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidLineItem,
			"quantity must be positive, got %s", li.Quantity)
	}
	if li.Rate.IsNegative() {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidLineItem,
			"rate cannot be negative, got %s", li.Rate)
	}
	if li.Discount.IsNegative() {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidLineItem,
			"discount cannot be negative, got %s", li.Discount)
	}
	if li.TaxRatePercent.IsNegative() {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidLineItem,
			"tax rate cannot be negative, got %s", li.TaxRatePercent)
	}
	switch li.DiscountType {
	case DiscountTypePercentage:
		if li.Discount.GreaterThan(oneHundred) {
			return shared.NewDomainErrorf(shared.ErrCodeInvalidLineItem,
				"percentage discount must be between 0 and 100, got %s", li.Discount)
		}
	case DiscountTypeFixed:
		base := li.Quantity.Mul(li.Rate)
		if li.Discount.GreaterThan(base) {
			return shared.NewDomainErrorf(shared.ErrCodeInvalidLineItem,
				"fixed discount %s exceeds line amount %s", li.Discount, base)
		}
	}
	return nil
}
