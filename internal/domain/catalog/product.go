package catalog

import (
	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a catalog product aggregate root. It owns the defaults
// used to prefill document line items (sale/purchase rate, tax rate, HSN code)
// and the low-stock threshold used for alerts; the on-hand quantity itself
// lives in the inventory context.
type Product struct {
	shared.TenantAggregateRoot
	Name           string          `gorm:"size:200;not null"`
	SKU            string          `gorm:"size:50;not null"`
	HSNCode        string          `gorm:"size:8"`
	Unit           string          `gorm:"size:20;not null"`
	SaleRate       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PurchaseRate   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRatePercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	LowStockLevel  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active         bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(tenantID uuid.UUID, name, sku, unit string) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		SKU:                 sku,
		Unit:                unit,
		SaleRate:            decimal.Zero,
		PurchaseRate:        decimal.Zero,
		TaxRatePercent:      decimal.Zero,
		LowStockLevel:       decimal.Zero,
		Active:              true,
	}, nil
}

// Rename updates the product name
func (p *Product) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	p.Name = name
	p.Touch()
	return nil
}

// SetRates sets the default sale and purchase rates
func (p *Product) SetRates(saleRate, purchaseRate decimal.Decimal) error {
	if saleRate.IsNegative() || purchaseRate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Rates cannot be negative")
	}
	p.SaleRate = saleRate
	p.PurchaseRate = purchaseRate
	p.Touch()
	return nil
}

// SetTaxRate sets the default GST rate percent applied to this product
func (p *Product) SetTaxRate(percent decimal.Decimal) error {
	if percent.IsNegative() {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	p.TaxRatePercent = percent
	p.Touch()
	return nil
}

// SetHSNCode sets the HSN classification code
func (p *Product) SetHSNCode(code string) error {
	if len(code) > 8 {
		return shared.NewDomainError("INVALID_HSN", "HSN code cannot exceed 8 characters")
	}
	p.HSNCode = code
	p.Touch()
	return nil
}

// SetLowStockLevel sets the threshold below which the product is flagged
func (p *Product) SetLowStockLevel(level decimal.Decimal) error {
	if level.IsNegative() {
		return shared.NewDomainError("INVALID_THRESHOLD", "Low stock level cannot be negative")
	}
	p.LowStockLevel = level
	p.Touch()
	return nil
}

// Deactivate hides the product from new documents without deleting history
func (p *Product) Deactivate() {
	p.Active = false
	p.Touch()
}

// Activate makes the product available for new documents
func (p *Product) Activate() {
	p.Active = true
	p.Touch()
}
