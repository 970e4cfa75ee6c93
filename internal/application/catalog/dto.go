package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	SKU            string           `json:"sku" binding:"required,min=1,max=50"`
	HSNCode        string           `json:"hsn_code" binding:"max=8"`
	Unit           string           `json:"unit" binding:"required,min=1,max=20"`
	SaleRate       *decimal.Decimal `json:"sale_rate"`
	PurchaseRate   *decimal.Decimal `json:"purchase_rate"`
	TaxRatePercent *decimal.Decimal `json:"tax_rate_percent"`
	LowStockLevel  *decimal.Decimal `json:"low_stock_level"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=200"`
	HSNCode        *string          `json:"hsn_code" binding:"omitempty,max=8"`
	SaleRate       *decimal.Decimal `json:"sale_rate"`
	PurchaseRate   *decimal.Decimal `json:"purchase_rate"`
	TaxRatePercent *decimal.Decimal `json:"tax_rate_percent"`
	LowStockLevel  *decimal.Decimal `json:"low_stock_level"`
	Active         *bool            `json:"active"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku"`
	HSNCode        string          `json:"hsn_code"`
	Unit           string          `json:"unit"`
	SaleRate       decimal.Decimal `json:"sale_rate"`
	PurchaseRate   decimal.Decimal `json:"purchase_rate"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	LowStockLevel  decimal.Decimal `json:"low_stock_level"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		TenantID:       p.TenantID,
		Name:           p.Name,
		SKU:            p.SKU,
		HSNCode:        p.HSNCode,
		Unit:           p.Unit,
		SaleRate:       p.SaleRate,
		PurchaseRate:   p.PurchaseRate,
		TaxRatePercent: p.TaxRatePercent,
		LowStockLevel:  p.LowStockLevel,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
