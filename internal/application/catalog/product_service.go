package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/catalog"
	"github.com/gstbooks/backend/internal/domain/shared"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, tenantID, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	product, err := catalog.NewProduct(tenantID, req.Name, req.SKU, req.Unit)
	if err != nil {
		return nil, err
	}

	if req.HSNCode != "" {
		if err := product.SetHSNCode(req.HSNCode); err != nil {
			return nil, err
		}
	}
	if req.SaleRate != nil || req.PurchaseRate != nil {
		saleRate := product.SaleRate
		purchaseRate := product.PurchaseRate
		if req.SaleRate != nil {
			saleRate = *req.SaleRate
		}
		if req.PurchaseRate != nil {
			purchaseRate = *req.PurchaseRate
		}
		if err := product.SetRates(saleRate, purchaseRate); err != nil {
			return nil, err
		}
	}
	if req.TaxRatePercent != nil {
		if err := product.SetTaxRate(*req.TaxRatePercent); err != nil {
			return nil, err
		}
	}
	if req.LowStockLevel != nil {
		if err := product.SetLowStockLevel(*req.LowStockLevel); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List returns a page of products with the total count
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToProductResponses(products), total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := product.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.HSNCode != nil {
		if err := product.SetHSNCode(*req.HSNCode); err != nil {
			return nil, err
		}
	}
	if req.SaleRate != nil || req.PurchaseRate != nil {
		saleRate := product.SaleRate
		purchaseRate := product.PurchaseRate
		if req.SaleRate != nil {
			saleRate = *req.SaleRate
		}
		if req.PurchaseRate != nil {
			purchaseRate = *req.PurchaseRate
		}
		if err := product.SetRates(saleRate, purchaseRate); err != nil {
			return nil, err
		}
	}
	if req.TaxRatePercent != nil {
		if err := product.SetTaxRate(*req.TaxRatePercent); err != nil {
			return nil, err
		}
	}
	if req.LowStockLevel != nil {
		if err := product.SetLowStockLevel(*req.LowStockLevel); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		if *req.Active {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	product.IncrementVersion()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.productRepo.DeleteForTenant(ctx, tenantID, id)
}
