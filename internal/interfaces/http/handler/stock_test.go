package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/gstbooks/backend/internal/application/inventory"
	"github.com/gstbooks/backend/internal/domain/catalog"
	"github.com/gstbooks/backend/internal/domain/inventory"
	"github.com/gstbooks/backend/internal/domain/shared"
	"github.com/gstbooks/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLevelRepository struct {
	levels map[uuid.UUID]*inventory.StockLevel
}

func newStubLevelRepository() *stubLevelRepository {
	return &stubLevelRepository{levels: make(map[uuid.UUID]*inventory.StockLevel)}
}

func (r *stubLevelRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) (*inventory.StockLevel, error) {
	if level, ok := r.levels[productID]; ok && level.TenantID == tenantID {
		return level, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubLevelRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.StockLevel, error) {
	var result []inventory.StockLevel
	for _, level := range r.levels {
		if level.TenantID == tenantID {
			result = append(result, *level)
		}
	}
	return result, nil
}

func (r *stubLevelRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	levels, _ := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(levels)), nil
}

func (r *stubLevelRepository) Save(ctx context.Context, level *inventory.StockLevel) error {
	r.levels[level.ProductID] = level
	return nil
}

func (r *stubLevelRepository) SaveWithLock(ctx context.Context, level *inventory.StockLevel) error {
	r.levels[level.ProductID] = level
	return nil
}

type stubMovementRepository struct {
	movements []inventory.StockMovement
}

func (r *stubMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *stubMovementRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var result []inventory.StockMovement
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.ProductID == productID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *stubMovementRepository) CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	rows, _ := r.FindByProduct(ctx, tenantID, productID, shared.Filter{})
	return int64(len(rows)), nil
}

type stubProductRepository struct {
	products map[uuid.UUID]*catalog.Product
}

func newStubProductRepository() *stubProductRepository {
	return &stubProductRepository{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *stubProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.products[id]; ok && p.TenantID == tenantID {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubProductRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.TenantID == tenantID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stubProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var result []catalog.Product
	for _, p := range r.products {
		if p.TenantID == tenantID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	products, _ := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(products)), nil
}

func (r *stubProductRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	_, err := r.FindBySKU(ctx, tenantID, sku)
	return err == nil, nil
}

func (r *stubProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *stubProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func setupStockRouter(t *testing.T) (*gin.Engine, *stubProductRepository, uuid.UUID) {
	gin.SetMode(gin.TestMode)

	tenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	productRepo := newStubProductRepository()
	service := inventoryapp.NewStockService(newStubLevelRepository(), &stubMovementRepository{}, productRepo)
	h := NewStockHandler(service)

	engine := gin.New()
	engine.POST("/api/v1/inventory/adjustments", h.Adjust)
	engine.GET("/api/v1/inventory/levels/:id", h.Level)
	return engine, productRepo, tenantID
}

func seedProduct(t *testing.T, repo *stubProductRepository, tenantID uuid.UUID) *catalog.Product {
	product, err := catalog.NewProduct(tenantID, "Copper Wire 2mm", "WIRE-CU-2", "MTR")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), product))
	return product
}

func TestStockHandler_Adjust(t *testing.T) {
	t.Run("applies a valid adjustment", func(t *testing.T) {
		engine, productRepo, tenantID := setupStockRouter(t)
		product := seedProduct(t, productRepo, tenantID)

		body, _ := json.Marshal(gin.H{
			"product_id": product.ID,
			"quantity":   25,
			"direction":  "ADD",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/adjustments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data, _ := json.Marshal(resp.Data)
		var level inventoryapp.StockLevelResponse
		require.NoError(t, json.Unmarshal(data, &level))
		assert.True(t, level.OnHandQuantity.Equal(decimal.NewFromInt(25)))
	})

	t.Run("rejects an out-of-range quantity with 400", func(t *testing.T) {
		engine, productRepo, tenantID := setupStockRouter(t)
		product := seedProduct(t, productRepo, tenantID)

		body, _ := json.Marshal(gin.H{
			"product_id": product.ID,
			"quantity":   1000000,
			"direction":  "ADD",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/adjustments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, shared.ErrCodeQuantityOutOfRange, resp.Error.Code)
	})

	t.Run("rejects a reduction below zero with 422", func(t *testing.T) {
		engine, productRepo, tenantID := setupStockRouter(t)
		product := seedProduct(t, productRepo, tenantID)

		body, _ := json.Marshal(gin.H{
			"product_id": product.ID,
			"quantity":   5,
			"direction":  "REDUCE",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/adjustments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, shared.ErrCodeInsufficientStock, resp.Error.Code)
	})

	t.Run("rejects an unknown direction at binding", func(t *testing.T) {
		engine, productRepo, tenantID := setupStockRouter(t)
		product := seedProduct(t, productRepo, tenantID)

		body, _ := json.Marshal(gin.H{
			"product_id": product.ID,
			"quantity":   5,
			"direction":  "SIDEWAYS",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/adjustments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStockHandler_Level(t *testing.T) {
	t.Run("reports zero for a product never adjusted", func(t *testing.T) {
		engine, productRepo, tenantID := setupStockRouter(t)
		product := seedProduct(t, productRepo, tenantID)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/levels/"+product.ID.String(), nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		data, _ := json.Marshal(resp.Data)
		var level inventoryapp.StockLevelResponse
		require.NoError(t, json.Unmarshal(data, &level))
		assert.True(t, level.OnHandQuantity.IsZero())
	})
}
