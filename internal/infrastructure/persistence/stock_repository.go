package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/inventory"
	"github.com/gstbooks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockLevelRepository implements inventory.StockLevelRepository using GORM
type GormStockLevelRepository struct {
	db *gorm.DB
}

// NewGormStockLevelRepository creates a new GormStockLevelRepository
func NewGormStockLevelRepository(db *gorm.DB) *GormStockLevelRepository {
	return &GormStockLevelRepository{db: db}
}

func (r *GormStockLevelRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) (*inventory.StockLevel, error) {
	var level inventory.StockLevel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

func (r *GormStockLevelRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.StockLevel, error) {
	var levels []inventory.StockLevel
	query := r.db.WithContext(ctx).Model(&inventory.StockLevel{}).Where("tenant_id = ?", tenantID)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, StockLevelSortFields, "updated_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

func (r *GormStockLevelRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.StockLevel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormStockLevelRepository) Save(ctx context.Context, level *inventory.StockLevel) error {
	return r.db.WithContext(ctx).Save(level).Error
}

// SaveWithLock saves the level only if the stored row still carries the
// version the aggregate was loaded with. The aggregate increments its version
// on every applied adjustment, so the expected stored version is Version-1.
// A level that has no stored row yet inserts; a duplicate insert means a
// concurrent first adjustment won and reports a conflict.
func (r *GormStockLevelRepository) SaveWithLock(ctx context.Context, level *inventory.StockLevel) error {
	result := r.db.WithContext(ctx).Model(&inventory.StockLevel{}).
		Where("id = ? AND version = ?", level.ID, level.Version-1).
		Updates(map[string]any{
			"on_hand_quantity": level.OnHandQuantity,
			"version":          level.Version,
			"updated_at":       level.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var existing int64
	if err := r.db.WithContext(ctx).Model(&inventory.StockLevel{}).
		Where("tenant_id = ? AND product_id = ?", level.TenantID, level.ProductID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return shared.ErrConcurrencyConflict
	}
	if err := r.db.WithContext(ctx).Create(level).Error; err != nil {
		// A concurrent first adjustment may insert between the check and
		// the create; report it as a version conflict so callers retry.
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// GormStockMovementRepository implements inventory.StockMovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

func (r *GormStockMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *GormStockMovementRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	query = query.Order("created_at DESC")

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *GormStockMovementRepository) CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
