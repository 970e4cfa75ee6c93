package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/inventory"
	"github.com/gstbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockStockLevelRepository(t *testing.T) (*GormStockLevelRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormStockLevelRepository(gormDB), mock, mockDB
}

// adjustedLevel builds a stock level that has one applied adjustment, the
// state SaveWithLock sees on a first write.
func adjustedLevel(t *testing.T, tenantID, productID uuid.UUID) *inventory.StockLevel {
	level, err := inventory.NewStockLevel(tenantID, productID)
	require.NoError(t, err)

	_, err = level.Apply(inventory.StockAdjustment{
		ProductID:      productID,
		Quantity:       decimal.NewFromInt(5),
		Direction:      inventory.DirectionAdd,
		AdjustmentDate: time.Now(),
	})
	require.NoError(t, err)
	return level
}

func TestGormStockLevelRepository_FindByProduct(t *testing.T) {
	t.Run("finds existing level", func(t *testing.T) {
		repo, mock, mockDB := newMockStockLevelRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		productID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "product_id", "on_hand_quantity", "version"}).
			AddRow(uuid.New(), tenantID, productID, decimal.NewFromInt(12), 3)

		mock.ExpectQuery(`SELECT \* FROM "stock_levels" WHERE tenant_id = \$1 AND product_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, productID, 1).
			WillReturnRows(rows)

		level, err := repo.FindByProduct(context.Background(), tenantID, productID)

		assert.NoError(t, err)
		assert.NotNil(t, level)
		assert.True(t, level.OnHandQuantity.Equal(decimal.NewFromInt(12)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown product", func(t *testing.T) {
		repo, mock, mockDB := newMockStockLevelRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_levels" WHERE tenant_id = \$1 AND product_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		level, err := repo.FindByProduct(context.Background(), tenantID, productID)

		assert.Nil(t, level)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockLevelRepository_SaveWithLock(t *testing.T) {
	t.Run("updates row when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockStockLevelRepository(t)
		defer mockDB.Close()

		level := adjustedLevel(t, uuid.New(), uuid.New())

		mock.ExpectExec(`UPDATE "stock_levels" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), level)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports conflict when a newer version exists", func(t *testing.T) {
		repo, mock, mockDB := newMockStockLevelRepository(t)
		defer mockDB.Close()

		level := adjustedLevel(t, uuid.New(), uuid.New())

		mock.ExpectExec(`UPDATE "stock_levels" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_levels" WHERE tenant_id = \$1 AND product_id = \$2`).
			WithArgs(level.TenantID, level.ProductID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := repo.SaveWithLock(context.Background(), level)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inserts row on first adjustment", func(t *testing.T) {
		repo, mock, mockDB := newMockStockLevelRepository(t)
		defer mockDB.Close()

		level := adjustedLevel(t, uuid.New(), uuid.New())

		mock.ExpectExec(`UPDATE "stock_levels" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_levels" WHERE tenant_id = \$1 AND product_id = \$2`).
			WithArgs(level.TenantID, level.ProductID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`INSERT INTO "stock_levels"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), level)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps racing insert to conflict", func(t *testing.T) {
		repo, mock, mockDB := newMockStockLevelRepository(t)
		defer mockDB.Close()

		level := adjustedLevel(t, uuid.New(), uuid.New())

		mock.ExpectExec(`UPDATE "stock_levels" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_levels" WHERE tenant_id = \$1 AND product_id = \$2`).
			WithArgs(level.TenantID, level.ProductID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`INSERT INTO "stock_levels"`).
			WillReturnError(sql.ErrConnDone)

		err := repo.SaveWithLock(context.Background(), level)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockMovementRepository_Append(t *testing.T) {
	t.Run("inserts a movement row", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()

		gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), &gorm.Config{
			SkipDefaultTransaction: true,
		})
		require.NoError(t, err)
		repo := NewGormStockMovementRepository(gormDB)

		movement := inventory.NewStockMovement(uuid.New(), inventory.StockAdjustment{
			ProductID:      uuid.New(),
			Quantity:       decimal.NewFromInt(3),
			Direction:      inventory.DirectionReduce,
			AdjustmentDate: time.Now(),
		}, decimal.NewFromInt(10), decimal.NewFromInt(7))

		mock.ExpectExec(`INSERT INTO "stock_movements"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Append(context.Background(), movement)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStockRepositories_InterfaceCompliance(t *testing.T) {
	repo, _, mockDB := newMockStockLevelRepository(t)
	defer mockDB.Close()

	var _ inventory.StockLevelRepository = repo
	var _ inventory.StockMovementRepository = NewGormStockMovementRepository(repo.db)
}
