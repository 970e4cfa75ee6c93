package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCashflowRepository implements report.CashflowReader with aggregate
// queries over the billing and inventory tables.
type GormCashflowRepository struct {
	db *gorm.DB
}

// NewGormCashflowRepository creates a new GormCashflowRepository
func NewGormCashflowRepository(db *gorm.DB) *GormCashflowRepository {
	return &GormCashflowRepository{db: db}
}

type moneyAggregate struct {
	Total decimal.Decimal
	Tax   decimal.Decimal
	Count int64
}

// Summary computes totals over documents dated inside [from, to]. Draft and
// cancelled documents are excluded so the numbers reflect committed activity.
func (r *GormCashflowRepository) Summary(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*report.CashflowSummary, error) {
	var sales moneyAggregate
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(grand_total), 0)                            AS total,
		       COALESCE(SUM(total_cgst + total_sgst + total_igst), 0)   AS tax,
		       COUNT(*)                                                 AS count
		FROM invoices
		WHERE tenant_id = ? AND status IN ('ISSUED', 'PAID')
		  AND invoice_date >= ? AND invoice_date <= ?`,
		tenantID, from, to).Scan(&sales).Error
	if err != nil {
		return nil, err
	}

	var purchases moneyAggregate
	err = r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(grand_total), 0)                            AS total,
		       COALESCE(SUM(total_cgst + total_sgst + total_igst), 0)   AS tax,
		       COUNT(*)                                                 AS count
		FROM purchase_bills
		WHERE tenant_id = ? AND status IN ('RECORDED', 'PAID')
		  AND bill_date >= ? AND bill_date <= ?`,
		tenantID, from, to).Scan(&purchases).Error
	if err != nil {
		return nil, err
	}

	var expenses moneyAggregate
	err = r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(amount), 0) AS total,
		       0                        AS tax,
		       COUNT(*)                 AS count
		FROM expenses
		WHERE tenant_id = ? AND expense_date >= ? AND expense_date <= ?`,
		tenantID, from, to).Scan(&expenses).Error
	if err != nil {
		return nil, err
	}

	return &report.CashflowSummary{
		From:          from,
		To:            to,
		SalesTotal:    sales.Total,
		PurchaseTotal: purchases.Total,
		ExpenseTotal:  expenses.Total,
		NetCashflow:   sales.Total.Sub(purchases.Total).Sub(expenses.Total),
		TaxCollected:  sales.Tax,
		TaxPaid:       purchases.Tax,
		NetTax:        sales.Tax.Sub(purchases.Tax),
		InvoiceCount:  sales.Count,
		PurchaseCount: purchases.Count,
		ExpenseCount:  expenses.Count,
	}, nil
}

func (r *GormCashflowRepository) ExpensesByCategory(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]report.ExpenseBreakdown, error) {
	var breakdown []report.ExpenseBreakdown
	err := r.db.WithContext(ctx).Raw(`
		SELECT category, COALESCE(SUM(amount), 0) AS amount, COUNT(*) AS count
		FROM expenses
		WHERE tenant_id = ? AND expense_date >= ? AND expense_date <= ?
		GROUP BY category
		ORDER BY amount DESC`,
		tenantID, from, to).Scan(&breakdown).Error
	if err != nil {
		return nil, err
	}
	return breakdown, nil
}

// LowStock lists active products whose on-hand quantity has fallen to or
// below their configured threshold. Products with a zero threshold are
// skipped; zero means the owner never set one.
func (r *GormCashflowRepository) LowStock(ctx context.Context, tenantID uuid.UUID) ([]report.LowStockEntry, error) {
	var entries []report.LowStockEntry
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.id                           AS product_id,
		       p.name                         AS product_name,
		       p.sku                          AS sku,
		       COALESCE(s.on_hand_quantity, 0) AS on_hand_quantity,
		       p.low_stock_level              AS low_stock_level
		FROM products p
		LEFT JOIN stock_levels s
		       ON s.tenant_id = p.tenant_id AND s.product_id = p.id
		WHERE p.tenant_id = ? AND p.active = true
		  AND p.low_stock_level > 0
		  AND COALESCE(s.on_hand_quantity, 0) <= p.low_stock_level
		ORDER BY p.name ASC`,
		tenantID).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
