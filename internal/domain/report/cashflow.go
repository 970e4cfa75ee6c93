// Package report holds read models derived from billing and inventory data.
// Nothing here is an aggregate; the types are query results.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashflowSummary aggregates money in and out over a period
type CashflowSummary struct {
	From time.Time
	To   time.Time

	SalesTotal    decimal.Decimal
	PurchaseTotal decimal.Decimal
	ExpenseTotal  decimal.Decimal
	NetCashflow   decimal.Decimal

	TaxCollected decimal.Decimal
	TaxPaid      decimal.Decimal
	NetTax       decimal.Decimal

	InvoiceCount  int64
	PurchaseCount int64
	ExpenseCount  int64
}

// ExpenseBreakdown is the per-category slice of the expense total
type ExpenseBreakdown struct {
	Category string
	Amount   decimal.Decimal
	Count    int64
}

// LowStockEntry flags a product whose on-hand quantity is at or below its
// configured reorder level
type LowStockEntry struct {
	ProductID      uuid.UUID
	ProductName    string
	SKU            string
	OnHandQuantity decimal.Decimal
	LowStockLevel  decimal.Decimal
}

// CashflowReader is the query port backing the report endpoints
type CashflowReader interface {
	Summary(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*CashflowSummary, error)
	ExpensesByCategory(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]ExpenseBreakdown, error)
	LowStock(ctx context.Context, tenantID uuid.UUID) ([]LowStockEntry, error)
}
