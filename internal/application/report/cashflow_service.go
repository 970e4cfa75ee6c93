package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/report"
	"github.com/gstbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CashflowSummaryResponse is the summary report payload. Amounts are rounded
// to two decimal places at this boundary.
type CashflowSummaryResponse struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	SalesTotal    decimal.Decimal `json:"sales_total"`
	PurchaseTotal decimal.Decimal `json:"purchase_total"`
	ExpenseTotal  decimal.Decimal `json:"expense_total"`
	NetCashflow   decimal.Decimal `json:"net_cashflow"`

	TaxCollected decimal.Decimal `json:"tax_collected"`
	TaxPaid      decimal.Decimal `json:"tax_paid"`
	NetTax       decimal.Decimal `json:"net_tax"`

	InvoiceCount  int64 `json:"invoice_count"`
	PurchaseCount int64 `json:"purchase_count"`
	ExpenseCount  int64 `json:"expense_count"`
}

// ExpenseBreakdownResponse is one category slice of the expense report
type ExpenseBreakdownResponse struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int64           `json:"count"`
}

// LowStockResponse flags a product at or below its reorder level
type LowStockResponse struct {
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	SKU            string          `json:"sku"`
	OnHandQuantity decimal.Decimal `json:"on_hand_quantity"`
	LowStockLevel  decimal.Decimal `json:"low_stock_level"`
}

// CashflowService serves the report endpoints from the read model
type CashflowService struct {
	reader report.CashflowReader
}

// NewCashflowService creates a new CashflowService
func NewCashflowService(reader report.CashflowReader) *CashflowService {
	return &CashflowService{reader: reader}
}

// Summary returns money in and out over the period
func (s *CashflowService) Summary(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*CashflowSummaryResponse, error) {
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "Report end date is before the start date")
	}

	summary, err := s.reader.Summary(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	return &CashflowSummaryResponse{
		From:          summary.From,
		To:            summary.To,
		SalesTotal:    summary.SalesTotal.Round(2),
		PurchaseTotal: summary.PurchaseTotal.Round(2),
		ExpenseTotal:  summary.ExpenseTotal.Round(2),
		NetCashflow:   summary.NetCashflow.Round(2),
		TaxCollected:  summary.TaxCollected.Round(2),
		TaxPaid:       summary.TaxPaid.Round(2),
		NetTax:        summary.NetTax.Round(2),
		InvoiceCount:  summary.InvoiceCount,
		PurchaseCount: summary.PurchaseCount,
		ExpenseCount:  summary.ExpenseCount,
	}, nil
}

// ExpensesByCategory returns the per-category expense breakdown
func (s *CashflowService) ExpensesByCategory(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]ExpenseBreakdownResponse, error) {
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "Report end date is before the start date")
	}

	breakdown, err := s.reader.ExpensesByCategory(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]ExpenseBreakdownResponse, len(breakdown))
	for i, b := range breakdown {
		responses[i] = ExpenseBreakdownResponse{
			Category: b.Category,
			Amount:   b.Amount.Round(2),
			Count:    b.Count,
		}
	}
	return responses, nil
}

// LowStock returns products at or below their reorder level
func (s *CashflowService) LowStock(ctx context.Context, tenantID uuid.UUID) ([]LowStockResponse, error) {
	entries, err := s.reader.LowStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]LowStockResponse, len(entries))
	for i, e := range entries {
		responses[i] = LowStockResponse{
			ProductID:      e.ProductID,
			ProductName:    e.ProductName,
			SKU:            e.SKU,
			OnHandQuantity: e.OnHandQuantity,
			LowStockLevel:  e.LowStockLevel,
		}
	}
	return responses, nil
}
