package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/gstbooks/backend/internal/application/report"
)

// ReportHandler handles cashflow and stock report endpoints
type ReportHandler struct {
	BaseHandler
	cashflowService *reportapp.CashflowService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(cashflowService *reportapp.CashflowService) *ReportHandler {
	return &ReportHandler{cashflowService: cashflowService}
}

// CashflowSummary handles GET /reports/cashflow?from=2026-04-01&to=2026-04-30
func (h *ReportHandler) CashflowSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	from, to, ok := parseDateRange(c)
	if !ok {
		h.BadRequest(c, "from and to query parameters are required as YYYY-MM-DD")
		return
	}

	summary, err := h.cashflowService.Summary(c.Request.Context(), tenantID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// ExpensesByCategory handles GET /reports/expenses-by-category
func (h *ReportHandler) ExpensesByCategory(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	from, to, ok := parseDateRange(c)
	if !ok {
		h.BadRequest(c, "from and to query parameters are required as YYYY-MM-DD")
		return
	}

	breakdown, err := h.cashflowService.ExpensesByCategory(c.Request.Context(), tenantID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, breakdown)
}

// LowStock handles GET /reports/low-stock
func (h *ReportHandler) LowStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	entries, err := h.cashflowService.LowStock(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}
