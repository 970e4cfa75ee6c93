package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/gstbooks/backend/internal/application/billing"
)

// PurchaseHandler handles purchase bill endpoints
type PurchaseHandler struct {
	BaseHandler
	purchaseService *billingapp.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService *billingapp.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// Create handles POST /billing/purchases
func (h *PurchaseHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billingapp.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	bill, err := h.purchaseService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, bill)
}

// GetByID handles GET /billing/purchases/:id
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase bill ID")
		return
	}

	bill, err := h.purchaseService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// List handles GET /billing/purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	filter, err := bindListFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if supplierID := c.Query("supplier_id"); supplierID != "" {
		filter.Filters["supplier_id"] = supplierID
	}

	result, err := h.purchaseService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Record handles POST /billing/purchases/:id/record
func (h *PurchaseHandler) Record(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase bill ID")
		return
	}

	bill, err := h.purchaseService.Record(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// RecordPayment handles POST /billing/purchases/:id/payments
func (h *PurchaseHandler) RecordPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase bill ID")
		return
	}

	var req billingapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	bill, err := h.purchaseService.RecordPayment(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// Cancel handles POST /billing/purchases/:id/cancel
func (h *PurchaseHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase bill ID")
		return
	}

	var req billingapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	bill, err := h.purchaseService.Cancel(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// Delete handles DELETE /billing/purchases/:id
func (h *PurchaseHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase bill ID")
		return
	}

	if err := h.purchaseService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
