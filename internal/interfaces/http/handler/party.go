package handler

import (
	"github.com/gin-gonic/gin"
	partyapp "github.com/gstbooks/backend/internal/application/party"
)

// PartyHandler handles customer/supplier endpoints
type PartyHandler struct {
	BaseHandler
	partyService *partyapp.PartyService
}

// NewPartyHandler creates a new PartyHandler
func NewPartyHandler(partyService *partyapp.PartyService) *PartyHandler {
	return &PartyHandler{partyService: partyService}
}

// Create handles POST /parties
func (h *PartyHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req partyapp.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	party, err := h.partyService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, party)
}

// GetByID handles GET /parties/:id
func (h *PartyHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid party ID")
		return
	}

	party, err := h.partyService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, party)
}

// List handles GET /parties
func (h *PartyHandler) List(c *gin.Context) {
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
	if kind := c.Query("kind"); kind != "" {
		filter.Filters["kind"] = kind
	}
	if state := c.Query("state_code"); state != "" {
		filter.Filters["state_code"] = state
	}

	result, err := h.partyService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update handles PUT /parties/:id
func (h *PartyHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid party ID")
		return
	}

	var req partyapp.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	party, err := h.partyService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, party)
}

// Delete handles DELETE /parties/:id
func (h *PartyHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid party ID")
		return
	}

	if err := h.partyService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
