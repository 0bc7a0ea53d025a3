package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"goodsin/internal/port"
)

// PurchaseOrderHandler handles purchase order read endpoints.
type PurchaseOrderHandler struct {
	poRepo port.PurchaseOrderRepository
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler.
func NewPurchaseOrderHandler(poRepo port.PurchaseOrderRepository) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{poRepo: poRepo}
}

// List handles GET /api/v1/purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	scope, ok := extractScope(c)
	if !ok {
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	orders, total, err := h.poRepo.ListByScope(c.Request.Context(), scope, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, orders, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/purchase-orders/:id, returning the order with its
// line items.
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	scope, ok := extractScope(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid purchase order id")
		return
	}

	order, err := h.poRepo.GetByID(c.Request.Context(), scope, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	items, err := h.poRepo.ListItems(c.Request.Context(), scope, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"order": order, "items": items})
}
