package handler

import (
	"strconv"

	"github.com/erpdesk/erpdesk-api/internal/application/service"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// InventoryHandler serves derived stock balances
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// List returns the balance of every item
// @Summary Inventory
// @Tags inventory
// @Security BearerAuth
// @Router /inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.inventoryService.CalculateInventory(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory retrieved successfully", items)
}

// Get returns the balance of one item
func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	item, err := h.inventoryService.CalculateForItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory item retrieved successfully", item)
}

// LowStock returns items at or below the threshold query value, or the
// configured threshold when none is given
func (h *InventoryHandler) LowStock(c *gin.Context) {
	threshold := h.inventoryService.LowStockThreshold()
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(c, "threshold must be a non-negative integer")
			return
		}
		threshold = n
	}

	items, err := h.inventoryService.LowStock(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock items retrieved successfully", items)
}

// OutOfStock returns items whose balance is zero or below
func (h *InventoryHandler) OutOfStock(c *gin.Context) {
	items, err := h.inventoryService.OutOfStock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Out of stock items retrieved successfully", items)
}

// Summary returns stock counts and valuation
func (h *InventoryHandler) Summary(c *gin.Context) {
	summary, err := h.inventoryService.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory summary retrieved successfully", summary)
}
