package handler

import (
	"net/http"

	"github.com/erpdesk/erpdesk-api/internal/application/service"
	"github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/dto/request"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseHandler handles purchase-related HTTP requests
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// transactionFilter reads the list filters shared by purchases and sales.
// partyKey names the supplier_id or customer_id query parameter.
func transactionFilter(c *gin.Context, partyKey string) (*repository.TransactionFilterParams, bool) {
	itemID, ok := optionalUUIDQuery(c, "item_id")
	if !ok {
		return nil, false
	}
	partyID, ok := optionalUUIDQuery(c, partyKey)
	if !ok {
		return nil, false
	}
	start, ok := optionalDateQuery(c, "start_date")
	if !ok {
		return nil, false
	}
	end, ok := optionalDateQuery(c, "end_date")
	if !ok {
		return nil, false
	}

	return &repository.TransactionFilterParams{
		Pagination: pageFromQuery(c),
		Search:     c.Query("search"),
		ItemID:     itemID,
		PartyID:    partyID,
		StartDate:  start,
		EndDate:    end,
	}, true
}

// ItemStats is the per-item quantity and average rate of a transaction kind
type ItemStats struct {
	ItemID        uuid.UUID `json:"item_id"`
	TotalQuantity int64     `json:"total_quantity"`
	AverageRate   float64   `json:"average_rate"`
}

// List handles listing purchases
// @Summary List purchases
// @Tags purchases
// @Security BearerAuth
// @Param search query string false "Item or supplier name contains"
// @Param item_id query string false "Item"
// @Param supplier_id query string false "Supplier"
// @Param start_date query string false "YYYY-MM-DD, inclusive"
// @Param end_date query string false "YYYY-MM-DD, inclusive"
// @Router /purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	params, ok := transactionFilter(c, "supplier_id")
	if !ok {
		return
	}

	result, err := h.purchaseService.ListPurchases(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Purchases retrieved successfully", response.NewPurchasePage(result))
}

// Create handles recording a purchase
func (h *PurchaseHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.PurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	purchase, err := h.purchaseService.CreatePurchase(c.Request.Context(), &service.CreatePurchaseInput{
		UserID:     userID,
		ItemID:     req.ItemID,
		SupplierID: req.SupplierID,
		Quantity:   req.Quantity,
		Rate:       req.Rate,
		Date:       req.Date,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Purchase recorded successfully", response.NewPurchaseResponse(purchase))
}

// Get handles fetching a single purchase
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	purchase, err := h.purchaseService.GetPurchase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase retrieved successfully", response.NewPurchaseResponse(purchase))
}

// Update handles editing a purchase
func (h *PurchaseHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req request.UpdatePurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	purchase, err := h.purchaseService.UpdatePurchase(c.Request.Context(), &service.UpdatePurchaseInput{
		ID:         id,
		ItemID:     req.ItemID,
		SupplierID: req.SupplierID,
		Quantity:   req.Quantity,
		Rate:       req.Rate,
		Date:       req.Date,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase updated successfully", response.NewPurchaseResponse(purchase))
}

// Delete handles deleting a purchase
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.purchaseService.DeletePurchase(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase deleted successfully", nil)
}

// Stats returns the total purchased quantity and average purchase rate of an item
func (h *PurchaseHandler) Stats(c *gin.Context) {
	itemID, err := uuid.Parse(c.Query("item_id"))
	if err != nil {
		response.BadRequest(c, "item_id is required")
		return
	}

	ctx := c.Request.Context()
	quantity, err := h.purchaseService.TotalQuantityByItem(ctx, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	rate, err := h.purchaseService.AverageRateByItem(ctx, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase statistics retrieved successfully", ItemStats{
		ItemID:        itemID,
		TotalQuantity: quantity,
		AverageRate:   rate,
	})
}
