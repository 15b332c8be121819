package handler

import (
	"net/http"

	"github.com/erpdesk/erpdesk-api/internal/application/service"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/dto/request"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// List handles listing sales
// @Summary List sales
// @Tags sales
// @Security BearerAuth
// @Param customer_id query string false "Customer"
// @Router /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	params, ok := transactionFilter(c, "customer_id")
	if !ok {
		return
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Sales retrieved successfully", response.NewSalePage(result))
}

// Create handles recording a sale
func (h *SaleHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.SaleRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), &service.CreateSaleInput{
		UserID:     userID,
		ItemID:     req.ItemID,
		CustomerID: req.CustomerID,
		Quantity:   req.Quantity,
		Rate:       req.Rate,
		Date:       req.Date,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale recorded successfully", response.NewSaleResponse(sale))
}

// Get handles fetching a single sale
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", response.NewSaleResponse(sale))
}

// Update handles editing a sale
func (h *SaleHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req request.UpdateSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.UpdateSale(c.Request.Context(), &service.UpdateSaleInput{
		ID:         id,
		ItemID:     req.ItemID,
		CustomerID: req.CustomerID,
		Quantity:   req.Quantity,
		Rate:       req.Rate,
		Date:       req.Date,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale updated successfully", response.NewSaleResponse(sale))
}

// Delete handles deleting a sale
func (h *SaleHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.saleService.DeleteSale(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale deleted successfully", nil)
}

// Stats returns the total sold quantity and average sales rate of an item
func (h *SaleHandler) Stats(c *gin.Context) {
	itemID, err := uuid.Parse(c.Query("item_id"))
	if err != nil {
		response.BadRequest(c, "item_id is required")
		return
	}

	ctx := c.Request.Context()
	quantity, err := h.saleService.TotalQuantityByItem(ctx, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	rate, err := h.saleService.AverageRateByItem(ctx, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale statistics retrieved successfully", ItemStats{
		ItemID:        itemID,
		TotalQuantity: quantity,
		AverageRate:   rate,
	})
}
