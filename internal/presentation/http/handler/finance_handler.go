package handler

import (
	"strconv"
	"time"

	"github.com/erpdesk/erpdesk-api/internal/application/service"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// FinanceHandler serves money in/out reports
type FinanceHandler struct {
	financeService *service.FinanceService
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(financeService *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

// Totals returns all-time money in, money out and profit
func (h *FinanceHandler) Totals(c *gin.Context) {
	totals, err := h.financeService.Totals(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Financial totals retrieved successfully", totals)
}

// Summary returns revenue, costs and profit for an inclusive date range
// @Summary Financial summary
// @Tags finance
// @Security BearerAuth
// @Param start_date query string true "YYYY-MM-DD"
// @Param end_date query string true "YYYY-MM-DD"
// @Router /finance/summary [get]
func (h *FinanceHandler) Summary(c *gin.Context) {
	start, ok := optionalDateQuery(c, "start_date")
	if !ok {
		return
	}
	end, ok := optionalDateQuery(c, "end_date")
	if !ok {
		return
	}
	if start == nil || end == nil {
		response.BadRequest(c, "start_date and end_date are required")
		return
	}

	summary, err := h.financeService.Summary(c.Request.Context(), *start, *end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Financial summary retrieved successfully", summary)
}

func limitQuery(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return limit
}

// TopCustomers ranks customers by sales value
func (h *FinanceHandler) TopCustomers(c *gin.Context) {
	customers, err := h.financeService.TopCustomers(c.Request.Context(), limitQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Top customers retrieved successfully", customers)
}

// TopItems ranks items by quantity sold
func (h *FinanceHandler) TopItems(c *gin.Context) {
	items, err := h.financeService.TopItems(c.Request.Context(), limitQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Top items retrieved successfully", items)
}

// Monthly returns sales and purchases per month of the year query value,
// defaulting to the current year
func (h *FinanceHandler) Monthly(c *gin.Context) {
	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "year must be a number")
			return
		}
		year = n
	}

	points, err := h.financeService.MonthlyData(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Monthly data retrieved successfully", gin.H{
		"year":   year,
		"months": points,
	})
}
