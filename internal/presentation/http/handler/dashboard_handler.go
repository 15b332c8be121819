package handler

import (
	"github.com/erpdesk/erpdesk-api/internal/application/service"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the landing page summary
type DashboardHandler struct {
	dashboard *service.DashboardService
}

func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Show returns record counts, this year's sales and the low stock list
// @Summary Dashboard
// @Tags reports
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) Show(c *gin.Context) {
	stats, err := h.dashboard.GetDashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	// Figures move with every transaction.
	c.Header("Cache-Control", "no-store")
	response.OK(c, "Dashboard retrieved successfully", stats)
}
