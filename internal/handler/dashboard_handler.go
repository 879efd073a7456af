package handler

import (
	"go-catalog-admin/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetRevenue returns daily order revenue for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetRevenue(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days <= 0 {
		days = 7
	}
	if days > service.MaxRevenueDays {
		days = service.MaxRevenueDays
	}

	data, err := h.service.GetRevenue(days)
	if err != nil {
		return writeError(c, err, "Failed to fetch revenue")
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return writeError(c, err, "Failed to fetch dashboard stats")
	}
	return c.JSON(stats)
}
