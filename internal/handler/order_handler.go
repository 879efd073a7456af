package handler

import (
	"go-catalog-admin/internal/middleware"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/service"
	"go-catalog-admin/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orders service.OrderService
}

func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List GET /api/v1/orders?status=
func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.orders.List(c.Query("status"))
	if err != nil {
		return writeError(c, err, "Failed to fetch orders")
	}
	return c.JSON(orders)
}

// Get GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid order ID")
	}
	order, err := h.orders.Get(id)
	if err != nil {
		return writeError(c, err, "Failed to fetch order")
	}
	return c.JSON(order)
}

// UpdateStatus moves an order along its workflow
// PUT /api/v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid order ID")
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return badRequest(c, "status is required")
	}
	order, err := h.orders.UpdateStatus(logger.Context(c), id, model.OrderStatus(req.Status), middleware.Actor(c))
	if err != nil {
		return writeError(c, err, "Failed to update order")
	}
	return c.JSON(order)
}
