package handler

import (
	"errors"

	"go-catalog-admin/internal/middleware"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/service"
	"go-catalog-admin/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	reviews service.ReviewService
}

func NewReviewHandler(reviews service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

type statusRequest struct {
	Status string `json:"status"`
}

func reviewError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, service.ErrBadReviewStatus) || errors.Is(err, service.ErrBadReviewProduct) {
		return badRequest(c, err.Error())
	}
	return writeError(c, err, fallback)
}

// List GET /api/v1/reviews?product_id=&status=
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	reviews, err := h.reviews.List(c.Query("product_id"), c.Query("status"))
	if err != nil {
		return reviewError(c, err, "Failed to fetch reviews")
	}
	return c.JSON(reviews)
}

// SetStatus approves, hides or resets a review
// PUT /api/v1/reviews/:id/status
func (h *ReviewHandler) SetStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid review ID")
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	review, err := h.reviews.SetStatus(logger.Context(c), id, model.ReviewStatus(req.Status), middleware.Actor(c))
	if err != nil {
		return reviewError(c, err, "Failed to update review")
	}
	return c.JSON(review)
}

// Delete DELETE /api/v1/reviews/:id
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid review ID")
	}
	if err := h.reviews.Delete(logger.Context(c), id, middleware.Actor(c)); err != nil {
		return reviewError(c, err, "Failed to delete review")
	}
	return c.JSON(fiber.Map{"message": "Review deleted successfully"})
}
