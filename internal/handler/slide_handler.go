package handler

import (
	"go-catalog-admin/internal/middleware"
	"go-catalog-admin/internal/service"
	"go-catalog-admin/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SlideHandler struct {
	slides service.SlideService
}

func NewSlideHandler(slides service.SlideService) *SlideHandler {
	return &SlideHandler{slides: slides}
}

// List GET /api/v1/slides?active=true
func (h *SlideHandler) List(c *fiber.Ctx) error {
	slides, err := h.slides.List(c.QueryBool("active", false))
	if err != nil {
		return writeError(c, err, "Failed to fetch slides")
	}
	return c.JSON(slides)
}

// Create POST /api/v1/slides
func (h *SlideHandler) Create(c *fiber.Ctx) error {
	var req service.SlideRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	slide, err := h.slides.Create(logger.Context(c), &req, middleware.Actor(c))
	if err != nil {
		return writeError(c, err, "Failed to create slide")
	}
	return c.Status(fiber.StatusCreated).JSON(slide)
}

// Update PUT /api/v1/slides/:id
func (h *SlideHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid slide ID")
	}
	var req service.SlideRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	slide, err := h.slides.Update(logger.Context(c), id, &req, middleware.Actor(c))
	if err != nil {
		return writeError(c, err, "Failed to update slide")
	}
	return c.JSON(slide)
}

// SetImage replaces the slide picture with the multipart "file"
// POST /api/v1/slides/:id/image
func (h *SlideHandler) SetImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid slide ID")
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}
	file, err := readUpload(fh)
	if err != nil {
		return badRequest(c, "Failed to read "+fh.Filename)
	}
	slide, err := h.slides.SetImage(logger.Context(c), id, file, middleware.Actor(c))
	if err != nil {
		return writeError(c, err, "Failed to store slide image")
	}
	return c.JSON(slide)
}

// Delete DELETE /api/v1/slides/:id
func (h *SlideHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid slide ID")
	}
	if err := h.slides.Delete(logger.Context(c), id, middleware.Actor(c)); err != nil {
		return writeError(c, err, "Failed to delete slide")
	}
	return c.JSON(fiber.Map{"message": "Slide deleted successfully"})
}
