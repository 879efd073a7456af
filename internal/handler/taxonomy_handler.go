package handler

import (
	"context"
	"errors"

	"go-catalog-admin/internal/events"
	"go-catalog-admin/internal/middleware"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/internal/variant"
	"go-catalog-admin/pkg/logger"
	"go-catalog-admin/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// TaxonomyService is the part of the catalog service the handler needs.
type TaxonomyService interface {
	List(ctx context.Context) (variant.Catalog, error)
	Sizes(ctx context.Context) ([]model.Size, error)
	Colors(ctx context.Context) ([]model.Color, error)
	Categories(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, entry interface{}, actor *events.Actor) error
	Update(ctx context.Context, entry interface{}, actor *events.Actor) error
	Delete(ctx context.Context, kind string, id uint, actor *events.Actor) error
}

type TaxonomyHandler struct {
	catalog TaxonomyService
}

func NewTaxonomyHandler(catalog TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{catalog: catalog}
}

// Catalog returns the names a product editor can choose from
// GET /api/v1/catalog
func (h *TaxonomyHandler) Catalog(c *fiber.Ctx) error {
	cat, err := h.catalog.List(logger.Context(c))
	if err != nil {
		return writeError(c, err, "Failed to load catalog")
	}
	return c.JSON(cat)
}

// List returns every entry of the kind in the route
// GET /api/v1/{sizes|colors|categories}
func (h *TaxonomyHandler) List(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := logger.Context(c)
		var (
			out interface{}
			err error
		)
		switch kind {
		case model.KindSize:
			out, err = h.catalog.Sizes(ctx)
		case model.KindColor:
			out, err = h.catalog.Colors(ctx)
		case model.KindCategory:
			out, err = h.catalog.Categories(ctx)
		default:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": repository.ErrUnknownKind.Error()})
		}
		if err != nil {
			return writeError(c, err, "Failed to fetch "+kind)
		}
		return c.JSON(out)
	}
}

// Create adds an entry
// POST /api/v1/{sizes|colors|categories}
func (h *TaxonomyHandler) Create(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entry := newEntry(kind)
		if entry == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": repository.ErrUnknownKind.Error()})
		}
		if err := c.BodyParser(entry); err != nil {
			return badRequest(c, "Invalid JSON")
		}
		setEntryID(entry, 0)
		if fields := validator.FieldErrors(entry); fields != nil {
			return writeError(c, &variant.ValidationError{Fields: fields}, "")
		}
		if err := h.catalog.Create(logger.Context(c), entry, middleware.Actor(c)); err != nil {
			return taxonomyError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	}
}

// Update renames or reorders an entry
// PUT /api/v1/{sizes|colors|categories}/:id
func (h *TaxonomyHandler) Update(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return badRequest(c, "Invalid ID")
		}
		entry := newEntry(kind)
		if entry == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": repository.ErrUnknownKind.Error()})
		}
		if err := c.BodyParser(entry); err != nil {
			return badRequest(c, "Invalid JSON")
		}
		setEntryID(entry, uint(id))
		if fields := validator.FieldErrors(entry); fields != nil {
			return writeError(c, &variant.ValidationError{Fields: fields}, "")
		}
		if err := h.catalog.Update(logger.Context(c), entry, middleware.Actor(c)); err != nil {
			return taxonomyError(c, err)
		}
		return c.JSON(entry)
	}
}

// Delete removes an entry that no live product uses
// DELETE /api/v1/{sizes|colors|categories}/:id
func (h *TaxonomyHandler) Delete(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return badRequest(c, "Invalid ID")
		}
		if err := h.catalog.Delete(logger.Context(c), kind, uint(id), middleware.Actor(c)); err != nil {
			return taxonomyError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Deleted successfully"})
	}
}

func taxonomyError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrTermInUse):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrUnknownKind):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return writeError(c, err, "Failed to save catalog entry")
}

func newEntry(kind string) interface{} {
	switch kind {
	case model.KindSize:
		return &model.Size{}
	case model.KindColor:
		return &model.Color{}
	case model.KindCategory:
		return &model.Category{}
	}
	return nil
}

func setEntryID(entry interface{}, id uint) {
	switch e := entry.(type) {
	case *model.Size:
		e.ID = id
	case *model.Color:
		e.ID = id
	case *model.Category:
		e.ID = id
	}
}
