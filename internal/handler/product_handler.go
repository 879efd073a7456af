package handler

import (
	"go-catalog-admin/internal/middleware"
	"go-catalog-admin/internal/service"
	"go-catalog-admin/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	products service.ProductService
}

func NewProductHandler(products service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List returns one page of products
// GET /api/v1/products?q=&category=&page=&limit=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page, err := h.products.List(logger.Context(c), service.ProductQuery{
		Q:        c.Query("q"),
		Category: c.Query("category"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", service.DefaultPageSize),
	})
	if err != nil {
		return writeError(c, err, "Failed to fetch products")
	}
	return c.JSON(page)
}

// Get returns a product with its variants and images
// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	product, err := h.products.Get(logger.Context(c), id)
	if err != nil {
		return writeError(c, err, "Failed to fetch product")
	}
	return c.JSON(product)
}

// Delete removes a product and its stored images
// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	if err := h.products.Delete(logger.Context(c), id, middleware.Actor(c)); err != nil {
		return writeError(c, err, "Failed to delete product")
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}
