package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"go-catalog-admin/internal/middleware"
	"go-catalog-admin/internal/service"
	"go-catalog-admin/internal/variant"
	"go-catalog-admin/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// EditorHandler exposes product editor sessions. Every call except submit
// answers with the session view.
type EditorHandler struct {
	editor service.EditorService
}

func NewEditorHandler(editor service.EditorService) *EditorHandler {
	return &EditorHandler{editor: editor}
}

type openSessionRequest struct {
	ProductID string `json:"product_id"`
}

type toggleRequest struct {
	Size  string `json:"size"`
	Color string `json:"color"`
}

// cellRequest addresses one matrix cell. Value is the raw input and may be a
// JSON string or number.
type cellRequest struct {
	Size  string          `json:"size"`
	Color string          `json:"color"`
	Value json.RawMessage `json:"value"`
}

type bulkStockRequest struct {
	Value *int `json:"value"`
}

type imagesResponse struct {
	*service.SessionView
	Rejected []variant.ImageRejection `json:"rejected"`
}

// rawInput turns a JSON string or number into the text a user would have typed.
func rawInput(v json.RawMessage) string {
	s := strings.TrimSpace(string(v))
	if s == "" || s == "null" {
		return ""
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		return unquoted
	}
	return s
}

// Open starts a session, empty or loaded from an existing product
// POST /api/v1/editor/sessions
func (h *EditorHandler) Open(c *fiber.Ctx) error {
	var req openSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid JSON")
		}
	}

	var productID *uuid.UUID
	if req.ProductID != "" {
		id, err := uuid.Parse(req.ProductID)
		if err != nil {
			return badRequest(c, "Invalid product ID")
		}
		productID = &id
	}

	view, err := h.editor.Open(logger.Context(c), productID)
	if err != nil {
		return writeError(c, err, "Failed to open editor session")
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// Get returns the session view
// GET /api/v1/editor/sessions/:id
func (h *EditorHandler) Get(c *fiber.Ctx) error {
	return h.respond(c)(h.editor.Get(c.Params("id")))
}

// Discard drops the session and its pending edits
// DELETE /api/v1/editor/sessions/:id
func (h *EditorHandler) Discard(c *fiber.Ctx) error {
	if err := h.editor.Discard(c.Params("id")); err != nil {
		return writeError(c, err, "Failed to discard session")
	}
	return c.JSON(fiber.Map{"message": "Session discarded"})
}

// ToggleSize POST /api/v1/editor/sessions/:id/sizes/toggle
func (h *EditorHandler) ToggleSize(c *fiber.Ctx) error {
	var req toggleRequest
	if err := c.BodyParser(&req); err != nil || req.Size == "" {
		return badRequest(c, "size is required")
	}
	return h.respond(c)(h.editor.ToggleSize(c.Params("id"), req.Size))
}

// ToggleColor POST /api/v1/editor/sessions/:id/colors/toggle
func (h *EditorHandler) ToggleColor(c *fiber.Ctx) error {
	var req toggleRequest
	if err := c.BodyParser(&req); err != nil || req.Color == "" {
		return badRequest(c, "color is required")
	}
	return h.respond(c)(h.editor.ToggleColor(c.Params("id"), req.Color))
}

// SetStock PUT /api/v1/editor/sessions/:id/stock
func (h *EditorHandler) SetStock(c *fiber.Ctx) error {
	var req cellRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	return h.respond(c)(h.editor.SetStock(c.Params("id"), req.Size, req.Color, rawInput(req.Value)))
}

// BulkSetStock PUT /api/v1/editor/sessions/:id/stock/bulk
func (h *EditorHandler) BulkSetStock(c *fiber.Ctx) error {
	var req bulkStockRequest
	if err := c.BodyParser(&req); err != nil || req.Value == nil {
		return badRequest(c, "value is required")
	}
	return h.respond(c)(h.editor.BulkSetStock(c.Params("id"), *req.Value))
}

// SetWeight PUT /api/v1/editor/sessions/:id/weight
func (h *EditorHandler) SetWeight(c *fiber.Ctx) error {
	var req cellRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	return h.respond(c)(h.editor.SetWeight(c.Params("id"), req.Size, req.Color, rawInput(req.Value)))
}

// SetVariantPrice PUT /api/v1/editor/sessions/:id/price
func (h *EditorHandler) SetVariantPrice(c *fiber.Ctx) error {
	var req cellRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	return h.respond(c)(h.editor.SetVariantPrice(c.Params("id"), req.Size, req.Color, rawInput(req.Value)))
}

// LoadVariants replaces the matrix in one call
// PUT /api/v1/editor/sessions/:id/variants
func (h *EditorHandler) LoadVariants(c *fiber.Ctx) error {
	var req []variant.Variant
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	return h.respond(c)(h.editor.LoadVariants(c.Params("id"), req))
}

// PatchFields PATCH /api/v1/editor/sessions/:id/fields
func (h *EditorHandler) PatchFields(c *fiber.Ctx) error {
	var req variant.FieldPatch
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	return h.respond(c)(h.editor.PatchFields(c.Params("id"), req))
}

// AddImages queues uploaded files under a color. Files that fail the image
// check come back in "rejected".
// POST /api/v1/editor/sessions/:id/images/:color
func (h *EditorHandler) AddImages(c *fiber.Ctx) error {
	color, err := url.PathUnescape(c.Params("color"))
	if err != nil || color == "" {
		return badRequest(c, "Invalid color")
	}
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "Expected multipart form with files")
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return badRequest(c, "No files provided")
	}

	files := make([]variant.PendingFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readUpload(fh)
		if err != nil {
			return badRequest(c, "Failed to read "+fh.Filename)
		}
		files = append(files, f)
	}

	view, rejected, err := h.editor.AddImages(c.Params("id"), color, files)
	if err != nil {
		return writeError(c, err, "Failed to add images")
	}
	if rejected == nil {
		rejected = []variant.ImageRejection{}
	}
	return c.JSON(imagesResponse{SessionView: view, Rejected: rejected})
}

// RemoveImage DELETE /api/v1/editor/sessions/:id/images/:color/:index
func (h *EditorHandler) RemoveImage(c *fiber.Ctx) error {
	color, err := url.PathUnescape(c.Params("color"))
	if err != nil || color == "" {
		return badRequest(c, "Invalid color")
	}
	index, err := c.ParamsInt("index")
	if err != nil || index < 0 {
		return badRequest(c, "Invalid image index")
	}
	return h.respond(c)(h.editor.RemoveImage(c.Params("id"), color, index))
}

// Validate runs every check and returns the view with its errors filled in
// POST /api/v1/editor/sessions/:id/validate
func (h *EditorHandler) Validate(c *fiber.Ctx) error {
	return h.respond(c)(h.editor.Validate(c.Params("id")))
}

// Submit uploads pending images and saves the product. The session is
// closed only on success.
// POST /api/v1/editor/sessions/:id/submit
func (h *EditorHandler) Submit(c *fiber.Ctx) error {
	product, err := h.editor.Submit(logger.Context(c), c.Params("id"), middleware.Actor(c))
	if err != nil {
		return writeError(c, err, "Failed to save product")
	}
	return c.JSON(fiber.Map{
		"message": "Product saved successfully",
		"data":    product,
	})
}

func (h *EditorHandler) respond(c *fiber.Ctx) func(*service.SessionView, error) error {
	return func(view *service.SessionView, err error) error {
		if err != nil {
			return writeError(c, err, "Editor request failed")
		}
		return c.JSON(view)
	}
}

func readUpload(fh *multipart.FileHeader) (variant.PendingFile, error) {
	f, err := fh.Open()
	if err != nil {
		return variant.PendingFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, variant.MaxImageSize+1))
	if err != nil {
		return variant.PendingFile{}, err
	}
	return variant.PendingFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Data:        data,
	}, nil
}
