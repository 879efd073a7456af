package handler

import (
	"errors"

	"go-catalog-admin/internal/repository"
	"go-catalog-admin/internal/service"
	"go-catalog-admin/internal/variant"
	"go-catalog-admin/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var notFound = []error{
	service.ErrSessionNotFound,
	service.ErrImageNotFound,
	service.ErrProductNotFound,
	service.ErrSlideNotFound,
	service.ErrReviewNotFound,
	service.ErrOrderNotFound,
	service.ErrUserNotFound,
	repository.ErrTermNotFound,
}

// writeError maps service errors onto the API's JSON error shapes. Anything
// unrecognised is logged and reported as a 500 with fallback.
func writeError(c *fiber.Ctx, err error, fallback string) error {
	if fields, ok := variant.AsValidation(err); ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": fields,
		})
	}

	switch {
	case errors.Is(err, variant.ErrMissingIdentity):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, variant.ErrMissingProduct):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case variant.IsPrecondition(err):
		return c.Status(fiber.StatusPreconditionFailed).JSON(fiber.Map{"error": err.Error()})
	}

	var submitErr *service.SubmitError
	if errors.As(err, &submitErr) {
		if len(submitErr.UploadErrors) > 0 {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error":         submitErr.Message,
				"upload_errors": submitErr.UploadErrors,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":         submitErr.Message,
			"legacy_errors": submitErr.LegacyErrors,
		})
	}

	var transitionErr *service.TransitionError
	if errors.As(err, &transitionErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	for _, target := range notFound {
		if errors.Is(err, target) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
	}

	logger.FromFiber(c).Error(fallback, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
