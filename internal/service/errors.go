package service

import (
	"go-catalog-admin/internal/variant"
	"go-catalog-admin/pkg/validator"
)

// validateRequest runs the struct's validate tags and reports every failing
// field in a *variant.ValidationError.
func validateRequest(req interface{}) error {
	if errs := validator.FieldErrors(req); errs != nil {
		return &variant.ValidationError{Fields: errs}
	}
	return nil
}
