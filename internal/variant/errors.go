package variant

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotImage      = errors.New("file is not an image")
	ErrImageTooLarge = errors.New("file exceeds the 5 MB limit")
)

// PreconditionError aborts a submit attempt without touching the edits in
// progress.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string { return e.Message }

var (
	ErrMissingIdentity = &PreconditionError{Message: "you must be signed in to save a product"}
	ErrMissingProduct  = &PreconditionError{Message: "product reference is missing for update"}
)

// ValidationError carries every failed check of one Finalize call, keyed by
// field name ("images.<color>" for image checks).
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsPrecondition reports whether err is a precondition failure.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// AsValidation extracts the field map from err, if any.
func AsValidation(err error) (map[string]string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}
