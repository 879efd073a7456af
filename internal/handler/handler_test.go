package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-catalog-admin/internal/repository"
	"go-catalog-admin/internal/service"
	"go-catalog-admin/internal/variant"

	"github.com/gofiber/fiber/v2"
)

func do(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	body := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp.StatusCode, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		wantKey string
	}{
		{"validation", &variant.ValidationError{Fields: map[string]string{"name": "is required"}}, fiber.StatusUnprocessableEntity, "fields"},
		{"missing identity", variant.ErrMissingIdentity, fiber.StatusUnauthorized, "error"},
		{"missing product", variant.ErrMissingProduct, fiber.StatusNotFound, "error"},
		{"upload failure", &service.SubmitError{Message: "1 of 2 images failed to upload", UploadErrors: []service.UploadError{{Filename: "a.png"}}}, fiber.StatusBadGateway, "upload_errors"},
		{"save failure", &service.SubmitError{Message: "Failed to save product", LegacyErrors: []string{"boom"}}, fiber.StatusInternalServerError, "legacy_errors"},
		{"transition", &service.TransitionError{From: "delivered", To: "paid"}, fiber.StatusConflict, "error"},
		{"session gone", service.ErrSessionNotFound, fiber.StatusNotFound, "error"},
		{"term gone", repository.ErrTermNotFound, fiber.StatusNotFound, "error"},
		{"wrapped not found", errors.Join(errors.New("lookup"), service.ErrOrderNotFound), fiber.StatusNotFound, "error"},
		{"unknown", errors.New("db down"), fiber.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return writeError(c, tt.err, "Request failed") })

			status, body := do(t, app, httptest.NewRequest("GET", "/", nil))
			if status != tt.status {
				t.Fatalf("status = %d, want %d (body %v)", status, tt.status, body)
			}
			if _, ok := body[tt.wantKey]; !ok {
				t.Fatalf("body %v has no %q", body, tt.wantKey)
			}
		})
	}
}

func TestWriteErrorHidesInternalMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeError(c, errors.New("pq: password authentication failed"), "Failed to fetch orders")
	})

	_, body := do(t, app, httptest.NewRequest("GET", "/", nil))
	if body["error"] != "Failed to fetch orders" {
		t.Fatalf("error = %v, want the fallback message", body["error"])
	}
}
