package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"go-catalog-admin/internal/events"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/service"
	"go-catalog-admin/internal/variant"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// stubEditor records the arguments of the calls under test. Methods it does
// not override panic through the nil embedded interface.
type stubEditor struct {
	service.EditorService

	openedWith *uuid.UUID
	raw        string
	files      []variant.PendingFile
	color      string
	actor      *events.Actor
	submitErr  error
}

func (s *stubEditor) view() *service.SessionView {
	return &service.SessionView{ID: "sess-1", View: variant.New(variant.Catalog{}).View()}
}

func (s *stubEditor) Open(_ context.Context, productID *uuid.UUID) (*service.SessionView, error) {
	s.openedWith = productID
	return s.view(), nil
}

func (s *stubEditor) Get(id string) (*service.SessionView, error) {
	if id != "sess-1" {
		return nil, service.ErrSessionNotFound
	}
	return s.view(), nil
}

func (s *stubEditor) SetStock(_, _, _, raw string) (*service.SessionView, error) {
	s.raw = raw
	return s.view(), nil
}

func (s *stubEditor) AddImages(_, color string, files []variant.PendingFile) (*service.SessionView, []variant.ImageRejection, error) {
	s.color = color
	s.files = files
	return s.view(), []variant.ImageRejection{{Filename: "notes.txt", Reason: variant.ErrNotImage.Error()}}, nil
}

func (s *stubEditor) Submit(_ context.Context, _ string, actor *events.Actor) (*model.Product, error) {
	s.actor = actor
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &model.Product{Name: "Tee"}, nil
}

func editorApp(stub *stubEditor) *fiber.App {
	h := NewEditorHandler(stub)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "u-1")
		c.Locals("user_name", "Admin")
		c.Locals("user_email", "admin@example.com")
		return c.Next()
	})
	app.Post("/sessions", h.Open)
	app.Get("/sessions/:id", h.Get)
	app.Put("/sessions/:id/stock", h.SetStock)
	app.Post("/sessions/:id/images/:color", h.AddImages)
	app.Post("/sessions/:id/submit", h.Submit)
	return app
}

func TestRawInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`7`, "7"},
		{`"07"`, "07"},
		{`"-3"`, "-3"},
		{`2.5`, "2.5"},
		{`null`, ""},
		{``, ""},
		{`"abc"`, "abc"},
	}
	for _, tt := range tests {
		if got := rawInput(json.RawMessage(tt.in)); got != tt.want {
			t.Errorf("rawInput(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpenSession(t *testing.T) {
	stub := &stubEditor{}
	app := editorApp(stub)

	status, body := do(t, app, jsonRequest("POST", "/sessions", ""))
	if status != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", status)
	}
	if body["id"] != "sess-1" || body["state"] == nil {
		t.Fatalf("body = %v, want session view", body)
	}
	if stub.openedWith != nil {
		t.Fatal("empty body opened an existing product")
	}

	id := uuid.New()
	do(t, app, jsonRequest("POST", "/sessions", `{"product_id":"`+id.String()+`"}`))
	if stub.openedWith == nil || *stub.openedWith != id {
		t.Fatalf("opened with %v, want %s", stub.openedWith, id)
	}

	if status, _ := do(t, app, jsonRequest("POST", "/sessions", `{"product_id":"nope"}`)); status != fiber.StatusBadRequest {
		t.Fatalf("bad product id status = %d, want 400", status)
	}
}

func TestGetUnknownSession(t *testing.T) {
	status, _ := do(t, editorApp(&stubEditor{}), httptest.NewRequest("GET", "/sessions/other", nil))
	if status != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}

func TestSetStockPassesRawValue(t *testing.T) {
	stub := &stubEditor{}
	app := editorApp(stub)

	do(t, app, jsonRequest("PUT", "/sessions/sess-1/stock", `{"size":"M","color":"Red","value":12}`))
	if stub.raw != "12" {
		t.Fatalf("raw = %q, want 12", stub.raw)
	}
	do(t, app, jsonRequest("PUT", "/sessions/sess-1/stock", `{"size":"M","color":"Red","value":"x"}`))
	if stub.raw != "x" {
		t.Fatalf("raw = %q, want x", stub.raw)
	}
}

func TestAddImagesReadsMultipart(t *testing.T) {
	stub := &stubEditor{}
	app := editorApp(stub)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range []struct{ name, ctype, data string }{
		{"front.png", "image/png", "png-bytes"},
		{"notes.txt", "text/plain", "hello"},
	} {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.ctype)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte(f.data))
	}
	w.Close()

	req := httptest.NewRequest("POST", "/sessions/sess-1/images/Navy%20Blue", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	status, body := do(t, app, req)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200 (body %v)", status, body)
	}
	if stub.color != "Navy Blue" {
		t.Fatalf("color = %q, want Navy Blue", stub.color)
	}
	if len(stub.files) != 2 {
		t.Fatalf("got %d files, want 2", len(stub.files))
	}
	if f := stub.files[0]; f.Filename != "front.png" || f.ContentType != "image/png" || string(f.Data) != "png-bytes" || f.Size != 9 {
		t.Fatalf("first file = %+v", f)
	}
	if rejected, _ := body["rejected"].([]interface{}); len(rejected) != 1 {
		t.Fatalf("rejected = %v, want one entry", body["rejected"])
	}
	if body["id"] != "sess-1" {
		t.Fatalf("view missing from response: %v", body)
	}
}

func TestSubmit(t *testing.T) {
	stub := &stubEditor{}
	status, body := do(t, editorApp(stub), jsonRequest("POST", "/sessions/sess-1/submit", ""))
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if stub.actor == nil || stub.actor.ID != "u-1" || stub.actor.Email != "admin@example.com" {
		t.Fatalf("actor = %+v", stub.actor)
	}
	if data, _ := body["data"].(map[string]interface{}); data["name"] != "Tee" {
		t.Fatalf("data = %v", body["data"])
	}
}

func TestSubmitUploadFailure(t *testing.T) {
	stub := &stubEditor{submitErr: &service.SubmitError{
		Message:      "1 of 1 images failed to upload",
		UploadErrors: []service.UploadError{{Filename: "front.png", Color: "Red", Message: "timeout", Code: service.CodeUploadFailed}},
	}}
	status, body := do(t, editorApp(stub), jsonRequest("POST", "/sessions/sess-1/submit", ""))
	if status != fiber.StatusBadGateway {
		t.Fatalf("status = %d, want 502", status)
	}
	errs, _ := body["upload_errors"].([]interface{})
	if len(errs) != 1 {
		t.Fatalf("upload_errors = %v", body["upload_errors"])
	}
	if first, _ := errs[0].(map[string]interface{}); first["code"] != service.CodeUploadFailed {
		t.Fatalf("upload error = %v", first)
	}
}

func TestSubmitValidationFailure(t *testing.T) {
	stub := &stubEditor{submitErr: &variant.ValidationError{Fields: map[string]string{"name": "Name is required"}}}
	status, body := do(t, editorApp(stub), jsonRequest("POST", "/sessions/sess-1/submit", ""))
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", status)
	}
	if fields, _ := body["fields"].(map[string]interface{}); fields["name"] == nil {
		t.Fatalf("fields = %v", body["fields"])
	}
}
