package handler

import (
	"context"
	"net/http/httptest"
	"testing"

	"go-catalog-admin/internal/events"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/internal/variant"

	"github.com/gofiber/fiber/v2"
)

type fakeTaxonomy struct {
	colors  []model.Color
	created interface{}
	updated interface{}
	inUse   bool
}

func (f *fakeTaxonomy) List(context.Context) (variant.Catalog, error) {
	return variant.Catalog{Sizes: []string{"S", "M"}, Colors: []string{"Red"}, Categories: []string{"Tops"}}, nil
}
func (f *fakeTaxonomy) Sizes(context.Context) ([]model.Size, error) { return nil, nil }
func (f *fakeTaxonomy) Colors(context.Context) ([]model.Color, error) {
	return f.colors, nil
}
func (f *fakeTaxonomy) Categories(context.Context) ([]model.Category, error) { return nil, nil }

func (f *fakeTaxonomy) Create(_ context.Context, entry interface{}, _ *events.Actor) error {
	f.created = entry
	return nil
}

func (f *fakeTaxonomy) Update(_ context.Context, entry interface{}, _ *events.Actor) error {
	f.updated = entry
	return nil
}

func (f *fakeTaxonomy) Delete(context.Context, string, uint, *events.Actor) error {
	if f.inUse {
		return repository.ErrTermInUse
	}
	return repository.ErrTermNotFound
}

func taxonomyApp(f *fakeTaxonomy) *fiber.App {
	h := NewTaxonomyHandler(f)
	app := fiber.New()
	app.Get("/catalog", h.Catalog)
	app.Get("/colors", h.List(model.KindColor))
	app.Post("/colors", h.Create(model.KindColor))
	app.Put("/colors/:id", h.Update(model.KindColor))
	app.Delete("/colors/:id", h.Delete(model.KindColor))
	return app
}

func TestCatalog(t *testing.T) {
	status, body := do(t, taxonomyApp(&fakeTaxonomy{}), httptest.NewRequest("GET", "/catalog", nil))
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if sizes, _ := body["sizes"].([]interface{}); len(sizes) != 2 {
		t.Fatalf("sizes = %v", body["sizes"])
	}
}

func TestCreateColor(t *testing.T) {
	f := &fakeTaxonomy{}
	status, _ := do(t, taxonomyApp(f), jsonRequest("POST", "/colors", `{"id":99,"name":"Navy","hex":"#000080"}`))
	if status != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", status)
	}
	c, ok := f.created.(*model.Color)
	if !ok || c.Name != "Navy" || c.ID != 0 {
		t.Fatalf("created = %#v, want Navy without client id", f.created)
	}
}

func TestCreateColorValidation(t *testing.T) {
	f := &fakeTaxonomy{}
	status, body := do(t, taxonomyApp(f), jsonRequest("POST", "/colors", `{"name":"","hex":"blue"}`))
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", status)
	}
	fields, _ := body["fields"].(map[string]interface{})
	if fields["name"] == nil || fields["hex"] == nil {
		t.Fatalf("fields = %v, want name and hex", fields)
	}
	if f.created != nil {
		t.Fatal("invalid entry was saved")
	}
}

func TestUpdateColorUsesPathID(t *testing.T) {
	f := &fakeTaxonomy{}
	status, _ := do(t, taxonomyApp(f), jsonRequest("PUT", "/colors/7", `{"id":1,"name":"Teal"}`))
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if c, _ := f.updated.(*model.Color); c == nil || c.ID != 7 {
		t.Fatalf("updated = %#v, want id 7", f.updated)
	}
}

func TestDeleteColor(t *testing.T) {
	tests := []struct {
		name   string
		inUse  bool
		path   string
		status int
	}{
		{"used by products", true, "/colors/3", fiber.StatusConflict},
		{"missing", false, "/colors/3", fiber.StatusNotFound},
		{"bad id", false, "/colors/x", fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := do(t, taxonomyApp(&fakeTaxonomy{inUse: tt.inUse}), httptest.NewRequest("DELETE", tt.path, nil))
			if status != tt.status {
				t.Fatalf("status = %d, want %d", status, tt.status)
			}
		})
	}
}
