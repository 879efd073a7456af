package middleware

import (
	"net/http/httptest"
	"testing"

	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type fakeUsers struct {
	repository.UserRepository
	user *model.User
}

func (f *fakeUsers) FindByID(id uuid.UUID) (*model.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, repository.ErrUserNotFound
	}
	return f.user, nil
}

func TestRequireAuth(t *testing.T) {
	user := &model.User{Email: "admin@example.com", FullName: "Admin", IsActive: true, TokenVersion: "v1"}
	user.ID = uuid.New()
	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, model.RoleAdmin, []string{"product:view"}, "v1")
	if err != nil {
		t.Fatal(err)
	}
	stale, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, model.RoleAdmin, nil, "v0")
	if err != nil {
		t.Fatal(err)
	}

	app := fiber.New()
	app.Get("/", RequireAuth(&fakeUsers{user: user}), func(c *fiber.Ctx) error {
		a := Actor(c)
		if a == nil || a.ID != user.ID.String() || a.Name != "Admin" {
			t.Errorf("Actor() = %+v", a)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + token, fiber.StatusNoContent},
		{"lowercase scheme", "bearer " + token, fiber.StatusNoContent},
		{"missing", "", fiber.StatusUnauthorized},
		{"no scheme", token, fiber.StatusUnauthorized},
		{"garbage", "Bearer abc", fiber.StatusUnauthorized},
		{"replaced session", "Bearer " + stale, fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestRequireAnyPrivilege(t *testing.T) {
	tests := []struct {
		name       string
		privileges interface{}
		required   []string
		status     int
	}{
		{"has it", []string{"product:view", "order:view"}, []string{"order:view"}, fiber.StatusOK},
		{"has one of", []string{"product:update"}, []string{"product:create", "product:update"}, fiber.StatusOK},
		{"lacks it", []string{"product:view"}, []string{"product:delete"}, fiber.StatusForbidden},
		{"no locals", nil, []string{"product:view"}, fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(func(c *fiber.Ctx) error {
				if tt.privileges != nil {
					c.Locals("user_privileges", tt.privileges)
				}
				return c.Next()
			})
			app.Get("/", RequireAnyPrivilege(tt.required...), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestActorWithoutAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if Actor(c) != nil {
			t.Error("Actor() outside RequireAuth is not nil")
		}
		return nil
	})
	if _, err := app.Test(httptest.NewRequest("GET", "/", nil), -1); err != nil {
		t.Fatal(err)
	}
}
