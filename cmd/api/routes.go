package main

import (
	"go-catalog-admin/internal/catalog"
	"go-catalog-admin/internal/handler"
	"go-catalog-admin/internal/middleware"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/internal/service"
	"go-catalog-admin/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type services struct {
	auth      service.AuthService
	user      service.UserService
	dashboard service.DashboardService
	catalog   *catalog.Service
	editor    service.EditorService
	product   service.ProductService
	slide     service.SlideService
	review    service.ReviewService
	order     service.OrderService
}

type routeDeps struct {
	services   services
	userRepo   repository.UserRepository
	roleRepo   repository.RoleRepository
	privileges repository.PrivilegeRepository
	hub        *ws.Hub
	registry   *prometheus.Registry
}

func registerRoutes(app *fiber.App, d routeDeps) {
	authHandler := handler.NewAuthHandler(d.services.auth)
	userHandler := handler.NewUserHandler(d.services.user)
	roleHandler := handler.NewRoleHandler(d.roleRepo, d.privileges)
	dashHandler := handler.NewDashboardHandler(d.services.dashboard)
	taxonomyHandler := handler.NewTaxonomyHandler(d.services.catalog)
	editorHandler := handler.NewEditorHandler(d.services.editor)
	productHandler := handler.NewProductHandler(d.services.product)
	slideHandler := handler.NewSlideHandler(d.services.slide)
	reviewHandler := handler.NewReviewHandler(d.services.review)
	orderHandler := handler.NewOrderHandler(d.services.order)

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(d.userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(d.userRepo))

	// Dashboard
	dashboard := protected.Group("/dashboard", middleware.RequirePrivilege("dashboard:view"))
	dashboard.Get("/stats", dashHandler.GetDashboardStats)
	dashboard.Get("/revenue", dashHandler.GetRevenue)

	// Sizes, colors and categories
	protected.Get("/catalog", taxonomyHandler.Catalog)
	manageCatalog := middleware.RequirePrivilege("catalog:manage")
	for _, kind := range []string{model.KindSize, model.KindColor, model.KindCategory} {
		protected.Get("/"+kind, taxonomyHandler.List(kind))
		protected.Post("/"+kind, manageCatalog, taxonomyHandler.Create(kind))
		protected.Put("/"+kind+"/:id", manageCatalog, taxonomyHandler.Update(kind))
		protected.Delete("/"+kind+"/:id", manageCatalog, taxonomyHandler.Delete(kind))
	}

	// Product editor sessions
	editor := protected.Group("/editor/sessions", middleware.RequireAnyPrivilege("product:create", "product:update"))
	editor.Post("/", editorHandler.Open)
	editor.Get("/:id", editorHandler.Get)
	editor.Delete("/:id", editorHandler.Discard)
	editor.Post("/:id/sizes/toggle", editorHandler.ToggleSize)
	editor.Post("/:id/colors/toggle", editorHandler.ToggleColor)
	editor.Put("/:id/stock/bulk", editorHandler.BulkSetStock)
	editor.Put("/:id/stock", editorHandler.SetStock)
	editor.Put("/:id/weight", editorHandler.SetWeight)
	editor.Put("/:id/price", editorHandler.SetVariantPrice)
	editor.Put("/:id/variants", editorHandler.LoadVariants)
	editor.Patch("/:id/fields", editorHandler.PatchFields)
	editor.Post("/:id/images/:color", editorHandler.AddImages)
	editor.Delete("/:id/images/:color/:index", editorHandler.RemoveImage)
	editor.Post("/:id/validate", editorHandler.Validate)
	editor.Post("/:id/submit", editorHandler.Submit)

	// Products
	protected.Get("/products", middleware.RequirePrivilege("product:view"), productHandler.List)
	protected.Get("/products/:id", middleware.RequirePrivilege("product:view"), productHandler.Get)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), productHandler.Delete)

	// Storefront slides
	manageSlides := middleware.RequirePrivilege("slide:manage")
	protected.Get("/slides", slideHandler.List)
	protected.Post("/slides", manageSlides, slideHandler.Create)
	protected.Put("/slides/:id", manageSlides, slideHandler.Update)
	protected.Post("/slides/:id/image", manageSlides, slideHandler.SetImage)
	protected.Delete("/slides/:id", manageSlides, slideHandler.Delete)

	// Reviews
	moderate := middleware.RequirePrivilege("review:moderate")
	protected.Get("/reviews", moderate, reviewHandler.List)
	protected.Put("/reviews/:id/status", moderate, reviewHandler.SetStatus)
	protected.Delete("/reviews/:id", moderate, reviewHandler.Delete)

	// Orders
	protected.Get("/orders", middleware.RequirePrivilege("order:view"), orderHandler.List)
	protected.Get("/orders/:id", middleware.RequirePrivilege("order:view"), orderHandler.Get)
	protected.Put("/orders/:id/status", middleware.RequirePrivilege("order:update"), orderHandler.UpdateStatus)

	// User Management
	protected.Get("/users", middleware.RequirePrivilege("user:view"), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequirePrivilege("user:view"), userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Roles and privileges
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// Prometheus
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{})))

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		d.hub.Register <- c
		defer func() { d.hub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
