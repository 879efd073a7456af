package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-catalog-admin/internal/catalog"
	"go-catalog-admin/internal/events"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/internal/search"
	"go-catalog-admin/internal/service"
	"go-catalog-admin/internal/storage"
	"go-catalog-admin/internal/ws"
	"go-catalog-admin/pkg/cache"
	"go-catalog-admin/pkg/config"
	"go-catalog-admin/pkg/database"
	"go-catalog-admin/pkg/jwt"
	"go-catalog-admin/pkg/logger"
	"go-catalog-admin/pkg/metrics"
	"go-catalog-admin/pkg/tracer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// 1. Load config and logger
	cfg, err := config.Load(".")
	if err != nil {
		panic("load config: " + err.Error())
	}
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Log.Environment,
		ServiceName: cfg.Server.Name,
	}); err != nil {
		panic("init logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	jwt.Configure(cfg.JWT.Secret, cfg.JWT.TTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Product{}, &model.ProductVariant{}, &model.ProductImage{},
		&model.Size{}, &model.Color{}, &model.Category{},
		&model.Slide{}, &model.Review{}, &model.Order{}, &model.OrderItem{},
	); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// 3. Seed default privileges, roles, admin user and catalog vocabulary
	seedPrivilegesRolesAndAdmin(db, log)

	// 4. Optional infrastructure
	if cfg.Tracing.Endpoint != "" {
		tp, err := tracer.InitTracer(ctx, cfg.Server.Name, cfg.Log.Environment, cfg.Tracing.Endpoint)
		if err != nil {
			log.Warn("Tracing disabled", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = tp.Shutdown(shutdownCtx)
			}()
		}
	}

	rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, taxonomy cache disabled", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	store, err := storage.FromConfig(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("Failed to set up image storage", zap.Error(err))
	}
	log.Info("Image storage ready", zap.String("driver", store.Driver))

	var index search.Indexer = search.Nop{}
	if cfg.Elastic.URL != "" {
		es, err := search.NewElastic(ctx, cfg.Elastic.URL, cfg.Elastic.Index)
		if err != nil {
			log.Warn("Search index unavailable, falling back to database search", zap.Error(err))
		} else {
			index = es
		}
	}

	// 5. Setup WebSocket Hub and event fan-out
	wsHub := ws.NewHub()
	go wsHub.Run(ctx)

	publishers := events.Multi{wsHub}
	if cfg.AMQP.URL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Warn("AMQP unavailable, events stay in-process", zap.Error(err))
		} else {
			defer amqpPub.Close()
			publishers = append(publishers, amqpPub)
		}
	}

	// 6. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(cfg.Server.Name, registry)
	editorMetrics := metrics.NewEditorMetrics(registry)

	// 7. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	taxonomyRepo := repository.NewCachedTaxonomyRepo(repository.NewTaxonomyRepo(db), rdb, cfg.Redis.TTL)
	slideRepo := repository.NewSlideRepo(db)
	reviewRepo := repository.NewReviewRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	catalogService := catalog.NewService(taxonomyRepo, publishers, rdb)
	go catalogService.Listen(ctx)

	editorService := service.NewEditorService(service.EditorDeps{
		Products:   productRepo,
		Catalog:    catalogService,
		Storage:    store.Storage,
		Index:      index,
		Events:     publishers,
		Metrics:    editorMetrics,
		SessionTTL: cfg.Editor.SessionTTL,
	})
	go editorService.RunJanitor(ctx)

	svc := services{
		auth:      service.NewAuthService(userRepo, publishers),
		user:      service.NewUserService(userRepo, privilegeRepo, roleRepo),
		dashboard: service.NewDashboardService(orderRepo),
		catalog:   catalogService,
		editor:    editorService,
		product:   service.NewProductService(productRepo, index, store.Storage, publishers),
		slide:     service.NewSlideService(slideRepo, store.Storage, publishers),
		review:    service.NewReviewService(reviewRepo, publishers),
		order:     service.NewOrderService(orderRepo, publishers),
	}

	// 8. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:   "Catalog Admin v1.0",
		BodyLimit: cfg.Server.BodyLimitMB * 1024 * 1024,
	})

	app.Use(logger.Middleware())
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(httpMetrics.Middleware())

	if store.Driver == "local" {
		app.Static(cfg.Storage.LocalURLPrefix, cfg.Storage.LocalDir)
	}

	registerRoutes(app, routeDeps{
		services:   svc,
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		privileges: privilegeRepo,
		hub:        wsHub,
		registry:   registry,
	})

	// 9. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Error("Server stopped", zap.Error(err))
			stop()
		}
	}()
	log.Info("Server started", zap.String("port", cfg.Server.Port))

	<-ctx.Done()
	log.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}
