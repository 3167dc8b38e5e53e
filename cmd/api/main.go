package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"taxonomy/internal/cache"
	"taxonomy/internal/client"
	"taxonomy/internal/config"
	"taxonomy/internal/database"
	_ "taxonomy/internal/docs" // Import swagger docs
	"taxonomy/internal/handlers"
	"taxonomy/internal/logger"
	"taxonomy/internal/middleware"
	"taxonomy/internal/seed"
	"taxonomy/internal/services"
	"taxonomy/internal/telemetry"
	"taxonomy/internal/validator"
)

// @title           Taxonomy API
// @version         1.0
// @description     Catalog category store and parent picker hierarchy.

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()
	ctx := context.Background()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	shutdown, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:     appConfig.OTelEnabled,
		ServiceName: appConfig.ServiceName,
		Environment: appConfig.Env,
	})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warnf("tracer shutdown: %v", err)
		}
	}()

	validator.Register()

	var (
		source          services.CategorySource
		categoryHandler *handlers.CategoryHandler
		auditService    services.AuditServicer
	)

	if appConfig.StoreURL != "" {
		// Hierarchy only, backed by a remote store.
		source = client.NewStoreClient(appConfig.StoreURL, &http.Client{Timeout: appConfig.RequestTimeout})
		log.Infof("Using remote category store at %s", appConfig.StoreURL)
	} else {
		categoryService, audit, closeStore, err := setupLocalStore(ctx, appConfig)
		if err != nil {
			return err
		}
		defer closeStore()
		source = categoryService
		auditService = audit
		categoryHandler = handlers.NewCategoryHandler(categoryService, audit)
	}

	hierarchyService := services.NewHierarchyService(source)
	if _, err := hierarchyService.Refresh(ctx); err != nil {
		// The first picker request retries.
		log.Warnf("initial hierarchy load failed: %v", err)
	}
	hierarchyHandler := handlers.NewHierarchyHandler(hierarchyService, auditService, appConfig.CloseOnSelect)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(appConfig.ServiceName))
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(appConfig.CORSOrigins))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handlers.RegisterRoutes(router, categoryHandler, hierarchyHandler)

	log.Infof("Starting taxonomy server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// setupLocalStore opens the database, runs migrations, wires the tree cache
// and applies the seed file if one is configured.
func setupLocalStore(ctx context.Context, appConfig *config.Config) (services.CategoryServicer, services.AuditServicer, func(), error) {
	log := logger.Get()

	dbConfig, err := database.NewConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.Migrate(); err != nil {
		_ = dbManager.Close()
		return nil, nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	closers := []func() error{dbManager.Close}

	var treeCache cache.TreeCache = cache.NewMemory(appConfig.TreeCacheTTL)
	if appConfig.RedisAddr != "" {
		rc, err := cache.NewRedis(ctx, appConfig.RedisAddr, appConfig.TreeCacheTTL)
		if err != nil {
			log.Warnf("redis unavailable, using in-memory tree cache: %v", err)
		} else {
			treeCache = rc
			closers = append(closers, rc.Close)
		}
	}

	db := dbManager.DB()
	categoryService := services.NewCategoryService(db, treeCache)
	auditService := services.NewAuditService(db)

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warnf("close: %v", err)
			}
		}
	}

	if appConfig.SeedFile != "" {
		created, err := seed.LoadFile(ctx, categoryService, appConfig.SeedFile)
		if err != nil {
			closeAll()
			return nil, nil, nil, fmt.Errorf("failed to seed categories: %w", err)
		}
		log.Infof("Seeded %d categories from %s", created, appConfig.SeedFile)
	}

	return categoryService, auditService, closeAll, nil
}
