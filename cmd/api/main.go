package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/nexusvision/studio/internal/auth"
	"github.com/nexusvision/studio/internal/config"
	"github.com/nexusvision/studio/internal/database"
	"github.com/nexusvision/studio/internal/entitlement"
	"github.com/nexusvision/studio/internal/gallery"
	"github.com/nexusvision/studio/internal/generation"
	"github.com/nexusvision/studio/internal/logging"
	"github.com/nexusvision/studio/internal/metrics"
	"github.com/nexusvision/studio/internal/middleware"
	"github.com/nexusvision/studio/internal/payment"
	"github.com/nexusvision/studio/internal/queue"
	"github.com/nexusvision/studio/internal/session"
	"github.com/nexusvision/studio/internal/storage"
	"github.com/nexusvision/studio/internal/tracing"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	middleware.SetJWTSecret(cfg.Auth.JWTSecret)

	// Initialize database and apply schema
	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	repo := database.NewRepository(db)

	// Initialize blob storage
	blobs, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize session store
	sessions, err := session.NewStore(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.SessionTTL)
	if err != nil {
		log.Fatalf("Failed to connect to session store: %v", err)
	}
	defer sessions.Close()

	// Initialize queue
	q, err := queue.New(cfg.Queue)
	if err != nil {
		log.Fatalf("Failed to connect to queue: %v", err)
	}
	defer q.Close()

	// Initialize tracing
	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer(cfg.Tracing.Service, cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer closer.Close()
	}

	// Start metrics server
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Port)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.ErrorWithErr("metrics server failed", err)
			}
		}()
		defer metricsServer.Shutdown(context.Background())
	}

	// Wire services
	authSvc := auth.NewService(repo, sessions, auth.BypassCredentials{
		Email:    cfg.Auth.AdminEmail,
		Password: cfg.Auth.AdminPassword,
		Name:     cfg.Auth.AdminName,
	}, logger)
	entitlementSvc := entitlement.NewService(repo, sessions, logger)
	gallerySvc := gallery.NewService(blobs, repo, logger)
	generationSvc := generation.NewService(generation.NewClient(cfg.Generation), entitlementSvc, gallerySvc, logger)
	paymentClient := payment.NewClient(cfg.Payment)
	paymentIntake := payment.NewService(q, logger)

	api := &API{
		cfg:         cfg,
		log:         logger,
		db:          db,
		sessions:    sessions,
		auth:        authSvc,
		entitlement: entitlementSvc,
		gallery:     gallerySvc,
		generation:  generationSvc,
		checkout:    paymentClient,
		payments:    paymentIntake,
	}

	router := setupRouter(api, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server stopped")
}

func setupRouter(api *API, logger *logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())

	// Health check
	router.GET("/health", api.healthCheck)

	generateLimiter := middleware.NewRateLimiter(2, 5)

	v1 := router.Group("/api/v1")
	{
		// Identity
		v1.POST("/auth/register", api.register)
		v1.POST("/auth/login", api.login)
		v1.POST("/auth/logout", middleware.JWTAuth(), api.logout)
		v1.GET("/auth/me", middleware.JWTAuth(), api.currentUser)

		// Plans and checkout
		v1.GET("/plans", api.listPlans)
		v1.POST("/checkout", middleware.JWTAuth(), api.createCheckout)
		v1.POST("/payments/webhook", api.paymentWebhook)

		// Generation
		v1.POST("/generate", middleware.JWTAuth(), middleware.RateLimit(generateLimiter), api.generate)
		v1.GET("/history", middleware.JWTAuth(), api.listHistory)
		v1.GET("/history/:id", middleware.JWTAuth(), api.getHistory)

		// Showcase and hero
		v1.GET("/showcase", api.listShowcase)
		v1.POST("/showcase/bulk", middleware.JWTAuth(), middleware.AdminOnly(), api.addShowcaseItems)
		v1.DELETE("/showcase/:id", middleware.JWTAuth(), middleware.AdminOnly(), api.deleteShowcaseItem)
		v1.GET("/hero", api.getHeroExample)
		v1.PUT("/hero", middleware.JWTAuth(), middleware.AdminOnly(), api.setHeroExample)
	}

	return router
}
