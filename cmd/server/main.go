package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identityapp "github.com/orderdesk/backend/internal/application/identity"
	ingestionapp "github.com/orderdesk/backend/internal/application/ingestion"
	orderapp "github.com/orderdesk/backend/internal/application/order"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/infrastructure/auth"
	"github.com/orderdesk/backend/internal/infrastructure/cache"
	"github.com/orderdesk/backend/internal/infrastructure/config"
	"github.com/orderdesk/backend/internal/infrastructure/logger"
	"github.com/orderdesk/backend/internal/infrastructure/persistence"
	"github.com/orderdesk/backend/internal/infrastructure/platforms"
	"github.com/orderdesk/backend/internal/infrastructure/scheduler"
	"github.com/orderdesk/backend/internal/interfaces/http/handler"
	"github.com/orderdesk/backend/internal/interfaces/http/middleware"
	"github.com/orderdesk/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting OrderDesk Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Redis-backed stores with in-memory fallbacks. A single instance stays
	// fully functional without Redis; multi-instance deployments need it.
	var tokenBlacklist auth.TokenBlacklist
	if redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("Error closing token blacklist", zap.Error(err))
			}
		}()
		tokenBlacklist = redisBlacklist
		log.Info("Redis token blacklist connected")
	}

	var webhookDedup ingestionapp.DedupStore
	if redisDedup, err := cache.NewRedisWebhookDedup(cfg.Redis, cfg.Ingestion.WebhookDedupTTL); err != nil {
		log.Warn("Redis unavailable, using in-memory webhook dedup", zap.Error(err))
		webhookDedup = cache.NewInMemoryWebhookDedup(cfg.Ingestion.WebhookDedupTTL)
	} else {
		defer func() {
			if err := redisDedup.Close(); err != nil {
				log.Error("Error closing webhook dedup store", zap.Error(err))
			}
		}()
		webhookDedup = redisDedup
		log.Info("Redis webhook dedup store connected")
	}

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, log)
	userService := identityapp.NewUserService(userRepo)

	// Order services
	orderService := orderapp.NewService(orderRepo)
	analyticsService := orderapp.NewAnalyticsService(orderRepo)

	// Platform adapters and ingestion pipeline
	registry := platforms.NewRegistry(log, cfg.Ingestion.StrictStatus)

	priorityPlatforms := make([]order.Platform, 0, len(cfg.Ingestion.PriorityPlatforms))
	for _, name := range cfg.Ingestion.PriorityPlatforms {
		p := order.Platform(name)
		if !p.IsValid() {
			log.Warn("Ignoring unknown priority platform", zap.String("platform", name))
			continue
		}
		priorityPlatforms = append(priorityPlatforms, p)
	}

	ingestionService := ingestionapp.NewService(registry, orderRepo, webhookDedup, log, ingestionapp.Config{
		AdapterTimeout:    cfg.Ingestion.AdapterTimeout,
		PriorityPlatforms: priorityPlatforms,
	})

	ingestionScheduler := scheduler.NewIngestionScheduler(
		ingestionService,
		scheduler.Config{
			Workers:    cfg.Ingestion.Workers,
			QueueSize:  cfg.Ingestion.QueueSize,
			JobTimeout: cfg.Ingestion.JobTimeout,
		},
		scheduler.TriggerConfig{
			FullInterval:     cfg.Ingestion.FullInterval,
			PriorityInterval: cfg.Ingestion.PriorityInterval,
		},
		log,
	)

	if cfg.Ingestion.Enabled {
		if err := ingestionScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start ingestion scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := ingestionScheduler.Stop(stopCtx); err != nil {
				log.Error("Error stopping ingestion scheduler", zap.Error(err))
			}
		}()
		log.Info("Ingestion scheduler started",
			zap.Duration("full_interval", cfg.Ingestion.FullInterval),
			zap.Duration("priority_interval", cfg.Ingestion.PriorityInterval),
			zap.Strings("priority_platforms", cfg.Ingestion.PriorityPlatforms),
		)
	} else {
		log.Info("Ingestion scheduler disabled; sweeps run on manual trigger only")
	}

	// Initialize HTTP handlers
	orderHandler := handler.NewOrderHandler(orderService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	webhookHandler := handler.NewWebhookHandler(ingestionScheduler)
	ingestionHandler := handler.NewIngestionHandler(ingestionScheduler)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Platform webhook endpoints (no authentication required)
	// These endpoints are called directly by the external platforms, so they
	// get their own rate limiter regardless of the global setting
	webhookLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
	webhookGroup := engine.Group("/api/v1/webhooks")
	webhookGroup.Use(middleware.RateLimit(webhookLimiter))
	webhookGroup.POST("/:platform", webhookHandler.Receive)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	// Configure skip paths for public endpoints
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/api/v1/webhooks",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Authentication routes
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Order routes
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("", middleware.RequirePermission("orders:write"), orderHandler.Create)
	orderRoutes.GET("", middleware.RequirePermission("orders:read"), orderHandler.List)
	orderRoutes.GET("/number/:number", middleware.RequirePermission("orders:read"), orderHandler.GetByOrderNumber)
	orderRoutes.GET("/:id", middleware.RequirePermission("orders:read"), orderHandler.GetByID)
	orderRoutes.PUT("/:id", middleware.RequirePermission("orders:write"), orderHandler.Update)
	orderRoutes.PUT("/:id/status", middleware.RequirePermission("orders:write"), orderHandler.ChangeStatus)
	orderRoutes.DELETE("/:id", middleware.RequirePermission("orders:delete"), orderHandler.Delete)

	// Analytics routes
	analyticsRoutes := router.NewDomainGroup("analytics", "/analytics")
	analyticsRoutes.Use(middleware.RequirePermission("analytics:read"))
	analyticsRoutes.GET("/dashboard", analyticsHandler.Dashboard)
	analyticsRoutes.GET("/trends/daily", analyticsHandler.DailyTrends)

	// Ingestion routes (manual sweep trigger, scheduler status)
	ingestionRoutes := router.NewDomainGroup("ingestion", "/ingestion")
	ingestionRoutes.POST("/trigger", middleware.RequirePermission("ingestion:trigger"), ingestionHandler.Trigger)
	ingestionRoutes.GET("/status", middleware.RequirePermission("orders:read"), ingestionHandler.Status)

	// User management routes
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.Use(middleware.RequirePermission("users:manage"))
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.GetByID)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.POST("/:id/activate", userHandler.Activate)
	userRoutes.POST("/:id/deactivate", userHandler.Deactivate)
	userRoutes.DELETE("/:id", userHandler.Delete)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(authRoutes).
		Register(orderRoutes).
		Register(analyticsRoutes).
		Register(ingestionRoutes).
		Register(userRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
