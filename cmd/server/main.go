package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/truckticketing/backend/internal/application/audit"
	ixapp "github.com/truckticketing/backend/internal/application/invoiceexchange"
	ticketapp "github.com/truckticketing/backend/internal/application/ticket"
	"github.com/truckticketing/backend/internal/infrastructure/cache"
	"github.com/truckticketing/backend/internal/infrastructure/config"
	"github.com/truckticketing/backend/internal/infrastructure/logger"
	"github.com/truckticketing/backend/internal/infrastructure/persistence"
	"github.com/truckticketing/backend/internal/interfaces/http/handler"
	"github.com/truckticketing/backend/internal/interfaces/http/middleware"
	"github.com/truckticketing/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
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

	log.Info("Starting TruckTicketing Backend",
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
	businessStreamRepo := persistence.NewGormBusinessStreamRepository(db.DB)
	legalEntityRepo := persistence.NewGormLegalEntityRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	invoiceExchangeRepo := persistence.NewGormInvoiceExchangeRepository(db.DB)
	truckTicketRepo := persistence.NewGormTruckTicketRepository(db.DB)
	entityChangeRepo := persistence.NewGormEntityChangeRepository(db.DB)

	// Resolved-config cache: Redis when configured, in-memory otherwise
	var configCache ixapp.ConfigCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisConfigCache(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		configCache = redisCache
		log.Info("Using Redis resolved-config cache", zap.String("addr", cfg.Redis.Addr()))
	} else {
		configCache = cache.NewInMemoryConfigCache(log)
		log.Info("Using in-memory resolved-config cache")
	}

	// Initialize application services
	changeService := auditapp.NewChangeService(entityChangeRepo, log)
	configService := ixapp.NewConfigService(invoiceExchangeRepo, log)
	resolverService := ixapp.NewResolverService(
		invoiceExchangeRepo,
		accountRepo,
		legalEntityRepo,
		businessStreamRepo,
		log,
	).WithCache(configCache, cfg.Cache.ResolvedConfigTTL)
	ticketService := ticketapp.NewTicketService(truckTicketRepo, accountRepo, changeService, log)

	// Initialize HTTP handlers
	invoiceExchangeHandler := handler.NewInvoiceExchangeHandler(configService, resolverService)
	ticketHandler := handler.NewTicketHandler(ticketService)
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

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Invoice-exchange domain (configuration hierarchy and resolution)
	invoiceExchangeRoutes := router.NewDomainGroup("invoice-exchange", "/invoice-exchange")
	invoiceExchangeRoutes.POST("/configs", invoiceExchangeHandler.Create)
	invoiceExchangeRoutes.GET("/configs/:id", invoiceExchangeHandler.Get)
	invoiceExchangeRoutes.PUT("/configs/:id", invoiceExchangeHandler.Update)
	invoiceExchangeRoutes.DELETE("/configs/:id", invoiceExchangeHandler.Delete)
	invoiceExchangeRoutes.POST("/configs/validate", invoiceExchangeHandler.Validate)
	invoiceExchangeRoutes.GET("/resolve", invoiceExchangeHandler.Resolve)

	// Ticketing domain (truck ticket lifecycle and audit history)
	ticketRoutes := router.NewDomainGroup("ticketing", "/tickets")
	ticketRoutes.POST("", ticketHandler.Create)
	ticketRoutes.GET("", ticketHandler.ListByAccount)
	ticketRoutes.GET("/:id", ticketHandler.Get)
	ticketRoutes.PUT("/:id/load", ticketHandler.UpdateLoad)
	ticketRoutes.POST("/:id/approve", ticketHandler.Approve)
	ticketRoutes.POST("/:id/void", ticketHandler.Void)
	ticketRoutes.GET("/:id/history", ticketHandler.History)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(invoiceExchangeRoutes).
		Register(ticketRoutes).
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
