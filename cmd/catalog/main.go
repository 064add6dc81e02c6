package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/bookshelf/catalog-api/docs" // Swagger docs
	"github.com/bookshelf/catalog-api/internal/auth"
	"github.com/bookshelf/catalog-api/internal/catalog"
	"github.com/bookshelf/catalog-api/internal/clients"
	"github.com/bookshelf/catalog-api/internal/config"
	"github.com/bookshelf/catalog-api/internal/logging"
	"github.com/bookshelf/catalog-api/internal/metrics"
	"github.com/bookshelf/catalog-api/internal/middleware"
	"github.com/bookshelf/catalog-api/internal/routes"
	"github.com/bookshelf/catalog-api/internal/users"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
)

// @title Catalog API
// @version 1.0
// @description Book catalog with user accounts and per-user reviews

// @host localhost:5000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token returned by /login.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logging.New(cfg)

	// Initialize metrics
	if err := metrics.Init(); err != nil {
		logger.WithError(err).Fatal("Failed to initialize metrics")
	}

	// Initialize tracing
	tracingShutdown, err := middleware.InitTracing(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to setup tracing")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracingShutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Failed to shutdown tracing")
		}
	}()

	// Session tokens
	signingKey, err := auth.LoadSigningKey(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load token signing key")
	}
	tokens, err := auth.NewTokenService(signingKey, cfg.JWT.TTL, auth.WithIssuer(cfg.JWT.Issuer))
	if err != nil {
		logger.WithError(err).Fatal("Failed to create token service")
	}

	// Accounts
	hasher, err := users.NewHasher(&cfg.Auth)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create password hasher")
	}
	if cfg.Auth.PasswordHasher == config.HasherPlaintext {
		logger.Warn("Passwords are stored in plaintext")
	}
	userStore := users.NewMemoryStore(hasher)

	// Catalog
	books, err := catalog.FromSeed(cfg.Catalog.SeedFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load catalog")
	}
	logger.WithFields(logrus.Fields{
		"books":     books.Len(),
		"seed_file": cfg.Catalog.SeedFile,
	}).Info("Catalog loaded")

	catalogClient := clients.NewCatalogClient(&cfg.Catalog, logger)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Catalog API",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorHandler: routes.ErrorHandler(logger),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     "GET,POST,HEAD,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,Idempotency-Key",
		AllowCredentials: cfg.CORS.AllowOrigins != "*",
		MaxAge:           86400,
	}))
	app.Use(otelfiber.Middleware())

	// Initialize middleware manager
	middlewareManager, err := middleware.NewManager(cfg, tokens, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize middleware manager")
	}
	defer func() {
		if err := middlewareManager.Close(); err != nil {
			logger.WithError(err).Error("Failed to close middleware resources")
		}
	}()

	// Setup routes
	routes.Setup(app, cfg, logger, middlewareManager, routes.Dependencies{
		Users:    userStore,
		Tokens:   tokens,
		Catalog:  books,
		Upstream: catalogClient,
		Breaker:  catalogClient.Breaker(),
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Gracefully shutting down...")
		if err := app.Shutdown(); err != nil {
			logger.WithError(err).Error("Server shutdown failed")
		}
	}()

	// Start server
	logger.WithField("port", cfg.Server.Port).Info("Starting Catalog API server")
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
