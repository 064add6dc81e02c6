package routes

import (
	"errors"
	"time"

	"github.com/bookshelf/catalog-api/internal/auth"
	"github.com/bookshelf/catalog-api/internal/catalog"
	"github.com/bookshelf/catalog-api/internal/clients"
	"github.com/bookshelf/catalog-api/internal/config"
	"github.com/bookshelf/catalog-api/internal/logging"
	"github.com/bookshelf/catalog-api/internal/metrics"
	"github.com/bookshelf/catalog-api/internal/middleware"
	"github.com/bookshelf/catalog-api/internal/users"
	apperrors "github.com/bookshelf/catalog-api/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/sirupsen/logrus"
)

const serviceName = "catalog-api"

// Dependencies are the services the HTTP surface is built on.
type Dependencies struct {
	Users    users.Store
	Tokens   *auth.TokenService
	Catalog  *catalog.Catalog
	Upstream clients.CatalogFetcher
	// Breaker is reported by /readyz when set.
	Breaker *clients.CircuitBreaker
}

// Setup configures all API routes
func Setup(app *fiber.App, cfg *config.Config, logger *logrus.Logger, middlewareManager *middleware.Manager, deps Dependencies) {
	authHandler := NewAuthHandler(deps.Users, deps.Tokens, logger)
	bookHandler := NewBookHandler(deps.Catalog, deps.Upstream, logger)
	reviewHandler := NewReviewHandler(deps.Catalog, logger)

	// Health check endpoints (no auth required)
	app.Get("/healthz", healthCheck)
	app.Get("/readyz", readinessCheck(middlewareManager, deps.Catalog, deps.Breaker))
	app.Get("/version", versionHandler)

	// Metrics endpoint (no auth required)
	app.Get(cfg.Observability.MetricsPath, metrics.PrometheusHandler())

	// Swagger documentation endpoint (no auth required)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("")
	api.Use(metrics.HTTPMetricsMiddleware())
	api.Use(middlewareManager.ErrorLogger.Handle())

	// Public routes
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	api.Get("/", bookHandler.List)
	api.Get("/isbn/:isbn", bookHandler.ByISBN)
	api.Get("/author/:author", bookHandler.ByAuthor)
	api.Get("/title/:title", bookHandler.ByTitle)
	api.Get("/review/:isbn", reviewHandler.List)

	// Review mutations act on behalf of the token holder
	api.Post("/review/:isbn", append(middlewareManager.Mutation(), reviewHandler.Upsert)...)
	api.Delete("/review/:isbn", append(middlewareManager.Mutation(), reviewHandler.Delete)...)

	// 404 handler
	app.Use(notFoundHandler)
}

// healthCheck returns the health status of the service
// @Summary Health check
// @Description Check if the service is healthy
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{} "Healthy"
// @Router /healthz [get]
func healthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   serviceName,
	})
}

// readinessCheck checks if the service is ready to accept traffic
// @Summary Readiness check
// @Description Check if the service is ready to accept traffic
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{} "Ready"
// @Failure 503 {object} map[string]interface{} "Not ready"
// @Router /readyz [get]
func readinessCheck(middlewareManager *middleware.Manager, books *catalog.Catalog, breaker *clients.CircuitBreaker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if middlewareManager.RedisClient != nil {
			redisHealthCheck := middleware.RedisHealthCheck(middlewareManager.RedisClient, middlewareManager.Logger)
			if err := redisHealthCheck(); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status":    "not ready",
					"reason":    "redis unavailable",
					"error":     err.Error(),
					"timestamp": time.Now().UTC(),
				})
			}
		}

		body := fiber.Map{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
			"books":     books.Len(),
		}
		// An open upstream breaker only degrades GET /, so it is reported
		// without failing readiness.
		if breaker != nil {
			body["upstream"] = breaker.GetStats()
		}
		return c.JSON(body)
	}
}

// versionHandler returns version information
// @Summary Version information
// @Description Get service version and build information
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{} "Version info"
// @Router /version [get]
func versionHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": serviceName,
		"version": logging.Version(),
		"commit":  commit,
		"built":   buildTime,
	})
}

// Set with -ldflags "-X github.com/bookshelf/catalog-api/internal/routes.commit=..."
var (
	commit    = "unknown"
	buildTime = "unknown"
)

// notFoundHandler handles 404 errors
func notFoundHandler(c *fiber.Ctx) error {
	return middleware.WriteError(c, apperrors.NewAppError(apperrors.CodeNotFound, "The requested resource was not found", nil))
}

// ErrorHandler writes errors that escape a handler in the standard error
// body. Fiber's own errors keep their status; 4xx ones are reported as
// client errors.
func ErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr := apperrors.As(err)
		status := appErr.HTTPStatus()

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			appErr = apperrors.NewAppError(fiberErrorCode(status), fiberErr.Message, err)
		}

		entry := logging.WithTraceID(logger, c.GetRespHeader(fiber.HeaderXRequestID)).WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"status": status,
		})
		if status >= fiber.StatusInternalServerError {
			entry.Error("Request error")
		} else {
			entry.Warn("Request error")
		}

		return c.Status(status).JSON(appErr.ToErrorResponse(c.GetRespHeader(fiber.HeaderXRequestID)))
	}
}

func fiberErrorCode(status int) apperrors.ErrorCode {
	switch {
	case status == fiber.StatusNotFound:
		return apperrors.CodeNotFound
	case status >= 400 && status < 500:
		return apperrors.CodeInvalidInput
	default:
		return apperrors.CodeInternalError
	}
}
