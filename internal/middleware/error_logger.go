package middleware

import (
	"time"

	"github.com/bookshelf/catalog-api/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const maxLoggedBody = 500

type ErrorLoggerMiddleware struct {
	logger *logrus.Logger
}

func NewErrorLoggerMiddleware(logger *logrus.Logger) *ErrorLoggerMiddleware {
	return &ErrorLoggerMiddleware{
		logger: logger,
	}
}

// Handle logs 4xx and 5xx responses with detailed context
func (e *ErrorLoggerMiddleware) Handle() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()

		err := c.Next()

		statusCode := c.Response().StatusCode()
		if statusCode < 400 {
			return err
		}

		latencyMs := float64(time.Since(startTime).Microseconds()) / 1000
		logFields := logrus.Fields{
			"path":       c.Path(),
			"ip":         c.IP(),
			"user_agent": c.Get(fiber.HeaderUserAgent),
		}

		if username := GetUsername(c); username != "" {
			logFields["username"] = username
		}

		if key := c.Get(idempotencyHeader); key != "" {
			logFields["idempotency_key"] = key
		}

		// Request bodies carry passwords on /register and /login; only the
		// response is logged.
		if body := truncate(string(c.Response().Body())); body != "" {
			logFields["response_body"] = body
		}

		entry := logging.WithRequest(e.logger, c.Method(), routePath(c), statusCode, latencyMs).
			WithField("trace_id", requestID(c)).
			WithFields(logFields)
		if statusCode >= 500 {
			if err != nil {
				entry = entry.WithError(err)
			}
			entry.Error("Server error response")
		} else {
			entry.Warn("Client error response")
		}

		return err
	}
}

func routePath(c *fiber.Ctx) string {
	if route := c.Route(); route != nil && route.Path != "" {
		return route.Path
	}
	return c.Path()
}

func truncate(s string) string {
	if len(s) > maxLoggedBody {
		return s[:maxLoggedBody] + "...(truncated)"
	}
	return s
}
