package middleware

import (
	"fmt"

	"github.com/bookshelf/catalog-api/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Manager holds all middleware instances
type Manager struct {
	Auth        *AuthMiddleware
	Idempotency *IdempotencyMiddleware // nil when Redis is disabled
	ErrorLogger *ErrorLoggerMiddleware
	RedisClient *redis.Client // nil when Redis is disabled
	Config      *config.Config
	Logger      *logrus.Logger
}

// NewManager creates a new middleware manager with all middleware initialized
func NewManager(cfg *config.Config, verifier TokenVerifier, logger *logrus.Logger) (*Manager, error) {
	m := &Manager{
		Auth:        NewAuthMiddleware(verifier, logger),
		ErrorLogger: NewErrorLoggerMiddleware(logger),
		Config:      cfg,
		Logger:      logger,
	}

	if cfg.Redis.Enabled {
		redisClient, err := NewRedisClient(&cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis client: %w", err)
		}
		m.RedisClient = redisClient
		m.Idempotency = NewIdempotencyMiddleware(redisClient, cfg.Redis.IdempotencyTTL, logger)
	} else {
		logger.Info("Redis disabled, idempotent replay of review mutations is off")
	}

	return m, nil
}

// Mutation returns the handlers guarding review mutations: authentication
// first, then idempotent replay when it is available.
func (m *Manager) Mutation() []fiber.Handler {
	handlers := []fiber.Handler{m.Auth.Authenticate()}
	if m.Idempotency != nil {
		handlers = append(handlers, m.Idempotency.Handle())
	}
	return handlers
}

// Close closes all middleware resources
func (m *Manager) Close() error {
	if m.RedisClient != nil {
		return m.RedisClient.Close()
	}
	return nil
}
