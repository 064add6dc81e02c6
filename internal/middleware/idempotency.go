package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bookshelf/catalog-api/internal/metrics"
	apperrors "github.com/bookshelf/catalog-api/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const idempotencyHeader = "Idempotency-Key"

var (
	ErrInvalidIdempotencyKey = apperrors.NewAppError(apperrors.CodeInvalidInput, "Idempotency-Key must be a valid UUID", nil)
	ErrIdempotencyConflict   = apperrors.NewAppError(apperrors.CodeIdempotencyConflict, "Request differs from the original request with the same Idempotency-Key", nil)
)

// IdempotencyMiddleware replays the stored response of a review mutation
// retried with the same Idempotency-Key. Requests without the header pass
// straight through.
type IdempotencyMiddleware struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	ttl         time.Duration
}

type IdempotencyRecord struct {
	StatusCode  int       `json:"status_code"`
	ContentType string    `json:"content_type"`
	Body        string    `json:"body"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewIdempotencyMiddleware(redisClient *redis.Client, ttl time.Duration, logger *logrus.Logger) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{
		redisClient: redisClient,
		logger:      logger,
		ttl:         ttl,
	}
}

// Handle must run after Authenticate so the fingerprint binds the caller.
func (i *IdempotencyMiddleware) Handle() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(idempotencyHeader)
		if key == "" || !IsMutation(c.Method()) {
			return c.Next()
		}

		if _, err := uuid.Parse(key); err != nil {
			return WriteError(c, ErrInvalidIdempotencyKey)
		}

		ctx := c.UserContext()
		redisKey := i.redisKey(GetUsername(c), key)
		fingerprint := i.generateFingerprint(c)

		existing, err := i.getRecord(ctx, redisKey)
		if err != nil && !errors.Is(err, redis.Nil) {
			// Serve the request rather than fail on a cache outage.
			i.logger.WithError(err).Error("Failed to get idempotency record")
		}

		if existing != nil {
			if existing.Fingerprint != fingerprint {
				return WriteError(c, ErrIdempotencyConflict)
			}
			metrics.RecordIdempotencyHit("hit")
			return i.replay(c, existing)
		}
		metrics.RecordIdempotencyHit("miss")

		if err := c.Next(); err != nil {
			return err
		}

		statusCode := c.Response().StatusCode()
		if statusCode < 200 || statusCode >= 300 {
			return nil
		}

		record := IdempotencyRecord{
			StatusCode:  statusCode,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        string(c.Response().Body()),
			Fingerprint: fingerprint,
			CreatedAt:   time.Now(),
		}
		if err := i.storeRecord(ctx, redisKey, &record); err != nil {
			i.logger.WithError(err).WithField("idempotency_key", key).Error("Failed to store idempotency record")
		} else {
			i.logger.WithFields(logrus.Fields{
				"idempotency_key": key,
				"status_code":     statusCode,
			}).Debug("Stored idempotency record")
		}

		return nil
	}
}

func (i *IdempotencyMiddleware) redisKey(username, key string) string {
	return fmt.Sprintf("idempotency:%s:%s", username, key)
}

// generateFingerprint hashes what makes two requests the same operation
func (i *IdempotencyMiddleware) generateFingerprint(c *fiber.Ctx) string {
	h := sha256.New()
	for _, part := range []string{c.Method(), c.Path(), GetUsername(c)} {
		h.Write([]byte(part))
		h.Write([]byte(":"))
	}
	h.Write(c.Body())
	return hex.EncodeToString(h.Sum(nil))
}

func (i *IdempotencyMiddleware) getRecord(ctx context.Context, key string) (*IdempotencyRecord, error) {
	data, err := i.redisClient.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var record IdempotencyRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idempotency record: %w", err)
	}

	return &record, nil
}

func (i *IdempotencyMiddleware) storeRecord(ctx context.Context, key string, record *IdempotencyRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal idempotency record: %w", err)
	}

	return i.redisClient.Set(ctx, key, data, i.ttl).Err()
}

func (i *IdempotencyMiddleware) replay(c *fiber.Ctx, record *IdempotencyRecord) error {
	if record.ContentType != "" {
		c.Set(fiber.HeaderContentType, record.ContentType)
	}
	c.Set("X-Idempotency-Cached", "true")

	return c.Status(record.StatusCode).SendString(record.Body)
}

// IsMutation reports whether method changes server state
func IsMutation(method string) bool {
	switch strings.ToUpper(method) {
	case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
		return true
	default:
		return false
	}
}
