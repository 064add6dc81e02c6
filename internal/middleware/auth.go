package middleware

import (
	"fmt"
	"strings"

	"github.com/bookshelf/catalog-api/internal/metrics"
	apperrors "github.com/bookshelf/catalog-api/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const usernameKey = "username"

var (
	ErrMissingToken = apperrors.NewAppError(apperrors.CodeForbidden, "Access denied, no token provided.", nil)
	ErrInvalidToken = apperrors.NewAppError(apperrors.CodeUnauthenticated, "Invalid or expired token.", nil)
)

// TokenVerifier resolves a session token to the username it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *logrus.Logger
}

func NewAuthMiddleware(verifier TokenVerifier, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// Authenticate requires a valid bearer token. A request with no token is
// refused with 403; a token that fails verification gets 401.
func (a *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme, token := splitAuthorization(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			metrics.RecordAuthOperation("verify", string(apperrors.CodeForbidden))
			return WriteError(c, ErrMissingToken)
		}

		username, err := a.verify(scheme, token)
		if err != nil {
			a.logger.WithError(err).WithField("path", c.Path()).Debug("Token validation failed")
			metrics.RecordAuthOperation("verify", string(apperrors.CodeUnauthenticated))
			return WriteError(c, ErrInvalidToken)
		}

		metrics.RecordAuthOperation("verify", "ok")
		c.Locals(usernameKey, username)
		return c.Next()
	}
}

func (a *AuthMiddleware) verify(scheme, token string) (string, error) {
	if !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("unsupported authorization scheme %q", scheme)
	}
	return a.verifier.Verify(token)
}

// splitAuthorization splits an Authorization header into its scheme and
// credential. The credential is "" when the header carries none.
func splitAuthorization(header string) (string, string) {
	scheme, token, _ := strings.Cut(strings.TrimSpace(header), " ")
	return scheme, strings.TrimSpace(token)
}

// GetUsername returns the identity resolved by Authenticate, or "".
func GetUsername(c *fiber.Ctx) string {
	if username, ok := c.Locals(usernameKey).(string); ok {
		return username
	}
	return ""
}

// WriteError writes err as the standard error body with its mapped status.
func WriteError(c *fiber.Ctx, err error) error {
	appErr := apperrors.As(err)
	return c.Status(appErr.HTTPStatus()).JSON(appErr.ToErrorResponse(requestID(c)))
}

func requestID(c *fiber.Ctx) string {
	if id := c.Get(fiber.HeaderXRequestID); id != "" {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
