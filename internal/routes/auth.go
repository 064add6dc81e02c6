package routes

import (
	"github.com/bookshelf/catalog-api/internal/auth"
	"github.com/bookshelf/catalog-api/internal/logging"
	"github.com/bookshelf/catalog-api/internal/metrics"
	"github.com/bookshelf/catalog-api/internal/middleware"
	"github.com/bookshelf/catalog-api/internal/models"
	"github.com/bookshelf/catalog-api/internal/users"
	apperrors "github.com/bookshelf/catalog-api/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var errInvalidBody = apperrors.NewAppError(apperrors.CodeInvalidInput, "Invalid request body", nil)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	users  users.Store
	tokens *auth.TokenService
	logger *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(store users.Store, tokens *auth.TokenService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		users:  store,
		tokens: tokens,
		logger: logger,
	}
}

// Login handles user login
// @Summary User login
// @Description Verify credentials and return a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} apperrors.ErrorResponse "Missing username or password"
// @Failure 404 {object} apperrors.ErrorResponse "User not found"
// @Failure 401 {object} apperrors.ErrorResponse "Invalid password"
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		metrics.RecordAuthOperation("login", string(apperrors.CodeInvalidInput))
		return middleware.WriteError(c, errInvalidBody)
	}
	if req.Username == "" || req.Password == "" {
		metrics.RecordAuthOperation("login", string(apperrors.CodeInvalidInput))
		return middleware.WriteError(c, users.ErrInvalidInput)
	}

	if err := h.users.Verify(req.Username, req.Password); err != nil {
		appErr := apperrors.As(err)
		logging.WithUsername(h.logger, req.Username).WithError(err).Warn("Login rejected")
		metrics.RecordAuthOperation("login", string(appErr.Code))
		return middleware.WriteError(c, appErr)
	}

	token, expiresAt, err := h.tokens.Issue(req.Username)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue token")
		metrics.RecordAuthOperation("login", string(apperrors.CodeInternalError))
		return middleware.WriteError(c, apperrors.WrapError(err, "Failed to generate token"))
	}

	logging.WithUsername(h.logger, req.Username).WithField("expires_at", expiresAt).Info("User logged in successfully")
	metrics.RecordAuthOperation("login", "ok")

	return c.JSON(models.LoginResponse{
		Message:   "Login successful",
		Token:     token,
		ExpiresIn: int(h.tokens.TTL().Seconds()),
	})
}

// Register handles user registration
// @Summary User registration
// @Description Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration data"
// @Success 201 {object} models.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse "Missing username or password"
// @Failure 409 {object} apperrors.ErrorResponse "Username already exists"
// @Router /register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		metrics.RecordAuthOperation("register", string(apperrors.CodeInvalidInput))
		return middleware.WriteError(c, errInvalidBody)
	}

	if err := h.users.Register(req.Username, req.Password); err != nil {
		appErr := apperrors.As(err)
		if appErr.Code == apperrors.CodeInternalError {
			h.logger.WithError(err).Error("Failed to register user")
		}
		metrics.RecordAuthOperation("register", string(appErr.Code))
		return middleware.WriteError(c, appErr)
	}

	logging.WithUsername(h.logger, req.Username).Info("User registered successfully")
	metrics.RecordAuthOperation("register", "ok")

	return c.Status(fiber.StatusCreated).JSON(models.MessageResponse{
		Message: "User registered successfully.",
	})
}
