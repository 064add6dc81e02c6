package routes

import (
	"github.com/bookshelf/catalog-api/internal/catalog"
	"github.com/bookshelf/catalog-api/internal/logging"
	"github.com/bookshelf/catalog-api/internal/metrics"
	"github.com/bookshelf/catalog-api/internal/middleware"
	"github.com/bookshelf/catalog-api/internal/models"
	apperrors "github.com/bookshelf/catalog-api/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// ReviewHandler handles review endpoints
type ReviewHandler struct {
	catalog *catalog.Catalog
	logger  *logrus.Logger
}

func NewReviewHandler(books *catalog.Catalog, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{
		catalog: books,
		logger:  logger,
	}
}

// List returns the reviews of a book
// @Summary List reviews
// @Tags Reviews
// @Produce json
// @Param isbn path string true "ISBN"
// @Success 200 {array} models.Review
// @Failure 404 {object} apperrors.ErrorResponse "Book not found"
// @Router /review/{isbn} [get]
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	reviews, err := h.catalog.ListReviews(param(c, "isbn"))
	if err != nil {
		return middleware.WriteError(c, err)
	}
	return c.JSON(reviews)
}

// Upsert adds the caller's review of a book or replaces their earlier one
// @Summary Add or update review
// @Description Adds a review (201) or replaces the caller's existing review (200)
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param isbn path string true "ISBN"
// @Param Idempotency-Key header string false "UUID for safe retries"
// @Param request body models.ReviewRequest true "Review"
// @Success 201 {object} models.ReviewResponse "Review added"
// @Success 200 {object} models.ReviewResponse "Review updated"
// @Failure 400 {object} apperrors.ErrorResponse "Empty review"
// @Failure 401 {object} apperrors.ErrorResponse "Invalid token"
// @Failure 403 {object} apperrors.ErrorResponse "No token"
// @Failure 404 {object} apperrors.ErrorResponse "Book not found"
// @Router /review/{isbn} [post]
func (h *ReviewHandler) Upsert(c *fiber.Ctx) error {
	ctx, span := middleware.StartSpan(c.UserContext(), "review.Upsert")
	defer span.End()
	c.SetUserContext(ctx)

	isbn := param(c, "isbn")
	username := middleware.GetUsername(c)
	span.SetAttributes(
		attribute.String("review.isbn", isbn),
		attribute.String("review.username", username),
	)

	var req models.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		metrics.RecordReviewOperation("upsert", string(apperrors.CodeInvalidInput))
		return middleware.WriteError(c, errInvalidBody)
	}

	outcome, err := h.catalog.UpsertReview(isbn, username, req.Review)
	if err != nil {
		middleware.RecordError(span, err)
		metrics.RecordReviewOperation("upsert", string(apperrors.As(err).Code))
		return middleware.WriteError(c, err)
	}

	logging.WithUsername(h.logger, username).WithFields(logrus.Fields{
		"isbn":    isbn,
		"outcome": outcome.String(),
	}).Info("Review saved")
	metrics.RecordReviewOperation("upsert", outcome.String())

	resp := models.ReviewResponse{
		ISBN:   isbn,
		Review: models.Review{Username: username, Review: req.Review},
	}
	if outcome == catalog.Added {
		resp.Message = "Review added successfully."
		return c.Status(fiber.StatusCreated).JSON(resp)
	}
	resp.Message = "Review updated successfully."
	return c.JSON(resp)
}

// Delete removes the caller's review of a book
// @Summary Delete review
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param isbn path string true "ISBN"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} apperrors.ErrorResponse "Invalid token"
// @Failure 403 {object} apperrors.ErrorResponse "No token"
// @Failure 404 {object} apperrors.ErrorResponse "Book or review not found"
// @Router /review/{isbn} [delete]
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	ctx, span := middleware.StartSpan(c.UserContext(), "review.Delete")
	defer span.End()
	c.SetUserContext(ctx)

	isbn := param(c, "isbn")
	username := middleware.GetUsername(c)
	span.SetAttributes(
		attribute.String("review.isbn", isbn),
		attribute.String("review.username", username),
	)

	if err := h.catalog.DeleteReview(isbn, username); err != nil {
		middleware.RecordError(span, err)
		metrics.RecordReviewOperation("delete", string(apperrors.As(err).Code))
		return middleware.WriteError(c, err)
	}

	logging.WithUsername(h.logger, username).WithField("isbn", isbn).Info("Review deleted")
	metrics.RecordReviewOperation("delete", "deleted")

	return c.JSON(models.MessageResponse{
		Message: "Review deleted successfully.",
	})
}
