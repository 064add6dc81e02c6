package routes

import (
	"net/url"

	"github.com/bookshelf/catalog-api/internal/catalog"
	"github.com/bookshelf/catalog-api/internal/clients"
	"github.com/bookshelf/catalog-api/internal/middleware"
	apperrors "github.com/bookshelf/catalog-api/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// UpstreamErrorResponse is written when the remote catalog cannot be read.
type UpstreamErrorResponse struct {
	apperrors.ErrorResponse
	Error string `json:"error"`
}

// BookHandler serves catalog lookups
type BookHandler struct {
	catalog  *catalog.Catalog
	upstream clients.CatalogFetcher
	logger   *logrus.Logger
}

func NewBookHandler(books *catalog.Catalog, upstream clients.CatalogFetcher, logger *logrus.Logger) *BookHandler {
	return &BookHandler{
		catalog:  books,
		upstream: upstream,
		logger:   logger,
	}
}

// List proxies the full book list from the remote catalog
// @Summary List all books
// @Description Fetch the full book list from the remote catalog service
// @Tags Books
// @Produce json
// @Success 200 {array} models.Book
// @Failure 500 {object} UpstreamErrorResponse "Upstream unavailable"
// @Router / [get]
func (h *BookHandler) List(c *fiber.Ctx) error {
	body, err := h.upstream.FetchBooks(c.UserContext())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch book list from upstream")
		return c.Status(fiber.StatusInternalServerError).JSON(UpstreamErrorResponse{
			ErrorResponse: apperrors.ErrorResponse{
				Message: "Error fetching the books list",
				Code:    apperrors.CodeUpstreamUnavailable,
				TraceID: c.GetRespHeader(fiber.HeaderXRequestID),
			},
			Error: err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// ByISBN returns one book
// @Summary Get book by ISBN
// @Tags Books
// @Produce json
// @Param isbn path string true "ISBN"
// @Success 200 {object} models.Book
// @Failure 404 {object} apperrors.ErrorResponse "Book not found"
// @Router /isbn/{isbn} [get]
func (h *BookHandler) ByISBN(c *fiber.Ctx) error {
	book, err := h.catalog.Book(param(c, "isbn"))
	if err != nil {
		return middleware.WriteError(c, err)
	}
	return c.JSON(book)
}

// ByAuthor returns the books whose author matches, ignoring case
// @Summary Get books by author
// @Tags Books
// @Produce json
// @Param author path string true "Author"
// @Success 200 {array} models.Book
// @Failure 404 {object} apperrors.ErrorResponse "No books for author"
// @Router /author/{author} [get]
func (h *BookHandler) ByAuthor(c *fiber.Ctx) error {
	books, err := h.catalog.ByAuthor(param(c, "author"))
	if err != nil {
		return middleware.WriteError(c, err)
	}
	return c.JSON(books)
}

// ByTitle returns the books whose title matches, ignoring case
// @Summary Get books by title
// @Tags Books
// @Produce json
// @Param title path string true "Title"
// @Success 200 {array} models.Book
// @Failure 404 {object} apperrors.ErrorResponse "No books with title"
// @Router /title/{title} [get]
func (h *BookHandler) ByTitle(c *fiber.Ctx) error {
	books, err := h.catalog.ByTitle(param(c, "title"))
	if err != nil {
		return middleware.WriteError(c, err)
	}
	return c.JSON(books)
}

// param returns the decoded path parameter, so "/author/Jane%20Austen"
// matches "Jane Austen".
func param(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
