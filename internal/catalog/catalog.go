// Package catalog holds the book catalog and the reviews attached to it.
//
// The set of books is fixed when the Catalog is built. Each book carries its
// own lock so review mutations on one isbn serialize while other books stay
// available.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bookshelf/catalog-api/internal/models"
	apperrors "github.com/bookshelf/catalog-api/pkg/errors"
)

var (
	ErrBookNotFound   = apperrors.NewAppError(apperrors.CodeNotFound, "Book not found with the given ISBN.", nil)
	ErrAuthorNotFound = apperrors.NewAppError(apperrors.CodeNotFound, "No books found for the given author.", nil)
	ErrTitleNotFound  = apperrors.NewAppError(apperrors.CodeNotFound, "No books found with the given title.", nil)
)

// shelf is one book and its reviews. byUser maps a username to its
// position in reviews.
type shelf struct {
	mu      sync.Mutex
	isbn    string
	title   string
	author  string
	reviews []models.Review
	byUser  map[string]int
}

// Catalog is safe for concurrent use.
type Catalog struct {
	shelves map[string]*shelf
	order   []string // isbns, sorted
}

// New builds a catalog from books. Duplicate or empty isbns are rejected, as
// are seeded reviews that break the one-review-per-user rule.
func New(books []models.Book) (*Catalog, error) {
	c := &Catalog{shelves: make(map[string]*shelf, len(books))}

	for _, b := range books {
		if b.ISBN == "" {
			return nil, fmt.Errorf("book %q has no isbn", b.Title)
		}
		if _, dup := c.shelves[b.ISBN]; dup {
			return nil, fmt.Errorf("duplicate isbn %s", b.ISBN)
		}

		s := &shelf{
			isbn:    b.ISBN,
			title:   b.Title,
			author:  b.Author,
			reviews: make([]models.Review, 0, len(b.Reviews)),
			byUser:  make(map[string]int, len(b.Reviews)),
		}
		for _, r := range b.Reviews {
			if _, dup := s.byUser[r.Username]; dup {
				return nil, fmt.Errorf("book %s: more than one review by %s", b.ISBN, r.Username)
			}
			s.byUser[r.Username] = len(s.reviews)
			s.reviews = append(s.reviews, r)
		}

		c.shelves[b.ISBN] = s
		c.order = append(c.order, b.ISBN)
	}

	sort.Strings(c.order)
	return c, nil
}

// Len returns the number of books.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Book returns a snapshot of the book with isbn, reviews included.
func (c *Catalog) Book(isbn string) (models.Book, error) {
	s, ok := c.shelves[isbn]
	if !ok {
		return models.Book{}, ErrBookNotFound
	}
	return s.snapshot(), nil
}

// ByAuthor returns every book whose author matches, ignoring case.
func (c *Catalog) ByAuthor(author string) ([]models.Book, error) {
	books := c.filter(func(s *shelf) bool { return strings.EqualFold(s.author, author) })
	if len(books) == 0 {
		return nil, ErrAuthorNotFound
	}
	return books, nil
}

// ByTitle returns every book whose title matches, ignoring case.
func (c *Catalog) ByTitle(title string) ([]models.Book, error) {
	books := c.filter(func(s *shelf) bool { return strings.EqualFold(s.title, title) })
	if len(books) == 0 {
		return nil, ErrTitleNotFound
	}
	return books, nil
}

func (c *Catalog) filter(match func(*shelf) bool) []models.Book {
	var books []models.Book
	for _, isbn := range c.order {
		s := c.shelves[isbn]
		// title and author never change, so no lock is needed to match
		if match(s) {
			books = append(books, s.snapshot())
		}
	}
	return books
}

func (s *shelf) snapshot() models.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	reviews := make([]models.Review, len(s.reviews))
	copy(reviews, s.reviews)

	return models.Book{
		ISBN:    s.isbn,
		Title:   s.title,
		Author:  s.author,
		Reviews: reviews,
	}
}
