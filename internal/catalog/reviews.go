package catalog

import (
	"github.com/bookshelf/catalog-api/internal/models"
	apperrors "github.com/bookshelf/catalog-api/pkg/errors"
)

// Outcome tells whether an upsert created or replaced a review.
type Outcome int

const (
	Added Outcome = iota + 1
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

var (
	ErrEmptyReview   = apperrors.NewAppError(apperrors.CodeInvalidInput, "Review content is required.", nil)
	ErrEmptyUsername = apperrors.NewAppError(apperrors.CodeInvalidInput, "Reviewer identity is required.", nil)
	ErrNoSuchReview  = apperrors.NewAppError(apperrors.CodeNoSuchReview, "You haven't posted a review for this book.", nil)
)

// UpsertReview stores text as username's review of isbn, replacing an
// earlier review by the same user in place.
func (c *Catalog) UpsertReview(isbn, username, text string) (Outcome, error) {
	if text == "" {
		return 0, ErrEmptyReview
	}
	if username == "" {
		return 0, ErrEmptyUsername
	}

	s, ok := c.shelves[isbn]
	if !ok {
		return 0, ErrBookNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, exists := s.byUser[username]; exists {
		s.reviews[i].Review = text
		return Updated, nil
	}

	s.byUser[username] = len(s.reviews)
	s.reviews = append(s.reviews, models.Review{Username: username, Review: text})
	return Added, nil
}

// DeleteReview removes username's review of isbn. The remaining reviews
// keep their relative order.
func (c *Catalog) DeleteReview(isbn, username string) error {
	if username == "" {
		return ErrEmptyUsername
	}

	s, ok := c.shelves[isbn]
	if !ok {
		return ErrBookNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, exists := s.byUser[username]
	if !exists {
		return ErrNoSuchReview
	}

	s.reviews = append(s.reviews[:i], s.reviews[i+1:]...)
	delete(s.byUser, username)
	for j := i; j < len(s.reviews); j++ {
		s.byUser[s.reviews[j].Username] = j
	}
	return nil
}

// ListReviews returns the reviews of isbn in the order they were added.
func (c *Catalog) ListReviews(isbn string) ([]models.Review, error) {
	s, ok := c.shelves[isbn]
	if !ok {
		return nil, ErrBookNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reviews := make([]models.Review, len(s.reviews))
	copy(reviews, s.reviews)
	return reviews, nil
}
