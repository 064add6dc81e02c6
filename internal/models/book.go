package models

// Book is a catalog entry. Everything except Reviews is fixed at startup.
type Book struct {
	ISBN    string   `json:"isbn" yaml:"isbn"`
	Title   string   `json:"title" yaml:"title"`
	Author  string   `json:"author" yaml:"author"`
	Reviews []Review `json:"reviews" yaml:"reviews"`
}

// Review is one user's opinion of a book, keyed by (isbn, username).
type Review struct {
	Username string `json:"username" yaml:"username"`
	Review   string `json:"review" yaml:"review"`
}

// ReviewRequest represents the add/update review payload
type ReviewRequest struct {
	Review string `json:"review" validate:"required"`
}

// ReviewResponse reports the outcome of a review mutation
type ReviewResponse struct {
	Message string `json:"message"`
	ISBN    string `json:"isbn"`
	Review  Review `json:"review"`
}
