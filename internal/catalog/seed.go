package catalog

import (
	"fmt"
	"os"

	"github.com/bookshelf/catalog-api/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultBooks is the catalog served when no seed file is configured.
func DefaultBooks() []models.Book {
	return []models.Book{
		{ISBN: "1", Author: "Chinua Achebe", Title: "Things Fall Apart"},
		{ISBN: "2", Author: "Hans Christian Andersen", Title: "Fairy tales"},
		{ISBN: "3", Author: "Dante Alighieri", Title: "The Divine Comedy"},
		{ISBN: "4", Author: "Unknown", Title: "The Epic Of Gilgamesh"},
		{ISBN: "5", Author: "Unknown", Title: "The Book Of Job"},
		{ISBN: "6", Author: "Unknown", Title: "One Thousand and One Nights"},
		{ISBN: "7", Author: "Unknown", Title: "Njál's Saga"},
		{ISBN: "8", Author: "Jane Austen", Title: "Pride and Prejudice"},
		{ISBN: "9", Author: "Honoré de Balzac", Title: "Le Père Goriot"},
		{ISBN: "10", Author: "Samuel Beckett", Title: "Molloy, Malone Dies, The Unnamable, the trilogy"},
	}
}

type seedFile struct {
	Books []models.Book `yaml:"books"`
}

// LoadBooks reads a YAML (or JSON) seed file of the form
//
//	books:
//	  - isbn: "978-0"
//	    title: ...
//	    author: ...
func LoadBooks(path string) ([]models.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	if len(seed.Books) == 0 {
		return nil, fmt.Errorf("seed file %s contains no books", path)
	}

	return seed.Books, nil
}

// FromSeed builds the catalog from path, or from DefaultBooks when path is
// empty.
func FromSeed(path string) (*Catalog, error) {
	books := DefaultBooks()
	if path != "" {
		loaded, err := LoadBooks(path)
		if err != nil {
			return nil, err
		}
		books = loaded
	}
	return New(books)
}
