// Package books provides database operations for the club catalog: browsing,
// reviews and the admin bulk import.
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
)

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Repository handles all catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListFilter narrows the catalog listing.
type ListFilter struct {
	Search string // Matches title or author
	Genre  string
	Limit  int
	Offset int
}

// List returns catalog books matching the filter plus the total match count.
func (r *Repository) List(filter ListFilter) ([]entities.Book, int64, error) {
	query := r.db.Model(&entities.Book{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR author LIKE ?", like, like)
	}
	if filter.Genre != "" {
		query = query.Where("genre = ?", filter.Genre)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var books []entities.Book
	err := query.Order("title ASC").Find(&books).Error
	return books, total, err
}

// GetByID returns one book with its reviews preloaded.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Reviews").Preload("Reviews.User").First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// Create adds a single book to the catalog.
func (r *Repository) Create(book *entities.Book) error {
	book.Available = true
	return r.db.Create(book).Error
}

// Genres returns the distinct genres present in the catalog.
func (r *Repository) Genres() ([]string, error) {
	var genres []string
	err := r.db.Model(&entities.Book{}).
		Distinct("genre").
		Where("genre <> ''").
		Order("genre ASC").
		Pluck("genre", &genres).Error
	return genres, err
}

// BulkImportResult summarises an admin bulk import run.
type BulkImportResult struct {
	Added   int      `json:"added"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// BulkImport inserts books, skipping any whose title or ISBN already exists.
// Individual failures are collected rather than aborting the batch.
func (r *Repository) BulkImport(incoming []entities.Book) (*BulkImportResult, error) {
	result := &BulkImportResult{}

	for _, book := range incoming {
		if book.Title == "" {
			result.Errors = append(result.Errors, "book with empty title skipped")
			continue
		}

		query := r.db.Where("title = ?", book.Title)
		if book.ISBN != "" {
			query = query.Or("isbn = ?", book.ISBN)
		}

		var existing entities.Book
		err := query.First(&existing).Error
		if err == nil {
			result.Skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", book.Title, err))
			continue
		}

		book.Available = true
		if err := r.db.Create(&book).Error; err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", book.Title, err))
			continue
		}
		result.Added++
	}

	return result, nil
}

// AddReview attaches a member review to a book.
func (r *Repository) AddReview(bookID, userID uint, rating int, text string) (*entities.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	var book entities.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	review := &entities.Review{
		BookID: bookID,
		UserID: userID,
		Rating: rating,
		Text:   text,
	}
	if err := r.db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// SoftDelete retires a book from the catalog. Reviews keep referencing the
// retired row; gorm's DeletedAt hides it from normal queries.
func (r *Repository) SoftDelete(bookID uint) error {
	result := r.db.Delete(&entities.Book{}, bookID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}
