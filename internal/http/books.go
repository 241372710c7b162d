package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muhammedbesir/okuyamayanlar/internal/auth"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/books"
	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
	"github.com/muhammedbesir/okuyamayanlar/internal/lending"
)

// BooksController serves the catalog: browsing, reviews and admin curation.
type BooksController struct {
	books *books.Repository
}

func NewBooksController(repo *books.Repository) *BooksController {
	return &BooksController{books: repo}
}

// List handles GET /api/books with optional search, genre and pagination.
func (bc *BooksController) List(c *gin.Context) {
	limit, offset := parsePagination(c, 24, 100)

	items, total, err := bc.books.List(books.ListFilter{
		Search: c.Query("q"),
		Genre:  c.Query("genre"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(items)) < total,
	})
}

// Get handles GET /api/books/:id and annotates overdue state.
func (bc *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.books.GetByID(id)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"book":    book,
		"overdue": lending.IsOverdue(book, time.Now()),
	})
}

// Genres handles GET /api/books/genres.
func (bc *BooksController) Genres(c *gin.Context) {
	genres, err := bc.books.Genres()
	if err != nil {
		respondInternalError(c, err, "list genres")
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

type createBookRequest struct {
	Title         string `json:"title" binding:"required"`
	Author        string `json:"author" binding:"required"`
	Description   string `json:"description"`
	ISBN          string `json:"isbn"`
	PublishedYear int    `json:"published_year"`
	PageCount     int    `json:"page_count"`
	Language      string `json:"language"`
	Genre         string `json:"genre"`
	CoverImage    string `json:"cover_image"`
}

// Create handles POST /api/admin/books. Admin only.
func (bc *BooksController) Create(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and author are required")
		return
	}

	book := &entities.Book{
		Title:         req.Title,
		Author:        req.Author,
		Description:   req.Description,
		ISBN:          req.ISBN,
		PublishedYear: req.PublishedYear,
		PageCount:     req.PageCount,
		Language:      req.Language,
		Genre:         req.Genre,
		CoverImage:    req.CoverImage,
		Available:     true,
	}
	if err := bc.books.Create(book); err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	respondCreated(c, gin.H{"book": book})
}

type bulkImportRequest struct {
	Books []createBookRequest `json:"books" binding:"required"`
}

// BulkImport handles POST /api/admin/books/import. Admin only.
// Duplicates (same title or ISBN) are skipped, not errors.
func (bc *BooksController) BulkImport(c *gin.Context) {
	var req bulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "books array is required")
		return
	}

	incoming := make([]entities.Book, 0, len(req.Books))
	for _, b := range req.Books {
		incoming = append(incoming, entities.Book{
			Title:         b.Title,
			Author:        b.Author,
			Description:   b.Description,
			ISBN:          b.ISBN,
			PublishedYear: b.PublishedYear,
			PageCount:     b.PageCount,
			Language:      b.Language,
			Genre:         b.Genre,
			CoverImage:    b.CoverImage,
			Available:     true,
		})
	}

	result, err := bc.books.BulkImport(incoming)
	if err != nil {
		respondInternalError(c, err, "bulk import books")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Delete handles DELETE /api/admin/books/:id. Admin only, soft delete.
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.books.SoftDelete(id); err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}

	respondSuccess(c, "book removed from catalog")
}

type addReviewRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Text   string `json:"text"`
}

// AddReview handles POST /api/books/:id/reviews.
func (bc *BooksController) AddReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req addReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "rating is required")
		return
	}

	review, err := bc.books.AddReview(id, auth.GetUserID(c), req.Rating, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, books.ErrBookNotFound):
			respondNotFound(c, "book")
		case errors.Is(err, books.ErrInvalidRating):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "add review")
		}
		return
	}

	respondCreated(c, gin.H{"review": review})
}
