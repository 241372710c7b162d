package books

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	t.Helper()

	dbPath := "./test_books_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.Book{}, &entities.Review{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func TestRepository_List(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, db.Create(&entities.Book{Title: "Kuyucaklı Yusuf", Author: "Sabahattin Ali", Genre: "Türk Klasikleri", Available: true}).Error)
	require.NoError(t, db.Create(&entities.Book{Title: "İçimizdeki Şeytan", Author: "Sabahattin Ali", Genre: "Türk Klasikleri", Available: true}).Error)
	require.NoError(t, db.Create(&entities.Book{Title: "Gezgin", Author: "Kahlil Gibran", Genre: "Felsefe", Available: true}).Error)

	t.Run("no filter returns everything", func(t *testing.T) {
		books, total, err := repo.List(ListFilter{})
		require.NoError(t, err)
		assert.Len(t, books, 3)
		assert.EqualValues(t, 3, total)
	})

	t.Run("filters by genre", func(t *testing.T) {
		books, total, err := repo.List(ListFilter{Genre: "Felsefe"})
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, "Gezgin", books[0].Title)
	})

	t.Run("search matches author", func(t *testing.T) {
		books, _, err := repo.List(ListFilter{Search: "Sabahattin"})
		require.NoError(t, err)
		assert.Len(t, books, 2)
	})

	t.Run("pagination caps results but not the total", func(t *testing.T) {
		books, total, err := repo.List(ListFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, books, 2)
		assert.EqualValues(t, 3, total)
	})
}

func TestRepository_BulkImport(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, db.Create(&entities.Book{Title: "Existing", ISBN: "9780000000001", Available: true}).Error)

	result, err := repo.BulkImport([]entities.Book{
		{Title: "Existing"},                          // duplicate by title
		{Title: "Other name", ISBN: "9780000000001"}, // duplicate by ISBN
		{Title: "Brand New", Author: "Someone"},
		{Title: ""}, // invalid
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 2, result.Skipped)
	assert.Len(t, result.Errors, 1)

	var imported entities.Book
	require.NoError(t, db.Where("title = ?", "Brand New").First(&imported).Error)
	assert.True(t, imported.Available, "imported books start available")
}

func TestRepository_AddReview(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := &entities.Book{Title: "Uçurtma Avcısı", Available: true}
	require.NoError(t, db.Create(book).Error)
	user := &entities.User{Username: "mehmet", Email: "mehmet@example.com"}
	require.NoError(t, db.Create(user).Error)

	t.Run("stores a valid review", func(t *testing.T) {
		review, err := repo.AddReview(book.ID, user.ID, 5, "Harika bir kitap")
		require.NoError(t, err)
		assert.Equal(t, 5, review.Rating)

		got, err := repo.GetByID(book.ID)
		require.NoError(t, err)
		assert.Len(t, got.Reviews, 1)
	})

	t.Run("rejects out-of-range rating", func(t *testing.T) {
		_, err := repo.AddReview(book.ID, user.ID, 6, "")
		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("rejects unknown book", func(t *testing.T) {
		_, err := repo.AddReview(9999, user.ID, 3, "")
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

func TestRepository_SoftDelete(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := &entities.Book{Title: "Retired", Available: true}
	require.NoError(t, db.Create(book).Error)

	require.NoError(t, repo.SoftDelete(book.ID))

	_, err := repo.GetByID(book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	// Row survives for historical references.
	var count int64
	db.Unscoped().Model(&entities.Book{}).Where("id = ?", book.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	assert.ErrorIs(t, repo.SoftDelete(book.ID), ErrBookNotFound)
}
