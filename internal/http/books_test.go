package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookCatalog(t *testing.T) {
	app := newTestApp(t)
	_, adminToken := app.signUp(t, "yonetici")
	_, memberToken := app.signUp(t, "uye")

	t.Run("admin creates a book", func(t *testing.T) {
		w := app.request(http.MethodPost, "/api/admin/books", adminToken, map[string]any{
			"title":  "Beyaz Kale",
			"author": "Orhan Pamuk",
			"genre":  "Roman",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("member cannot create a book", func(t *testing.T) {
		w := app.request(http.MethodPost, "/api/admin/books", memberToken, map[string]any{
			"title":  "İzinsiz Kitap",
			"author": "Kimse",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing author is rejected", func(t *testing.T) {
		w := app.request(http.MethodPost, "/api/admin/books", adminToken, map[string]any{"title": "Yazarsız"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("catalog is public and paginated", func(t *testing.T) {
		w := app.request(http.MethodGet, "/api/books?q=beyaz", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []struct {
				Title string `json:"title"`
			} `json:"data"`
			Total int64 `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.EqualValues(t, 1, resp.Total)
		assert.Equal(t, "Beyaz Kale", resp.Data[0].Title)
	})

	t.Run("detail includes overdue flag", func(t *testing.T) {
		book := app.addBook(t, "İnce Memed")

		w := app.request(http.MethodGet, fmt.Sprintf("/api/books/%d", book.ID), "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"overdue":false`)
	})

	t.Run("unknown book is 404", func(t *testing.T) {
		w := app.request(http.MethodGet, "/api/books/99999", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBulkImport(t *testing.T) {
	app := newTestApp(t)
	_, adminToken := app.signUp(t, "yonetici")
	app.addBook(t, "Mevcut Kitap")

	w := app.request(http.MethodPost, "/api/admin/books/import", adminToken, map[string]any{
		"books": []map[string]any{
			{"title": "Mevcut Kitap", "author": "Test Yazar"},
			{"title": "Yeni Kitap", "author": "Yeni Yazar"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Added   int `json:"added"`
		Skipped int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Skipped)
}

func TestReviews(t *testing.T) {
	app := newTestApp(t)
	_, token := app.signUp(t, "okuyucu")
	book := app.addBook(t, "Puslu Kıtalar Atlası")

	reviewPath := fmt.Sprintf("/api/books/%d/reviews", book.ID)

	t.Run("valid review is recorded", func(t *testing.T) {
		w := app.request(http.MethodPost, reviewPath, token, map[string]any{
			"rating": 5,
			"text":   "Harika bir kitap.",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("rating outside 1-5 is rejected", func(t *testing.T) {
		w := app.request(http.MethodPost, reviewPath, token, map[string]any{"rating": 6})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("anonymous cannot review", func(t *testing.T) {
		w := app.request(http.MethodPost, reviewPath, "", map[string]any{"rating": 4})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestBookDeletion(t *testing.T) {
	app := newTestApp(t)
	_, adminToken := app.signUp(t, "yonetici")
	book := app.addBook(t, "Silinecek Kitap")

	w := app.request(http.MethodDelete, fmt.Sprintf("/api/admin/books/%d", book.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(http.MethodGet, fmt.Sprintf("/api/books/%d", book.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
