package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/muhammedbesir/okuyamayanlar/internal/auth"
	"github.com/muhammedbesir/okuyamayanlar/internal/badges"
	"github.com/muhammedbesir/okuyamayanlar/internal/config"
	"github.com/muhammedbesir/okuyamayanlar/internal/database"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/books"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/events"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/forum"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/notifications"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/users"
	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
	"github.com/muhammedbesir/okuyamayanlar/internal/lending"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testApp is the full application stack against a throwaway database.
type testApp struct {
	router *gin.Engine
	db     *database.Database
	auth   *auth.Service
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "okuyamayanlar.db")
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	authCfg := config.Auth{
		Mode:             config.AuthModeLocal,
		BcryptCost:       4,
		TokenExpiry:      time.Hour,
		SessionLifetime:  time.Hour,
		MaxLoginAttempts: 5,
		LockoutDuration:  30 * time.Minute,
	}

	authService := auth.NewService(db.DB, authCfg)
	authMiddleware := auth.NewMiddleware(authService, nil, authCfg)

	notifs := notifications.NewRepository(db.DB)

	router := NewRouter(RouterConfig{
		Database:       db,
		Books:          books.NewRepository(db.DB),
		Forum:          forum.NewRepository(db.DB),
		Events:         events.NewRepository(db.DB),
		Notifications:  notifs,
		Users:          users.NewRepository(db.DB),
		Lending:        lending.NewService(db.DB, 14*24*time.Hour),
		Badges:         badges.NewService(db.DB, notifs),
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		AuthConfig:     authCfg,
		Version:        "test",
	})

	return &testApp{router: router, db: db, auth: authService}
}

// signUp creates a member and returns their Bearer token. The first call
// per test database yields an admin.
func (app *testApp) signUp(t *testing.T, username string) (uint, string) {
	t.Helper()

	user, err := app.auth.SignUp(username, username+"@example.com", "", "parola123")
	require.NoError(t, err)

	token, err := app.auth.GenerateToken(user.ID)
	require.NoError(t, err)

	return user.ID, token
}

func (app *testApp) addBook(t *testing.T, title string) *entities.Book {
	t.Helper()

	book := &entities.Book{Title: title, Author: "Test Yazar", Available: true}
	require.NoError(t, app.db.DB.Create(book).Error)
	return book
}

// request performs a JSON request, optionally authenticated.
func (app *testApp) request(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	w := app.request(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status": "healthy"`)
}
