package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthStack(t *testing.T) (*gin.Engine, *Controller, func()) {
	t.Helper()

	db, svc, cleanupDB := setupTestService(t)

	sqlDB, err := db.DB()
	require.NoError(t, err)

	cfg := localAuthConfig()
	sessionManager, err := NewSessionManager(sqlDB, cfg)
	require.NoError(t, err)

	mw := NewMiddleware(svc, sessionManager, cfg)
	controller := NewController(svc, sessionManager, cfg)

	router := gin.New()
	router.Use(sessionManager.SessionLoadSave())
	router.Use(mw.Handler())

	api := router.Group("/api")
	authed := api.Group("", mw.RequireAuth())
	controller.RegisterRoutes(api, authed)

	cleanup := func() {
		controller.Stop()
		cleanupDB()
	}

	return router, controller, cleanup
}

func TestSignUpEndpoint(t *testing.T) {
	router, _, cleanup := setupAuthStack(t)
	defer cleanup()

	body := `{"username":"muhammed","email":"muhammed@example.com","name":"Muhammed","password":"parola123"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotEmpty(t, w.Result().Cookies(), "signup should open a session")

	// Duplicate username is a conflict
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	router, _, cleanup := setupAuthStack(t)
	defer cleanup()

	signup := `{"username":"muhammed","email":"muhammed@example.com","password":"parola123"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(signup))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"muhammed","password":"parola123"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Result().Cookies())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"muhammed","password":"yanlis"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRateLimit(t *testing.T) {
	router, _, cleanup := setupAuthStack(t)
	defer cleanup()

	signup := `{"username":"muhammed","email":"muhammed@example.com","password":"parola123"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(signup))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	bad := `{"username":"muhammed","password":"yanlis"}`
	for i := 0; i < 5; i++ {
		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(bad))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(bad))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestMeWithSessionCookie(t *testing.T) {
	router, _, cleanup := setupAuthStack(t)
	defer cleanup()

	signup := `{"username":"muhammed","email":"muhammed@example.com","password":"parola123"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(signup))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"muhammed"`)

	// Anonymous gets 401
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutDestroysSession(t *testing.T) {
	router, _, cleanup := setupAuthStack(t)
	defer cleanup()

	signup := `{"username":"muhammed","email":"muhammed@example.com","password":"parola123"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(signup))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	cookies := w.Result().Cookies()

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Old cookie no longer authenticates
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
