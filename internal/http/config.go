package http

import (
	"github.com/muhammedbesir/okuyamayanlar/internal/auth"
	"github.com/muhammedbesir/okuyamayanlar/internal/badges"
	"github.com/muhammedbesir/okuyamayanlar/internal/config"
	"github.com/muhammedbesir/okuyamayanlar/internal/database"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/books"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/events"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/forum"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/notifications"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/users"
	"github.com/muhammedbesir/okuyamayanlar/internal/images"
	"github.com/muhammedbesir/okuyamayanlar/internal/lending"
	"github.com/muhammedbesir/okuyamayanlar/internal/scheduler"
	"github.com/muhammedbesir/okuyamayanlar/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database

	// Feature stores
	Books         *books.Repository
	Forum         *forum.Repository
	Events        *events.Repository
	Notifications *notifications.Repository
	Users         *users.Repository

	// Domain services
	Lending *lending.Service
	Badges  *badges.Service

	// Authentication (all nil when auth mode is "none")
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	AuthConfig     config.Auth
	CSRFSecret     []byte
	SecureCookies  bool

	// Image uploads (optional)
	Images *images.Client

	// Task queue (optional)
	TaskClient *tasks.Client
	Scheduler  *scheduler.Scheduler

	// Application info
	Version string
}
