package http

import (
	"github.com/gin-gonic/gin"

	"github.com/muhammedbesir/okuyamayanlar/internal/auth"
	"github.com/muhammedbesir/okuyamayanlar/internal/config"
	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
)

// NewRouter creates and configures the HTTP router with all endpoints.
//
// Route access is layered: catalog, forum and event reads are public;
// anything that writes requires a session or Bearer token; suspended
// members lose write access; /api/admin is role-gated.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so the session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AuthService))
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	authMw := cfg.AuthMiddleware
	if authMw == nil {
		authMw = auth.NewMiddleware(nil, nil, config.Auth{Mode: config.AuthModeNone})
	}
	router.Use(authMw.Handler())

	// Controllers
	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Books)
	lendingController := NewLendingController(cfg.Lending, cfg.TaskClient)
	forumController := NewForumController(cfg.Forum, cfg.Notifications, cfg.TaskClient)
	eventsController := NewEventsController(cfg.Events, cfg.Notifications, cfg.TaskClient)
	notificationsController := NewNotificationsController(cfg.Notifications)
	usersController := NewUsersController(cfg.Users, cfg.Scheduler)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := router.Group("/api")

	// Writes require an account in good standing
	member := api.Group("", authMw.RequireAuth(), authMw.DenyBanned())

	// Admin endpoints are role-gated (bans do not apply to admins)
	admin := api.Group("/admin", authMw.RequireRole(entities.UserRoleAdmin))

	// Auth endpoints
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		authController := auth.NewController(cfg.AuthService, cfg.SessionManager, cfg.AuthConfig)
		authController.RegisterRoutes(api, member)
	}

	// Catalog: public reads
	api.GET("/books", booksController.List)
	api.GET("/books/genres", booksController.Genres)
	api.GET("/books/:id", booksController.Get)

	// Catalog: member writes
	member.POST("/books/:id/reviews", booksController.AddReview)

	// Lending
	member.POST("/books/:id/borrow", lendingController.Borrow)
	member.POST("/books/:id/return", lendingController.Return)
	member.GET("/loans/mine", lendingController.MyLoans)

	// Forum
	api.GET("/forum/topics", forumController.ListTopics)
	api.GET("/forum/topics/:id", forumController.GetTopic)
	member.POST("/forum/topics", forumController.CreateTopic)
	member.POST("/forum/topics/:id/replies", forumController.AddReply)
	member.DELETE("/forum/topics/:id", forumController.DeleteTopic)

	// Events
	api.GET("/events", eventsController.List)
	api.GET("/events/:id", eventsController.Get)
	member.POST("/events/:id/rsvp", eventsController.RSVP)
	member.DELETE("/events/:id/rsvp", eventsController.CancelRSVP)
	member.POST("/events/:id/photos", eventsController.AddPhoto)

	// Member directory and notifications
	member.GET("/users", usersController.List)
	member.GET("/users/:id", usersController.Get)
	member.GET("/notifications", notificationsController.List)
	member.GET("/notifications/unread-count", notificationsController.UnreadCount)
	member.POST("/notifications/:id/read", notificationsController.MarkRead)
	member.POST("/notifications/read-all", notificationsController.MarkAllRead)

	// Image uploads
	if cfg.Images != nil {
		uploadsController := NewUploadsController(cfg.Images)
		member.POST("/uploads", uploadsController.Upload)
	}

	// Admin: catalog curation and moderation
	admin.POST("/books", booksController.Create)
	admin.POST("/books/import", booksController.BulkImport)
	admin.DELETE("/books/:id", booksController.Delete)
	admin.POST("/events", eventsController.Create)
	admin.POST("/users/:id/ban", usersController.Ban)
	admin.POST("/users/:id/unban", usersController.Unban)
	admin.POST("/users/:id/badges/:badgeId", usersController.GrantBadge)
	admin.POST("/tasks/overdue-scan", usersController.RunOverdueScan)

	return router
}
