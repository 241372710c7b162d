package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muhammedbesir/okuyamayanlar/internal/auth"
	"github.com/muhammedbesir/okuyamayanlar/internal/badges"
	"github.com/muhammedbesir/okuyamayanlar/internal/config"
	"github.com/muhammedbesir/okuyamayanlar/internal/database"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/books"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/events"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/forum"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/notifications"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/users"
	http_controllers "github.com/muhammedbesir/okuyamayanlar/internal/http"
	"github.com/muhammedbesir/okuyamayanlar/internal/images"
	"github.com/muhammedbesir/okuyamayanlar/internal/lending"
	"github.com/muhammedbesir/okuyamayanlar/internal/scheduler"
	"github.com/muhammedbesir/okuyamayanlar/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then drains it within
// the configured shutdown timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before refusing new connections
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the full application and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Okuyamayanlar v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories
	booksRepo := books.NewRepository(db.DB)
	forumRepo := forum.NewRepository(db.DB)
	eventsRepo := events.NewRepository(db.DB)
	notifsRepo := notifications.NewRepository(db.DB)
	usersRepo := users.NewRepository(db.DB)

	// Domain services
	lendingService := lending.NewService(db.DB, cfg.Lending.LoanPeriod)
	badgesService := badges.NewService(db.DB, notifsRepo)

	imagesClient := images.NewClient(cfg.Images)
	if !imagesClient.IsConfigured() {
		log.Printf("WARNING: Image host is not configured. Uploads will be disabled. Set 'IMAGES_CLOUD_NAME' and 'IMAGES_UPLOAD_PRESET' to enable.")
	}

	// Task queue and scheduler
	var taskClient *tasks.Client
	var sched *scheduler.Scheduler
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewOverdueScanQueue(lendingService, notifsRepo),
			tasks.NewCleanupNotificationsQueue(notifsRepo),
			tasks.NewBadgeRecountQueue(badgesService),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		sched = scheduler.New(taskClient, cfg.Lending, cfg.Notifications)
		if err := sched.Start(taskCtx); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
	}

	// Authentication
	var authService *auth.Service
	var authMiddleware *auth.Middleware
	var sessionManager *auth.SessionManager
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		authService = auth.NewService(db.DB, cfg.Auth)

		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}

		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		authMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)

		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, _ = hex.DecodeString(secret)
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		}

		hasUsers, _ := authService.HasUsers()
		if !hasUsers {
			log.Printf("No users found. The first signup becomes the administrator.")
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		Books:          booksRepo,
		Forum:          forumRepo,
		Events:         eventsRepo,
		Notifications:  notifsRepo,
		Users:          usersRepo,
		Lending:        lendingService,
		Badges:         badgesService,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		SessionManager: sessionManager,
		AuthConfig:     cfg.Auth,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		Images:         imagesClient,
		TaskClient:     taskClient,
		Scheduler:      sched,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if sched != nil {
			sched.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
