package config

import (
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // No authentication required (development only)
	AuthModeLocal AuthMode = "local" // Local user database with sessions
)

type (
	Config struct {
		HTTP
		Global
		Database
		Lending
		Notifications
		Images
		Tasks
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Path string
	}

	Lending struct {
		LoanPeriod          time.Duration // Time between borrow and due date
		OverdueScanSchedule string        // Cron format: "0 9 * * *" = daily at 09:00
	}

	Notifications struct {
		RetentionDays   int    // Days to keep read notifications
		CleanupSchedule string // Cron format
	}

	Images struct {
		BaseURL      string // Image host API base URL
		CloudName    string
		UploadPreset string // Unsigned upload preset
		MaxSizeBytes int64  // Maximum accepted upload size
	}

	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}

	Auth struct {
		Mode            AuthMode
		SessionSecret   string
		SessionLifetime time.Duration
		TokenExpiry     time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS

		// Rate limiting configuration
		MaxLoginAttempts int           // Max failed attempts before lockout
		RateLimitWindow  time.Duration // Time window for counting attempts
		LockoutDuration  time.Duration // How long to lock out
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Lending defaults
	v.SetDefault("lending_loan_period", DefaultLoanPeriod)
	v.SetDefault("lending_overdue_scan_schedule", "0 9 * * *") // Daily at 09:00

	// Notification defaults
	v.SetDefault("notifications_retention_days", 90)
	v.SetDefault("notifications_cleanup_schedule", "30 3 * * *")

	// Image host defaults
	v.SetDefault("images_base_url", "https://api.cloudinary.com/v1_1")
	v.SetDefault("images_cloud_name", "")
	v.SetDefault("images_upload_preset", "")
	v.SetDefault("images_max_size_bytes", 10<<20) // 10 MiB

	// Auth defaults
	v.SetDefault("auth_mode", "local")
	v.SetDefault("auth_session_secret", "") // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_token_expiry", "720h") // 30 days
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Lending: Lending{
			LoanPeriod:          v.GetDuration("LENDING_LOAN_PERIOD"),
			OverdueScanSchedule: v.GetString("LENDING_OVERDUE_SCAN_SCHEDULE"),
		},
		Notifications: Notifications{
			RetentionDays:   v.GetInt("NOTIFICATIONS_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("NOTIFICATIONS_CLEANUP_SCHEDULE"),
		},
		Images: Images{
			BaseURL:      v.GetString("IMAGES_BASE_URL"),
			CloudName:    v.GetString("IMAGES_CLOUD_NAME"),
			UploadPreset: v.GetString("IMAGES_UPLOAD_PRESET"),
			MaxSizeBytes: v.GetInt64("IMAGES_MAX_SIZE_BYTES"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Auth: Auth{
			Mode:             AuthMode(v.GetString("AUTH_MODE")),
			SessionSecret:    v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			TokenExpiry:      v.GetDuration("AUTH_TOKEN_EXPIRY"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
	}
}
