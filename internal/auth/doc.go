// Package auth provides authentication and authorization for the club.
//
// It supports two authentication modes:
//   - "none": no authentication (local development), all requests use a default user ID
//   - "local": local member database with session cookies for the web client
//     and Bearer tokens for API access
//
// # Configuration
//
// Set AUTH_MODE environment variable to select the mode:
//
//	AUTH_MODE=none   # No auth required
//	AUTH_MODE=local  # Default, requires signup and login
//
// For local mode, additional configuration:
//
//	AUTH_SESSION_SECRET=<hex-32-bytes>  # Auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h           # Session duration
//	AUTH_TOKEN_EXPIRY=720h              # API token expiry (30 days default)
//	AUTH_BCRYPT_COST=12                 # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true            # HTTPS-only cookies
//
// # Usage
//
// Initialize authentication in entrypoint:
//
//	authService := auth.NewService(db, cfg.Auth)
//	authMiddleware := auth.NewMiddleware(authService, sessionManager, cfg.Auth)
//	router.Use(authMiddleware.Handler())
//
// Extract the caller in handlers:
//
//	userID := auth.GetUserID(c)  // 0 when anonymous
package auth
