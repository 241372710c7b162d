package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhammedbesir/okuyamayanlar/internal/config"
)

// Controller handles authentication HTTP endpoints.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
	config         config.Auth
	rateLimiter    *RateLimiter
}

// NewController creates a new authentication controller.
func NewController(service *Service, sessionManager *SessionManager, cfg config.Auth) *Controller {
	rateLimiter := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     cfg.MaxLoginAttempts,
		WindowDuration:  cfg.RateLimitWindow,
		LockoutDuration: cfg.LockoutDuration,
	})

	return &Controller{
		service:        service,
		sessionManager: sessionManager,
		config:         cfg,
		rateLimiter:    rateLimiter,
	}
}

// RegisterRoutes registers authentication routes.
// The authed group must require an authenticated caller.
func (ac *Controller) RegisterRoutes(public, authed gin.IRouter) {
	public.POST("/auth/signup", ac.SignUp)
	public.POST("/auth/login", ac.Login)
	public.POST("/auth/logout", ac.Logout)

	authed.GET("/auth/me", ac.Me)
	authed.PATCH("/auth/me", ac.UpdateProfile)
	authed.POST("/auth/password", ac.ChangePassword)
	authed.POST("/auth/token", ac.GenerateToken)
	authed.DELETE("/auth/token", ac.RevokeToken)
}

// Stop cleans up resources (rate limiter background goroutine).
func (ac *Controller) Stop() {
	if ac.rateLimiter != nil {
		ac.rateLimiter.Stop()
	}
}

type signUpRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
}

// SignUp registers a new member and opens a session for them.
func (ac *Controller) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and password are required"})
		return
	}

	user, err := ac.service.SignUp(req.Username, req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, ErrUsernameInvalid),
			errors.Is(err, ErrEmailInvalid),
			errors.Is(err, ErrUsernameRequired),
			errors.Is(err, ErrEmailRequired),
			errors.Is(err, ErrPasswordRequired),
			errors.Is(err, ErrPasswordTooShort),
			errors.Is(err, ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		}
		return
	}

	if ac.sessionManager != nil {
		_ = ac.sessionManager.CreateSession(c.Request, user)
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login validates credentials and opens a session.
func (ac *Controller) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	clientIP := c.ClientIP()

	if ac.rateLimiter != nil {
		allowed, retryAfter := ac.rateLimiter.Allow(clientIP, req.Username)
		if !allowed {
			c.Header("Retry-After", retryAfter.String())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many login attempts",
				"retry_after": retryAfter.String(),
			})
			return
		}
	}

	user, err := ac.service.Authenticate(req.Username, req.Password)
	if err != nil {
		if ac.rateLimiter != nil {
			ac.rateLimiter.RecordFailure(clientIP, req.Username)
		}

		switch {
		case errors.Is(err, ErrAccountLocked):
			c.JSON(http.StatusForbidden, gin.H{"error": ErrAccountLocked.Error()})
		case errors.Is(err, ErrUserBanned):
			c.JSON(http.StatusForbidden, gin.H{"error": ErrUserBanned.Error()})
		default:
			// Not-found and wrong-password are indistinguishable on purpose
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		}
		return
	}

	if ac.rateLimiter != nil {
		ac.rateLimiter.RecordSuccess(clientIP, req.Username)
	}

	if ac.sessionManager != nil {
		if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout destroys the current session.
func (ac *Controller) Logout(c *gin.Context) {
	if ac.sessionManager != nil {
		_ = ac.sessionManager.DestroySession(c.Request)
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated member's profile.
func (ac *Controller) Me(c *gin.Context) {
	user, err := ac.service.GetUserByID(GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type updateProfileRequest struct {
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// UpdateProfile changes display name, bio and avatar of the caller.
func (ac *Controller) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := ac.service.UpdateProfile(GetUserID(c), req.Name, req.Bio, req.AvatarURL)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword updates the caller's password.
func (ac *Controller) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "old_password and new_password are required"})
		return
	}

	err := ac.service.ChangePassword(GetUserID(c), req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPassword):
			c.JSON(http.StatusForbidden, gin.H{"error": "old password is incorrect"})
		case errors.Is(err, ErrPasswordTooShort), errors.Is(err, ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to change password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

// GenerateToken creates a new API token for the caller.
func (ac *Controller) GenerateToken(c *gin.Context) {
	token, err := ac.service.GenerateToken(GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"message": "store this token securely - it will not be shown again",
	})
}

// RevokeToken revokes the caller's API token.
func (ac *Controller) RevokeToken(c *gin.Context) {
	if err := ac.service.RevokeToken(GetUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token revoked"})
}
