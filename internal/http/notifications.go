package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhammedbesir/okuyamayanlar/internal/auth"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/notifications"
)

// NotificationsController serves a member's in-app notification feed.
type NotificationsController struct {
	notifications *notifications.Repository
}

func NewNotificationsController(repo *notifications.Repository) *NotificationsController {
	return &NotificationsController{notifications: repo}
}

// List handles GET /api/notifications. Unread only with ?unread=true.
func (nc *NotificationsController) List(c *gin.Context) {
	limit, _ := parsePagination(c, 50, 200)
	unreadOnly := c.Query("unread") == "true"

	items, err := nc.notifications.ListForUser(auth.GetUserID(c), unreadOnly, limit)
	if err != nil {
		respondInternalError(c, err, "list notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

// UnreadCount handles GET /api/notifications/unread-count.
func (nc *NotificationsController) UnreadCount(c *gin.Context) {
	count, err := nc.notifications.UnreadCount(auth.GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "unread count")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkRead handles POST /api/notifications/:id/read.
// Members can only mark their own notifications.
func (nc *NotificationsController) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := nc.notifications.MarkRead(id, auth.GetUserID(c)); err != nil {
		if errors.Is(err, notifications.ErrNotificationNotFound) {
			respondNotFound(c, "notification")
			return
		}
		respondInternalError(c, err, "mark notification read")
		return
	}

	respondSuccess(c, "notification marked read")
}

// MarkAllRead handles POST /api/notifications/read-all.
func (nc *NotificationsController) MarkAllRead(c *gin.Context) {
	count, err := nc.notifications.MarkAllRead(auth.GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "mark all read")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "notifications marked read",
		Data:    gin.H{"count": count},
	})
}
