// Package notifications provides database operations for in-app
// notifications: forum replies, badge awards, overdue reminders.
package notifications

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Repository handles all notification database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new notifications repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Notify creates a notification for a user.
func (r *Repository) Notify(userID uint, typ entities.NotificationType, title, body, link string) (*entities.Notification, error) {
	n := &entities.Notification{
		UserID: userID,
		Type:   typ,
		Title:  title,
		Body:   body,
		Link:   link,
	}
	if err := r.db.Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// ListForUser returns a member's notifications newest-first. When unreadOnly
// is set, read notifications are filtered out.
func (r *Repository) ListForUser(userID uint, unreadOnly bool, limit int) ([]entities.Notification, error) {
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var notifications []entities.Notification
	err := query.Find(&notifications).Error
	return notifications, err
}

// UnreadCount returns the number of unread notifications for a member.
func (r *Repository) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// MarkRead marks one notification as read. The user filter keeps members
// from touching each other's notifications.
func (r *Repository) MarkRead(id, userID uint) error {
	result := r.db.Model(&entities.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		Update("read_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification for the user as read.
func (r *Repository) MarkAllRead(userID uint) (int64, error) {
	result := r.db.Model(&entities.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", time.Now())
	return result.RowsAffected, result.Error
}

// DeleteOldRead removes read notifications older than the retention period.
// Called by the background cleanup task.
func (r *Repository) DeleteOldRead(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := r.db.Where("read_at IS NOT NULL AND created_at < ?", cutoff).
		Delete(&entities.Notification{})
	return result.RowsAffected, result.Error
}
