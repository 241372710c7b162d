package entities

import "time"

type NotificationType string

const (
	NotificationForumReply  NotificationType = "forum_reply"
	NotificationBadgeAward  NotificationType = "badge_award"
	NotificationLoanOverdue NotificationType = "loan_overdue"
	NotificationEventRSVP   NotificationType = "event_rsvp"
)

type Notification struct {
	ID     uint             `gorm:"primaryKey" json:"id"`
	UserID uint             `gorm:"index" json:"user_id"`
	Type   NotificationType `gorm:"index;size:30" json:"type"`
	Title  string           `gorm:"size:300" json:"title"`
	Body   string           `gorm:"size:1000" json:"body,omitempty"`
	Link   string           `gorm:"size:500" json:"link,omitempty"`

	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
