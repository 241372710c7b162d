package entities

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedByID uint      `gorm:"index" json:"created_by_id"`
	Title       string    `gorm:"size:300" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Location    string    `gorm:"size:300" json:"location,omitempty"`
	StartsAt    time.Time `gorm:"index" json:"starts_at"`

	// Capacity 0 means unlimited.
	Capacity   int    `gorm:"default:0" json:"capacity"`
	CoverImage string `gorm:"size:2048" json:"cover_image,omitempty"`

	CreatedBy User         `gorm:"foreignKey:CreatedByID" json:"-"`
	RSVPs     []EventRSVP  `gorm:"foreignKey:EventID" json:"rsvps,omitempty"`
	Photos    []EventPhoto `gorm:"foreignKey:EventID" json:"photos,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Event) TableName() string {
	return "events"
}

type EventRSVP struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	EventID uint `gorm:"uniqueIndex:idx_event_user;index" json:"event_id"`
	UserID  uint `gorm:"uniqueIndex:idx_event_user;index" json:"user_id"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (EventRSVP) TableName() string {
	return "event_rsvps"
}

type EventPhoto struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	EventID  uint   `gorm:"index" json:"event_id"`
	UserID   uint   `gorm:"index" json:"user_id"`
	URL      string `gorm:"size:2048" json:"url"`
	PublicID string `gorm:"size:256" json:"public_id,omitempty"`
	Caption  string `gorm:"size:500" json:"caption,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (EventPhoto) TableName() string {
	return "event_photos"
}
