package entities

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleMember UserRole = "member"
)

type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Username     string   `gorm:"uniqueIndex;size:100" json:"username"`
	Email        string   `gorm:"uniqueIndex;size:255" json:"email"`
	Name         string   `gorm:"size:200" json:"name,omitempty"`
	PasswordHash string   `gorm:"size:255" json:"-"`
	Role         UserRole `gorm:"size:20;default:'member'" json:"role"`

	Bio       string `gorm:"size:1000" json:"bio,omitempty"`
	AvatarURL string `gorm:"size:2048" json:"avatar_url,omitempty"`

	// Moderation
	Banned   bool       `gorm:"default:false" json:"banned"`
	BannedAt *time.Time `json:"banned_at,omitempty"`

	// API token (hash only, plaintext shown once)
	TokenHash      string     `gorm:"index;size:64" json:"-"`
	TokenCreatedAt *time.Time `json:"-"`

	// Login tracking
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	FailedLoginCount int        `gorm:"default:0" json:"-"`
	LockedUntil      *time.Time `json:"-"`

	Badges []Badge `gorm:"many2many:user_badges;" json:"badges,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

type Badge struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:100" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	Icon        string `gorm:"size:16" json:"icon,omitempty"`
	Color       string `gorm:"size:10" json:"color,omitempty"`

	// Source counter the threshold applies to: "loans", "replies", "events".
	// Special badges have no source and are granted manually by admins.
	Source      BadgeSource `gorm:"size:20" json:"source,omitempty"`
	Requirement int         `json:"requirement,omitempty"`
	IsSpecial   bool        `gorm:"default:false" json:"is_special"`
	IsImportant bool        `gorm:"default:false" json:"is_important"`
	SortOrder   int         `json:"sort_order"`

	CreatedAt time.Time `json:"created_at"`
}

type BadgeSource string

const (
	BadgeSourceLoans   BadgeSource = "loans"
	BadgeSourceReplies BadgeSource = "replies"
	BadgeSourceEvents  BadgeSource = "events"
)

func (Badge) TableName() string {
	return "badges"
}

type UserBadge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_badge;index" json:"user_id"`
	BadgeID   uint      `gorm:"uniqueIndex:idx_user_badge" json:"badge_id"`
	AwardedAt time.Time `json:"awarded_at"`
	Badge     Badge     `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
