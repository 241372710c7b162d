// Package users provides database operations for member administration:
// listing, bans and manual badge grants.
package users

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrBadgeNotFound  = errors.New("badge not found")
	ErrAlreadyAwarded = errors.New("badge already awarded")
)

// Repository handles member administration database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all members with their badges, newest accounts first.
func (r *Repository) List(limit, offset int) ([]entities.User, int64, error) {
	var total int64
	if err := r.db.Model(&entities.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.Preload("Badges").Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var users []entities.User
	err := query.Find(&users).Error
	return users, total, err
}

// GetByID returns one member with badges preloaded.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.Preload("Badges").First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetBanned bans or unbans a member. Banned members can still sign in but
// every mutating request is rejected by the middleware.
func (r *Repository) SetBanned(userID uint, banned bool) error {
	updates := map[string]any{"banned": banned}
	if banned {
		updates["banned_at"] = time.Now()
	} else {
		updates["banned_at"] = nil
	}

	result := r.db.Model(&entities.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GrantBadge manually awards a badge (used by admins for special badges).
// Awarding is idempotent per user and badge.
func (r *Repository) GrantBadge(userID, badgeID uint) (*entities.UserBadge, error) {
	var user entities.User
	if err := r.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var badge entities.Badge
	if err := r.db.First(&badge, badgeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadgeNotFound
		}
		return nil, err
	}

	var existing entities.UserBadge
	err := r.db.Where("user_id = ? AND badge_id = ?", userID, badgeID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyAwarded
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	award := &entities.UserBadge{
		UserID:    userID,
		BadgeID:   badgeID,
		AwardedAt: time.Now(),
		Badge:     badge,
	}
	if err := r.db.Create(award).Error; err != nil {
		return nil, err
	}
	return award, nil
}
