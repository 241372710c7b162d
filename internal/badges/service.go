// Package badges awards milestone badges from member activity counters.
//
// Threshold badges are derived state: Recount compares a member's finished
// loans, forum replies and event RSVPs against the badge catalog and inserts
// any award that is missing. Re-running it is safe; the (user, badge) unique
// index keeps awards single.
package badges

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
)

// Notifier lets the service announce new awards without depending on the
// notifications package directly.
type Notifier interface {
	Notify(userID uint, typ entities.NotificationType, title, body, link string) (*entities.Notification, error)
}

// Service computes and persists badge awards.
type Service struct {
	db       *gorm.DB
	notifier Notifier
}

// NewService creates a badge service. The notifier may be nil in tests.
func NewService(db *gorm.DB, notifier Notifier) *Service {
	return &Service{db: db, notifier: notifier}
}

// Recount re-derives a member's threshold badges and awards any newly earned
// ones. Returns the badges awarded by this call.
func (s *Service) Recount(userID uint) ([]entities.Badge, error) {
	counters, err := s.counters(userID)
	if err != nil {
		return nil, err
	}

	var candidates []entities.Badge
	err = s.db.Where("is_special = ? AND requirement > 0", false).
		Order("sort_order ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load badge catalog: %w", err)
	}

	var awarded []entities.Badge
	for _, badge := range candidates {
		count, ok := counters[badge.Source]
		if !ok || count < int64(badge.Requirement) {
			continue
		}

		newAward, err := s.award(userID, badge)
		if err != nil {
			return nil, err
		}
		if newAward {
			awarded = append(awarded, badge)
		}
	}

	for _, badge := range awarded {
		log.Printf("Awarded badge %q to user %d", badge.Name, userID)
		if s.notifier != nil {
			_, err := s.notifier.Notify(userID, entities.NotificationBadgeAward,
				"Yeni rozet: "+badge.Name, badge.Description, "/profile")
			if err != nil {
				log.Printf("Failed to notify badge award: %v", err)
			}
		}
	}

	return awarded, nil
}

// counters gathers the activity numbers badge requirements are checked
// against. Loans only count once returned ("books read").
func (s *Service) counters(userID uint) (map[entities.BadgeSource]int64, error) {
	counters := make(map[entities.BadgeSource]int64, 3)

	var loans int64
	if err := s.db.Model(&entities.Loan{}).
		Where("user_id = ? AND returned_at IS NOT NULL", userID).
		Count(&loans).Error; err != nil {
		return nil, fmt.Errorf("failed to count loans: %w", err)
	}
	counters[entities.BadgeSourceLoans] = loans

	var replies int64
	if err := s.db.Model(&entities.ForumReply{}).
		Where("user_id = ?", userID).
		Count(&replies).Error; err != nil {
		return nil, fmt.Errorf("failed to count replies: %w", err)
	}
	counters[entities.BadgeSourceReplies] = replies

	var rsvps int64
	if err := s.db.Model(&entities.EventRSVP{}).
		Where("user_id = ?", userID).
		Count(&rsvps).Error; err != nil {
		return nil, fmt.Errorf("failed to count RSVPs: %w", err)
	}
	counters[entities.BadgeSourceEvents] = rsvps

	return counters, nil
}

// award inserts the user/badge pair if missing. Returns true when this call
// created the award.
func (s *Service) award(userID uint, badge entities.Badge) (bool, error) {
	var existing entities.UserBadge
	err := s.db.Where("user_id = ? AND badge_id = ?", userID, badge.ID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}

	award := entities.UserBadge{
		UserID:    userID,
		BadgeID:   badge.ID,
		AwardedAt: time.Now(),
	}
	if err := s.db.Create(&award).Error; err != nil {
		return false, fmt.Errorf("failed to award badge %s: %w", badge.Name, err)
	}
	return true, nil
}
