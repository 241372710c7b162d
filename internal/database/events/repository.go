// Package events provides database operations for club events, RSVPs and the
// event photo gallery.
//
// RSVP uses the same conditional-write discipline as lending: the capacity
// check and the insert happen in one transaction, and the unique
// (event, user) index turns duplicate RSVPs into a conflict instead of a
// second row.
package events

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrEventFull     = errors.New("event is at capacity")
	ErrAlreadyRSVPed = errors.New("already attending")
	ErrNotAttending  = errors.New("not attending")
	ErrEventPast     = errors.New("event has already started")
)

// Repository handles all event database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new events repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create adds a new event.
func (r *Repository) Create(event *entities.Event) error {
	return r.db.Create(event).Error
}

// List returns events ordered by start time, upcoming first.
func (r *Repository) List(includePast bool) ([]entities.Event, error) {
	query := r.db.Preload("RSVPs").Order("starts_at ASC")
	if !includePast {
		query = query.Where("starts_at >= ?", time.Now())
	}

	var events []entities.Event
	err := query.Find(&events).Error
	return events, err
}

// GetByID returns one event with attendees and photos preloaded.
func (r *Repository) GetByID(id uint) (*entities.Event, error) {
	var event entities.Event
	err := r.db.Preload("RSVPs").Preload("RSVPs.User").Preload("Photos").First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

// RSVP registers a member for an event. The capacity count and the insert
// run in one transaction so a full event cannot be oversubscribed by
// concurrent requests. The event is returned so callers can notify its host.
func (r *Repository) RSVP(eventID, userID uint) (*entities.EventRSVP, *entities.Event, error) {
	var rsvp *entities.EventRSVP
	var event entities.Event

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		if time.Now().After(event.StartsAt) {
			return ErrEventPast
		}

		if event.Capacity > 0 {
			var attending int64
			if err := tx.Model(&entities.EventRSVP{}).
				Where("event_id = ?", eventID).
				Count(&attending).Error; err != nil {
				return err
			}
			if attending >= int64(event.Capacity) {
				return ErrEventFull
			}
		}

		rsvp = &entities.EventRSVP{EventID: eventID, UserID: userID}
		if err := tx.Create(rsvp).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyRSVPed
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return rsvp, &event, nil
}

// CancelRSVP removes a member's registration.
func (r *Repository) CancelRSVP(eventID, userID uint) error {
	result := r.db.Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&entities.EventRSVP{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotAttending
	}
	return nil
}

// AddPhoto attaches an uploaded image to an event's gallery.
func (r *Repository) AddPhoto(photo *entities.EventPhoto) error {
	var event entities.Event
	if err := r.db.First(&event, photo.EventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return r.db.Create(photo).Error
}

// AttendanceCountForUser returns how many events a member has RSVPed to.
// Feeds the event badge counters.
func (r *Repository) AttendanceCountForUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.EventRSVP{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// isUniqueViolation detects SQLite unique-constraint failures without
// depending on driver error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
