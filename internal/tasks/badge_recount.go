package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
)

// BadgeRecounter re-evaluates a member's badge thresholds.
type BadgeRecounter interface {
	Recount(userID uint) ([]entities.Badge, error)
}

// BadgeRecountTask recomputes the automatic badges for one member.
// Enqueued after a return, a forum reply or an event RSVP so awards land
// shortly after the activity that earned them.
type BadgeRecountTask struct {
	UserID uint `json:"user_id"`
}

// Config returns the queue configuration for badge recount tasks.
func (t BadgeRecountTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "badge_recount",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// BadgeRecountProcessor creates a processor function for BadgeRecountTask.
func BadgeRecountProcessor(recounter BadgeRecounter) backlite.QueueProcessor[BadgeRecountTask] {
	return func(ctx context.Context, task BadgeRecountTask) error {
		if recounter == nil {
			return fmt.Errorf("badge recounter not configured")
		}

		awarded, err := recounter.Recount(task.UserID)
		if err != nil {
			return fmt.Errorf("badge recount for user %d: %w", task.UserID, err)
		}

		if len(awarded) > 0 {
			names := make([]string, 0, len(awarded))
			for _, b := range awarded {
				names = append(names, b.Name)
			}
			log.Printf("[TASK] User %d earned badges: %v", task.UserID, names)
		}

		return nil
	}
}

// NewBadgeRecountQueue creates a backlite queue for badge recount tasks.
func NewBadgeRecountQueue(recounter BadgeRecounter) backlite.Queue {
	return backlite.NewQueue(BadgeRecountProcessor(recounter))
}
