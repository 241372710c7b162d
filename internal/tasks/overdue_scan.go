package tasks

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
)

// LoanScanner provides access to overdue loans.
type LoanScanner interface {
	OverdueLoans(ctx context.Context, now time.Time, notifiedBefore time.Time) ([]entities.Loan, error)
	MarkLoanNotified(ctx context.Context, loanID uint, at time.Time) error
}

// OverdueNotifier delivers in-app notifications to members.
type OverdueNotifier interface {
	Notify(userID uint, typ entities.NotificationType, title, body, link string) (*entities.Notification, error)
}

// OverdueScanTask finds loans past their due date and reminds the borrower.
// A loan is reminded at most once per reminder interval.
type OverdueScanTask struct {
	// ReminderIntervalHours is how long to wait before reminding the same
	// loan again. Defaults to 24.
	ReminderIntervalHours int `json:"reminder_interval_hours"`
}

// Config returns the queue configuration for overdue scans.
func (t OverdueScanTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "overdue_scan",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// OverdueScanProcessor creates a processor function for OverdueScanTask.
func OverdueScanProcessor(scanner LoanScanner, notifier OverdueNotifier) backlite.QueueProcessor[OverdueScanTask] {
	return func(ctx context.Context, task OverdueScanTask) error {
		if scanner == nil || notifier == nil {
			return fmt.Errorf("overdue scan not configured")
		}

		intervalHours := task.ReminderIntervalHours
		if intervalHours <= 0 {
			intervalHours = 24
		}

		now := time.Now()
		cutoff := now.Add(-time.Duration(intervalHours) * time.Hour)

		loans, err := scanner.OverdueLoans(ctx, now, cutoff)
		if err != nil {
			return fmt.Errorf("overdue scan: %w", err)
		}

		notified := 0
		for _, loan := range loans {
			days := int(math.Ceil(now.Sub(loan.DueDate).Hours() / 24))
			body := fmt.Sprintf("\"%s\" kitabının iade tarihi %d gün geçti. Lütfen en kısa sürede iade et.",
				loan.Book.Title, days)

			_, err := notifier.Notify(loan.UserID, entities.NotificationLoanOverdue,
				"Gecikmiş kitap", body, fmt.Sprintf("/books/%d", loan.BookID))
			if err != nil {
				log.Printf("[TASK ERROR] overdue reminder for loan %d: %v", loan.ID, err)
				continue
			}

			if err := scanner.MarkLoanNotified(ctx, loan.ID, now); err != nil {
				log.Printf("[TASK ERROR] mark loan %d notified: %v", loan.ID, err)
				continue
			}
			notified++
		}

		log.Printf("[TASK] Overdue scan: %d loans overdue, %d reminders sent", len(loans), notified)
		return nil
	}
}

// NewOverdueScanQueue creates a backlite queue for overdue scans.
func NewOverdueScanQueue(scanner LoanScanner, notifier OverdueNotifier) backlite.Queue {
	return backlite.NewQueue(OverdueScanProcessor(scanner, notifier))
}
