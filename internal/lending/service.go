// Package lending owns the book loan lifecycle: availability, borrow,
// return and overdue derivation. All loan state lives on the books row and
// every transition is a single conditional write, so two concurrent borrows
// of the same book can never both succeed.
package lending

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/muhammedbesir/okuyamayanlar/internal/config"
	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
)

var (
	ErrUnauthorized    = errors.New("authentication required")
	ErrBookNotFound    = errors.New("book not found")
	ErrAlreadyBorrowed = errors.New("already borrowed")
	ErrNotBorrowed     = errors.New("not borrowed")
	ErrNotBorrower     = errors.New("book is borrowed by another member")
)

// Service enforces the loan state machine against the catalog. It holds no
// state between calls; every operation re-reads and conditionally writes the
// current row.
type Service struct {
	db         *gorm.DB
	loanPeriod time.Duration
}

func NewService(db *gorm.DB, loanPeriod time.Duration) *Service {
	if loanPeriod <= 0 {
		loanPeriod = config.DefaultLoanPeriod
	}
	return &Service{db: db, loanPeriod: loanPeriod}
}

// LoanPeriod returns the configured borrow duration.
func (s *Service) LoanPeriod() time.Duration {
	return s.loanPeriod
}

// Borrow lends the book to the given user. The availability check and the
// four loan fields are written in one UPDATE keyed on available=true; zero
// rows affected means someone else got there first.
func (s *Service) Borrow(ctx context.Context, bookID, userID uint) (*entities.Book, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}

	// One clock read per operation so borrowed_at and due_date agree.
	now := time.Now()
	due := now.Add(s.loanPeriod)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.Book{}).
			Where("id = ? AND available = ?", bookID, true).
			Updates(map[string]any{
				"available":      false,
				"borrowed_by_id": userID,
				"borrowed_at":    now,
				"due_date":       due,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to claim book: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Either the book does not exist or it is already on loan.
			var book entities.Book
			if err := tx.First(&book, bookID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrBookNotFound
				}
				return err
			}
			return ErrAlreadyBorrowed
		}

		loan := entities.Loan{
			BookID:     bookID,
			UserID:     userID,
			BorrowedAt: now,
			DueDate:    due,
		}
		if err := tx.Create(&loan).Error; err != nil {
			return fmt.Errorf("failed to record loan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.getBook(ctx, bookID)
}

// Return ends the active loan. Only the borrower may return a book unless
// override is set (admin force-return). Clearing the loan fields is keyed on
// the borrower observed in the same transaction, so a stale caller loses.
// The second return value is the member whose loan closed, which can differ
// from the caller on an override.
func (s *Service) Return(ctx context.Context, bookID, userID uint, override bool) (*entities.Book, uint, error) {
	if userID == 0 {
		return nil, 0, ErrUnauthorized
	}

	now := time.Now()

	var borrowerID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}
		if book.Available || book.BorrowedByID == nil {
			return ErrNotBorrowed
		}
		borrower := *book.BorrowedByID
		if borrower != userID && !override {
			return ErrNotBorrower
		}
		borrowerID = borrower

		result := tx.Model(&entities.Book{}).
			Where("id = ? AND available = ? AND borrowed_by_id = ?", bookID, false, borrower).
			Updates(map[string]any{
				"available":      true,
				"borrowed_by_id": nil,
				"borrowed_at":    nil,
				"due_date":       nil,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to release book: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotBorrowed
		}

		return tx.Model(&entities.Loan{}).
			Where("book_id = ? AND user_id = ? AND returned_at IS NULL", bookID, borrower).
			Update("returned_at", now).Error
	})
	if err != nil {
		return nil, 0, err
	}

	book, err := s.getBook(ctx, bookID)
	if err != nil {
		return nil, 0, err
	}
	return book, borrowerID, nil
}

func (s *Service) getBook(ctx context.Context, bookID uint) (*entities.Book, error) {
	var book entities.Book
	if err := s.db.WithContext(ctx).First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// IsOverdue reports whether the book's due date has passed. Overdue is a
// derived view of an active loan, never stored.
func IsOverdue(book *entities.Book, now time.Time) bool {
	return book.DueDate != nil && now.After(*book.DueDate)
}

// DaysOverdue returns how many whole or partial days past due the loan is,
// zero when the book is not overdue.
func DaysOverdue(book *entities.Book, now time.Time) int {
	if !IsOverdue(book, now) {
		return 0
	}
	return int(math.Ceil(now.Sub(*book.DueDate).Hours() / 24))
}

// OverdueLoans returns open loans whose due date has passed and that have
// not been reminded since the given cutoff. Used by the daily overdue scan.
func (s *Service) OverdueLoans(ctx context.Context, now time.Time, notifiedBefore time.Time) ([]entities.Loan, error) {
	var loans []entities.Loan
	err := s.db.WithContext(ctx).
		Preload("Book").
		Where("returned_at IS NULL AND due_date < ?", now).
		Where("notified_at IS NULL OR notified_at < ?", notifiedBefore).
		Find(&loans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue loans: %w", err)
	}
	return loans, nil
}

// MarkLoanNotified records that an overdue reminder went out for the loan.
func (s *Service) MarkLoanNotified(ctx context.Context, loanID uint, at time.Time) error {
	return s.db.WithContext(ctx).Model(&entities.Loan{}).
		Where("id = ?", loanID).
		Update("notified_at", at).Error
}

// LoansForUser lists a member's borrow history, open loans first.
func (s *Service) LoansForUser(ctx context.Context, userID uint) ([]entities.Loan, error) {
	var loans []entities.Loan
	err := s.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("returned_at IS NULL DESC, borrowed_at DESC").
		Find(&loans).Error
	return loans, err
}
