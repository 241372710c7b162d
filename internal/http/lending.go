package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muhammedbesir/okuyamayanlar/internal/auth"
	"github.com/muhammedbesir/okuyamayanlar/internal/lending"
	"github.com/muhammedbesir/okuyamayanlar/internal/tasks"
)

// LendingController maps the loan state machine onto HTTP.
//
// Status codes follow the failure mode, not the handler: 401 anonymous,
// 404 unknown book, 409 loan-state conflict, 403 someone else's loan.
type LendingController struct {
	lending    *lending.Service
	taskClient *tasks.Client
}

func NewLendingController(svc *lending.Service, taskClient *tasks.Client) *LendingController {
	return &LendingController{
		lending:    svc,
		taskClient: taskClient,
	}
}

// Borrow handles POST /api/books/:id/borrow.
func (lc *LendingController) Borrow(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := lc.lending.Borrow(c.Request.Context(), id, auth.GetUserID(c))
	if err != nil {
		lc.respondLendingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"book": book})
}

// Return handles POST /api/books/:id/return. Admins may force-return a
// book on behalf of the borrower.
func (lc *LendingController) Return(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, borrowerID, err := lc.lending.Return(c.Request.Context(), id, auth.GetUserID(c), auth.IsAdmin(c))
	if err != nil {
		lc.respondLendingError(c, err)
		return
	}

	// The closed loan may push the borrower over a badge threshold
	if lc.taskClient != nil && borrowerID != 0 {
		_, _ = lc.taskClient.Add(tasks.BadgeRecountTask{UserID: borrowerID}).Save()
	}

	c.JSON(http.StatusOK, gin.H{"book": book})
}

// MyLoans handles GET /api/loans/mine: open loans first, then history.
func (lc *LendingController) MyLoans(c *gin.Context) {
	loans, err := lc.lending.LoansForUser(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list loans")
		return
	}

	now := time.Now()
	items := make([]gin.H, 0, len(loans))
	for _, loan := range loans {
		overdue := loan.ReturnedAt == nil && now.After(loan.DueDate)
		items = append(items, gin.H{
			"loan":    loan,
			"book":    loan.Book,
			"overdue": overdue,
		})
	}

	c.JSON(http.StatusOK, gin.H{"loans": items})
}

func (lc *LendingController) respondLendingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lending.ErrUnauthorized):
		respondUnauthorized(c)
	case errors.Is(err, lending.ErrBookNotFound):
		respondNotFound(c, "book")
	case errors.Is(err, lending.ErrAlreadyBorrowed):
		respondConflict(c, "book is already borrowed")
	case errors.Is(err, lending.ErrNotBorrowed):
		respondConflict(c, "book is not currently borrowed")
	case errors.Is(err, lending.ErrNotBorrower):
		respondForbidden(c, "book is borrowed by another member")
	default:
		respondInternalError(c, err, "lending")
	}
}
