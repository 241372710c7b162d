package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhammedbesir/okuyamayanlar/internal/database/users"
	"github.com/muhammedbesir/okuyamayanlar/internal/scheduler"
)

// UsersController serves member profiles and admin moderation.
type UsersController struct {
	users     *users.Repository
	scheduler *scheduler.Scheduler
}

func NewUsersController(repo *users.Repository, sched *scheduler.Scheduler) *UsersController {
	return &UsersController{
		users:     repo,
		scheduler: sched,
	}
}

// List handles GET /api/users: the club member directory.
func (uc *UsersController) List(c *gin.Context) {
	limit, offset := parsePagination(c, 50, 200)

	members, total, err := uc.users.List(limit, offset)
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    members,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(members)) < total,
	})
}

// Get handles GET /api/users/:id: a member profile with badges.
func (uc *UsersController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := uc.users.GetByID(id)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": member})
}

// Ban handles POST /api/admin/users/:id/ban. Admin only.
// Banned members keep read access but cannot borrow, post or RSVP.
func (uc *UsersController) Ban(c *gin.Context) {
	uc.setBanned(c, true, "user banned")
}

// Unban handles POST /api/admin/users/:id/unban. Admin only.
func (uc *UsersController) Unban(c *gin.Context) {
	uc.setBanned(c, false, "user unbanned")
}

func (uc *UsersController) setBanned(c *gin.Context, banned bool, message string) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := uc.users.SetBanned(id, banned); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "set banned")
		return
	}

	respondSuccess(c, message)
}

// GrantBadge handles POST /api/admin/users/:id/badges/:badgeId.
// Admin only; used for the special badges with no automatic threshold.
func (uc *UsersController) GrantBadge(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	badgeID, ok := parseIDParam(c, "badgeId")
	if !ok {
		return
	}

	award, err := uc.users.GrantBadge(userID, badgeID)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserNotFound):
			respondNotFound(c, "user")
		case errors.Is(err, users.ErrBadgeNotFound):
			respondNotFound(c, "badge")
		case errors.Is(err, users.ErrAlreadyAwarded):
			respondConflict(c, err.Error())
		default:
			respondInternalError(c, err, "grant badge")
		}
		return
	}

	respondCreated(c, gin.H{"award": award})
}

// RunOverdueScan handles POST /api/admin/tasks/overdue-scan. Admin only;
// enqueues an immediate scan instead of waiting for the schedule.
func (uc *UsersController) RunOverdueScan(c *gin.Context) {
	if uc.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "background tasks are not configured"})
		return
	}

	if err := uc.scheduler.RunOverdueScanNow(); err != nil {
		respondInternalError(c, err, "run overdue scan")
		return
	}

	c.JSON(http.StatusAccepted, SuccessResponse{Message: "overdue scan enqueued"})
}
