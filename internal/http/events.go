package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muhammedbesir/okuyamayanlar/internal/auth"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/events"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/notifications"
	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
	"github.com/muhammedbesir/okuyamayanlar/internal/tasks"
)

// EventsController serves club meetups: listing, RSVPs and the photo wall.
type EventsController struct {
	events        *events.Repository
	notifications *notifications.Repository
	taskClient    *tasks.Client
}

func NewEventsController(repo *events.Repository, notifs *notifications.Repository, taskClient *tasks.Client) *EventsController {
	return &EventsController{
		events:        repo,
		notifications: notifs,
		taskClient:    taskClient,
	}
}

// List handles GET /api/events. Past events are included with ?past=true.
func (ec *EventsController) List(c *gin.Context) {
	includePast := c.Query("past") == "true"

	items, err := ec.events.List(includePast)
	if err != nil {
		respondInternalError(c, err, "list events")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": items})
}

// Get handles GET /api/events/:id with attendees and photos.
func (ec *EventsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	event, err := ec.events.GetByID(id)
	if err != nil {
		if errors.Is(err, events.ErrEventNotFound) {
			respondNotFound(c, "event")
			return
		}
		respondInternalError(c, err, "get event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

type createEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	Capacity    int       `json:"capacity"`
	CoverImage  string    `json:"cover_image"`
}

// Create handles POST /api/admin/events. Admin only.
func (ec *EventsController) Create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and starts_at are required")
		return
	}

	event := &entities.Event{
		CreatedByID: auth.GetUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		Capacity:    req.Capacity,
		CoverImage:  req.CoverImage,
	}
	if err := ec.events.Create(event); err != nil {
		respondInternalError(c, err, "create event")
		return
	}

	respondCreated(c, gin.H{"event": event})
}

// RSVP handles POST /api/events/:id/rsvp.
func (ec *EventsController) RSVP(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID := auth.GetUserID(c)
	rsvp, event, err := ec.events.RSVP(id, userID)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrEventNotFound):
			respondNotFound(c, "event")
		case errors.Is(err, events.ErrEventFull):
			respondConflict(c, err.Error())
		case errors.Is(err, events.ErrAlreadyRSVPed):
			respondConflict(c, err.Error())
		case errors.Is(err, events.ErrEventPast):
			respondConflict(c, err.Error())
		default:
			respondInternalError(c, err, "rsvp")
		}
		return
	}

	if event.CreatedByID != userID {
		_, _ = ec.notifications.Notify(event.CreatedByID, entities.NotificationEventRSVP,
			"Etkinliğine katılım var",
			fmt.Sprintf("%s \"%s\" etkinliğine katılacağını bildirdi.", auth.GetUsername(c), event.Title),
			fmt.Sprintf("/events/%d", event.ID))
	}

	// Attendance counts toward the event badges
	if ec.taskClient != nil {
		_, _ = ec.taskClient.Add(tasks.BadgeRecountTask{UserID: userID}).Save()
	}

	respondCreated(c, gin.H{"rsvp": rsvp})
}

// CancelRSVP handles DELETE /api/events/:id/rsvp.
func (ec *EventsController) CancelRSVP(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ec.events.CancelRSVP(id, auth.GetUserID(c)); err != nil {
		if errors.Is(err, events.ErrNotAttending) {
			respondConflict(c, err.Error())
			return
		}
		respondInternalError(c, err, "cancel rsvp")
		return
	}

	respondSuccess(c, "rsvp cancelled")
}

type addPhotoRequest struct {
	URL      string `json:"url" binding:"required"`
	PublicID string `json:"public_id"`
	Caption  string `json:"caption"`
}

// AddPhoto handles POST /api/events/:id/photos. The image itself goes
// through the upload endpoint first; this records the resulting URL.
func (ec *EventsController) AddPhoto(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req addPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "url is required")
		return
	}

	photo := &entities.EventPhoto{
		EventID:  id,
		UserID:   auth.GetUserID(c),
		URL:      req.URL,
		PublicID: req.PublicID,
		Caption:  req.Caption,
	}
	if err := ec.events.AddPhoto(photo); err != nil {
		if errors.Is(err, events.ErrEventNotFound) {
			respondNotFound(c, "event")
			return
		}
		respondInternalError(c, err, "add photo")
		return
	}

	respondCreated(c, gin.H{"photo": photo})
}
