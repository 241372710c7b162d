package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhammedbesir/okuyamayanlar/internal/auth"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/forum"
	"github.com/muhammedbesir/okuyamayanlar/internal/database/notifications"
	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
	"github.com/muhammedbesir/okuyamayanlar/internal/tasks"
)

// ForumController serves discussion topics and replies.
type ForumController struct {
	forum         *forum.Repository
	notifications *notifications.Repository
	taskClient    *tasks.Client
}

func NewForumController(repo *forum.Repository, notifs *notifications.Repository, taskClient *tasks.Client) *ForumController {
	return &ForumController{
		forum:         repo,
		notifications: notifs,
		taskClient:    taskClient,
	}
}

// ListTopics handles GET /api/forum/topics.
func (fc *ForumController) ListTopics(c *gin.Context) {
	limit, offset := parsePagination(c, 20, 100)

	topics, total, err := fc.forum.ListTopics(limit, offset)
	if err != nil {
		respondInternalError(c, err, "list topics")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    topics,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(topics)) < total,
	})
}

// GetTopic handles GET /api/forum/topics/:id with replies.
func (fc *ForumController) GetTopic(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	topic, err := fc.forum.GetTopic(id)
	if err != nil {
		if errors.Is(err, forum.ErrTopicNotFound) {
			respondNotFound(c, "topic")
			return
		}
		respondInternalError(c, err, "get topic")
		return
	}

	c.JSON(http.StatusOK, gin.H{"topic": topic})
}

type createTopicRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

// CreateTopic handles POST /api/forum/topics.
func (fc *ForumController) CreateTopic(c *gin.Context) {
	var req createTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and body are required")
		return
	}

	topic, err := fc.forum.CreateTopic(auth.GetUserID(c), req.Title, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, forum.ErrEmptyTitle), errors.Is(err, forum.ErrEmptyBody):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "create topic")
		}
		return
	}

	respondCreated(c, gin.H{"topic": topic})
}

type addReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

// AddReply handles POST /api/forum/topics/:id/replies. The topic author
// gets an in-app notification unless they replied to themselves.
func (fc *ForumController) AddReply(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req addReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "body is required")
		return
	}

	userID := auth.GetUserID(c)
	reply, topic, err := fc.forum.AddReply(id, userID, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, forum.ErrTopicNotFound):
			respondNotFound(c, "topic")
		case errors.Is(err, forum.ErrEmptyBody):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "add reply")
		}
		return
	}

	if topic.UserID != userID {
		_, _ = fc.notifications.Notify(topic.UserID, entities.NotificationForumReply,
			"Konuna yanıt geldi",
			fmt.Sprintf("\"%s\" başlıklı konuna %s yanıt yazdı.", topic.Title, auth.GetUsername(c)),
			fmt.Sprintf("/forum/topics/%d", topic.ID))
	}

	if fc.taskClient != nil {
		_, _ = fc.taskClient.Add(tasks.BadgeRecountTask{UserID: userID}).Save()
	}

	respondCreated(c, gin.H{"reply": reply})
}

// DeleteTopic handles DELETE /api/forum/topics/:id.
// Authors delete their own topics; admins may delete any.
func (fc *ForumController) DeleteTopic(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := fc.forum.DeleteTopic(id, auth.GetUserID(c), auth.IsAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, forum.ErrTopicNotFound):
			respondNotFound(c, "topic")
		case errors.Is(err, forum.ErrNotAuthor):
			respondForbidden(c, err.Error())
		default:
			respondInternalError(c, err, "delete topic")
		}
		return
	}

	respondSuccess(c, "topic deleted")
}
