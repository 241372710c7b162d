// Package forum provides database operations for discussion topics and
// replies.
package forum

import (
	"errors"

	"gorm.io/gorm"

	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
)

var (
	ErrTopicNotFound = errors.New("topic not found")
	ErrNotAuthor     = errors.New("only the author may delete this topic")
	ErrEmptyBody     = errors.New("body must not be empty")
	ErrEmptyTitle    = errors.New("title must not be empty")
)

// Repository handles all forum database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new forum repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTopic opens a new discussion topic.
func (r *Repository) CreateTopic(userID uint, title, body string) (*entities.ForumTopic, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if body == "" {
		return nil, ErrEmptyBody
	}

	topic := &entities.ForumTopic{
		UserID: userID,
		Title:  title,
		Body:   body,
	}
	if err := r.db.Create(topic).Error; err != nil {
		return nil, err
	}
	return topic, nil
}

// ListTopics returns topics newest-first with their authors, plus the total.
func (r *Repository) ListTopics(limit, offset int) ([]entities.ForumTopic, int64, error) {
	var total int64
	if err := r.db.Model(&entities.ForumTopic{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.Preload("User").Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var topics []entities.ForumTopic
	err := query.Find(&topics).Error
	return topics, total, err
}

// GetTopic returns one topic with its replies preloaded oldest-first.
func (r *Repository) GetTopic(id uint) (*entities.ForumTopic, error) {
	var topic entities.ForumTopic
	err := r.db.Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("forum_replies.created_at ASC")
		}).
		Preload("Replies.User").
		First(&topic, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}
	return &topic, nil
}

// AddReply posts a reply to a topic and returns it together with the topic,
// so callers can notify the topic author.
func (r *Repository) AddReply(topicID, userID uint, body string) (*entities.ForumReply, *entities.ForumTopic, error) {
	if body == "" {
		return nil, nil, ErrEmptyBody
	}

	var topic entities.ForumTopic
	if err := r.db.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTopicNotFound
		}
		return nil, nil, err
	}

	reply := &entities.ForumReply{
		TopicID: topicID,
		UserID:  userID,
		Body:    body,
	}
	if err := r.db.Create(reply).Error; err != nil {
		return nil, nil, err
	}
	return reply, &topic, nil
}

// DeleteTopic soft-deletes a topic. Only the author may delete unless
// override is set (admin moderation).
func (r *Repository) DeleteTopic(topicID, userID uint, override bool) error {
	var topic entities.ForumTopic
	if err := r.db.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		return err
	}
	if topic.UserID != userID && !override {
		return ErrNotAuthor
	}
	return r.db.Delete(&topic).Error
}

// ReplyCountForUser returns how many replies a member has posted. Feeds the
// forum badge counters.
func (r *Repository) ReplyCountForUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.ForumReply{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
