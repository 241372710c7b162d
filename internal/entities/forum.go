package entities

import (
	"time"

	"gorm.io/gorm"
)

type ForumTopic struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"index" json:"user_id"`
	Title  string `gorm:"size:300" json:"title"`
	Body   string `gorm:"type:text" json:"body"`

	User    User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Replies []ForumReply `gorm:"foreignKey:TopicID" json:"replies,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ForumTopic) TableName() string {
	return "forum_topics"
}

type ForumReply struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	TopicID uint   `gorm:"index" json:"topic_id"`
	UserID  uint   `gorm:"index" json:"user_id"`
	Body    string `gorm:"type:text" json:"body"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ForumReply) TableName() string {
	return "forum_replies"
}
