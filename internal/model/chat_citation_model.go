package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatCitation attaches a retrieved transcript passage to an assistant message.
type ChatCitation struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatMessageId uuid.UUID `gorm:"type:uuid;not null;index"`
	EpisodeId     uuid.UUID `gorm:"type:uuid;not null;index"`
	StartTime     *float64
	Excerpt       string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`

	ChatMessage *ChatMessage `gorm:"foreignKey:ChatMessageId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Episode     *Episode     `gorm:"foreignKey:EpisodeId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (ChatCitation) TableName() string {
	return "chat_citations"
}
