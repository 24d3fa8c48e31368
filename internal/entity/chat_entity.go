package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionScope bounds retrieval for every message in a session. Podcast ids
// are expanded to their episodes at query time; order is irrelevant.
type SessionScope struct {
	PodcastIds []uuid.UUID `json:"podcast_ids,omitempty"`
	EpisodeIds []uuid.UUID `json:"episode_ids,omitempty"`
}

func (s SessionScope) IsEmpty() bool {
	return len(s.PodcastIds) == 0 && len(s.EpisodeIds) == 0
}

type ChatSession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Scope     SessionScope
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type ChatMessage struct {
	Id            uuid.UUID
	Content       string
	Role          string
	ChatSessionId uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

type ChatCitation struct {
	Id            uuid.UUID
	ChatMessageId uuid.UUID
	EpisodeId     uuid.UUID
	StartTime     *float64
	Excerpt       string
	CreatedAt     time.Time

	Episode *Episode
}
