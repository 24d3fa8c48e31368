package dto

import (
	"time"

	"github.com/google/uuid"
)

type SessionScopeDTO struct {
	PodcastIds []uuid.UUID `json:"podcast_ids,omitempty" validate:"max=20"`
	EpisodeIds []uuid.UUID `json:"episode_ids,omitempty" validate:"max=50"`
}

type CreateSessionRequest struct {
	Title string          `json:"title" validate:"omitempty,max=120"`
	Scope SessionScopeDTO `json:"scope"`
}

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Scope     SessionScopeDTO `json:"scope"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at"`
}

type CitationDTO struct {
	EpisodeId   uuid.UUID `json:"episode_id"`
	EpisodeName string    `json:"episode_name"`
	StartTime   *float64  `json:"start_time,omitempty"`
	Excerpt     string    `json:"excerpt"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID     `json:"id"`
	Role      string        `json:"role"`
	Chat      string        `json:"chat"`
	CreatedAt time.Time     `json:"created_at"`
	Citations []CitationDTO `json:"citations,omitempty"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Chat          string    `json:"chat" validate:"required"`
}

type SendChatResponseChat struct {
	Id        uuid.UUID     `json:"id"`
	Chat      string        `json:"chat"`
	Role      string        `json:"role"`
	CreatedAt time.Time     `json:"created_at"`
	Citations []CitationDTO `json:"citations,omitempty"`
}

type SendChatResponse struct {
	ChatSessionId    uuid.UUID             `json:"chat_session_id"`
	ChatSessionTitle string                `json:"title"`
	Sent             *SendChatResponseChat `json:"sent"`
	Reply            *SendChatResponseChat `json:"reply"`
}

type DeleteSessionRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id"`
}

// LimitExceededError carries usage details for 429 responses.
type LimitExceededError struct {
	Limit      int       `json:"limit"`
	Used       int       `json:"used"`
	ResetAfter time.Time `json:"reset_after"`
}

func (e *LimitExceededError) Error() string {
	return "daily chat usage limit exceeded"
}
