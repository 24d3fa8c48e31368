package entity

import (
	"time"

	"github.com/google/uuid"
)

type SyncJob struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	EpisodeId    uuid.UUID
	RunId        string
	Status       string
	ErrorMessage *string
	StartedAt    *time.Time
	FinishedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
