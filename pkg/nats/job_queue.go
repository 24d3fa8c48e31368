package nats

import (
	"time"

	"github.com/google/uuid"
)

// SyncJobMessage is the unit of work handed to the transcript sync worker.
// JobId doubles as the JetStream message id so a double-submit of the same
// job is deduplicated by the server.
type SyncJobMessage struct {
	JobId     uuid.UUID `json:"job_id"`
	UserId    uuid.UUID `json:"user_id"`
	EpisodeId uuid.UUID `json:"episode_id"`
	QueuedAt  time.Time `json:"queued_at"`
}

type QueueConfig struct {
	URL         string
	Stream      string
	Subject     string
	Durable     string
	MaxAttempts int
}
