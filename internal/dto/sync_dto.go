package dto

import (
	"time"

	"github.com/google/uuid"
)

type SyncEpisodeRequest struct {
	EpisodeId uuid.UUID `json:"episode_id" validate:"required"`
}

// SyncEpisodeResponse.Outcome is one of linked_instantly, job_triggered,
// rejected. JobId is set for job_triggered only.
type SyncEpisodeResponse struct {
	Outcome          string     `json:"outcome"`
	TranscriptStatus string     `json:"transcript_status"`
	JobId            *uuid.UUID `json:"job_id,omitempty"`
	Reason           string     `json:"reason,omitempty"`
}

type SyncStatusResponse struct {
	EpisodeId        uuid.UUID  `json:"episode_id"`
	TranscriptStatus string     `json:"transcript_status"`
	Source           string     `json:"source,omitempty"`
	ChunkCount       int        `json:"chunk_count"`
	ErrorMessage     *string    `json:"error_message,omitempty"`
	JobId            *uuid.UUID `json:"job_id,omitempty"`
	JobStatus        string     `json:"job_status,omitempty"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
}

type SyncedEpisodeResponse struct {
	Episode  EpisodeResponse `json:"episode"`
	SyncedAt time.Time       `json:"synced_at"`
}
