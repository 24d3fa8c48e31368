package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicSyncStatus is the in-process bus topic for sync progress fanout.
const TopicSyncStatus = "sync.status"

const (
	EventSyncQueued    = "SYNC_QUEUED"
	EventSyncStarted   = "SYNC_STARTED"
	EventSyncCompleted = "SYNC_COMPLETED"
	EventSyncFailed    = "SYNC_FAILED"
)

// SyncStatusEvent is published once per transition of the sync state machine.
// The notification layer fans it out to the owning user's websocket clients.
type SyncStatusEvent struct {
	Type         string     `json:"type"`
	UserId       uuid.UUID  `json:"user_id"`
	EpisodeId    uuid.UUID  `json:"episode_id"`
	JobId        *uuid.UUID `json:"job_id,omitempty"`
	EpisodeName  string     `json:"episode_name,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

func (e SyncStatusEvent) EventType() string {
	return e.Type
}

func (e SyncStatusEvent) Payload() map[string]interface{} {
	payload := map[string]interface{}{
		"user_id":    e.UserId.String(),
		"episode_id": e.EpisodeId.String(),
	}
	if e.JobId != nil {
		payload["job_id"] = e.JobId.String()
	}
	if e.EpisodeName != "" {
		payload["episode_name"] = e.EpisodeName
	}
	if e.ErrorMessage != "" {
		payload["error_message"] = e.ErrorMessage
	}
	return payload
}

func (e SyncStatusEvent) Timestamp() time.Time {
	return e.OccurredAt
}
