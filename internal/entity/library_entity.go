package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserLibraryEntry struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	PodcastId uuid.UUID
	CreatedAt time.Time
}

type UserSyncedEpisode struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	EpisodeId uuid.UUID
	CreatedAt time.Time
}
