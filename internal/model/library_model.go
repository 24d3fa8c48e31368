package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserLibraryEntry records that a user added a podcast to their library.
// Deleting it never cascades into the shared Podcast/Episode/Transcript rows.
type UserLibraryEntry struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_library_user_podcast"`
	PodcastId uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_library_user_podcast"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserLibraryEntry) TableName() string {
	return "user_library_entries"
}

// UserSyncedEpisode links a user to an episode transcript, whether or not they
// triggered the underlying transcription work.
type UserSyncedEpisode struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_synced_user_episode"`
	EpisodeId uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_synced_user_episode"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserSyncedEpisode) TableName() string {
	return "user_synced_episodes"
}
