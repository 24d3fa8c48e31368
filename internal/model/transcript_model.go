package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transcript is the global deduplication anchor: at most one row per episode,
// enforced by the unique index on EpisodeId. All users who sync that episode
// share this row and its chunks.
type Transcript struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EpisodeId    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Source       string    `gorm:"type:varchar(50)"` // "catalog" | "speech_to_text"
	Status       string    `gorm:"type:varchar(50);not null;default:'not_synced'"`
	ErrorMessage *string   `gorm:"type:text"`
	FullText     *string   `gorm:"type:text"`
	ChunkCount   int       `gorm:"default:0"`
	Collection   string    `gorm:"type:varchar(255)"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Transcript) TableName() string {
	return "transcripts"
}
