package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// TranscriptChunk is one vector-store document. The unique (episode_id,
// chunk_index) pair makes re-upserts from a retried sync run converge instead
// of duplicating rows.
type TranscriptChunk struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EpisodeId      uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_chunk_episode_index"`
	ChunkIndex     int             `gorm:"not null;uniqueIndex:idx_chunk_episode_index"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	PodcastId      uuid.UUID       `gorm:"type:uuid;not null;index"`
	PodcastName    string          `gorm:"type:varchar(512)"`
	EpisodeName    string          `gorm:"type:varchar(512)"`
	StartTime      *float64
	EndTime        *float64
	Speaker        *string        `gorm:"type:varchar(100)"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (TranscriptChunk) TableName() string {
	return "transcript_chunks"
}
