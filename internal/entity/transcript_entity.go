package entity

import (
	"time"

	"github.com/google/uuid"
)

type Transcript struct {
	Id           uuid.UUID
	EpisodeId    uuid.UUID
	Source       string
	Status       string
	ErrorMessage *string
	FullText     *string
	ChunkCount   int
	Collection   string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// TranscriptChunk carries the vector-store document plus the metadata the RAG
// path needs to render citations without extra lookups.
type TranscriptChunk struct {
	Id             uuid.UUID
	EpisodeId      uuid.UUID
	ChunkIndex     int
	Document       string
	EmbeddingValue []float32
	PodcastId      uuid.UUID
	PodcastName    string
	EpisodeName    string
	StartTime      *float64
	EndTime        *float64
	Speaker        *string
	CreatedAt      time.Time
}
