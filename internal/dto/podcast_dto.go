package dto

import (
	"time"

	"github.com/google/uuid"
)

type SearchPodcastsRequest struct {
	Query string `query:"q" validate:"required,min=2"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=50"`
}

// SearchPodcastResult is catalog-backed; Id is only set when the podcast
// already has a local row.
type SearchPodcastResult struct {
	Id           *uuid.UUID `json:"id,omitempty"`
	CatalogUuid  string     `json:"catalog_uuid"`
	Name         string     `json:"name"`
	Author       string     `json:"author"`
	ArtworkURL   string     `json:"artwork_url"`
	EpisodeCount int        `json:"episode_count"`
	Genres       []string   `json:"genres"`
}

type PodcastResponse struct {
	Id           uuid.UUID `json:"id"`
	CatalogUuid  string    `json:"catalog_uuid"`
	Name         string    `json:"name"`
	Author       string    `json:"author"`
	ArtworkURL   string    `json:"artwork_url"`
	EpisodeCount int       `json:"episode_count"`
	Genres       []string  `json:"genres"`
	CreatedAt    time.Time `json:"created_at"`
}

type EpisodeResponse struct {
	Id               uuid.UUID  `json:"id"`
	CatalogUuid      string     `json:"catalog_uuid"`
	PodcastId        uuid.UUID  `json:"podcast_id"`
	Name             string     `json:"name"`
	AudioURL         string     `json:"audio_url"`
	DurationSeconds  int        `json:"duration_seconds"`
	EpisodeNumber    *int       `json:"episode_number,omitempty"`
	SeasonNumber     *int       `json:"season_number,omitempty"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	TranscriptStatus string     `json:"transcript_status"`
	SyncedByUser     bool       `json:"synced_by_user"`
}

type PodcastDetailResponse struct {
	Podcast  PodcastResponse   `json:"podcast"`
	Episodes []EpisodeResponse `json:"episodes"`
}
