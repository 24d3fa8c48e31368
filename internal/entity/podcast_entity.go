package entity

import (
	"time"

	"github.com/google/uuid"
)

type Podcast struct {
	Id           uuid.UUID
	CatalogUuid  string
	Name         string
	Author       string
	ArtworkURL   string
	EpisodeCount int
	Genres       []string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}

type Episode struct {
	Id              uuid.UUID
	CatalogUuid     string
	PodcastId       uuid.UUID
	Name            string
	AudioURL        string
	DurationSeconds int
	EpisodeNumber   *int
	SeasonNumber    *int
	PublishedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}
