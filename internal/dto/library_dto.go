package dto

import (
	"time"

	"github.com/google/uuid"
)

type AddToLibraryRequest struct {
	CatalogUuid string `json:"catalog_uuid" validate:"required"`
}

type AddToLibraryResponse struct {
	PodcastId uuid.UUID `json:"podcast_id"`
}

type LibraryEntryResponse struct {
	Podcast PodcastResponse `json:"podcast"`
	AddedAt time.Time       `json:"added_at"`
}
