package mapper

import (
	"time"

	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/model"

	"gorm.io/gorm"
)

type EpisodeMapper struct{}

func NewEpisodeMapper() *EpisodeMapper {
	return &EpisodeMapper{}
}

func (m *EpisodeMapper) ToEntity(e *model.Episode) *entity.Episode {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.Episode{
		Id:              e.Id,
		CatalogUuid:     e.CatalogUuid,
		PodcastId:       e.PodcastId,
		Name:            e.Name,
		AudioURL:        e.AudioURL,
		DurationSeconds: e.DurationSeconds,
		EpisodeNumber:   e.EpisodeNumber,
		SeasonNumber:    e.SeasonNumber,
		PublishedAt:     e.PublishedAt,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
		IsDeleted:       e.DeletedAt.Valid,
	}
}

func (m *EpisodeMapper) ToModel(e *entity.Episode) *model.Episode {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.Episode{
		Id:              e.Id,
		CatalogUuid:     e.CatalogUuid,
		PodcastId:       e.PodcastId,
		Name:            e.Name,
		AudioURL:        e.AudioURL,
		DurationSeconds: e.DurationSeconds,
		EpisodeNumber:   e.EpisodeNumber,
		SeasonNumber:    e.SeasonNumber,
		PublishedAt:     e.PublishedAt,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
	}
}
