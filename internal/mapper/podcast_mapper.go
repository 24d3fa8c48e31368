package mapper

import (
	"encoding/json"
	"time"

	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PodcastMapper struct{}

func NewPodcastMapper() *PodcastMapper {
	return &PodcastMapper{}
}

func (m *PodcastMapper) ToEntity(p *model.Podcast) *entity.Podcast {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	var genres []string
	if len(p.Genres) > 0 {
		// A malformed genres blob is not worth failing a read for.
		_ = json.Unmarshal(p.Genres, &genres)
	}

	return &entity.Podcast{
		Id:           p.Id,
		CatalogUuid:  p.CatalogUuid,
		Name:         p.Name,
		Author:       p.Author,
		ArtworkURL:   p.ArtworkURL,
		EpisodeCount: p.EpisodeCount,
		Genres:       genres,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    p.DeletedAt.Valid,
	}
}

func (m *PodcastMapper) ToModel(p *entity.Podcast) *model.Podcast {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	var genres datatypes.JSON
	if len(p.Genres) > 0 {
		if b, err := json.Marshal(p.Genres); err == nil {
			genres = b
		}
	}

	return &model.Podcast{
		Id:           p.Id,
		CatalogUuid:  p.CatalogUuid,
		Name:         p.Name,
		Author:       p.Author,
		ArtworkURL:   p.ArtworkURL,
		EpisodeCount: p.EpisodeCount,
		Genres:       genres,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}
