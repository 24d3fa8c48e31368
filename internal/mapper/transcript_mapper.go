package mapper

import (
	"time"

	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type TranscriptMapper struct{}

func NewTranscriptMapper() *TranscriptMapper {
	return &TranscriptMapper{}
}

func (m *TranscriptMapper) ToEntity(t *model.Transcript) *entity.Transcript {
	if t == nil {
		return nil
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		u := t.UpdatedAt
		updatedAt = &u
	}

	return &entity.Transcript{
		Id:           t.Id,
		EpisodeId:    t.EpisodeId,
		Source:       t.Source,
		Status:       t.Status,
		ErrorMessage: t.ErrorMessage,
		FullText:     t.FullText,
		ChunkCount:   t.ChunkCount,
		Collection:   t.Collection,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *TranscriptMapper) ToModel(t *entity.Transcript) *model.Transcript {
	if t == nil {
		return nil
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.Transcript{
		Id:           t.Id,
		EpisodeId:    t.EpisodeId,
		Source:       t.Source,
		Status:       t.Status,
		ErrorMessage: t.ErrorMessage,
		FullText:     t.FullText,
		ChunkCount:   t.ChunkCount,
		Collection:   t.Collection,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

type TranscriptChunkMapper struct{}

func NewTranscriptChunkMapper() *TranscriptChunkMapper {
	return &TranscriptChunkMapper{}
}

func (m *TranscriptChunkMapper) ToEntity(c *model.TranscriptChunk) *entity.TranscriptChunk {
	if c == nil {
		return nil
	}

	return &entity.TranscriptChunk{
		Id:             c.Id,
		EpisodeId:      c.EpisodeId,
		ChunkIndex:     c.ChunkIndex,
		Document:       c.Document,
		EmbeddingValue: c.EmbeddingValue.Slice(),
		PodcastId:      c.PodcastId,
		PodcastName:    c.PodcastName,
		EpisodeName:    c.EpisodeName,
		StartTime:      c.StartTime,
		EndTime:        c.EndTime,
		Speaker:        c.Speaker,
		CreatedAt:      c.CreatedAt,
	}
}

func (m *TranscriptChunkMapper) ToModel(c *entity.TranscriptChunk) *model.TranscriptChunk {
	if c == nil {
		return nil
	}

	return &model.TranscriptChunk{
		Id:             c.Id,
		EpisodeId:      c.EpisodeId,
		ChunkIndex:     c.ChunkIndex,
		Document:       c.Document,
		EmbeddingValue: pgvector.NewVector(c.EmbeddingValue),
		PodcastId:      c.PodcastId,
		PodcastName:    c.PodcastName,
		EpisodeName:    c.EpisodeName,
		StartTime:      c.StartTime,
		EndTime:        c.EndTime,
		Speaker:        c.Speaker,
		CreatedAt:      c.CreatedAt,
	}
}
