package implementation

import (
	"context"

	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/mapper"
	"borrowed-brain-be/internal/model"
	"borrowed-brain-be/internal/repository/contract"
	"borrowed-brain-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TranscriptChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TranscriptChunkMapper
}

func NewTranscriptChunkRepository(db *gorm.DB) contract.TranscriptChunkRepository {
	return &TranscriptChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewTranscriptChunkMapper(),
	}
}

func (r *TranscriptChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// UpsertBulk keys on (episode_id, chunk_index): a retried sync run overwrites
// the document in place, so the chunk set never drifts or duplicates.
func (r *TranscriptChunkRepositoryImpl) UpsertBulk(ctx context.Context, chunks []*entity.TranscriptChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	models := make([]*model.TranscriptChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "episode_id"}, {Name: "chunk_index"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"document", "embedding_value", "podcast_id", "podcast_name",
			"episode_name", "start_time", "end_time", "speaker", "updated_at",
		}),
	}).Create(models).Error
}

func (r *TranscriptChunkRepositoryImpl) DeleteByEpisodeId(ctx context.Context, episodeId uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("episode_id = ?", episodeId).
		Delete(&model.TranscriptChunk{}).Error
}

func (r *TranscriptChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TranscriptChunk, error) {
	var models []*model.TranscriptChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.TranscriptChunk, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *TranscriptChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.TranscriptChunk{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore runs cosine KNN restricted to the given episodes.
// The episode filter is the tenancy boundary for retrieval: chunks outside the
// caller's scope must never surface, so an empty scope returns nothing here.
func (r *TranscriptChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, episodeIds []uuid.UUID, threshold float64) ([]*contract.ScoredTranscriptChunk, error) {
	if limit <= 0 {
		limit = 5
	}
	if len(episodeIds) == 0 {
		return nil, nil
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding_value <=> query_vector) = cosine_similarity.
	type result struct {
		model.TranscriptChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("transcript_chunks").
		Select("transcript_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("episode_id IN ?", episodeIds).
		Where("deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredTranscriptChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredTranscriptChunk{
			Chunk:      r.mapper.ToEntity(&res.TranscriptChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
