package implementation

import (
	"context"
	"errors"
	"time"

	"borrowed-brain-be/internal/constant"
	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/mapper"
	"borrowed-brain-be/internal/model"
	"borrowed-brain-be/internal/repository/contract"
	"borrowed-brain-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TranscriptRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TranscriptMapper
}

func NewTranscriptRepository(db *gorm.DB) contract.TranscriptRepository {
	return &TranscriptRepositoryImpl{
		db:     db,
		mapper: mapper.NewTranscriptMapper(),
	}
}

func (r *TranscriptRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TranscriptRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Transcript, error) {
	var m model.Transcript
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TranscriptRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Transcript, error) {
	var models []*model.Transcript
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Transcript, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *TranscriptRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Transcript{}).Count(&count).Error
	return count, err
}

// ClaimForSync closes the check-then-act window with a single conditional
// upsert: the status flips to "queued" only from absent/not_synced/failed.
// Exactly one of N concurrent callers observes RowsAffected > 0.
func (r *TranscriptRepositoryImpl) ClaimForSync(ctx context.Context, episodeId uuid.UUID) (*entity.Transcript, bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO transcripts (id, episode_id, status, created_at, updated_at)
		VALUES (?, ?, ?, now(), now())
		ON CONFLICT (episode_id) DO UPDATE
		SET status = ?, error_message = NULL, updated_at = now()
		WHERE transcripts.status IN (?, ?)`,
		uuid.New(), episodeId, constant.TranscriptStatusQueued,
		constant.TranscriptStatusQueued,
		constant.TranscriptStatusNotSynced, constant.TranscriptStatusFailed,
	)
	if res.Error != nil {
		return nil, false, res.Error
	}
	claimed := res.RowsAffected > 0

	var m model.Transcript
	if err := r.db.WithContext(ctx).Where("episode_id = ?", episodeId).First(&m).Error; err != nil {
		return nil, false, err
	}
	return r.mapper.ToEntity(&m), claimed, nil
}

func (r *TranscriptRepositoryImpl) UpdateStatus(ctx context.Context, episodeId uuid.UUID, status string, errorMessage *string) error {
	return r.db.WithContext(ctx).
		Model(&model.Transcript{}).
		Where("episode_id = ?", episodeId).
		Updates(map[string]interface{}{
			"status":        status,
			"error_message": errorMessage,
			"updated_at":    time.Now(),
		}).Error
}

func (r *TranscriptRepositoryImpl) MarkSynced(ctx context.Context, transcript *entity.Transcript) error {
	return r.db.WithContext(ctx).
		Model(&model.Transcript{}).
		Where("episode_id = ?", transcript.EpisodeId).
		Updates(map[string]interface{}{
			"status":        constant.TranscriptStatusSynced,
			"source":        transcript.Source,
			"full_text":     transcript.FullText,
			"chunk_count":   transcript.ChunkCount,
			"collection":    transcript.Collection,
			"error_message": nil,
			"updated_at":    time.Now(),
		}).Error
}
