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

type SyncJobRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SyncJobMapper
}

func NewSyncJobRepository(db *gorm.DB) contract.SyncJobRepository {
	return &SyncJobRepositoryImpl{
		db:     db,
		mapper: mapper.NewSyncJobMapper(),
	}
}

func (r *SyncJobRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SyncJobRepositoryImpl) Create(ctx context.Context, job *entity.SyncJob) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *SyncJobRepositoryImpl) Update(ctx context.Context, job *entity.SyncJob) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *SyncJobRepositoryImpl) UpdateStatus(ctx context.Context, jobId uuid.UUID, status string, errorMessage *string) error {
	updates := map[string]interface{}{
		"status":        status,
		"error_message": errorMessage,
		"updated_at":    time.Now(),
	}
	switch status {
	case constant.SyncJobStatusProcessing:
		updates["started_at"] = time.Now()
	case constant.SyncJobStatusCompleted, constant.SyncJobStatusFailed:
		updates["finished_at"] = time.Now()
	}
	return r.db.WithContext(ctx).Model(&model.SyncJob{}).
		Where("id = ?", jobId).
		Updates(updates).Error
}

func (r *SyncJobRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SyncJob, error) {
	var m model.SyncJob
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SyncJobRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SyncJob, error) {
	var models []*model.SyncJob
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SyncJob, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *SyncJobRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.SyncJob{}).Count(&count).Error
	return count, err
}

func (r *SyncJobRepositoryImpl) FindLatestForEpisode(ctx context.Context, episodeId uuid.UUID) (*entity.SyncJob, error) {
	var m model.SyncJob
	err := r.db.WithContext(ctx).
		Where("episode_id = ?", episodeId).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
