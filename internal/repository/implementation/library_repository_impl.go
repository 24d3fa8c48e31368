package implementation

import (
	"context"
	"errors"

	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/mapper"
	"borrowed-brain-be/internal/model"
	"borrowed-brain-be/internal/repository/contract"
	"borrowed-brain-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserLibraryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LibraryMapper
}

func NewUserLibraryRepository(db *gorm.DB) contract.UserLibraryRepository {
	return &UserLibraryRepositoryImpl{
		db:     db,
		mapper: mapper.NewLibraryMapper(),
	}
}

func (r *UserLibraryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserLibraryRepositoryImpl) Create(ctx context.Context, entry *entity.UserLibraryEntry) error {
	m := r.mapper.EntryToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.EntryToEntity(m)
	return nil
}

func (r *UserLibraryRepositoryImpl) Delete(ctx context.Context, userId, podcastId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND podcast_id = ?", userId, podcastId).
		Delete(&model.UserLibraryEntry{}).Error
}

func (r *UserLibraryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserLibraryEntry, error) {
	var m model.UserLibraryEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.EntryToEntity(&m), nil
}

func (r *UserLibraryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserLibraryEntry, error) {
	var models []*model.UserLibraryEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.UserLibraryEntry, len(models))
	for i, m := range models {
		entities[i] = r.mapper.EntryToEntity(m)
	}
	return entities, nil
}

func (r *UserLibraryRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.UserLibraryEntry{}).Count(&count).Error
	return count, err
}

type UserSyncedEpisodeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LibraryMapper
}

func NewUserSyncedEpisodeRepository(db *gorm.DB) contract.UserSyncedEpisodeRepository {
	return &UserSyncedEpisodeRepositoryImpl{
		db:     db,
		mapper: mapper.NewLibraryMapper(),
	}
}

func (r *UserSyncedEpisodeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Upsert converges on the (user_id, episode_id) uniqueness constraint: linking
// an already-linked user is a no-op, which keeps retried sync runs idempotent.
func (r *UserSyncedEpisodeRepositoryImpl) Upsert(ctx context.Context, link *entity.UserSyncedEpisode) error {
	m := r.mapper.SyncedToModel(link)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "episode_id"}},
		DoNothing: true,
	}).Create(m).Error
}

func (r *UserSyncedEpisodeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserSyncedEpisode, error) {
	var m model.UserSyncedEpisode
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SyncedToEntity(&m), nil
}

func (r *UserSyncedEpisodeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSyncedEpisode, error) {
	var models []*model.UserSyncedEpisode
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.UserSyncedEpisode, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SyncedToEntity(m)
	}
	return entities, nil
}

func (r *UserSyncedEpisodeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.UserSyncedEpisode{}).Count(&count).Error
	return count, err
}
