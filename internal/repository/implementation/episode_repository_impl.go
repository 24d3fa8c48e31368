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

type EpisodeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EpisodeMapper
}

func NewEpisodeRepository(db *gorm.DB) contract.EpisodeRepository {
	return &EpisodeRepositoryImpl{
		db:     db,
		mapper: mapper.NewEpisodeMapper(),
	}
}

func (r *EpisodeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EpisodeRepositoryImpl) Create(ctx context.Context, episode *entity.Episode) error {
	m := r.mapper.ToModel(episode)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*episode = *r.mapper.ToEntity(m)
	return nil
}

func (r *EpisodeRepositoryImpl) Update(ctx context.Context, episode *entity.Episode) error {
	m := r.mapper.ToModel(episode)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*episode = *r.mapper.ToEntity(m)
	return nil
}

func (r *EpisodeRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Episode{}, id).Error
}

func (r *EpisodeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Episode, error) {
	var m model.Episode
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *EpisodeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Episode, error) {
	var models []*model.Episode
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Episode, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *EpisodeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Episode{}).Count(&count).Error
	return count, err
}

// UpsertBulkByCatalogUuid lazily materializes episode rows when a podcast's
// feed is first listed, refreshing metadata on later listings.
func (r *EpisodeRepositoryImpl) UpsertBulkByCatalogUuid(ctx context.Context, episodes []*entity.Episode) error {
	if len(episodes) == 0 {
		return nil
	}

	models := make([]*model.Episode, len(episodes))
	for i, e := range episodes {
		models[i] = r.mapper.ToModel(e)
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "catalog_uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "audio_url", "duration_seconds", "episode_number",
			"season_number", "published_at", "updated_at",
		}),
	}).Create(models).Error; err != nil {
		return err
	}

	// Re-read the canonical rows so callers see stable ids across upserts.
	catalogUuids := make([]string, len(models))
	for i, m := range models {
		catalogUuids[i] = m.CatalogUuid
	}
	var persisted []*model.Episode
	if err := r.db.WithContext(ctx).Where("catalog_uuid IN ?", catalogUuids).Find(&persisted).Error; err != nil {
		return err
	}
	byCatalog := make(map[string]*model.Episode, len(persisted))
	for _, m := range persisted {
		byCatalog[m.CatalogUuid] = m
	}
	for i := range episodes {
		if m, ok := byCatalog[episodes[i].CatalogUuid]; ok {
			*episodes[i] = *r.mapper.ToEntity(m)
		}
	}
	return nil
}
