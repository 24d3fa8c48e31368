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

type PodcastRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PodcastMapper
}

func NewPodcastRepository(db *gorm.DB) contract.PodcastRepository {
	return &PodcastRepositoryImpl{
		db:     db,
		mapper: mapper.NewPodcastMapper(),
	}
}

func (r *PodcastRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PodcastRepositoryImpl) Create(ctx context.Context, podcast *entity.Podcast) error {
	m := r.mapper.ToModel(podcast)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*podcast = *r.mapper.ToEntity(m)
	return nil
}

func (r *PodcastRepositoryImpl) Update(ctx context.Context, podcast *entity.Podcast) error {
	m := r.mapper.ToModel(podcast)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*podcast = *r.mapper.ToEntity(m)
	return nil
}

func (r *PodcastRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Podcast{}, id).Error
}

func (r *PodcastRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Podcast, error) {
	var m model.Podcast
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PodcastRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Podcast, error) {
	var models []*model.Podcast
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Podcast, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *PodcastRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Podcast{}).Count(&count).Error
	return count, err
}

// UpsertByCatalogUuid converges concurrent first-references on the
// catalog_uuid uniqueness constraint and refreshes display metadata for
// existing rows.
func (r *PodcastRepositoryImpl) UpsertByCatalogUuid(ctx context.Context, podcast *entity.Podcast) error {
	m := r.mapper.ToModel(podcast)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "catalog_uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "author", "artwork_url", "episode_count", "genres", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	// The insert path returns the generated id; the conflict path does not, so
	// re-read to hand the caller the canonical row.
	var existing model.Podcast
	if err := r.db.WithContext(ctx).Where("catalog_uuid = ?", m.CatalogUuid).First(&existing).Error; err != nil {
		return err
	}
	*podcast = *r.mapper.ToEntity(&existing)
	return nil
}
