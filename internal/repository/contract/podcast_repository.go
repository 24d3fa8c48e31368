package contract

import (
	"context"

	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PodcastRepository interface {
	Create(ctx context.Context, podcast *entity.Podcast) error
	Update(ctx context.Context, podcast *entity.Podcast) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Podcast, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Podcast, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// UpsertByCatalogUuid creates the shared row on first reference by any user
	// and refreshes display metadata afterwards. Concurrent writers converge on
	// the catalog_uuid uniqueness constraint.
	UpsertByCatalogUuid(ctx context.Context, podcast *entity.Podcast) error
}

type EpisodeRepository interface {
	Create(ctx context.Context, episode *entity.Episode) error
	Update(ctx context.Context, episode *entity.Episode) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Episode, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Episode, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	UpsertBulkByCatalogUuid(ctx context.Context, episodes []*entity.Episode) error
}
