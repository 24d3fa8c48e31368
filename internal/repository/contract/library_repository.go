package contract

import (
	"context"

	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserLibraryRepository interface {
	Create(ctx context.Context, entry *entity.UserLibraryEntry) error
	// Delete removes the user's library entry only; shared Podcast/Episode/
	// Transcript rows stay.
	Delete(ctx context.Context, userId, podcastId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserLibraryEntry, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserLibraryEntry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type UserSyncedEpisodeRepository interface {
	// Upsert is a no-op when the (user_id, episode_id) link already exists, so
	// retried sync runs and dedup short-circuits converge.
	Upsert(ctx context.Context, link *entity.UserSyncedEpisode) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserSyncedEpisode, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSyncedEpisode, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
