package contract

import (
	"context"

	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SyncJobRepository interface {
	Create(ctx context.Context, job *entity.SyncJob) error
	Update(ctx context.Context, job *entity.SyncJob) error
	UpdateStatus(ctx context.Context, jobId uuid.UUID, status string, errorMessage *string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SyncJob, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SyncJob, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindLatestForEpisode returns the most recent job for an episode, used to
	// expose the in-flight run id to callers that request an already-queued sync.
	FindLatestForEpisode(ctx context.Context, episodeId uuid.UUID) (*entity.SyncJob, error)
}
