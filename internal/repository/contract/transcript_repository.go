package contract

import (
	"context"

	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TranscriptRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Transcript, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Transcript, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// ClaimForSync atomically transitions the episode's transcript to "queued".
	// It upserts the row and flips status only when the current status allows a
	// new sync (absent, not_synced or failed), in one conditional statement.
	// Returns the row and whether this caller won the claim. Losing the claim
	// means another sync is queued/syncing/synced; the caller must not trigger
	// work.
	ClaimForSync(ctx context.Context, episodeId uuid.UUID) (*entity.Transcript, bool, error)
	// UpdateStatus moves the state machine forward; upserts keyed by episode_id
	// so concurrent writers converge on one row.
	UpdateStatus(ctx context.Context, episodeId uuid.UUID, status string, errorMessage *string) error
	// MarkSynced records the terminal success state with the full text, chunk
	// count, source and collection reference.
	MarkSynced(ctx context.Context, transcript *entity.Transcript) error
}

// ScoredTranscriptChunk wraps TranscriptChunk with its similarity score
type ScoredTranscriptChunk struct {
	Chunk      *entity.TranscriptChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type TranscriptChunkRepository interface {
	// UpsertBulk is idempotent by (episode_id, chunk_index): a retried sync run
	// overwrites chunks instead of duplicating them.
	UpsertBulk(ctx context.Context, chunks []*entity.TranscriptChunk) error
	DeleteByEpisodeId(ctx context.Context, episodeId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TranscriptChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore runs cosine KNN restricted to the given episodes.
	// An empty episodeIds slice returns no rows; scope fallback is the
	// caller's concern.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, episodeIds []uuid.UUID, threshold float64) ([]*ScoredTranscriptChunk, error)
}
