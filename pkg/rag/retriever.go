package rag

import (
	"context"
	"fmt"

	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/repository/contract"
	"borrowed-brain-be/internal/repository/specification"
	"borrowed-brain-be/pkg/embedding"

	"github.com/google/uuid"
)

const (
	DefaultTopK      = 5
	DefaultThreshold = 0.3
)

// Retriever embeds the question and runs scoped KNN over transcript chunks.
// The episode filter is the tenancy boundary: a chunk outside the resolved
// scope can never be returned, however well it matches.
type Retriever struct {
	embedder  embedding.Provider
	chunks    contract.TranscriptChunkRepository
	episodes  contract.EpisodeRepository
	synced    contract.UserSyncedEpisodeRepository
	topK      int
	threshold float64
}

func NewRetriever(
	embedder embedding.Provider,
	chunks contract.TranscriptChunkRepository,
	episodes contract.EpisodeRepository,
	synced contract.UserSyncedEpisodeRepository,
) *Retriever {
	return &Retriever{
		embedder:  embedder,
		chunks:    chunks,
		episodes:  episodes,
		synced:    synced,
		topK:      DefaultTopK,
		threshold: DefaultThreshold,
	}
}

// ExpandScope resolves a session scope to a flat episode id set. Podcast ids
// expand to all of their episodes. An empty scope falls back to every episode
// the user has synced, so retrieval never crosses into other users' content
// without an explicit scope either.
func (r *Retriever) ExpandScope(ctx context.Context, userId uuid.UUID, scope entity.SessionScope) ([]uuid.UUID, error) {
	if scope.IsEmpty() {
		links, err := r.synced.FindAll(ctx, specification.UserOwnedBy{UserID: userId})
		if err != nil {
			return nil, fmt.Errorf("resolve synced episodes: %w", err)
		}
		ids := make([]uuid.UUID, len(links))
		for i, link := range links {
			ids[i] = link.EpisodeId
		}
		return ids, nil
	}

	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, id := range scope.EpisodeIds {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if len(scope.PodcastIds) > 0 {
		episodes, err := r.episodes.FindAll(ctx, specification.ByPodcastIDs{PodcastIDs: scope.PodcastIds})
		if err != nil {
			return nil, fmt.Errorf("expand podcast scope: %w", err)
		}
		for _, ep := range episodes {
			if !seen[ep.Id] {
				seen[ep.Id] = true
				ids = append(ids, ep.Id)
			}
		}
	}
	return ids, nil
}

// Retrieve returns the top-K chunks for the question within the resolved
// scope, ordered by similarity.
func (r *Retriever) Retrieve(ctx context.Context, userId uuid.UUID, scope entity.SessionScope, question string) ([]*contract.ScoredTranscriptChunk, error) {
	episodeIds, err := r.ExpandScope(ctx, userId, scope)
	if err != nil {
		return nil, err
	}
	if len(episodeIds) == 0 {
		return nil, nil
	}

	vector, err := r.embedder.Generate(ctx, question, embedding.TaskTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	return r.chunks.SearchSimilarWithScore(ctx, vector, r.topK, episodeIds, r.threshold)
}
