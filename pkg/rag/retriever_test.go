package rag

import (
	"context"
	"testing"

	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/repository/contract"
	"borrowed-brain-be/internal/repository/specification"

	"github.com/google/uuid"
)

type stubEpisodeRepo struct {
	episodes []*entity.Episode
}

func (r *stubEpisodeRepo) Create(ctx context.Context, episode *entity.Episode) error { return nil }
func (r *stubEpisodeRepo) Update(ctx context.Context, episode *entity.Episode) error { return nil }
func (r *stubEpisodeRepo) Delete(ctx context.Context, id uuid.UUID) error            { return nil }
func (r *stubEpisodeRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Episode, error) {
	return nil, nil
}
func (r *stubEpisodeRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Episode, error) {
	return r.episodes, nil
}
func (r *stubEpisodeRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (r *stubEpisodeRepo) UpsertBulkByCatalogUuid(ctx context.Context, episodes []*entity.Episode) error {
	return nil
}

type stubSyncedRepo struct {
	links []*entity.UserSyncedEpisode
}

func (r *stubSyncedRepo) Upsert(ctx context.Context, link *entity.UserSyncedEpisode) error {
	return nil
}
func (r *stubSyncedRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserSyncedEpisode, error) {
	return nil, nil
}
func (r *stubSyncedRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSyncedEpisode, error) {
	return r.links, nil
}
func (r *stubSyncedRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.links)), nil
}

type stubChunkRepo struct {
	searchedEpisodeIds []uuid.UUID
	searchCalls        int
	result             []*contract.ScoredTranscriptChunk
}

func (r *stubChunkRepo) UpsertBulk(ctx context.Context, chunks []*entity.TranscriptChunk) error {
	return nil
}
func (r *stubChunkRepo) DeleteByEpisodeId(ctx context.Context, episodeId uuid.UUID) error { return nil }
func (r *stubChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TranscriptChunk, error) {
	return nil, nil
}
func (r *stubChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (r *stubChunkRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, episodeIds []uuid.UUID, threshold float64) ([]*contract.ScoredTranscriptChunk, error) {
	r.searchCalls++
	r.searchedEpisodeIds = episodeIds
	return r.result, nil
}

type stubEmbedder struct {
	calls int
}

func (e *stubEmbedder) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	e.calls++
	return []float32{0.5, 0.5}, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func TestExpandScopeMergesPodcastAndEpisodeIds(t *testing.T) {
	podcastId := uuid.New()
	inPodcast := uuid.New()
	alsoExplicit := uuid.New()
	explicitOnly := uuid.New()

	episodes := &stubEpisodeRepo{episodes: []*entity.Episode{
		{Id: inPodcast, PodcastId: podcastId},
		{Id: alsoExplicit, PodcastId: podcastId},
	}}
	r := NewRetriever(&stubEmbedder{}, &stubChunkRepo{}, episodes, &stubSyncedRepo{})

	scope := entity.SessionScope{
		PodcastIds: []uuid.UUID{podcastId},
		EpisodeIds: []uuid.UUID{explicitOnly, alsoExplicit, alsoExplicit},
	}
	ids, err := r.ExpandScope(context.Background(), uuid.New(), scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ids) != 3 {
		t.Fatalf("got %d ids, want 3 (deduplicated): %v", len(ids), ids)
	}
	for _, want := range []uuid.UUID{inPodcast, alsoExplicit, explicitOnly} {
		if !containsID(ids, want) {
			t.Errorf("expanded scope missing %s", want)
		}
	}
}

func TestExpandScopeEmptyFallsBackToSyncedEpisodes(t *testing.T) {
	userId := uuid.New()
	syncedEpisode := uuid.New()
	synced := &stubSyncedRepo{links: []*entity.UserSyncedEpisode{
		{Id: uuid.New(), UserId: userId, EpisodeId: syncedEpisode},
	}}
	// Episodes exist in the system that the user never synced; they must not
	// leak into the fallback scope.
	episodes := &stubEpisodeRepo{episodes: []*entity.Episode{
		{Id: uuid.New()}, {Id: uuid.New()},
	}}
	r := NewRetriever(&stubEmbedder{}, &stubChunkRepo{}, episodes, synced)

	ids, err := r.ExpandScope(context.Background(), userId, entity.SessionScope{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != syncedEpisode {
		t.Fatalf("fallback scope = %v, want exactly the synced episode %s", ids, syncedEpisode)
	}
}

func TestRetrieveScopesTheVectorSearch(t *testing.T) {
	userId := uuid.New()
	syncedEpisode := uuid.New()
	synced := &stubSyncedRepo{links: []*entity.UserSyncedEpisode{
		{Id: uuid.New(), UserId: userId, EpisodeId: syncedEpisode},
	}}
	chunks := &stubChunkRepo{result: []*contract.ScoredTranscriptChunk{
		{Chunk: &entity.TranscriptChunk{EpisodeId: syncedEpisode}, Similarity: 0.9},
	}}
	embedder := &stubEmbedder{}
	r := NewRetriever(embedder, chunks, &stubEpisodeRepo{}, synced)

	got, err := r.Retrieve(context.Background(), userId, entity.SessionScope{}, "what was said about memory?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d chunks, want 1", len(got))
	}
	if embedder.calls != 1 {
		t.Errorf("embedder called %d times, want 1", embedder.calls)
	}
	if len(chunks.searchedEpisodeIds) != 1 || chunks.searchedEpisodeIds[0] != syncedEpisode {
		t.Errorf("search filtered to %v, want [%s]", chunks.searchedEpisodeIds, syncedEpisode)
	}
}

func TestRetrieveEmptyScopeReturnsNothing(t *testing.T) {
	chunks := &stubChunkRepo{}
	embedder := &stubEmbedder{}
	r := NewRetriever(embedder, chunks, &stubEpisodeRepo{}, &stubSyncedRepo{})

	got, err := r.Retrieve(context.Background(), uuid.New(), entity.SessionScope{}, "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("got %v, want nil for a user with nothing synced", got)
	}
	if embedder.calls != 0 || chunks.searchCalls != 0 {
		t.Error("embedding or search ran despite an empty scope")
	}
}
