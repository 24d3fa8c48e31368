package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"borrowed-brain-be/internal/constant"
	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/pkg/catalog"
	"borrowed-brain-be/pkg/chunker"
	"borrowed-brain-be/pkg/events"
	pktNats "borrowed-brain-be/pkg/nats"
	"borrowed-brain-be/pkg/transcription"

	"github.com/google/uuid"
)

type fakeFetcher struct {
	transcript *catalog.Transcript
	err        error
	calls      int
}

func (f *fakeFetcher) FetchTranscript(ctx context.Context, catalogEpisodeId string) (*catalog.Transcript, error) {
	f.calls++
	return f.transcript, f.err
}

type fakeTranscriber struct {
	result *transcription.Result
	err    error
	calls  int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioURL string) (*transcription.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func workerFixture(uow *fakeUow, fetcher *fakeFetcher, transcriber *fakeTranscriber, bus *capturePublisher) ISyncWorkerService {
	return NewSyncWorkerService(
		&fakeUowFactory{uow: uow},
		fetcher,
		transcriber,
		&fakeEmbedder{},
		chunker.New(200, 20),
		bus,
		noopLogger{},
	)
}

func lastStatusEvent(t *testing.T, bus *capturePublisher) events.SyncStatusEvent {
	t.Helper()
	msgs := bus.published[events.TopicSyncStatus]
	if len(msgs) == 0 {
		t.Fatal("no status events published")
	}
	var event events.SyncStatusEvent
	if err := json.Unmarshal(msgs[len(msgs)-1].Payload, &event); err != nil {
		t.Fatalf("bad status payload: %v", err)
	}
	return event
}

func TestHandleJobCatalogTranscriptSuccess(t *testing.T) {
	uow := newFakeUow()
	episodeId := uuid.New()
	podcastId := uuid.New()
	userId := uuid.New()
	uow.episodes.episodes[episodeId] = &entity.Episode{
		Id:          episodeId,
		CatalogUuid: "cat-ep-1",
		PodcastId:   podcastId,
		Name:        "On Memory",
		AudioURL:    "https://cdn.example.com/ep1.mp3",
	}
	uow.podcasts.podcast = &entity.Podcast{Id: podcastId, Name: "Borrowed Brain"}

	fetcher := &fakeFetcher{transcript: &catalog.Transcript{
		Status: catalog.TranscriptStatusComplete,
		Text:   "Welcome to the show. Today we talk about memory and how it fades over time.",
		Segments: []catalog.TimedSegment{
			{Text: "Welcome to the show.", StartTime: 0, EndTime: 4.5, Speaker: "Host"},
			{Text: "Today we talk about memory and how it fades over time.", StartTime: 4.5, EndTime: 12, Speaker: "Host"},
		},
	}}
	transcriber := &fakeTranscriber{}
	bus := newCapturePublisher()
	worker := workerFixture(uow, fetcher, transcriber, bus)

	job := pktNats.SyncJobMessage{JobId: uuid.New(), UserId: userId, EpisodeId: episodeId, QueuedAt: time.Now()}
	if err := worker.HandleJob(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if transcriber.calls != 0 {
		t.Errorf("transcriber called %d times despite catalog transcript", transcriber.calls)
	}
	if len(uow.chunks.deleted) != 1 {
		t.Errorf("stale chunks not cleared before upsert")
	}
	if len(uow.chunks.upserted) == 0 {
		t.Fatal("no chunks written")
	}
	for _, ch := range uow.chunks.upserted {
		if ch.PodcastName != "Borrowed Brain" || ch.EpisodeName != "On Memory" {
			t.Errorf("chunk metadata not denormalized: %+v", ch)
		}
		if len(ch.EmbeddingValue) == 0 {
			t.Error("chunk written without an embedding")
		}
	}

	if uow.transcripts.markedSynced == nil {
		t.Fatal("transcript not marked synced")
	}
	if uow.transcripts.markedSynced.Source != constant.TranscriptSourceCatalog {
		t.Errorf("source = %q, want catalog", uow.transcripts.markedSynced.Source)
	}
	if uow.transcripts.markedSynced.Collection != ChunkCollection {
		t.Errorf("collection = %q, want %q", uow.transcripts.markedSynced.Collection, ChunkCollection)
	}
	if uow.transcripts.markedSynced.ChunkCount != len(uow.chunks.upserted) {
		t.Errorf("chunk count %d does not match %d written rows", uow.transcripts.markedSynced.ChunkCount, len(uow.chunks.upserted))
	}

	last := uow.jobs.statusUpdates[len(uow.jobs.statusUpdates)-1]
	if last.status != constant.SyncJobStatusCompleted {
		t.Errorf("final job status = %q, want completed", last.status)
	}
	if len(uow.synced.upserted) != 1 || uow.synced.upserted[0].UserId != userId {
		t.Error("requesting user not linked to the synced episode")
	}
	if uow.commits != 1 {
		t.Errorf("commits = %d, want 1", uow.commits)
	}

	if event := lastStatusEvent(t, bus); event.Type != events.EventSyncCompleted {
		t.Errorf("last event = %q, want %q", event.Type, events.EventSyncCompleted)
	}
}

func TestHandleJobFallsBackToSpeechToText(t *testing.T) {
	uow := newFakeUow()
	episodeId := uuid.New()
	uow.episodes.episodes[episodeId] = &entity.Episode{
		Id:          episodeId,
		CatalogUuid: "cat-ep-2",
		PodcastId:   uuid.New(),
		Name:        "On Sleep",
		AudioURL:    "https://cdn.example.com/ep2.mp3",
	}

	fetcher := &fakeFetcher{err: errors.New("transcript not available")}
	transcriber := &fakeTranscriber{result: &transcription.Result{
		Text: "Sleep consolidates what the day scattered.",
		Utterances: []transcription.Utterance{
			{Text: "Sleep consolidates what the day scattered.", StartTime: 0, EndTime: 6.2, Speaker: 0},
		},
	}}
	bus := newCapturePublisher()
	worker := workerFixture(uow, fetcher, transcriber, bus)

	job := pktNats.SyncJobMessage{JobId: uuid.New(), UserId: uuid.New(), EpisodeId: episodeId}
	if err := worker.HandleJob(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if transcriber.calls != 1 {
		t.Errorf("transcriber called %d times, want 1", transcriber.calls)
	}
	if uow.transcripts.markedSynced == nil {
		t.Fatal("transcript not marked synced")
	}
	if uow.transcripts.markedSynced.Source != constant.TranscriptSourceSpeechToText {
		t.Errorf("source = %q, want speech_to_text", uow.transcripts.markedSynced.Source)
	}
	speaker := uow.chunks.upserted[0].Speaker
	if speaker == nil || *speaker != "Speaker 0" {
		t.Errorf("speaker label = %v, want %q", speaker, "Speaker 0")
	}
}

func TestHandleJobTranscriptionFailure(t *testing.T) {
	uow := newFakeUow()
	episodeId := uuid.New()
	uow.episodes.episodes[episodeId] = &entity.Episode{
		Id:          episodeId,
		CatalogUuid: "cat-ep-3",
		PodcastId:   uuid.New(),
		Name:        "On Focus",
		AudioURL:    "https://cdn.example.com/ep3.mp3",
	}

	fetcher := &fakeFetcher{err: errors.New("transcript not available")}
	transcriber := &fakeTranscriber{err: errors.New("audio fetch timed out")}
	bus := newCapturePublisher()
	worker := workerFixture(uow, fetcher, transcriber, bus)

	job := pktNats.SyncJobMessage{JobId: uuid.New(), UserId: uuid.New(), EpisodeId: episodeId}
	err := worker.HandleJob(context.Background(), job)
	if err == nil {
		t.Fatal("expected the failure to propagate for queue retry")
	}

	var sawTranscriptFailed bool
	for _, u := range uow.transcripts.statusUpdates {
		if u.status == constant.TranscriptStatusFailed {
			sawTranscriptFailed = true
			if u.errorMessage == nil {
				t.Error("failure recorded without an error message")
			}
		}
	}
	if !sawTranscriptFailed {
		t.Error("transcript never marked failed")
	}

	last := uow.jobs.statusUpdates[len(uow.jobs.statusUpdates)-1]
	if last.status != constant.SyncJobStatusFailed {
		t.Errorf("final job status = %q, want failed", last.status)
	}
	if len(uow.chunks.upserted) != 0 {
		t.Errorf("%d chunks written for a failed sync", len(uow.chunks.upserted))
	}

	event := lastStatusEvent(t, bus)
	if event.Type != events.EventSyncFailed {
		t.Errorf("last event = %q, want %q", event.Type, events.EventSyncFailed)
	}
	if event.ErrorMessage == "" {
		t.Error("failure event missing the error message")
	}
}

func TestHandleJobShortCircuitsWhenAlreadySynced(t *testing.T) {
	uow := newFakeUow()
	episodeId := uuid.New()
	userId := uuid.New()
	uow.episodes.episodes[episodeId] = &entity.Episode{Id: episodeId, Name: "On Habits"}
	uow.transcripts.transcript = &entity.Transcript{
		Id:        uuid.New(),
		EpisodeId: episodeId,
		Status:    constant.TranscriptStatusSynced,
	}

	fetcher := &fakeFetcher{}
	transcriber := &fakeTranscriber{}
	worker := workerFixture(uow, fetcher, transcriber, newCapturePublisher())

	job := pktNats.SyncJobMessage{JobId: uuid.New(), UserId: userId, EpisodeId: episodeId}
	if err := worker.HandleJob(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fetcher.calls != 0 || transcriber.calls != 0 {
		t.Error("gateways called for an already synced episode")
	}
	if len(uow.synced.upserted) != 1 || uow.synced.upserted[0].UserId != userId {
		t.Error("user not linked on short-circuit")
	}
	if len(uow.jobs.statusUpdates) != 1 || uow.jobs.statusUpdates[0].status != constant.SyncJobStatusCompleted {
		t.Error("job not completed on short-circuit")
	}
}

func TestHandleJobDropsJobForMissingEpisode(t *testing.T) {
	uow := newFakeUow()
	worker := workerFixture(uow, &fakeFetcher{}, &fakeTranscriber{}, newCapturePublisher())

	job := pktNats.SyncJobMessage{JobId: uuid.New(), UserId: uuid.New(), EpisodeId: uuid.New()}
	if err := worker.HandleJob(context.Background(), job); err != nil {
		t.Fatalf("missing episode should not be retried, got %v", err)
	}
	if len(uow.transcripts.statusUpdates) != 0 || len(uow.jobs.statusUpdates) != 0 {
		t.Error("writes recorded for a dropped job")
	}
}
