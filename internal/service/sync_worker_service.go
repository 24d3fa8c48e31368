package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"borrowed-brain-be/internal/constant"
	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/pkg/logger"
	"borrowed-brain-be/internal/repository/specification"
	"borrowed-brain-be/internal/repository/unitofwork"
	"borrowed-brain-be/pkg/catalog"
	"borrowed-brain-be/pkg/chunker"
	"borrowed-brain-be/pkg/embedding"
	"borrowed-brain-be/pkg/events"
	pktNats "borrowed-brain-be/pkg/nats"
	"borrowed-brain-be/pkg/transcription"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// ChunkCollection is the vector-store collection reference recorded on every
// synced transcript.
const ChunkCollection = "transcript_chunks"

// TranscriptFetcher is the catalog-first acquisition gateway.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, catalogEpisodeId string) (*catalog.Transcript, error)
}

// Transcriber is the speech-to-text fallback gateway.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (*transcription.Result, error)
}

type ISyncWorkerService interface {
	// HandleJob executes one sync unit of work. At-least-once delivery: every
	// step is idempotent so a redelivered job converges instead of duplicating.
	HandleJob(ctx context.Context, job pktNats.SyncJobMessage) error
}

type syncWorkerService struct {
	uowFactory  unitofwork.RepositoryFactory
	fetcher     TranscriptFetcher
	transcriber Transcriber
	embedder    embedding.Provider
	splitter    *chunker.Chunker
	statusBus   message.Publisher
	log         logger.ILogger
}

func NewSyncWorkerService(
	uowFactory unitofwork.RepositoryFactory,
	fetcher TranscriptFetcher,
	transcriber Transcriber,
	embedder embedding.Provider,
	splitter *chunker.Chunker,
	statusBus message.Publisher,
	log logger.ILogger,
) ISyncWorkerService {
	return &syncWorkerService{
		uowFactory:  uowFactory,
		fetcher:     fetcher,
		transcriber: transcriber,
		embedder:    embedder,
		splitter:    splitter,
		statusBus:   statusBus,
		log:         log,
	}
}

func (s *syncWorkerService) HandleJob(ctx context.Context, job pktNats.SyncJobMessage) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	episode, err := uow.EpisodeRepository().FindOne(ctx, specification.ByID{ID: job.EpisodeId})
	if err != nil {
		return err
	}
	if episode == nil {
		// Episode row gone; there is nothing to retry against.
		s.log.Warn("sync_worker", "episode missing, dropping job", map[string]interface{}{"job_id": job.JobId.String()})
		return nil
	}

	// Re-check: another run may have reached synced since this job was
	// scheduled. Link the user and finish cleanly.
	transcript, err := uow.TranscriptRepository().FindOne(ctx, specification.ByEpisodeID{EpisodeID: job.EpisodeId})
	if err != nil {
		return err
	}
	if transcript != nil && transcript.Status == constant.TranscriptStatusSynced {
		if err := s.linkUser(ctx, uow, job.UserId, job.EpisodeId); err != nil {
			return err
		}
		return uow.SyncJobRepository().UpdateStatus(ctx, job.JobId, constant.SyncJobStatusCompleted, nil)
	}

	if err := uow.TranscriptRepository().UpdateStatus(ctx, job.EpisodeId, constant.TranscriptStatusSyncing, nil); err != nil {
		return err
	}
	if err := uow.SyncJobRepository().UpdateStatus(ctx, job.JobId, constant.SyncJobStatusProcessing, nil); err != nil {
		return err
	}
	s.publishStatus(events.SyncStatusEvent{
		Type:        events.EventSyncStarted,
		UserId:      job.UserId,
		EpisodeId:   job.EpisodeId,
		JobId:       &job.JobId,
		EpisodeName: episode.Name,
		OccurredAt:  time.Now(),
	})

	text, segments, source, err := s.acquireTranscript(ctx, episode)
	if err != nil {
		return s.fail(ctx, uow, job, episode.Name, err)
	}

	chunks := s.splitter.Chunk(text, segments)
	if len(chunks) == 0 {
		return s.fail(ctx, uow, job, episode.Name, fmt.Errorf("transcript is empty"))
	}

	podcast, err := uow.PodcastRepository().FindOne(ctx, specification.ByID{ID: episode.PodcastId})
	if err != nil {
		return err
	}
	podcastName := ""
	if podcast != nil {
		podcastName = podcast.Name
	}

	chunkRows := make([]*entity.TranscriptChunk, len(chunks))
	for i, ch := range chunks {
		vector, err := s.embedder.Generate(ctx, ch.Text, embedding.TaskTypeDocument)
		if err != nil {
			return s.fail(ctx, uow, job, episode.Name, fmt.Errorf("embed chunk %d: %w", ch.Index, err))
		}
		chunkRows[i] = &entity.TranscriptChunk{
			Id:             uuid.New(),
			EpisodeId:      job.EpisodeId,
			ChunkIndex:     ch.Index,
			Document:       ch.Text,
			EmbeddingValue: vector,
			PodcastId:      episode.PodcastId,
			PodcastName:    podcastName,
			EpisodeName:    episode.Name,
			StartTime:      ch.StartTime,
			EndTime:        ch.EndTime,
			Speaker:        ch.Speaker,
			CreatedAt:      time.Now(),
		}
	}

	// One transaction for the terminal writes: stale chunks from an earlier
	// partial run are cleared, the canonical set goes in, and the status rows
	// flip together.
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.TranscriptChunkRepository().DeleteByEpisodeId(ctx, job.EpisodeId); err != nil {
		return err
	}
	if err := uow.TranscriptChunkRepository().UpsertBulk(ctx, chunkRows); err != nil {
		return err
	}

	fullText := text
	if err := uow.TranscriptRepository().MarkSynced(ctx, &entity.Transcript{
		EpisodeId:  job.EpisodeId,
		Source:     source,
		FullText:   &fullText,
		ChunkCount: len(chunkRows),
		Collection: ChunkCollection,
	}); err != nil {
		return err
	}
	if err := uow.SyncJobRepository().UpdateStatus(ctx, job.JobId, constant.SyncJobStatusCompleted, nil); err != nil {
		return err
	}
	if err := s.linkUser(ctx, uow, job.UserId, job.EpisodeId); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.log.Info("sync_worker", "episode synced", map[string]interface{}{
		"episode_id": job.EpisodeId.String(),
		"source":     source,
		"chunks":     len(chunkRows),
	})
	s.publishStatus(events.SyncStatusEvent{
		Type:        events.EventSyncCompleted,
		UserId:      job.UserId,
		EpisodeId:   job.EpisodeId,
		JobId:       &job.JobId,
		EpisodeName: episode.Name,
		OccurredAt:  time.Now(),
	})
	return nil
}

// acquireTranscript tries the catalog's ready-made transcript first and falls
// back to speech-to-text on the episode audio.
func (s *syncWorkerService) acquireTranscript(ctx context.Context, episode *entity.Episode) (string, []chunker.Segment, string, error) {
	if ready, err := s.fetcher.FetchTranscript(ctx, episode.CatalogUuid); err == nil && ready.Status == catalog.TranscriptStatusComplete {
		segments := make([]chunker.Segment, len(ready.Segments))
		for i, seg := range ready.Segments {
			segments[i] = chunker.Segment{
				Text:      seg.Text,
				StartTime: seg.StartTime,
				EndTime:   seg.EndTime,
				Speaker:   seg.Speaker,
			}
		}
		return ready.Text, segments, constant.TranscriptSourceCatalog, nil
	}

	result, err := s.transcriber.Transcribe(ctx, episode.AudioURL)
	if err != nil {
		return "", nil, "", fmt.Errorf("transcription failed: %w", err)
	}

	segments := make([]chunker.Segment, len(result.Utterances))
	for i, u := range result.Utterances {
		segments[i] = chunker.Segment{
			Text:      u.Text,
			StartTime: u.StartTime,
			EndTime:   u.EndTime,
			Speaker:   "Speaker " + strconv.Itoa(u.Speaker),
		}
	}
	return result.Text, segments, constant.TranscriptSourceSpeechToText, nil
}

// fail records the terminal failure on both rows, emits the failure event and
// returns the error so the queue's retry policy takes over.
func (s *syncWorkerService) fail(ctx context.Context, uow unitofwork.UnitOfWork, job pktNats.SyncJobMessage, episodeName string, cause error) error {
	msg := cause.Error()
	if err := uow.TranscriptRepository().UpdateStatus(ctx, job.EpisodeId, constant.TranscriptStatusFailed, &msg); err != nil {
		s.log.Error("sync_worker", "failed to record transcript failure", map[string]interface{}{"error": err.Error()})
	}
	if err := uow.SyncJobRepository().UpdateStatus(ctx, job.JobId, constant.SyncJobStatusFailed, &msg); err != nil {
		s.log.Error("sync_worker", "failed to record job failure", map[string]interface{}{"error": err.Error()})
	}

	s.publishStatus(events.SyncStatusEvent{
		Type:         events.EventSyncFailed,
		UserId:       job.UserId,
		EpisodeId:    job.EpisodeId,
		JobId:        &job.JobId,
		EpisodeName:  episodeName,
		ErrorMessage: msg,
		OccurredAt:   time.Now(),
	})
	return cause
}

func (s *syncWorkerService) linkUser(ctx context.Context, uow unitofwork.UnitOfWork, userId, episodeId uuid.UUID) error {
	return uow.UserSyncedEpisodeRepository().Upsert(ctx, &entity.UserSyncedEpisode{
		Id:        uuid.New(),
		UserId:    userId,
		EpisodeId: episodeId,
		CreatedAt: time.Now(),
	})
}

func (s *syncWorkerService) publishStatus(event events.SyncStatusEvent) {
	if s.statusBus == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	_ = s.statusBus.Publish(events.TopicSyncStatus, message.NewMessage(watermill.NewUUID(), payload))
}
