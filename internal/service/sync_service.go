package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"borrowed-brain-be/internal/constant"
	"borrowed-brain-be/internal/dto"
	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/repository/specification"
	"borrowed-brain-be/internal/repository/unitofwork"
	"borrowed-brain-be/pkg/events"
	pktNats "borrowed-brain-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

var ErrEpisodeNotFound = errors.New("episode not found")

// JobSubmitter is the narrow slice of the queue the sync service needs.
type JobSubmitter interface {
	SubmitJob(ctx context.Context, job pktNats.SyncJobMessage) error
}

type ISyncService interface {
	// SyncEpisode runs the dedup state machine: link instantly on a synced
	// transcript, attach to an in-flight job, or claim and trigger a new one.
	SyncEpisode(ctx context.Context, userId, episodeId uuid.UUID) (*dto.SyncEpisodeResponse, error)
	Status(ctx context.Context, userId, episodeId uuid.UUID) (*dto.SyncStatusResponse, error)
	ListSyncedEpisodes(ctx context.Context, userId uuid.UUID) ([]dto.SyncedEpisodeResponse, error)
}

type syncService struct {
	uowFactory unitofwork.RepositoryFactory
	jobQueue   JobSubmitter
	statusBus  message.Publisher
}

func NewSyncService(uowFactory unitofwork.RepositoryFactory, jobQueue JobSubmitter, statusBus message.Publisher) ISyncService {
	return &syncService{
		uowFactory: uowFactory,
		jobQueue:   jobQueue,
		statusBus:  statusBus,
	}
}

func (s *syncService) SyncEpisode(ctx context.Context, userId, episodeId uuid.UUID) (*dto.SyncEpisodeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	episode, err := uow.EpisodeRepository().FindOne(ctx, specification.ByID{ID: episodeId})
	if err != nil {
		return nil, err
	}
	if episode == nil {
		return nil, ErrEpisodeNotFound
	}

	transcript, err := uow.TranscriptRepository().FindOne(ctx, specification.ByEpisodeID{EpisodeID: episodeId})
	if err != nil {
		return nil, err
	}

	// Synced transcript: no work is repeated for anyone, just link the user.
	if transcript != nil && transcript.Status == constant.TranscriptStatusSynced {
		if err := s.linkUser(ctx, uow, userId, episodeId); err != nil {
			return nil, err
		}
		return &dto.SyncEpisodeResponse{
			Outcome:          constant.SyncOutcomeLinkedInstantly,
			TranscriptStatus: constant.TranscriptStatusSynced,
		}, nil
	}

	// In-flight sync: link optimistically and surface the running job so the
	// caller can poll it.
	if transcript != nil && (transcript.Status == constant.TranscriptStatusQueued || transcript.Status == constant.TranscriptStatusSyncing) {
		return s.attachToInFlight(ctx, uow, userId, episodeId, transcript.Status)
	}

	// Absent, not_synced or failed: claim atomically. Losing the claim means
	// another request got there first between the read above and now.
	claimed, won, err := uow.TranscriptRepository().ClaimForSync(ctx, episodeId)
	if err != nil {
		return nil, err
	}
	if !won {
		if claimed != nil && claimed.Status == constant.TranscriptStatusSynced {
			if err := s.linkUser(ctx, uow, userId, episodeId); err != nil {
				return nil, err
			}
			return &dto.SyncEpisodeResponse{
				Outcome:          constant.SyncOutcomeLinkedInstantly,
				TranscriptStatus: constant.TranscriptStatusSynced,
			}, nil
		}
		status := constant.TranscriptStatusQueued
		if claimed != nil {
			status = claimed.Status
		}
		return s.attachToInFlight(ctx, uow, userId, episodeId, status)
	}

	job := &entity.SyncJob{
		Id:        uuid.New(),
		UserId:    userId,
		EpisodeId: episodeId,
		Status:    constant.SyncJobStatusQueued,
		CreatedAt: time.Now(),
	}
	job.RunId = job.Id.String()
	if err := uow.SyncJobRepository().Create(ctx, job); err != nil {
		return nil, err
	}

	if err := s.jobQueue.SubmitJob(ctx, pktNats.SyncJobMessage{
		JobId:     job.Id,
		UserId:    userId,
		EpisodeId: episodeId,
		QueuedAt:  time.Now(),
	}); err != nil {
		// The claim stands but nothing will process it; surface the failure
		// on both rows rather than leaving a silent stuck queue entry.
		msg := "failed to enqueue sync job: " + err.Error()
		_ = uow.TranscriptRepository().UpdateStatus(ctx, episodeId, constant.TranscriptStatusFailed, &msg)
		_ = uow.SyncJobRepository().UpdateStatus(ctx, job.Id, constant.SyncJobStatusFailed, &msg)
		return nil, err
	}

	s.publishStatus(events.SyncStatusEvent{
		Type:        events.EventSyncQueued,
		UserId:      userId,
		EpisodeId:   episodeId,
		JobId:       &job.Id,
		EpisodeName: episode.Name,
		OccurredAt:  time.Now(),
	})

	jobId := job.Id
	return &dto.SyncEpisodeResponse{
		Outcome:          constant.SyncOutcomeJobTriggered,
		TranscriptStatus: constant.TranscriptStatusQueued,
		JobId:            &jobId,
	}, nil
}

func (s *syncService) attachToInFlight(ctx context.Context, uow unitofwork.UnitOfWork, userId, episodeId uuid.UUID, status string) (*dto.SyncEpisodeResponse, error) {
	if err := s.linkUser(ctx, uow, userId, episodeId); err != nil {
		return nil, err
	}

	res := &dto.SyncEpisodeResponse{
		Outcome:          constant.SyncOutcomeJobTriggered,
		TranscriptStatus: status,
		Reason:           "sync already in progress",
	}
	if job, err := uow.SyncJobRepository().FindLatestForEpisode(ctx, episodeId); err == nil && job != nil {
		jobId := job.Id
		res.JobId = &jobId
	}
	return res, nil
}

func (s *syncService) linkUser(ctx context.Context, uow unitofwork.UnitOfWork, userId, episodeId uuid.UUID) error {
	return uow.UserSyncedEpisodeRepository().Upsert(ctx, &entity.UserSyncedEpisode{
		Id:        uuid.New(),
		UserId:    userId,
		EpisodeId: episodeId,
		CreatedAt: time.Now(),
	})
}

func (s *syncService) publishStatus(event events.SyncStatusEvent) {
	if s.statusBus == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	_ = s.statusBus.Publish(events.TopicSyncStatus, message.NewMessage(watermill.NewUUID(), payload))
}

func (s *syncService) Status(ctx context.Context, userId, episodeId uuid.UUID) (*dto.SyncStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	episode, err := uow.EpisodeRepository().FindOne(ctx, specification.ByID{ID: episodeId})
	if err != nil {
		return nil, err
	}
	if episode == nil {
		return nil, ErrEpisodeNotFound
	}

	res := &dto.SyncStatusResponse{
		EpisodeId:        episodeId,
		TranscriptStatus: constant.TranscriptStatusNotSynced,
	}

	transcript, err := uow.TranscriptRepository().FindOne(ctx, specification.ByEpisodeID{EpisodeID: episodeId})
	if err != nil {
		return nil, err
	}
	if transcript != nil {
		res.TranscriptStatus = transcript.Status
		res.Source = transcript.Source
		res.ChunkCount = transcript.ChunkCount
		res.ErrorMessage = transcript.ErrorMessage
	}

	if job, err := uow.SyncJobRepository().FindLatestForEpisode(ctx, episodeId); err == nil && job != nil {
		jobId := job.Id
		res.JobId = &jobId
		res.JobStatus = job.Status
		res.StartedAt = job.StartedAt
		res.FinishedAt = job.FinishedAt
	}
	return res, nil
}

func (s *syncService) ListSyncedEpisodes(ctx context.Context, userId uuid.UUID) ([]dto.SyncedEpisodeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	links, err := uow.UserSyncedEpisodeRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return []dto.SyncedEpisodeResponse{}, nil
	}

	episodeIds := make([]uuid.UUID, len(links))
	for i, link := range links {
		episodeIds[i] = link.EpisodeId
	}
	episodes, err := uow.EpisodeRepository().FindAll(ctx, specification.ByIDs{IDs: episodeIds})
	if err != nil {
		return nil, err
	}
	byId := make(map[uuid.UUID]*entity.Episode, len(episodes))
	for _, ep := range episodes {
		byId[ep.Id] = ep
	}

	transcripts, err := uow.TranscriptRepository().FindAll(ctx, specification.ByEpisodeIDs{EpisodeIDs: episodeIds})
	if err != nil {
		return nil, err
	}
	statusByEpisode := make(map[uuid.UUID]string, len(transcripts))
	for _, tr := range transcripts {
		statusByEpisode[tr.EpisodeId] = tr.Status
	}

	res := make([]dto.SyncedEpisodeResponse, 0, len(links))
	for _, link := range links {
		ep, ok := byId[link.EpisodeId]
		if !ok {
			continue
		}
		status, ok := statusByEpisode[ep.Id]
		if !ok {
			status = constant.TranscriptStatusNotSynced
		}
		res = append(res, dto.SyncedEpisodeResponse{
			Episode: dto.EpisodeResponse{
				Id:               ep.Id,
				CatalogUuid:      ep.CatalogUuid,
				PodcastId:        ep.PodcastId,
				Name:             ep.Name,
				AudioURL:         ep.AudioURL,
				DurationSeconds:  ep.DurationSeconds,
				EpisodeNumber:    ep.EpisodeNumber,
				SeasonNumber:     ep.SeasonNumber,
				PublishedAt:      ep.PublishedAt,
				TranscriptStatus: status,
				SyncedByUser:     true,
			},
			SyncedAt: link.CreatedAt,
		})
	}
	return res, nil
}
