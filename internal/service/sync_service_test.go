package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"borrowed-brain-be/internal/constant"
	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/repository/contract"
	"borrowed-brain-be/internal/repository/specification"
	"borrowed-brain-be/internal/repository/unitofwork"
	"borrowed-brain-be/pkg/events"
	pktNats "borrowed-brain-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// ---- in-test fakes -------------------------------------------------------

type fakeEpisodeRepo struct {
	episodes map[uuid.UUID]*entity.Episode
}

func (r *fakeEpisodeRepo) Create(ctx context.Context, episode *entity.Episode) error { return nil }
func (r *fakeEpisodeRepo) Update(ctx context.Context, episode *entity.Episode) error { return nil }
func (r *fakeEpisodeRepo) Delete(ctx context.Context, id uuid.UUID) error            { return nil }
func (r *fakeEpisodeRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.episodes)), nil
}

func (r *fakeEpisodeRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Episode, error) {
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			return r.episodes[byId.ID], nil
		}
	}
	return nil, nil
}

func (r *fakeEpisodeRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Episode, error) {
	var out []*entity.Episode
	for _, spec := range specs {
		if byIds, ok := spec.(specification.ByIDs); ok {
			for _, id := range byIds.IDs {
				if ep, found := r.episodes[id]; found {
					out = append(out, ep)
				}
			}
			return out, nil
		}
	}
	for _, ep := range r.episodes {
		out = append(out, ep)
	}
	return out, nil
}

func (r *fakeEpisodeRepo) UpsertBulkByCatalogUuid(ctx context.Context, episodes []*entity.Episode) error {
	return nil
}

type transcriptStatusUpdate struct {
	episodeId    uuid.UUID
	status       string
	errorMessage *string
}

type fakeTranscriptRepo struct {
	transcript    *entity.Transcript
	claimWin      bool
	claimed       *entity.Transcript
	statusUpdates []transcriptStatusUpdate
	markedSynced  *entity.Transcript
}

func (r *fakeTranscriptRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Transcript, error) {
	return r.transcript, nil
}

func (r *fakeTranscriptRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Transcript, error) {
	if r.transcript == nil {
		return nil, nil
	}
	return []*entity.Transcript{r.transcript}, nil
}

func (r *fakeTranscriptRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (r *fakeTranscriptRepo) ClaimForSync(ctx context.Context, episodeId uuid.UUID) (*entity.Transcript, bool, error) {
	if r.claimWin {
		r.transcript = &entity.Transcript{
			Id:        uuid.New(),
			EpisodeId: episodeId,
			Status:    constant.TranscriptStatusQueued,
			CreatedAt: time.Now(),
		}
		return r.transcript, true, nil
	}
	return r.claimed, false, nil
}

func (r *fakeTranscriptRepo) UpdateStatus(ctx context.Context, episodeId uuid.UUID, status string, errorMessage *string) error {
	r.statusUpdates = append(r.statusUpdates, transcriptStatusUpdate{episodeId, status, errorMessage})
	if r.transcript != nil {
		r.transcript.Status = status
		r.transcript.ErrorMessage = errorMessage
	}
	return nil
}

func (r *fakeTranscriptRepo) MarkSynced(ctx context.Context, transcript *entity.Transcript) error {
	r.markedSynced = transcript
	return nil
}

type jobStatusUpdate struct {
	jobId        uuid.UUID
	status       string
	errorMessage *string
}

type fakeSyncJobRepo struct {
	created       []*entity.SyncJob
	latest        *entity.SyncJob
	statusUpdates []jobStatusUpdate
}

func (r *fakeSyncJobRepo) Create(ctx context.Context, job *entity.SyncJob) error {
	r.created = append(r.created, job)
	r.latest = job
	return nil
}

func (r *fakeSyncJobRepo) Update(ctx context.Context, job *entity.SyncJob) error { return nil }

func (r *fakeSyncJobRepo) UpdateStatus(ctx context.Context, jobId uuid.UUID, status string, errorMessage *string) error {
	r.statusUpdates = append(r.statusUpdates, jobStatusUpdate{jobId, status, errorMessage})
	return nil
}

func (r *fakeSyncJobRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SyncJob, error) {
	return r.latest, nil
}

func (r *fakeSyncJobRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SyncJob, error) {
	return r.created, nil
}

func (r *fakeSyncJobRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.created)), nil
}

func (r *fakeSyncJobRepo) FindLatestForEpisode(ctx context.Context, episodeId uuid.UUID) (*entity.SyncJob, error) {
	return r.latest, nil
}

type fakeSyncedEpisodeRepo struct {
	upserted []*entity.UserSyncedEpisode
}

func (r *fakeSyncedEpisodeRepo) Upsert(ctx context.Context, link *entity.UserSyncedEpisode) error {
	r.upserted = append(r.upserted, link)
	return nil
}

func (r *fakeSyncedEpisodeRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserSyncedEpisode, error) {
	if len(r.upserted) == 0 {
		return nil, nil
	}
	return r.upserted[0], nil
}

func (r *fakeSyncedEpisodeRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSyncedEpisode, error) {
	return r.upserted, nil
}

func (r *fakeSyncedEpisodeRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.upserted)), nil
}

type fakePodcastRepo struct {
	podcast *entity.Podcast
}

func (r *fakePodcastRepo) Create(ctx context.Context, podcast *entity.Podcast) error { return nil }
func (r *fakePodcastRepo) Update(ctx context.Context, podcast *entity.Podcast) error { return nil }
func (r *fakePodcastRepo) Delete(ctx context.Context, id uuid.UUID) error            { return nil }
func (r *fakePodcastRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Podcast, error) {
	return r.podcast, nil
}
func (r *fakePodcastRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Podcast, error) {
	if r.podcast == nil {
		return nil, nil
	}
	return []*entity.Podcast{r.podcast}, nil
}
func (r *fakePodcastRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (r *fakePodcastRepo) UpsertByCatalogUuid(ctx context.Context, podcast *entity.Podcast) error {
	return nil
}

type fakeChunkRepo struct {
	deleted      []uuid.UUID
	upserted     []*entity.TranscriptChunk
	searchResult []*contract.ScoredTranscriptChunk
}

func (r *fakeChunkRepo) UpsertBulk(ctx context.Context, chunks []*entity.TranscriptChunk) error {
	r.upserted = append(r.upserted, chunks...)
	return nil
}

func (r *fakeChunkRepo) DeleteByEpisodeId(ctx context.Context, episodeId uuid.UUID) error {
	r.deleted = append(r.deleted, episodeId)
	return nil
}

func (r *fakeChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TranscriptChunk, error) {
	return r.upserted, nil
}

func (r *fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.upserted)), nil
}

func (r *fakeChunkRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, episodeIds []uuid.UUID, threshold float64) ([]*contract.ScoredTranscriptChunk, error) {
	return r.searchResult, nil
}

type fakeUow struct {
	episodes    *fakeEpisodeRepo
	transcripts *fakeTranscriptRepo
	jobs        *fakeSyncJobRepo
	synced      *fakeSyncedEpisodeRepo
	podcasts    *fakePodcastRepo
	chunks      *fakeChunkRepo

	users         contract.UserRepository
	chatSessions  contract.ChatSessionRepository
	chatMessages  contract.ChatMessageRepository
	chatCitations contract.ChatCitationRepository

	commits   int
	rollbacks int
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		episodes:    &fakeEpisodeRepo{episodes: map[uuid.UUID]*entity.Episode{}},
		transcripts: &fakeTranscriptRepo{},
		jobs:        &fakeSyncJobRepo{},
		synced:      &fakeSyncedEpisodeRepo{},
		podcasts:    &fakePodcastRepo{},
		chunks:      &fakeChunkRepo{},
	}
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { u.commits++; return nil }
func (u *fakeUow) Rollback() error                 { u.rollbacks++; return nil }

func (u *fakeUow) UserRepository() contract.UserRepository               { return u.users }
func (u *fakeUow) PodcastRepository() contract.PodcastRepository         { return u.podcasts }
func (u *fakeUow) EpisodeRepository() contract.EpisodeRepository         { return u.episodes }
func (u *fakeUow) TranscriptRepository() contract.TranscriptRepository   { return u.transcripts }
func (u *fakeUow) TranscriptChunkRepository() contract.TranscriptChunkRepository {
	return u.chunks
}
func (u *fakeUow) UserLibraryRepository() contract.UserLibraryRepository { return nil }
func (u *fakeUow) UserSyncedEpisodeRepository() contract.UserSyncedEpisodeRepository {
	return u.synced
}
func (u *fakeUow) SyncJobRepository() contract.SyncJobRepository             { return u.jobs }
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository     { return u.chatSessions }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository     { return u.chatMessages }
func (u *fakeUow) ChatCitationRepository() contract.ChatCitationRepository   { return u.chatCitations }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeJobSubmitter struct {
	jobs []pktNats.SyncJobMessage
	err  error
}

func (f *fakeJobSubmitter) SubmitJob(ctx context.Context, job pktNats.SyncJobMessage) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

type capturePublisher struct {
	published map[string][]*message.Message
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{published: map[string][]*message.Message{}}
}

func (p *capturePublisher) Publish(topic string, messages ...*message.Message) error {
	p.published[topic] = append(p.published[topic], messages...)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

// ---- tests ---------------------------------------------------------------

func TestSyncEpisodeTriggersJobOnFirstSync(t *testing.T) {
	uow := newFakeUow()
	episodeId := uuid.New()
	userId := uuid.New()
	uow.episodes.episodes[episodeId] = &entity.Episode{Id: episodeId, Name: "Episode One"}
	uow.transcripts.claimWin = true

	submitter := &fakeJobSubmitter{}
	bus := newCapturePublisher()
	svc := NewSyncService(&fakeUowFactory{uow: uow}, submitter, bus)

	res, err := svc.SyncEpisode(context.Background(), userId, episodeId)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Outcome != constant.SyncOutcomeJobTriggered {
		t.Errorf("outcome = %q, want %q", res.Outcome, constant.SyncOutcomeJobTriggered)
	}
	if res.TranscriptStatus != constant.TranscriptStatusQueued {
		t.Errorf("status = %q, want queued", res.TranscriptStatus)
	}
	if res.JobId == nil {
		t.Fatal("expected a job id")
	}
	if len(uow.jobs.created) != 1 {
		t.Fatalf("created %d jobs, want 1", len(uow.jobs.created))
	}
	if len(submitter.jobs) != 1 {
		t.Fatalf("submitted %d jobs, want 1", len(submitter.jobs))
	}
	if submitter.jobs[0].JobId != *res.JobId {
		t.Errorf("submitted job id %s does not match response %s", submitter.jobs[0].JobId, *res.JobId)
	}
	if len(bus.published[events.TopicSyncStatus]) != 1 {
		t.Errorf("published %d status events, want 1", len(bus.published[events.TopicSyncStatus]))
	}
}

func TestSyncEpisodeLinksInstantlyWhenAlreadySynced(t *testing.T) {
	uow := newFakeUow()
	episodeId := uuid.New()
	userId := uuid.New()
	uow.episodes.episodes[episodeId] = &entity.Episode{Id: episodeId, Name: "Episode One"}
	uow.transcripts.transcript = &entity.Transcript{
		Id:        uuid.New(),
		EpisodeId: episodeId,
		Status:    constant.TranscriptStatusSynced,
	}

	submitter := &fakeJobSubmitter{}
	svc := NewSyncService(&fakeUowFactory{uow: uow}, submitter, newCapturePublisher())

	res, err := svc.SyncEpisode(context.Background(), userId, episodeId)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Outcome != constant.SyncOutcomeLinkedInstantly {
		t.Errorf("outcome = %q, want %q", res.Outcome, constant.SyncOutcomeLinkedInstantly)
	}
	if len(submitter.jobs) != 0 {
		t.Errorf("submitted %d jobs, want 0", len(submitter.jobs))
	}
	if len(uow.jobs.created) != 0 {
		t.Errorf("created %d jobs, want 0", len(uow.jobs.created))
	}
	if len(uow.synced.upserted) != 1 {
		t.Fatalf("linked %d users, want 1", len(uow.synced.upserted))
	}
	if uow.synced.upserted[0].UserId != userId {
		t.Errorf("linked wrong user")
	}
}

func TestSyncEpisodeAttachesToInFlightSync(t *testing.T) {
	uow := newFakeUow()
	episodeId := uuid.New()
	userId := uuid.New()
	uow.episodes.episodes[episodeId] = &entity.Episode{Id: episodeId, Name: "Episode One"}
	uow.transcripts.transcript = &entity.Transcript{
		Id:        uuid.New(),
		EpisodeId: episodeId,
		Status:    constant.TranscriptStatusSyncing,
	}
	runningJob := &entity.SyncJob{Id: uuid.New(), EpisodeId: episodeId, Status: constant.SyncJobStatusProcessing}
	uow.jobs.latest = runningJob

	submitter := &fakeJobSubmitter{}
	svc := NewSyncService(&fakeUowFactory{uow: uow}, submitter, newCapturePublisher())

	res, err := svc.SyncEpisode(context.Background(), userId, episodeId)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Outcome != constant.SyncOutcomeJobTriggered {
		t.Errorf("outcome = %q, want %q", res.Outcome, constant.SyncOutcomeJobTriggered)
	}
	if res.Reason == "" {
		t.Error("expected an in-progress reason")
	}
	if res.JobId == nil || *res.JobId != runningJob.Id {
		t.Error("expected the in-flight job id")
	}
	if len(submitter.jobs) != 0 {
		t.Errorf("submitted %d jobs, want 0", len(submitter.jobs))
	}
	if len(uow.synced.upserted) != 1 {
		t.Errorf("linked %d users, want 1", len(uow.synced.upserted))
	}
}

func TestSyncEpisodeLostClaimDoesNotTriggerJob(t *testing.T) {
	uow := newFakeUow()
	episodeId := uuid.New()
	userId := uuid.New()
	uow.episodes.episodes[episodeId] = &entity.Episode{Id: episodeId, Name: "Episode One"}
	// No transcript on first read, but the claim is lost to a concurrent writer
	// that got the row to queued first.
	uow.transcripts.claimWin = false
	uow.transcripts.claimed = &entity.Transcript{
		Id:        uuid.New(),
		EpisodeId: episodeId,
		Status:    constant.TranscriptStatusQueued,
	}

	submitter := &fakeJobSubmitter{}
	svc := NewSyncService(&fakeUowFactory{uow: uow}, submitter, newCapturePublisher())

	res, err := svc.SyncEpisode(context.Background(), userId, episodeId)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Outcome != constant.SyncOutcomeJobTriggered {
		t.Errorf("outcome = %q, want %q", res.Outcome, constant.SyncOutcomeJobTriggered)
	}
	if len(submitter.jobs) != 0 {
		t.Errorf("lost claim still submitted %d jobs", len(submitter.jobs))
	}
	if len(uow.jobs.created) != 0 {
		t.Errorf("lost claim still created %d jobs", len(uow.jobs.created))
	}
}

func TestSyncEpisodeEnqueueFailureMarksRowsFailed(t *testing.T) {
	uow := newFakeUow()
	episodeId := uuid.New()
	userId := uuid.New()
	uow.episodes.episodes[episodeId] = &entity.Episode{Id: episodeId, Name: "Episode One"}
	uow.transcripts.claimWin = true

	submitter := &fakeJobSubmitter{err: errors.New("nats unavailable")}
	svc := NewSyncService(&fakeUowFactory{uow: uow}, submitter, newCapturePublisher())

	_, err := svc.SyncEpisode(context.Background(), userId, episodeId)
	if err == nil {
		t.Fatal("expected enqueue error")
	}

	if len(uow.transcripts.statusUpdates) != 1 {
		t.Fatalf("recorded %d transcript updates, want 1", len(uow.transcripts.statusUpdates))
	}
	if uow.transcripts.statusUpdates[0].status != constant.TranscriptStatusFailed {
		t.Errorf("transcript status = %q, want failed", uow.transcripts.statusUpdates[0].status)
	}
	if len(uow.jobs.statusUpdates) != 1 || uow.jobs.statusUpdates[0].status != constant.SyncJobStatusFailed {
		t.Error("expected the job to be marked failed")
	}
}

func TestSyncEpisodeUnknownEpisode(t *testing.T) {
	uow := newFakeUow()
	svc := NewSyncService(&fakeUowFactory{uow: uow}, &fakeJobSubmitter{}, newCapturePublisher())

	_, err := svc.SyncEpisode(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrEpisodeNotFound) {
		t.Fatalf("err = %v, want ErrEpisodeNotFound", err)
	}
}

func TestListSyncedEpisodesEmpty(t *testing.T) {
	uow := newFakeUow()
	svc := NewSyncService(&fakeUowFactory{uow: uow}, &fakeJobSubmitter{}, newCapturePublisher())

	res, err := svc.ListSyncedEpisodes(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 0 {
		t.Errorf("got %d episodes, want 0", len(res))
	}
}
