package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"borrowed-brain-be/internal/constant"
	"borrowed-brain-be/internal/dto"
	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/repository/specification"
	"borrowed-brain-be/internal/repository/unitofwork"
	"borrowed-brain-be/pkg/catalog"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

type IPodcastService interface {
	Search(ctx context.Context, req *dto.SearchPodcastsRequest) ([]dto.SearchPodcastResult, error)
	GetByCatalogUuid(ctx context.Context, userId uuid.UUID, catalogUuid string) (*dto.PodcastDetailResponse, error)
}

type podcastService struct {
	uowFactory    unitofwork.RepositoryFactory
	catalogClient *catalog.Client
	searchCache   *gocache.Cache
}

func NewPodcastService(uowFactory unitofwork.RepositoryFactory, catalogClient *catalog.Client, searchTTL time.Duration) IPodcastService {
	if searchTTL <= 0 {
		searchTTL = 10 * time.Minute
	}
	return &podcastService{
		uowFactory:    uowFactory,
		catalogClient: catalogClient,
		searchCache:   gocache.New(searchTTL, 2*searchTTL),
	}
}

func (s *podcastService) Search(ctx context.Context, req *dto.SearchPodcastsRequest) ([]dto.SearchPodcastResult, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("search:%s:%d", req.Query, limit)
	if cached, found := s.searchCache.Get(cacheKey); found {
		return cached.([]dto.SearchPodcastResult), nil
	}

	feeds, err := s.catalogClient.Search(ctx, req.Query, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog search: %w", err)
	}

	results := make([]dto.SearchPodcastResult, len(feeds))
	catalogUuids := make([]string, len(feeds))
	for i, feed := range feeds {
		catalogUuids[i] = strconv.FormatInt(feed.FeedId, 10)
		results[i] = dto.SearchPodcastResult{
			CatalogUuid:  catalogUuids[i],
			Name:         feed.Title,
			Author:       feed.Author,
			ArtworkURL:   feed.Artwork,
			EpisodeCount: feed.EpisodeCount,
			Genres:       feed.Categories,
		}
	}

	// Attach local ids where the shared row already exists.
	if len(catalogUuids) > 0 {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		known, err := uow.PodcastRepository().FindAll(ctx, specification.ByCatalogUuids{CatalogUuids: catalogUuids})
		if err == nil {
			byCatalog := make(map[string]uuid.UUID, len(known))
			for _, p := range known {
				byCatalog[p.CatalogUuid] = p.Id
			}
			for i := range results {
				if id, ok := byCatalog[results[i].CatalogUuid]; ok {
					localId := id
					results[i].Id = &localId
				}
			}
		}
	}

	s.searchCache.Set(cacheKey, results, gocache.DefaultExpiration)
	return results, nil
}

// GetByCatalogUuid lazily materializes the shared Podcast/Episode rows from
// the catalog, then overlays transcript status and the caller's synced set.
func (s *podcastService) GetByCatalogUuid(ctx context.Context, userId uuid.UUID, catalogUuid string) (*dto.PodcastDetailResponse, error) {
	feed, err := s.catalogClient.PodcastByFeedId(ctx, catalogUuid)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	podcast := &entity.Podcast{
		Id:           uuid.New(),
		CatalogUuid:  catalogUuid,
		Name:         feed.Title,
		Author:       feed.Author,
		ArtworkURL:   feed.Artwork,
		EpisodeCount: feed.EpisodeCount,
		Genres:       feed.Categories,
		CreatedAt:    time.Now(),
	}
	if err := uow.PodcastRepository().UpsertByCatalogUuid(ctx, podcast); err != nil {
		return nil, err
	}

	items, err := s.catalogClient.EpisodesByFeedId(ctx, catalogUuid, 100)
	if err != nil {
		return nil, err
	}

	episodes := make([]*entity.Episode, len(items))
	for i, item := range items {
		var publishedAt *time.Time
		if item.DatePublished > 0 {
			t := time.Unix(item.DatePublished, 0)
			publishedAt = &t
		}
		episodes[i] = &entity.Episode{
			Id:              uuid.New(),
			CatalogUuid:     strconv.FormatInt(item.Id, 10),
			PodcastId:       podcast.Id,
			Name:            item.Title,
			AudioURL:        item.EnclosureUrl,
			DurationSeconds: item.Duration,
			EpisodeNumber:   item.Episode,
			SeasonNumber:    item.Season,
			PublishedAt:     publishedAt,
			CreatedAt:       time.Now(),
		}
	}
	if len(episodes) > 0 {
		if err := uow.EpisodeRepository().UpsertBulkByCatalogUuid(ctx, episodes); err != nil {
			return nil, err
		}
	}

	episodeIds := make([]uuid.UUID, len(episodes))
	for i, ep := range episodes {
		episodeIds[i] = ep.Id
	}

	statusByEpisode := make(map[uuid.UUID]string)
	if len(episodeIds) > 0 {
		transcripts, err := uow.TranscriptRepository().FindAll(ctx, specification.ByEpisodeIDs{EpisodeIDs: episodeIds})
		if err != nil {
			return nil, err
		}
		for _, tr := range transcripts {
			statusByEpisode[tr.EpisodeId] = tr.Status
		}
	}

	syncedByEpisode := make(map[uuid.UUID]bool)
	links, err := uow.UserSyncedEpisodeRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		syncedByEpisode[link.EpisodeId] = true
	}

	res := &dto.PodcastDetailResponse{
		Podcast: dto.PodcastResponse{
			Id:           podcast.Id,
			CatalogUuid:  podcast.CatalogUuid,
			Name:         podcast.Name,
			Author:       podcast.Author,
			ArtworkURL:   podcast.ArtworkURL,
			EpisodeCount: podcast.EpisodeCount,
			Genres:       podcast.Genres,
			CreatedAt:    podcast.CreatedAt,
		},
		Episodes: make([]dto.EpisodeResponse, len(episodes)),
	}
	for i, ep := range episodes {
		status, ok := statusByEpisode[ep.Id]
		if !ok {
			status = constant.TranscriptStatusNotSynced
		}
		res.Episodes[i] = dto.EpisodeResponse{
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
			SyncedByUser:     syncedByEpisode[ep.Id],
		}
	}
	return res, nil
}

var ErrPodcastNotFound = errors.New("podcast not found")
