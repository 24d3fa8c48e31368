package service

import (
	"context"
	"time"

	"borrowed-brain-be/internal/dto"
	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/repository/specification"
	"borrowed-brain-be/internal/repository/unitofwork"
	"borrowed-brain-be/pkg/catalog"

	"github.com/google/uuid"
)

type ILibraryService interface {
	AddToLibrary(ctx context.Context, userId uuid.UUID, req *dto.AddToLibraryRequest) (*dto.AddToLibraryResponse, error)
	ListLibrary(ctx context.Context, userId uuid.UUID) ([]dto.LibraryEntryResponse, error)
	RemoveFromLibrary(ctx context.Context, userId, podcastId uuid.UUID) error
}

type libraryService struct {
	uowFactory    unitofwork.RepositoryFactory
	catalogClient *catalog.Client
}

func NewLibraryService(uowFactory unitofwork.RepositoryFactory, catalogClient *catalog.Client) ILibraryService {
	return &libraryService{
		uowFactory:    uowFactory,
		catalogClient: catalogClient,
	}
}

// AddToLibrary materializes the shared Podcast row on first reference by any
// user, then records the per-user entry. Adding twice is a no-op.
func (s *libraryService) AddToLibrary(ctx context.Context, userId uuid.UUID, req *dto.AddToLibraryRequest) (*dto.AddToLibraryResponse, error) {
	feed, err := s.catalogClient.PodcastByFeedId(ctx, req.CatalogUuid)
	if err != nil {
		return nil, ErrPodcastNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	podcast := &entity.Podcast{
		Id:           uuid.New(),
		CatalogUuid:  req.CatalogUuid,
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

	existing, err := uow.UserLibraryRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByPodcastID{PodcastID: podcast.Id},
	)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		entry := &entity.UserLibraryEntry{
			Id:        uuid.New(),
			UserId:    userId,
			PodcastId: podcast.Id,
			CreatedAt: time.Now(),
		}
		if err := uow.UserLibraryRepository().Create(ctx, entry); err != nil {
			return nil, err
		}
	}

	return &dto.AddToLibraryResponse{PodcastId: podcast.Id}, nil
}

func (s *libraryService) ListLibrary(ctx context.Context, userId uuid.UUID) ([]dto.LibraryEntryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entries, err := uow.UserLibraryRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []dto.LibraryEntryResponse{}, nil
	}

	podcastIds := make([]uuid.UUID, len(entries))
	for i, entry := range entries {
		podcastIds[i] = entry.PodcastId
	}
	podcasts, err := uow.PodcastRepository().FindAll(ctx, specification.ByIDs{IDs: podcastIds})
	if err != nil {
		return nil, err
	}
	byId := make(map[uuid.UUID]*entity.Podcast, len(podcasts))
	for _, p := range podcasts {
		byId[p.Id] = p
	}

	res := make([]dto.LibraryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		podcast, ok := byId[entry.PodcastId]
		if !ok {
			continue
		}
		res = append(res, dto.LibraryEntryResponse{
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
			AddedAt: entry.CreatedAt,
		})
	}
	return res, nil
}

// RemoveFromLibrary deletes only the user's entry. The shared Podcast,
// Episode and Transcript rows stay for everyone else.
func (s *libraryService) RemoveFromLibrary(ctx context.Context, userId, podcastId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserLibraryRepository().Delete(ctx, userId, podcastId)
}
