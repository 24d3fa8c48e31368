package mapper

import (
	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/model"
)

type LibraryMapper struct{}

func NewLibraryMapper() *LibraryMapper {
	return &LibraryMapper{}
}

func (m *LibraryMapper) EntryToEntity(e *model.UserLibraryEntry) *entity.UserLibraryEntry {
	if e == nil {
		return nil
	}
	return &entity.UserLibraryEntry{
		Id:        e.Id,
		UserId:    e.UserId,
		PodcastId: e.PodcastId,
		CreatedAt: e.CreatedAt,
	}
}

func (m *LibraryMapper) EntryToModel(e *entity.UserLibraryEntry) *model.UserLibraryEntry {
	if e == nil {
		return nil
	}
	return &model.UserLibraryEntry{
		Id:        e.Id,
		UserId:    e.UserId,
		PodcastId: e.PodcastId,
		CreatedAt: e.CreatedAt,
	}
}

func (m *LibraryMapper) SyncedToEntity(s *model.UserSyncedEpisode) *entity.UserSyncedEpisode {
	if s == nil {
		return nil
	}
	return &entity.UserSyncedEpisode{
		Id:        s.Id,
		UserId:    s.UserId,
		EpisodeId: s.EpisodeId,
		CreatedAt: s.CreatedAt,
	}
}

func (m *LibraryMapper) SyncedToModel(s *entity.UserSyncedEpisode) *model.UserSyncedEpisode {
	if s == nil {
		return nil
	}
	return &model.UserSyncedEpisode{
		Id:        s.Id,
		UserId:    s.UserId,
		EpisodeId: s.EpisodeId,
		CreatedAt: s.CreatedAt,
	}
}
