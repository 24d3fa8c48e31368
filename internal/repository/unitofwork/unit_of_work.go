package unitofwork

import (
	"context"

	"borrowed-brain-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	PodcastRepository() contract.PodcastRepository
	EpisodeRepository() contract.EpisodeRepository
	TranscriptRepository() contract.TranscriptRepository
	TranscriptChunkRepository() contract.TranscriptChunkRepository

	UserLibraryRepository() contract.UserLibraryRepository
	UserSyncedEpisodeRepository() contract.UserSyncedEpisodeRepository
	SyncJobRepository() contract.SyncJobRepository

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ChatCitationRepository() contract.ChatCitationRepository
}
