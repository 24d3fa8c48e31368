package unitofwork

import (
	"context"
	"fmt"

	"borrowed-brain-be/internal/repository/contract"
	"borrowed-brain-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil when operating outside one
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.getDB())
}

func (u *UnitOfWorkImpl) PodcastRepository() contract.PodcastRepository {
	return implementation.NewPodcastRepository(u.getDB())
}

func (u *UnitOfWorkImpl) EpisodeRepository() contract.EpisodeRepository {
	return implementation.NewEpisodeRepository(u.getDB())
}

func (u *UnitOfWorkImpl) TranscriptRepository() contract.TranscriptRepository {
	return implementation.NewTranscriptRepository(u.getDB())
}

func (u *UnitOfWorkImpl) TranscriptChunkRepository() contract.TranscriptChunkRepository {
	return implementation.NewTranscriptChunkRepository(u.getDB())
}

func (u *UnitOfWorkImpl) UserLibraryRepository() contract.UserLibraryRepository {
	return implementation.NewUserLibraryRepository(u.getDB())
}

func (u *UnitOfWorkImpl) UserSyncedEpisodeRepository() contract.UserSyncedEpisodeRepository {
	return implementation.NewUserSyncedEpisodeRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SyncJobRepository() contract.SyncJobRepository {
	return implementation.NewSyncJobRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ChatSessionRepository() contract.ChatSessionRepository {
	return implementation.NewChatSessionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ChatMessageRepository() contract.ChatMessageRepository {
	return implementation.NewChatMessageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ChatCitationRepository() contract.ChatCitationRepository {
	return implementation.NewChatCitationRepository(u.getDB())
}
