package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserOwnedBy restricts user-owned tables to the authenticated caller's rows.
// Every query against library/sync/chat tables goes through this.
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByEmail filters users by email
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// ByEpisodeID filters rows referencing one episode
type ByEpisodeID struct {
	EpisodeID uuid.UUID
}

func (s ByEpisodeID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("episode_id = ?", s.EpisodeID)
}

// ByEpisodeIDs filters rows referencing any of the given episodes
type ByEpisodeIDs struct {
	EpisodeIDs []uuid.UUID
}

func (s ByEpisodeIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("episode_id IN ?", s.EpisodeIDs)
}

// ByPodcastID filters rows referencing one podcast
type ByPodcastID struct {
	PodcastID uuid.UUID
}

func (s ByPodcastID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("podcast_id = ?", s.PodcastID)
}

// ByPodcastIDs filters rows referencing any of the given podcasts
type ByPodcastIDs struct {
	PodcastIDs []uuid.UUID
}

func (s ByPodcastIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("podcast_id IN ?", s.PodcastIDs)
}

// ByCatalogUuid filters catalog-identified rows (podcasts, episodes)
type ByCatalogUuid struct {
	CatalogUuid string
}

func (s ByCatalogUuid) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("catalog_uuid = ?", s.CatalogUuid)
}

// ByCatalogUuids filters catalog-identified rows by a list of catalog ids
type ByCatalogUuids struct {
	CatalogUuids []string
}

func (s ByCatalogUuids) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("catalog_uuid IN ?", s.CatalogUuids)
}

// ByStatus filters by a status column
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ByChatSessionID filters chat messages for one session
type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}
