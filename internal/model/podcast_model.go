package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Podcast is a shared global catalog row: created on first reference by any
// user, never owned by one. Row-level writes go through the sync pipeline only.
type Podcast struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CatalogUuid  string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string         `gorm:"type:varchar(512);not null"`
	Author       string         `gorm:"type:varchar(512)"`
	ArtworkURL   string         `gorm:"type:text"`
	EpisodeCount int            `gorm:"default:0"`
	Genres       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Podcast) TableName() string {
	return "podcasts"
}
