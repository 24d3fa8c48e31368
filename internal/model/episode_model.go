package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Episode struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CatalogUuid     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PodcastId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Name            string    `gorm:"type:varchar(512);not null"`
	AudioURL        string    `gorm:"type:text;not null"`
	DurationSeconds int       `gorm:"default:0"`
	EpisodeNumber   *int
	SeasonNumber    *int
	PublishedAt     *time.Time
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Episode) TableName() string {
	return "episodes"
}
