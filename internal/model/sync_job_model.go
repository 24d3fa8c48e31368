package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncJob tracks one triggered sync attempt. Dedup short-circuits never create
// one. RunId is the job-runner message id (we reuse the job id for JetStream
// publish dedup).
type SyncJob struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"`
	EpisodeId    uuid.UUID `gorm:"type:uuid;not null;index"`
	RunId        string    `gorm:"type:varchar(255);index"`
	Status       string    `gorm:"type:varchar(50);not null;default:'queued'"`
	ErrorMessage *string   `gorm:"type:text"`
	StartedAt    *time.Time
	FinishedAt   *time.Time
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (SyncJob) TableName() string {
	return "sync_jobs"
}
