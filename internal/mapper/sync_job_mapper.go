package mapper

import (
	"time"

	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/model"
)

type SyncJobMapper struct{}

func NewSyncJobMapper() *SyncJobMapper {
	return &SyncJobMapper{}
}

func (m *SyncJobMapper) ToEntity(j *model.SyncJob) *entity.SyncJob {
	if j == nil {
		return nil
	}

	var updatedAt *time.Time
	if !j.UpdatedAt.IsZero() {
		t := j.UpdatedAt
		updatedAt = &t
	}

	return &entity.SyncJob{
		Id:           j.Id,
		UserId:       j.UserId,
		EpisodeId:    j.EpisodeId,
		RunId:        j.RunId,
		Status:       j.Status,
		ErrorMessage: j.ErrorMessage,
		StartedAt:    j.StartedAt,
		FinishedAt:   j.FinishedAt,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *SyncJobMapper) ToModel(j *entity.SyncJob) *model.SyncJob {
	if j == nil {
		return nil
	}

	var updatedAt time.Time
	if j.UpdatedAt != nil {
		updatedAt = *j.UpdatedAt
	}

	return &model.SyncJob{
		Id:           j.Id,
		UserId:       j.UserId,
		EpisodeId:    j.EpisodeId,
		RunId:        j.RunId,
		Status:       j.Status,
		ErrorMessage: j.ErrorMessage,
		StartedAt:    j.StartedAt,
		FinishedAt:   j.FinishedAt,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}
