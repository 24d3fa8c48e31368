package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	UserRoleUser  = "user"
	UserRoleAdmin = "admin"
)

type User struct {
	Id                      uuid.UUID
	Email                   string
	PasswordHash            string
	FullName                string
	Role                    string
	ChatDailyUsage          int
	ChatDailyUsageLastReset time.Time
	CreatedAt               time.Time
	UpdatedAt               *time.Time
	DeletedAt               *time.Time
	IsDeleted               bool
}
