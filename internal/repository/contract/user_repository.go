package contract

import (
	"context"

	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// IncrementChatUsageIfBelow is the usage-ledger write: a single conditional
	// UPDATE so concurrent requests never undercount. Returns false when the
	// daily limit is already reached.
	IncrementChatUsageIfBelow(ctx context.Context, userId uuid.UUID, limit int) (bool, error)
	ResetChatUsage(ctx context.Context, userId uuid.UUID) error
}
