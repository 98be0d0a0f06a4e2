package contract

import (
	"context"

	"ai-booking-be/internal/entity"
	"ai-booking-be/internal/repository/specification"

	"github.com/google/uuid"
)

// MessageRepository is append-only: no Update method on purpose, the
// transcript never mutates.
type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	DeleteByChatId(ctx context.Context, chatId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
