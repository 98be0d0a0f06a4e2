package contract

import (
	"context"

	"ai-booking-be/internal/entity"
	"ai-booking-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	Update(ctx context.Context, chat *entity.Chat) error
	// SetThreadId writes the external thread id for a chat that does not
	// have one yet. Callers rely on the column-level unique constraint for
	// the at-most-once guarantee; concurrent writers race benignly.
	SetThreadId(ctx context.Context, chatId uuid.UUID, threadId string) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chat, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
