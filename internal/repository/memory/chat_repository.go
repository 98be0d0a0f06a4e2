package memory

import (
	"context"
	"fmt"

	"ai-booking-be/internal/entity"
	"ai-booking-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatRepository struct {
	store *Store
	chats []*entity.Chat
}

func (r *ChatRepository) matches(c *entity.Chat, specs []specification.Specification) (bool, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if c.Id != s.ID {
				return false, nil
			}
		case specification.UserOwnedBy:
			if c.UserId != s.UserID {
				return false, nil
			}
		case specification.ByThreadID:
			if c.ThreadId != s.ThreadID {
				return false, nil
			}
		default:
			return false, fmt.Errorf("memory chat repository: unsupported specification %T", spec)
		}
	}
	return true, nil
}

func (r *ChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if chat.Id == uuid.Nil {
		chat.Id = uuid.New()
	}
	clone := *chat
	r.chats = append(r.chats, &clone)
	return nil
}

func (r *ChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, c := range r.chats {
		if c.Id == chat.Id {
			clone := *chat
			r.chats[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("chat %s not found", chat.Id)
}

func (r *ChatRepository) SetThreadId(ctx context.Context, chatId uuid.UUID, threadId string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.chats {
		if c.Id == chatId && c.ThreadId == "" {
			c.ThreadId = threadId
		}
	}
	return nil
}

func (r *ChatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, c := range r.chats {
		if c.Id == id {
			r.chats = append(r.chats[:i], r.chats[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *ChatRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	filters, _ := splitSpecs(specs)
	for _, c := range r.chats {
		ok, err := r.matches(c, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *ChatRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chat, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	filters, order := splitSpecs(specs)
	var out []*entity.Chat
	for _, c := range r.chats {
		ok, err := r.matches(c, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			clone := *c
			out = append(out, &clone)
		}
	}
	if order != nil {
		sortByCreatedAt(out, func(c *entity.Chat) int64 { return c.CreatedAt.UnixNano() }, order.Desc)
	}
	return out, nil
}

func (r *ChatRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}
