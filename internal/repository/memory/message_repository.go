package memory

import (
	"context"
	"fmt"

	"ai-booking-be/internal/entity"
	"ai-booking-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MessageRepository struct {
	store    *Store
	messages []*entity.Message
}

func (r *MessageRepository) matches(m *entity.Message, specs []specification.Specification) (bool, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if m.Id != s.ID {
				return false, nil
			}
		case specification.ByChatID:
			if m.ChatId != s.ChatID {
				return false, nil
			}
		case specification.ByRole:
			if m.Role != s.Role {
				return false, nil
			}
		default:
			return false, fmt.Errorf("memory message repository: unsupported specification %T", spec)
		}
	}
	return true, nil
}

func cloneMessage(m *entity.Message) *entity.Message {
	clone := *m
	if m.Metadata != nil {
		clone.Metadata = make(map[string]interface{}, len(m.Metadata))
		for k, v := range m.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}

func (r *MessageRepository) Create(ctx context.Context, message *entity.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	r.messages = append(r.messages, cloneMessage(message))
	return nil
}

func (r *MessageRepository) DeleteByChatId(ctx context.Context, chatId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.ChatId != chatId {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

func (r *MessageRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	filters, _ := splitSpecs(specs)
	for _, m := range r.messages {
		ok, err := r.matches(m, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			return cloneMessage(m), nil
		}
	}
	return nil, nil
}

func (r *MessageRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	filters, order := splitSpecs(specs)
	var out []*entity.Message
	for _, m := range r.messages {
		ok, err := r.matches(m, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, cloneMessage(m))
		}
	}
	if order != nil {
		sortByCreatedAt(out, func(m *entity.Message) int64 { return m.CreatedAt.UnixNano() }, order.Desc)
	}
	return out, nil
}

func (r *MessageRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}
