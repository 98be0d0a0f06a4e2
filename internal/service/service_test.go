package service

import (
	"context"
	"time"

	"ai-booking-be/internal/entity"
	"ai-booking-be/internal/repository/memory"

	"github.com/google/uuid"
)

// noopLogger keeps test output quiet.
type noopLogger struct{}

func (noopLogger) Debug(module string, message string, details map[string]interface{}) {}
func (noopLogger) Info(module string, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module string, message string, details map[string]interface{})  {}
func (noopLogger) Error(module string, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                         { return nil }

func entityMessage(chatId uuid.UUID, content string, createdAt time.Time) *entity.Message {
	return &entity.Message{
		Id:        uuid.New(),
		ChatId:    chatId,
		Role:      "user",
		Content:   content,
		CreatedAt: createdAt,
	}
}

func seedChat(store *memory.Store, userId uuid.UUID) *entity.Chat {
	chat := &entity.Chat{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     "test chat",
		CreatedAt: time.Now(),
	}
	_ = store.Chats().Create(context.Background(), chat)
	return chat
}
