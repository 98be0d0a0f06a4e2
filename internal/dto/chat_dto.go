package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateChatRequest struct {
	UserId uuid.UUID `json:"userId" validate:"required"`
	Title  string    `json:"title"`
}

type CreateChatResponse struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type GetChatsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

type MessageDTO struct {
	Id        uuid.UUID              `json:"id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

type SendMessageRequest struct {
	ChatId  uuid.UUID `json:"chatId" validate:"required"`
	UserId  uuid.UUID `json:"userId" validate:"required"`
	Message string    `json:"message" validate:"required"`
}

type SendMessageResponse struct {
	ChatId uuid.UUID   `json:"chatId"`
	Sent   *MessageDTO `json:"sent"`
	Reply  *MessageDTO `json:"reply"`
}
