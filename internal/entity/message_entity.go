package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message is one transcript entry. Append-only: rows are never updated or
// deleted once written. Metadata may carry correlation keys (call_id,
// booking_id, call_status) for messages synthesized by the outcome relay.
type Message struct {
	Id        uuid.UUID
	ChatId    uuid.UUID
	Role      string
	Content   string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}
