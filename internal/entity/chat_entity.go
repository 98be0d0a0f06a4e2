package entity

import (
	"time"

	"github.com/google/uuid"
)

// Chat is one conversation session. ThreadId references the external
// assistant thread; it is assigned lazily on the first message and never
// changes afterwards.
type Chat struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	ThreadId  string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}
