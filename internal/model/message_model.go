package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Message rows are append-only; there is no UpdatedAt / DeletedAt on purpose.
type Message struct {
	Id        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatId    uuid.UUID         `gorm:"type:uuid;not null;index"`
	Role      string            `gorm:"type:varchar(50);not null"`
	Content   string            `gorm:"type:text;not null"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index"`
}

func (Message) TableName() string {
	return "messages"
}
