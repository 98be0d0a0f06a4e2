package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Booking struct {
	Id        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatId    uuid.UUID         `gorm:"type:uuid;not null;index"`
	UserId    uuid.UUID         `gorm:"type:uuid;not null;index"`
	Type      string            `gorm:"type:varchar(50);not null"`
	Status    string            `gorm:"type:varchar(50);not null"`
	Details   datatypes.JSONMap `gorm:"type:jsonb"`
	CallId    *string           `gorm:"type:varchar(255);uniqueIndex"` // assigned during initiated→calling, exactly once
	Result    datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"autoCreateTime"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime"`
}

func (Booking) TableName() string {
	return "bookings"
}
