package entities

import (
	"github.com/google/uuid"
)

type Item struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID        uuid.UUID `gorm:"index" json:"user_id"`
	Title         string    `json:"title"`
	Quantity      float64   `json:"quantity"`
	WarningAmount *float64  `json:"warning_amount,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
