package models

import (
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RideID       uuid.UUID `gorm:"type:uuid;not null;index" json:"ride_id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Method       string    `gorm:"size:32;not null" json:"method"`
	Amount       float64   `gorm:"not null" json:"amount"`
	Currency     string    `gorm:"size:3;default:'USD'" json:"currency"`
	Status       string    `gorm:"size:20;default:'completed'" json:"status"`
	CardLastFour string    `gorm:"size:4" json:"card_last_four,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	Ride         Ride      `gorm:"foreignKey:RideID" json:"-"`
}
