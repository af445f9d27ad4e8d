package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RideStatus string

const (
	RideRequested  RideStatus = "requested"
	RideAccepted   RideStatus = "accepted"
	RideInProgress RideStatus = "in_progress"
	RideCompleted  RideStatus = "completed"
	RideCancelled  RideStatus = "cancelled"
)

// Terminal reports whether no further status transition is allowed.
func (s RideStatus) Terminal() bool {
	return s == RideCompleted || s == RideCancelled
}

type Ride struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	DriverID          *uuid.UUID     `gorm:"type:uuid;index" json:"driver_id,omitempty"`
	Pickup            datatypes.JSON `gorm:"type:jsonb;not null" json:"pickup"`
	Dropoff           datatypes.JSON `gorm:"type:jsonb;not null" json:"dropoff"`
	Cargo             datatypes.JSON `gorm:"type:jsonb" json:"cargo"`
	Status            RideStatus     `gorm:"size:20;not null;default:'requested';index" json:"status"`
	EstimatedDistance float64        `json:"estimated_distance"`
	EstimatedPrice    float64        `json:"estimated_price"`
	ScheduledTime     *time.Time     `json:"scheduled_time,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	User              User           `gorm:"foreignKey:UserID" json:"-"`
	Driver            *Driver        `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
}
