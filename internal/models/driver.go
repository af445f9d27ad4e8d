package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Vehicle types match the cargo sizes they can carry.
const (
	VehicleSmall  = "small"
	VehicleMedium = "medium"
	VehicleLarge  = "large"
)

type Driver struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	VehicleType     string         `gorm:"size:20;not null" json:"vehicle_type"`
	VehiclePlate    string         `gorm:"size:20;not null" json:"vehicle_plate"`
	Approved        bool           `gorm:"default:false" json:"approved"`
	IsAvailable     bool           `gorm:"default:false;index" json:"is_available"`
	CurrentLocation datatypes.JSON `gorm:"type:jsonb" json:"current_location,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	User            User           `gorm:"foreignKey:UserID" json:"-"`
}
