package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/movaride/movaride-backend/internal/dto"
	"github.com/movaride/movaride-backend/internal/models"
)

var (
	ErrDriverNotFound = errors.New("driver not found")
	ErrInvalidVehicle = errors.New("vehicle type must be small, medium or large")
)

type DriverService struct {
	db *gorm.DB
}

func NewDriverService(db *gorm.DB) *DriverService {
	return &DriverService{db: db}
}

// Signup creates the user account and the driver profile in one
// transaction. New drivers start unapproved and unavailable.
func (s *DriverService) Signup(req *dto.DriverSignupRequest) (*models.Driver, error) {
	switch req.VehicleType {
	case models.VehicleSmall, models.VehicleMedium, models.VehicleLarge:
	default:
		return nil, ErrInvalidVehicle
	}
	if len(req.VehiclePlate) < 2 {
		return nil, errors.New("vehicle plate must be valid")
	}
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	driver := models.Driver{
		ID:           uuid.New(),
		VehicleType:  req.VehicleType,
		VehiclePlate: req.VehiclePlate,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			ID:           uuid.New(),
			Email:        req.Email,
			Name:         req.Name,
			Phone:        req.Phone,
			PasswordHash: string(hash),
			Role:         models.RoleDriver,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		driver.UserID = user.ID
		return tx.Create(&driver).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}
	return &driver, nil
}

// Approve marks a driver application accepted and opens it for dispatch.
func (s *DriverService) Approve(id uuid.UUID) (*models.Driver, error) {
	var driver models.Driver
	if err := s.db.First(&driver, "id = ?", id).Error; err != nil {
		return nil, ErrDriverNotFound
	}
	err := s.db.Model(&driver).Updates(map[string]interface{}{
		"approved":     true,
		"is_available": true,
	}).Error
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

// Available lists approved, available drivers whose vehicle can carry the
// given cargo size. Empty cargoSize matches every vehicle.
func (s *DriverService) Available(cargoSize string) ([]models.Driver, error) {
	q := s.db.Preload("User").Where("approved = true AND is_available = true")
	if cargoSize != "" {
		q = q.Where("vehicle_type IN ?", vehicleTypesForCargo(cargoSize))
	}
	var drivers []models.Driver
	err := q.Find(&drivers).Error
	return drivers, err
}

func (s *DriverService) List() ([]models.Driver, error) {
	var drivers []models.Driver
	err := s.db.Preload("User").Order("created_at DESC").Find(&drivers).Error
	return drivers, err
}

// UpdateLocation stores the driver's reported position and availability.
func (s *DriverService) UpdateLocation(userID uuid.UUID, req *dto.DriverLocationRequest) error {
	loc, err := json.Marshal(map[string]float64{"lat": req.Lat, "lng": req.Lng})
	if err != nil {
		return err
	}
	res := s.db.Model(&models.Driver{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"current_location": datatypes.JSON(loc),
			"is_available":     req.IsAvailable,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDriverNotFound
	}
	return nil
}

// A vehicle can carry its own cargo size and anything smaller.
func vehicleTypesForCargo(size string) []string {
	switch size {
	case models.VehicleLarge:
		return []string{models.VehicleLarge}
	case models.VehicleMedium:
		return []string{models.VehicleMedium, models.VehicleLarge}
	default:
		return []string{models.VehicleSmall, models.VehicleMedium, models.VehicleLarge}
	}
}
