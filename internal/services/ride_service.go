package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/movaride/movaride-backend/internal/dto"
	"github.com/movaride/movaride-backend/internal/models"
)

var (
	ErrRideNotFound      = errors.New("ride not found")
	ErrInvalidTransition = errors.New("invalid ride status transition")
	ErrDriverUnavailable = errors.New("driver is not available")
)

const (
	baseFare        = 15.0
	averageSpeedKmh = 30.0
)

type RideService struct {
	db *gorm.DB
}

func NewRideService(db *gorm.DB) *RideService {
	return &RideService{db: db}
}

// Quote estimates distance, travel time and price for a move without
// creating anything.
func (s *RideService) Quote(pickup, dropoff dto.Location, cargo dto.Cargo) dto.QuoteResponse {
	distance := haversineKm(pickup.Lat, pickup.Lng, dropoff.Lat, dropoff.Lng)

	pricePerKm := 2.0
	switch cargo.Size {
	case models.VehicleMedium:
		pricePerKm = 3.0
	case models.VehicleLarge:
		pricePerKm = 4.5
	}

	weightSurcharge := 0.0
	if cargo.Weight > 100 {
		weightSurcharge = (cargo.Weight - 100) * 0.1
	}

	price := baseFare + distance*pricePerKm + weightSurcharge
	return dto.QuoteResponse{
		Minutes:        int(math.Round(distance / averageSpeedKmh * 60)),
		DistanceKm:     round2(distance),
		DistanceMiles:  round2(distance * 0.621371),
		EstimatedPrice: round2(price),
	}
}

// Request creates a ride in requested state with a quote attached.
func (s *RideService) Request(userID uuid.UUID, req *dto.RideRequest) (*models.Ride, error) {
	if req.Pickup.Address == "" || req.Dropoff.Address == "" {
		return nil, errors.New("pickup and dropoff addresses are required")
	}

	quote := s.Quote(req.Pickup, req.Dropoff, req.Cargo)

	pickup, _ := json.Marshal(req.Pickup)
	dropoff, _ := json.Marshal(req.Dropoff)
	cargo, _ := json.Marshal(req.Cargo)

	ride := models.Ride{
		ID:                uuid.New(),
		UserID:            userID,
		Pickup:            datatypes.JSON(pickup),
		Dropoff:           datatypes.JSON(dropoff),
		Cargo:             datatypes.JSON(cargo),
		Status:            models.RideRequested,
		EstimatedDistance: quote.DistanceKm,
		EstimatedPrice:    quote.EstimatedPrice,
		ScheduledTime:     req.ScheduledTime,
	}
	if err := s.db.Create(&ride).Error; err != nil {
		return nil, fmt.Errorf("failed to create ride: %w", err)
	}
	return &ride, nil
}

func (s *RideService) Get(id uuid.UUID) (*models.Ride, error) {
	var ride models.Ride
	if err := s.db.Preload("Driver").First(&ride, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}
	return &ride, nil
}

// List returns rides visible to the caller: riders see their own, drivers
// see rides assigned to them, admins see everything.
func (s *RideService) List(userID uuid.UUID, role string) ([]models.Ride, error) {
	q := s.db.Preload("Driver").Order("created_at DESC")
	switch role {
	case models.RoleAdmin:
	case models.RoleDriver:
		q = q.Joins("JOIN drivers ON drivers.id = rides.driver_id").
			Where("drivers.user_id = ?", userID)
	default:
		q = q.Where("rides.user_id = ?", userID)
	}
	var rides []models.Ride
	err := q.Find(&rides).Error
	return rides, err
}

// UpdateStatus advances the ride state machine. Completed and cancelled are
// terminal.
func (s *RideService) UpdateStatus(id uuid.UUID, status models.RideStatus) (*models.Ride, error) {
	ride, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !validTransition(ride.Status, status) {
		return nil, ErrInvalidTransition
	}
	if err := s.db.Model(ride).Update("status", status).Error; err != nil {
		return nil, err
	}
	ride.Status = status
	return ride, nil
}

// SelectDriver assigns an available driver to a requested ride and takes
// the driver off the dispatch pool.
func (s *RideService) SelectDriver(rideID, driverID uuid.UUID) (*models.Ride, error) {
	ride, err := s.Get(rideID)
	if err != nil {
		return nil, err
	}
	if ride.Status != models.RideRequested {
		return nil, ErrInvalidTransition
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Driver{}).
			Where("id = ? AND approved = true AND is_available = true", driverID).
			Update("is_available", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrDriverUnavailable
		}
		return tx.Model(ride).Updates(map[string]interface{}{
			"driver_id": driverID,
			"status":    models.RideAccepted,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(rideID)
}

// RecordPayment stores a completed payment against the ride.
func (s *RideService) RecordPayment(rideID, userID uuid.UUID, req *dto.PaymentRequest) (*models.Payment, error) {
	if req.Method == "" || req.Amount <= 0 {
		return nil, errors.New("payment method and amount are required")
	}
	if _, err := s.Get(rideID); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	payment := models.Payment{
		ID:           uuid.New(),
		RideID:       rideID,
		UserID:       userID,
		Method:       req.Method,
		Amount:       req.Amount,
		Currency:     currency,
		Status:       "completed",
		CardLastFour: req.CardLastFour,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	return &payment, nil
}

func validTransition(from, to models.RideStatus) bool {
	if from.Terminal() {
		return false
	}
	switch from {
	case models.RideRequested:
		return to == models.RideAccepted || to == models.RideCancelled
	case models.RideAccepted:
		return to == models.RideInProgress || to == models.RideCancelled
	case models.RideInProgress:
		return to == models.RideCompleted || to == models.RideCancelled
	}
	return false
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
