package dto

import (
	"time"

	"github.com/google/uuid"
)

type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type Cargo struct {
	Size        string  `json:"size"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description,omitempty"`
}

type RideRequest struct {
	Pickup        Location   `json:"pickup"`
	Dropoff       Location   `json:"dropoff"`
	Cargo         Cargo      `json:"cargo"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
}

type UpdateRideRequest struct {
	Status string `json:"status"`
}

type SelectDriverRequest struct {
	DriverID uuid.UUID `json:"driver_id"`
}

type PaymentRequest struct {
	Method       string  `json:"method"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency,omitempty"`
	CardLastFour string  `json:"card_last_four,omitempty"`
}

type QuoteResponse struct {
	Minutes        int     `json:"minutes"`
	DistanceKm     float64 `json:"distance_km"`
	DistanceMiles  float64 `json:"distance_miles"`
	EstimatedPrice float64 `json:"estimated_price"`
}
