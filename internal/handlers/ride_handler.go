package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/movaride/movaride-backend/internal/dto"
	"github.com/movaride/movaride-backend/internal/middleware"
	"github.com/movaride/movaride-backend/internal/models"
	"github.com/movaride/movaride-backend/internal/services"
)

type RideHandler struct {
	rides *services.RideService
}

func NewRideHandler(rides *services.RideService) *RideHandler {
	return &RideHandler{rides: rides}
}

func (h *RideHandler) Create(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	var req dto.RideRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	ride, err := h.rides.Request(claims.UserID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Ride request created successfully",
		"ride":    ride,
	})
}

func (h *RideHandler) List(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	rides, err := h.rides.List(claims.UserID, claims.Role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch rides",
		})
	}
	return c.JSON(fiber.Map{"rides": rides})
}

func (h *RideHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid ride id",
		})
	}

	ride, err := h.rides.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrRideNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch ride",
		})
	}

	claims := middleware.Claims(c)
	if claims.Role == models.RoleUser && ride.UserID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Forbidden",
		})
	}
	return c.JSON(fiber.Map{"ride": ride})
}

func (h *RideHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid ride id",
		})
	}

	var req dto.UpdateRideRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	ride, err := h.rides.UpdateStatus(id, models.RideStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRideNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrInvalidTransition):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to update ride",
			})
		}
	}
	return c.JSON(fiber.Map{"ride": ride})
}

func (h *RideHandler) SelectDriver(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid ride id",
		})
	}

	var req dto.SelectDriverRequest
	if err := c.BodyParser(&req); err != nil || req.DriverID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Driver id is required",
		})
	}

	ride, err := h.rides.SelectDriver(id, req.DriverID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRideNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrDriverUnavailable), errors.Is(err, services.ErrInvalidTransition):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to assign driver",
			})
		}
	}
	return c.JSON(fiber.Map{"message": "Driver assigned", "ride": ride})
}

func (h *RideHandler) RecordPayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid ride id",
		})
	}

	var req dto.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	claims := middleware.Claims(c)
	payment, err := h.rides.RecordPayment(id, claims.UserID, &req)
	if err != nil {
		if errors.Is(err, services.ErrRideNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Payment processed successfully", "payment": payment})
}

// Quote estimates price and travel time from query parameters without
// creating a ride.
func (h *RideHandler) Quote(c *fiber.Ctx) error {
	pickup, err1 := parseLocation(c, "pickup_lat", "pickup_lng")
	dropoff, err2 := parseLocation(c, "dropoff_lat", "dropoff_lng")
	if err1 != nil || err2 != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "All location coordinates are required",
		})
	}

	weight, _ := strconv.ParseFloat(c.Query("cargo_weight"), 64)
	cargo := dto.Cargo{Size: c.Query("cargo_size"), Weight: weight}

	return c.JSON(fiber.Map{"eta": h.rides.Quote(pickup, dropoff, cargo)})
}

func parseLocation(c *fiber.Ctx, latKey, lngKey string) (dto.Location, error) {
	lat, err := strconv.ParseFloat(c.Query(latKey), 64)
	if err != nil {
		return dto.Location{}, err
	}
	lng, err := strconv.ParseFloat(c.Query(lngKey), 64)
	if err != nil {
		return dto.Location{}, err
	}
	return dto.Location{Lat: lat, Lng: lng}, nil
}
