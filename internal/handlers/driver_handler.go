package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/movaride/movaride-backend/internal/dto"
	"github.com/movaride/movaride-backend/internal/middleware"
	"github.com/movaride/movaride-backend/internal/services"
)

type DriverHandler struct {
	drivers *services.DriverService
}

func NewDriverHandler(drivers *services.DriverService) *DriverHandler {
	return &DriverHandler{drivers: drivers}
}

func (h *DriverHandler) Signup(c *fiber.Ctx) error {
	var req dto.DriverSignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	driver, err := h.drivers.Signup(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Driver application submitted, pending approval",
		"driver":  driver,
	})
}

func (h *DriverHandler) Approve(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid driver id",
		})
	}

	driver, err := h.drivers.Approve(id)
	if err != nil {
		if errors.Is(err, services.ErrDriverNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to approve driver",
		})
	}
	return c.JSON(fiber.Map{"message": "Driver approved", "driver": driver})
}

func (h *DriverHandler) Available(c *fiber.Ctx) error {
	drivers, err := h.drivers.Available(c.Query("cargo_size"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch drivers",
		})
	}
	return c.JSON(fiber.Map{"drivers": drivers})
}

func (h *DriverHandler) List(c *fiber.Ctx) error {
	drivers, err := h.drivers.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch drivers",
		})
	}
	return c.JSON(fiber.Map{"drivers": drivers})
}

func (h *DriverHandler) UpdateLocation(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	var req dto.DriverLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.drivers.UpdateLocation(claims.UserID, &req); err != nil {
		if errors.Is(err, services.ErrDriverNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update location",
		})
	}
	return c.JSON(fiber.Map{"message": "Location updated"})
}
