package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jaytnw/washwatch/internal/services"
	"github.com/jaytnw/washwatch/internal/utils"
)

type WatchHandler struct {
	service services.WatchService
}

func NewWatchHandler(service services.WatchService) *WatchHandler {
	return &WatchHandler{service: service}
}

func (h *WatchHandler) GetMachines(c fiber.Ctx) error {
	return utils.JSON(c, fiber.StatusOK, h.service.Overview())
}

func (h *WatchHandler) GetWatchList(c fiber.Ctx) error {
	return utils.JSON(c, fiber.StatusOK, h.service.WatchList())
}

func (h *WatchHandler) ToggleWatch(c fiber.Ctx) error {
	machineID := c.Params("number")

	watched, err := h.service.ToggleWatch(c.Context(), machineID)
	if err != nil {
		return utils.AppError(c, err, "Failed to toggle notifications", "TOGGLE_FAILED")
	}

	return utils.JSON(c, fiber.StatusOK, fiber.Map{
		"number":  machineID,
		"watched": watched,
	})
}

func (h *WatchHandler) GetMachineEndDate(c fiber.Ctx) error {
	machineID := c.Params("number")

	end, err := h.service.MachineEndDate(machineID)
	if err != nil {
		return utils.AppError(c, err, "Failed to resolve end date", "END_DATE_FAILED")
	}

	return utils.JSON(c, fiber.StatusOK, fiber.Map{
		"number":  machineID,
		"endDate": end.Format(time.RFC3339),
	})
}

// Refresh is called by the client when the machines screen gets focus.
func (h *WatchHandler) Refresh(c fiber.Ctx) error {
	if err := h.service.Refresh(c.Context()); err != nil {
		return utils.AppError(c, err, "Failed to refresh machines", "REFRESH_FAILED")
	}
	return utils.JSON(c, fiber.StatusOK, h.service.Overview())
}
