package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/jaytnw/washwatch/internal/services"
	"github.com/jaytnw/washwatch/internal/utils"
)

type PreferenceHandler struct {
	service services.PreferenceService
}

func NewPreferenceHandler(service services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: service}
}

type reminderRequest struct {
	Minutes *int `json:"minutes"`
}

type notificationsRequest struct {
	Allowed *bool `json:"allowed"`
}

func (h *PreferenceHandler) GetPreferences(c fiber.Ctx) error {
	prefs, err := h.service.GetPreferences(c.Context())
	if err != nil {
		return utils.AppError(c, err, "Failed to get preferences", "PREFERENCES_ERROR")
	}
	return utils.JSON(c, fiber.StatusOK, prefs)
}

func (h *PreferenceHandler) SetReminderOffset(c fiber.Ctx) error {
	var req reminderRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.Minutes == nil {
		return utils.Error(c, fiber.StatusBadRequest, "Body must be {\"minutes\": <int>}", "INVALID_BODY")
	}

	if err := h.service.SetReminderOffset(c.Context(), *req.Minutes); err != nil {
		return utils.AppError(c, err, "Failed to save reminder offset", "PREFERENCES_ERROR")
	}
	return h.GetPreferences(c)
}

func (h *PreferenceHandler) SetNotificationsAllowed(c fiber.Ctx) error {
	var req notificationsRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.Allowed == nil {
		return utils.Error(c, fiber.StatusBadRequest, "Body must be {\"allowed\": <bool>}", "INVALID_BODY")
	}

	if err := h.service.SetNotificationsAllowed(c.Context(), *req.Allowed); err != nil {
		return utils.AppError(c, err, "Failed to save notification permission", "PREFERENCES_ERROR")
	}
	return h.GetPreferences(c)
}
