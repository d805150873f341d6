package utils

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/jaytnw/washwatch/internal/apperr"
)

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func JSON(c fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(SuccessResponse{
		Success: true,
		Data:    data,
	})
}

func Error(c fiber.Ctx, status int, msg, code string) error {
	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Message: msg,
			Code:    code,
		},
	})
}

// AppError writes err as an error envelope, using its AppError details when
// it carries some and the fallback otherwise.
func AppError(c fiber.Ctx, err error, fallbackMsg, fallbackCode string) error {
	var ae *apperr.AppError
	if errors.As(err, &ae) {
		return Error(c, ae.Status, ae.Message, ae.Code)
	}
	return Error(c, fiber.StatusInternalServerError, fallbackMsg, fallbackCode)
}
