package utils

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ashmitsharp/cashlens-reports/internal/services"
)

type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewBadRequestError(message string) *APIError {
	return &APIError{
		StatusCode: fiber.StatusBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
	}
}

func NewNotFoundError(code, message string) *APIError {
	return &APIError{
		StatusCode: fiber.StatusNotFound,
		Code:       code,
		Message:    message,
	}
}

func NewInternalError() *APIError {
	return &APIError{
		StatusCode: fiber.StatusInternalServerError,
		Code:       "INTERNAL_ERROR",
		Message:    "An internal error occurred",
	}
}

// FromReportError maps a report failure onto an APIError. The message is the
// structured payload text of the failure.
func FromReportError(err error) *APIError {
	message := services.ErrorPayload(err)["error"]

	switch {
	case errors.Is(err, services.ErrValidation):
		return &APIError{StatusCode: fiber.StatusBadRequest, Code: "VALIDATION_ERROR", Message: message}
	case errors.Is(err, services.ErrInvalidPeriod):
		return &APIError{StatusCode: fiber.StatusBadRequest, Code: "INVALID_PERIOD", Message: message}
	case errors.Is(err, services.ErrEmptyBatch):
		return NewNotFoundError("EMPTY_BATCH", message)
	case errors.Is(err, services.ErrEmptyWindow):
		return NewNotFoundError("EMPTY_WINDOW", message)
	default:
		return NewInternalError()
	}
}

// ErrorHandler is the fiber error handler rendering every error as an APIError
func ErrorHandler(c fiber.Ctx, err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			apiErr = &APIError{StatusCode: fiberErr.Code, Code: "HTTP_ERROR", Message: fiberErr.Message}
		} else {
			apiErr = NewInternalError()
		}
	}

	return c.Status(apiErr.StatusCode).JSON(apiErr)
}
