package utils

import "github.com/gofiber/fiber/v3"

// ErrorResponse sends the structured {"error": "..."} payload
func ErrorResponse(c fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"error": message,
	})
}

// JSONResponse sends v with a 200 status
func JSONResponse(c fiber.Ctx, v any) error {
	return c.Status(fiber.StatusOK).JSON(v)
}
