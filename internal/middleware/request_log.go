package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ashmitsharp/cashlens-reports/internal/logger"
	"github.com/ashmitsharp/cashlens-reports/internal/utils"
)

// RequestIDHeader carries the request ID back to the client
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an ID, stores a request scoped logger
// in the user context and logs the outcome
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDHeader, requestID)

		reqLog := log.With().Str("request_id", requestID).Logger()
		c.SetContext(logger.WithContext(c.Context(), reqLog))

		err := c.Next()

		status := c.Response().StatusCode()
		var apiErr *utils.APIError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &apiErr):
			status = apiErr.StatusCode
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
		case err != nil:
			status = fiber.StatusInternalServerError
		}

		event := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			event = reqLog.Error()
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status_code", status).
			Dur("duration", time.Since(start)).
			Err(err).
			Msg("request completed")

		return err
	}
}
