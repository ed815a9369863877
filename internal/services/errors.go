package services

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a malformed reference date or time
	ErrValidation = errors.New("invalid date format, use YYYY-MM-DD HH:MM:SS")
	// ErrInvalidPeriod marks an unrecognized period code
	ErrInvalidPeriod = errors.New("invalid period")
	// ErrEmptyBatch marks a batch with no usable transactions
	ErrEmptyBatch = errors.New("no transactions")
	// ErrEmptyWindow marks a non-empty batch with nothing inside the period
	ErrEmptyWindow = errors.New("no data in period")
)

func invalidPeriodError(code string) error {
	return fmt.Errorf("%w: %s", ErrInvalidPeriod, code)
}

// ErrorPayload renders a report error as the structured error mapping
// returned to callers in place of a report.
func ErrorPayload(err error) map[string]string {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation):
		return map[string]string{"error": ErrValidation.Error()}
	case errors.Is(err, ErrEmptyBatch):
		return map[string]string{"error": ErrEmptyBatch.Error()}
	case errors.Is(err, ErrEmptyWindow):
		return map[string]string{"error": ErrEmptyWindow.Error()}
	default:
		return map[string]string{"error": err.Error()}
	}
}
