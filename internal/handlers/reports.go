package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/ashmitsharp/cashlens-reports/internal/logger"
	"github.com/ashmitsharp/cashlens-reports/internal/models"
	"github.com/ashmitsharp/cashlens-reports/internal/services"
	"github.com/ashmitsharp/cashlens-reports/internal/utils"
)

// DefaultPeriod is applied when the events page is requested without a period
const DefaultPeriod = models.PeriodMonth

// UserSettings are the currencies and stocks shown alongside reports
type UserSettings struct {
	Currencies []string
	Stocks     []string
}

// ReportHandler serves the report endpoints
type ReportHandler struct {
	source   services.TransactionSource
	builder  *services.ReportBuilder
	settings UserSettings
}

// NewReportHandler creates a report handler loading a fresh batch from source
// on every request
func NewReportHandler(source services.TransactionSource, builder *services.ReportBuilder, settings UserSettings) *ReportHandler {
	return &ReportHandler{
		source:   source,
		builder:  builder,
		settings: settings,
	}
}

// GetMainPage handles GET /v1/main
// Query params: date (required), stocks (comma separated), period (W|M|Y|ALL, optional)
func (h *ReportHandler) GetMainPage(c fiber.Ctx) error {
	log := logger.FromContext(c.Context())

	batch := services.LoadTransactions(c.Context(), h.source, log)
	report, err := h.builder.MainPage(c.Context(), batch, services.MainPageRequest{
		DateTime:   c.Query("date"),
		Period:     strings.ToUpper(strings.TrimSpace(c.Query("period"))),
		Stocks:     splitList(c.Query("stocks"), h.settings.Stocks),
		Currencies: splitList(c.Query("currencies"), h.settings.Currencies),
	})
	if err != nil {
		return reportError(c, log, err)
	}

	return utils.JSONResponse(c, report)
}

// GetEventsPage handles GET /v1/events
// Query params: date (required), period (W|M|Y|ALL, default M)
func (h *ReportHandler) GetEventsPage(c fiber.Ctx) error {
	log := logger.FromContext(c.Context())

	period := strings.ToUpper(strings.TrimSpace(c.Query("period")))
	if period == "" {
		period = DefaultPeriod
	}

	batch := services.LoadTransactions(c.Context(), h.source, log)
	report, err := h.builder.EventsPage(c.Context(), batch, services.EventsPageRequest{
		DateTime:   c.Query("date"),
		Period:     period,
		Stocks:     splitList(c.Query("stocks"), h.settings.Stocks),
		Currencies: splitList(c.Query("currencies"), h.settings.Currencies),
	})
	if err != nil {
		return reportError(c, log, err)
	}

	return utils.JSONResponse(c, report)
}

// GetSpendingReport handles GET /v1/reports/spending
// Query params: category (required), date (optional, defaults to the latest transaction)
func (h *ReportHandler) GetSpendingReport(c fiber.Ctx) error {
	log := logger.FromContext(c.Context())

	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "category is required")
	}

	var ref *time.Time
	if date := strings.TrimSpace(c.Query("date")); date != "" {
		t, err := services.ValidateDateTime(services.PadDate(date))
		if err != nil {
			return reportError(c, log, err)
		}
		ref = &t
	}

	batch := services.LoadTransactions(c.Context(), h.source, log)
	return utils.JSONResponse(c, h.builder.SpendingByCategory(batch, category, ref))
}

// GetCashbackReport handles GET /v1/reports/cashback
// Query params: year (required), month (required, 1-12)
func (h *ReportHandler) GetCashbackReport(c fiber.Ctx) error {
	log := logger.FromContext(c.Context())

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "year must be a positive integer")
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "month must be between 1 and 12")
	}

	batch := services.LoadTransactions(c.Context(), h.source, log)
	return utils.JSONResponse(c, h.builder.CashbackByCategory(batch, year, time.Month(month)))
}

func reportError(c fiber.Ctx, log zerolog.Logger, err error) error {
	apiErr := utils.FromReportError(err)
	if apiErr.StatusCode >= fiber.StatusInternalServerError {
		log.Error().Err(err).Msg("report generation failed")
	} else {
		log.Info().Err(err).Str("code", apiErr.Code).Msg("report not generated")
	}
	return c.Status(apiErr.StatusCode).JSON(apiErr)
}

// splitList parses a comma separated query value, falling back to defaults
func splitList(value string, defaults []string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaults
	}
	return items
}
