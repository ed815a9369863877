package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashmitsharp/cashlens-reports/internal/logger"
	"github.com/ashmitsharp/cashlens-reports/internal/utils"
)

func newLoggedApp(buf *bytes.Buffer) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	app.Use(RequestLogger(logger.NewWithWriter(buf, "info")))
	app.Get("/ok", func(c fiber.Ctx) error {
		logger.FromContext(c.Context()).Info().Msg("inside handler")
		return c.SendString("ok")
	})
	app.Get("/missing", func(c fiber.Ctx) error {
		return utils.NewNotFoundError("EMPTY_BATCH", "no transactions")
	})
	return app
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestRequestLogger_GeneratesRequestID(t *testing.T) {
	buf := &bytes.Buffer{}
	app := newLoggedApp(buf)

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	requestID := resp.Header.Get(RequestIDHeader)
	_, err = uuid.Parse(requestID)
	assert.NoError(t, err)

	entry := lastEntry(t, buf)
	assert.Equal(t, "request completed", entry["message"])
	assert.Equal(t, requestID, entry["request_id"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/ok", entry["path"])
	assert.Equal(t, float64(fiber.StatusOK), entry["status_code"])

	assert.Contains(t, buf.String(), `"message":"inside handler"`)
}

func TestRequestLogger_KeepsIncomingRequestID(t *testing.T) {
	buf := &bytes.Buffer{}
	app := newLoggedApp(buf)

	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "req-123", resp.Header.Get(RequestIDHeader))
	assert.Equal(t, "req-123", lastEntry(t, buf)["request_id"])
}

func TestRequestLogger_LogsErrorStatus(t *testing.T) {
	buf := &bytes.Buffer{}
	app := newLoggedApp(buf)

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	entry := lastEntry(t, buf)
	assert.Equal(t, float64(fiber.StatusNotFound), entry["status_code"])
	assert.Equal(t, "no transactions", entry["error"])
}

func TestCORS_DefaultOrigins(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(nil))
	app.Get("/v1/main", func(c fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/v1/main", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/v1/main", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
