package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashmitsharp/cashlens-reports/internal/models"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, SourceFile, cfg.TransactionsSource)
	assert.Equal(t, "data/operations.xlsx", cfg.TransactionsFile)
	assert.Equal(t, 10*time.Second, cfg.MarketTimeout)
	assert.Equal(t, []string{"USD", "EUR"}, cfg.UserCurrencies)
	assert.Equal(t, []string{"AAPL", "AMZN", "GOOGL", "MSFT", "TSLA"}, cfg.UserStocks)
	assert.Equal(t, DefaultReportConfig(), cfg.Reports)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CASHBACK_RATE", "0.015")
	t.Setenv("TOP_EXPENSE_CATEGORIES", "6")
	t.Setenv("USER_STOCKS", " AAPL , ,TSLA")
	t.Setenv("EVENTS_WEEK_END_MODE", "full_span")
	t.Setenv("MARKET_TIMEOUT", "2s")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 0.015, cfg.Reports.CashbackRate)
	assert.Equal(t, 6, cfg.Reports.TopExpenseCategories)
	assert.Equal(t, []string{"AAPL", "TSLA"}, cfg.UserStocks)
	assert.Equal(t, models.WeekEndFullSpan, cfg.Reports.EventsWeekEndMode)
	assert.Equal(t, 2*time.Second, cfg.MarketTimeout)
}

func TestLoadFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("CASHBACK_RATE", "abc")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 0.01, cfg.Reports.CashbackRate)
}

func TestLoadFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown source",
			env:     map[string]string{"TRANSACTIONS_SOURCE": "ftp"},
			wantErr: "unknown TRANSACTIONS_SOURCE",
		},
		{
			name:    "s3 without key",
			env:     map[string]string{"TRANSACTIONS_SOURCE": "s3", "S3_BUCKET": "statements"},
			wantErr: "S3_TRANSACTIONS_KEY",
		},
		{
			name:    "postgres without url",
			env:     map[string]string{"TRANSACTIONS_SOURCE": "postgres"},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "negative cashback rate",
			env:     map[string]string{"CASHBACK_RATE": "-0.5"},
			wantErr: "CASHBACK_RATE",
		},
		{
			name:    "zero top transactions",
			env:     map[string]string{"TOP_TRANSACTIONS": "0"},
			wantErr: "top-N",
		},
		{
			name:    "unknown week mode",
			env:     map[string]string{"MAIN_WEEK_END_MODE": "sometimes"},
			wantErr: "MAIN_WEEK_END_MODE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadFromEnv()
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
