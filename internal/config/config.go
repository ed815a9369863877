package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ashmitsharp/cashlens-reports/internal/models"
)

// Transaction sources
const (
	SourceFile     = "file"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

type Config struct {
	// Server
	Port            int
	Environment     string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Transactions
	TransactionsSource string
	TransactionsFile   string
	MaxFileSize        int64

	// S3
	S3Bucket          string
	S3Region          string
	AWSEndpoint       string // For LocalStack in development
	S3TransactionsKey string

	// Database
	DatabaseURL         string
	DBMaxConnections    int
	DBConnectionTimeout time.Duration

	// Market data
	CurrencyAPIURL string
	CurrencyAPIKey string
	StockAPIURL    string
	StockAPIKey    string
	MarketTimeout  time.Duration

	// User settings
	UserCurrencies []string
	UserStocks     []string

	// Reports
	Reports ReportConfig
}

// ReportConfig holds the constants of the aggregation engine
type ReportConfig struct {
	CashbackRate         float64
	TopExpenseCategories int
	TopIncomeCategories  int
	TopTransactions      int
	MainWeekEndMode      models.WeekEndMode
	EventsWeekEndMode    models.WeekEndMode
}

// DefaultReportConfig returns the engine defaults
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		CashbackRate:         0.01,
		TopExpenseCategories: 7,
		TopIncomeCategories:  3,
		TopTransactions:      5,
		MainWeekEndMode:      models.WeekEndFullSpan,
		EventsWeekEndMode:    models.WeekEndClipped,
	}
}

// Validate checks the report constants are usable
func (r ReportConfig) Validate() error {
	if r.CashbackRate < 0 {
		return fmt.Errorf("CASHBACK_RATE must not be negative")
	}
	if r.TopExpenseCategories <= 0 || r.TopIncomeCategories <= 0 || r.TopTransactions <= 0 {
		return fmt.Errorf("top-N settings must be positive")
	}
	if !r.MainWeekEndMode.Valid() {
		return fmt.Errorf("invalid MAIN_WEEK_END_MODE: %s", r.MainWeekEndMode)
	}
	if !r.EventsWeekEndMode.Valid() {
		return fmt.Errorf("invalid EVENTS_WEEK_END_MODE: %s", r.EventsWeekEndMode)
	}
	return nil
}

func LoadFromEnv() (*Config, error) {
	defaults := DefaultReportConfig()

	cfg := &Config{
		Port:                getEnvInt("PORT", 8080),
		Environment:         getEnv("ENVIRONMENT", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout:     getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		TransactionsSource:  getEnv("TRANSACTIONS_SOURCE", SourceFile),
		TransactionsFile:    getEnv("TRANSACTIONS_FILE", "data/operations.xlsx"),
		MaxFileSize:         int64(getEnvInt("MAX_FILE_SIZE", 10*1024*1024)),
		S3Bucket:            getEnv("S3_BUCKET", ""),
		S3Region:            getEnv("S3_REGION", "ap-south-1"),
		AWSEndpoint:         getEnv("AWS_ENDPOINT", ""),
		S3TransactionsKey:   getEnv("S3_TRANSACTIONS_KEY", ""),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		DBMaxConnections:    getEnvInt("DB_MAX_CONNECTIONS", 25),
		DBConnectionTimeout: getEnvDuration("DB_CONNECTION_TIMEOUT", 30*time.Second),
		CurrencyAPIURL:      getEnv("CURRENCY_API_URL", ""),
		CurrencyAPIKey:      getEnv("CURRENCY_API_KEY", ""),
		StockAPIURL:         getEnv("STOCK_API_URL", "https://www.alphavantage.co/query"),
		StockAPIKey:         getEnv("STOCK_API_KEY", ""),
		MarketTimeout:       getEnvDuration("MARKET_TIMEOUT", 10*time.Second),
		UserCurrencies:      getEnvList("USER_CURRENCIES", []string{"USD", "EUR"}),
		UserStocks:          getEnvList("USER_STOCKS", []string{"AAPL", "AMZN", "GOOGL", "MSFT", "TSLA"}),
		Reports: ReportConfig{
			CashbackRate:         getEnvFloat("CASHBACK_RATE", defaults.CashbackRate),
			TopExpenseCategories: getEnvInt("TOP_EXPENSE_CATEGORIES", defaults.TopExpenseCategories),
			TopIncomeCategories:  getEnvInt("TOP_INCOME_CATEGORIES", defaults.TopIncomeCategories),
			TopTransactions:      getEnvInt("TOP_TRANSACTIONS", defaults.TopTransactions),
			MainWeekEndMode:      models.WeekEndMode(getEnv("MAIN_WEEK_END_MODE", string(defaults.MainWeekEndMode))),
			EventsWeekEndMode:    models.WeekEndMode(getEnv("EVENTS_WEEK_END_MODE", string(defaults.EventsWeekEndMode))),
		},
	}

	// Validate required fields
	switch cfg.TransactionsSource {
	case SourceFile:
		if cfg.TransactionsFile == "" {
			return nil, fmt.Errorf("TRANSACTIONS_FILE is required for the file source")
		}
	case SourceS3:
		if cfg.S3Bucket == "" || cfg.S3TransactionsKey == "" {
			return nil, fmt.Errorf("S3_BUCKET and S3_TRANSACTIONS_KEY are required for the s3 source")
		}
	case SourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres source")
		}
	default:
		return nil, fmt.Errorf("unknown TRANSACTIONS_SOURCE: %s", cfg.TransactionsSource)
	}
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	if err := cfg.Reports.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping blanks
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
