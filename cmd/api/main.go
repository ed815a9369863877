package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ashmitsharp/cashlens-reports/internal/config"
	"github.com/ashmitsharp/cashlens-reports/internal/database"
	"github.com/ashmitsharp/cashlens-reports/internal/handlers"
	"github.com/ashmitsharp/cashlens-reports/internal/logger"
	"github.com/ashmitsharp/cashlens-reports/internal/middleware"
	"github.com/ashmitsharp/cashlens-reports/internal/services"
	"github.com/ashmitsharp/cashlens-reports/internal/utils"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, !cfg.IsProduction())
	if envErr != nil {
		log.Warn().Msg(".env file not found, using system environment variables")
	}

	ctx := context.Background()

	source, cleanup, err := newTransactionSource(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.TransactionsSource).Msg("failed to initialize transaction source")
	}
	defer cleanup()
	log.Info().Str("source", source.Name()).Msg("transaction source initialized")

	market := services.NewMarketClient(services.MarketConfig{
		CurrencyAPIURL: cfg.CurrencyAPIURL,
		CurrencyAPIKey: cfg.CurrencyAPIKey,
		StockAPIURL:    cfg.StockAPIURL,
		StockAPIKey:    cfg.StockAPIKey,
		Timeout:        cfg.MarketTimeout,
	}, log)
	if cfg.CurrencyAPIKey == "" || cfg.StockAPIKey == "" {
		log.Warn().Msg("market data API keys are not set")
	}

	builder := services.NewReportBuilder(cfg.Reports, market, log)
	reportHandler := handlers.NewReportHandler(source, builder, handlers.UserSettings{
		Currencies: cfg.UserCurrencies,
		Stocks:     cfg.UserStocks,
	})

	app := fiber.New(fiber.Config{
		AppName:      "cashlens reports v1.0",
		ErrorHandler: utils.ErrorHandler,
	})

	// Apply global middleware
	app.Use(middleware.RequestLogger(log))
	app.Use(middleware.CORS(nil))

	// Health check endpoint
	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "cashlens-reports",
		})
	})

	v1 := app.Group("/v1")
	v1.Get("/main", reportHandler.GetMainPage)
	v1.Get("/events", reportHandler.GetEventsPage)
	v1.Get("/reports/spending", reportHandler.GetSpendingReport)
	v1.Get("/reports/cashback", reportHandler.GetCashbackReport)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down")
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info().Str("addr", addr).Msg("cashlens reports API is running")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// newTransactionSource builds the configured source and a cleanup func
// releasing whatever it holds
func newTransactionSource(ctx context.Context, cfg *config.Config, log zerolog.Logger) (services.TransactionSource, func(), error) {
	validator := services.NewFileValidator(cfg.MaxFileSize)
	parser := services.NewParser(log)

	switch cfg.TransactionsSource {
	case config.SourceS3:
		storage, err := services.NewStorageService(cfg.S3Bucket, cfg.S3Region, cfg.AWSEndpoint)
		if err != nil {
			return nil, nil, err
		}
		return services.NewS3Source(storage, cfg.S3TransactionsKey, validator, parser), func() {}, nil

	case config.SourcePostgres:
		pool, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConnections, cfg.DBConnectionTimeout)
		if err != nil {
			return nil, nil, err
		}
		return database.NewTransactionStore(pool, log), pool.Close, nil

	default:
		return services.NewFileSource(cfg.TransactionsFile, validator, parser), func() {}, nil
	}
}
