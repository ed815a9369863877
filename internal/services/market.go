package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/client"
	"github.com/rs/zerolog"

	"github.com/ashmitsharp/cashlens-reports/internal/models"
)

// StockPricesUnavailable is the error marker embedded in reports when the
// stock service has no data
const StockPricesUnavailable = "could not retrieve stock prices"

const stockQuoteDays = 2

// MarketData supplies currency and stock context for reports. Lookups never
// fail: problems degrade to empty results or the stock error marker.
type MarketData interface {
	CurrencyRates(ctx context.Context, codes []string) []models.CurrencyRate
	StockPrices(ctx context.Context, symbols []string) models.StockPrices
}

// MarketConfig configures the remote currency and stock services
type MarketConfig struct {
	CurrencyAPIURL string
	CurrencyAPIKey string
	StockAPIURL    string
	StockAPIKey    string
	Timeout        time.Duration
}

// MarketClient fetches rates and prices over HTTP
type MarketClient struct {
	cfg  MarketConfig
	http *client.Client
	log  zerolog.Logger
}

// NewMarketClient creates a market data client
func NewMarketClient(cfg MarketConfig, log zerolog.Logger) *MarketClient {
	httpClient := client.New()
	if cfg.Timeout > 0 {
		httpClient.SetTimeout(cfg.Timeout)
	}

	return &MarketClient{
		cfg:  cfg,
		http: httpClient,
		log:  log.With().Str("component", "market").Logger(),
	}
}

type currencyResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// CurrencyRates returns USD based rates for the requested codes in request
// order. With no codes every returned rate is listed, sorted by code.
func (m *MarketClient) CurrencyRates(ctx context.Context, codes []string) []models.CurrencyRate {
	rates := []models.CurrencyRate{}
	if m.cfg.CurrencyAPIURL == "" {
		m.log.Debug().Msg("currency service not configured")
		return rates
	}

	params := map[string]string{
		"access_key": m.cfg.CurrencyAPIKey,
		"base":       "USD",
	}
	if len(codes) > 0 {
		params["symbols"] = strings.Join(codes, ",")
	}

	resp, err := m.http.Get(strings.TrimSuffix(m.cfg.CurrencyAPIURL, "/")+"/latest", client.Config{
		Ctx:   ctx,
		Param: params,
	})
	if err != nil {
		m.log.Error().Err(err).Msg("currency request failed")
		return rates
	}
	defer resp.Close()

	if resp.StatusCode() != fiber.StatusOK {
		m.log.Error().Int("status_code", resp.StatusCode()).Msg("currency service returned an error")
		return rates
	}

	var body currencyResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		m.log.Error().Err(err).Msg("failed to decode currency response")
		return rates
	}

	if len(codes) == 0 {
		for code := range body.Rates {
			codes = append(codes, code)
		}
		sort.Strings(codes)
	}

	for _, code := range codes {
		rate, ok := body.Rates[code]
		if !ok {
			m.log.Warn().Str("currency", code).Msg("rate missing from currency response")
			continue
		}
		rates = append(rates, models.CurrencyRate{Currency: code, Rate: rate})
	}

	return rates
}

type dailySeriesResponse struct {
	Series map[string]struct {
		Open   string `json:"1. open"`
		Close  string `json:"4. close"`
		Volume string `json:"5. volume"`
	} `json:"Time Series (Daily)"`
}

// StockPrices returns the most recent daily quotes of each symbol. A symbol
// the service has no series for turns the whole result into the error marker.
func (m *MarketClient) StockPrices(ctx context.Context, symbols []string) models.StockPrices {
	prices := models.StockPrices{Quotes: []models.StockQuote{}}
	if m.cfg.StockAPIURL == "" {
		m.log.Debug().Msg("stock service not configured")
		return prices
	}

	for _, symbol := range symbols {
		symbol = strings.TrimSpace(symbol)
		if symbol == "" {
			continue
		}

		quotes, err := m.dailyQuotes(ctx, symbol)
		if err != nil {
			m.log.Error().Err(err).Str("stock", symbol).Msg("stock lookup failed")
			return models.StockPrices{Error: StockPricesUnavailable}
		}
		prices.Quotes = append(prices.Quotes, quotes...)
	}

	return prices
}

func (m *MarketClient) dailyQuotes(ctx context.Context, symbol string) ([]models.StockQuote, error) {
	resp, err := m.http.Get(m.cfg.StockAPIURL, client.Config{
		Ctx: ctx,
		Param: map[string]string{
			"function": "TIME_SERIES_DAILY",
			"symbol":   symbol,
			"apikey":   m.cfg.StockAPIKey,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Close()

	if resp.StatusCode() != fiber.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	var body dailySeriesResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(body.Series) == 0 {
		return nil, fmt.Errorf("no daily time series data found")
	}

	dates := make([]string, 0, len(body.Series))
	for date := range body.Series {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	quotes := make([]models.StockQuote, 0, stockQuoteDays)
	for _, date := range dates[:min(len(dates), stockQuoteDays)] {
		point := body.Series[date]

		open, err := strconv.ParseFloat(point.Open, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid open price on %s: %w", date, err)
		}
		closePrice, err := strconv.ParseFloat(point.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid close price on %s: %w", date, err)
		}
		volume, err := strconv.ParseInt(point.Volume, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid volume on %s: %w", date, err)
		}

		quotes = append(quotes, models.StockQuote{
			Date:   date,
			Stock:  symbol,
			Open:   Round2(open),
			Close:  Round2(closePrice),
			Volume: volume,
		})
	}

	return quotes, nil
}
