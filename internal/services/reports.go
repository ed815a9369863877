package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ashmitsharp/cashlens-reports/internal/config"
	"github.com/ashmitsharp/cashlens-reports/internal/models"
)

// SpendingWindowMonths is the length of the category spending window
const SpendingWindowMonths = 3

// MainPageRequest selects what the main page covers
type MainPageRequest struct {
	DateTime   string   // YYYY-MM-DD HH:MM:SS, or a bare YYYY-MM-DD
	Period     string   // Optional; empty covers the whole batch
	Stocks     []string
	Currencies []string
}

// EventsPageRequest selects the window of the events page
type EventsPageRequest struct {
	DateTime   string // YYYY-MM-DD HH:MM:SS
	Period     string // W, M, Y or ALL
	Stocks     []string
	Currencies []string
}

// ReportBuilder assembles reports from an in-memory batch of transactions.
// It holds no per-request state and is safe for concurrent use as long as
// callers do not mutate a batch while it is being read.
type ReportBuilder struct {
	cfg        config.ReportConfig
	aggregator *Aggregator
	market     MarketData
	now        func() time.Time
	log        zerolog.Logger
}

// NewReportBuilder creates a report builder. market may be nil, in which case
// reports carry empty currency and stock sections.
func NewReportBuilder(cfg config.ReportConfig, market MarketData, log zerolog.Logger) *ReportBuilder {
	return &ReportBuilder{
		cfg:        cfg,
		aggregator: NewAggregator(cfg.CashbackRate),
		market:     market,
		now:        time.Now,
		log:        log.With().Str("component", "reports").Logger(),
	}
}

// WithClock replaces the clock used for the greeting
func (b *ReportBuilder) WithClock(now func() time.Time) *ReportBuilder {
	b.now = now
	return b
}

// MainPage builds the per-card overview
func (b *ReportBuilder) MainPage(ctx context.Context, batch []models.Transaction, req MainPageRequest) (*models.MainPageReport, error) {
	ref, err := ValidateDateTime(PadDate(strings.TrimSpace(req.DateTime)))
	if err != nil {
		return nil, err
	}

	working := ValidTransactions(batch)
	if len(working) == 0 {
		return nil, ErrEmptyBatch
	}

	if req.Period != "" {
		period, err := ResolvePeriod(ref, req.Period, b.cfg.MainWeekEndMode)
		if err != nil {
			return nil, err
		}
		working = FilterByPeriod(working, period)
		if len(working) == 0 {
			return nil, ErrEmptyWindow
		}
	}

	top := b.aggregator.TopTransactions(working, b.cfg.TopTransactions)
	listings := make([]models.TransactionListing, 0, len(top))
	for _, t := range top {
		listings = append(listings, models.NewTransactionListing(t))
	}

	rates, stocks := b.marketContext(ctx, req.Currencies, req.Stocks)

	b.log.Debug().
		Int("transactions", len(working)).
		Str("reference", ref.Format(DateTimeLayout)).
		Msg("built main page")

	return &models.MainPageReport{
		Greeting:        Greeting(b.now()),
		Cards:           b.aggregator.SummarizeAccounts(working),
		TopTransactions: listings,
		CurrencyRates:   rates,
		StockPrices:     stocks,
	}, nil
}

// EventsPage builds the expense and income breakdown over the requested period
func (b *ReportBuilder) EventsPage(ctx context.Context, batch []models.Transaction, req EventsPageRequest) (*models.EventsPageReport, error) {
	ref, err := ValidateDateTime(strings.TrimSpace(req.DateTime))
	if err != nil {
		return nil, err
	}

	period, err := ResolvePeriod(ref, req.Period, b.cfg.EventsWeekEndMode)
	if err != nil {
		return nil, err
	}

	working := ValidTransactions(batch)
	if len(working) == 0 {
		return nil, ErrEmptyBatch
	}

	window := FilterByPeriod(working, period)
	b.log.Debug().
		Time("start", period.Start).
		Time("end", period.End).
		Int("transactions", len(working)).
		Int("in_period", len(window)).
		Msg("filtered events window")

	if len(window) == 0 {
		return nil, ErrEmptyWindow
	}

	rates, stocks := b.marketContext(ctx, req.Currencies, req.Stocks)

	return &models.EventsPageReport{
		Expenses:      b.aggregator.TopExpenseCategories(window, b.cfg.TopExpenseCategories),
		Income:        b.aggregator.TopIncomeCategories(window, b.cfg.TopIncomeCategories),
		CurrencyRates: rates,
		StockPrices:   stocks,
	}, nil
}

// SpendingByCategory lists the transactions of category dated within the
// three calendar months ending at ref. A nil ref uses the latest date in the
// batch. Results are ordered by date, ties in input order.
func (b *ReportBuilder) SpendingByCategory(batch []models.Transaction, category string, ref *time.Time) models.SpendingReport {
	report := models.SpendingReport{
		Category:     category,
		Transactions: []models.TransactionListing{},
	}

	var end time.Time
	if ref != nil {
		end = *ref
	} else {
		latest, ok := LatestDate(batch)
		if !ok {
			b.log.Warn().Str("category", category).Msg("no dated transactions for spending report")
			return report
		}
		end = latest
	}
	report.Period = TrailingMonths(end, SpendingWindowMonths)

	matched := FilterByPeriod(FilterByCategory(batch, category), report.Period)
	slices.SortStableFunc(matched, func(x, y models.Transaction) int {
		return x.Date.Compare(y.Date)
	})

	for _, t := range matched {
		report.Transactions = append(report.Transactions, models.NewTransactionListing(t))
	}

	return report
}

// CashbackByCategory totals the precomputed cashback per category for one
// calendar month. No matching records yield an empty mapping.
func (b *ReportBuilder) CashbackByCategory(batch []models.Transaction, year int, month time.Month) map[string]int64 {
	matched := FilterByMonth(batch, year, month)
	if len(matched) == 0 {
		b.log.Warn().Int("year", year).Int("month", int(month)).Msg("no data for the requested month")
		return map[string]int64{}
	}
	return b.aggregator.CashbackByCategory(matched)
}

func (b *ReportBuilder) marketContext(ctx context.Context, currencies, stocks []string) ([]models.CurrencyRate, models.StockPrices) {
	rates := []models.CurrencyRate{}
	prices := models.StockPrices{Quotes: []models.StockQuote{}}
	if b.market == nil {
		return rates, prices
	}

	if r := b.market.CurrencyRates(ctx, currencies); r != nil {
		rates = r
	}
	if p := b.market.StockPrices(ctx, stocks); p.Error != "" || p.Quotes != nil {
		prices = p
	}
	return rates, prices
}
