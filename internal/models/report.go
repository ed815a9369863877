package models

import (
	"encoding/json"
	"time"
)

// Period codes accepted by the period resolver
const (
	PeriodWeek  = "W"
	PeriodMonth = "M"
	PeriodYear  = "Y"
	PeriodAll   = "ALL"
)

// WeekEndMode selects where a week window ends
type WeekEndMode string

const (
	// WeekEndClipped ends the week at the reference instant
	WeekEndClipped WeekEndMode = "clipped"
	// WeekEndFullSpan ends the week on Sunday, possibly after the reference instant
	WeekEndFullSpan WeekEndMode = "full_span"
)

// Valid reports whether the mode is one of the known variants
func (m WeekEndMode) Valid() bool {
	return m == WeekEndClipped || m == WeekEndFullSpan
}

// Period is a resolved, inclusive date range
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies within [Start, End]
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// CurrencyRate is one exchange rate returned by the currency service
type CurrencyRate struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
}

// StockQuote is one daily price point of a stock
type StockQuote struct {
	Date   string  `json:"date"`
	Stock  string  `json:"stock"`
	Open   float64 `json:"open"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// StockPrices carries either quotes or an error marker. It encodes as a JSON
// array of quotes, or as {"error": "..."} when Error is set.
type StockPrices struct {
	Quotes []StockQuote
	Error  string
}

// MarshalJSON implements json.Marshaler
func (s StockPrices) MarshalJSON() ([]byte, error) {
	if s.Error != "" {
		return json.Marshal(map[string]string{"error": s.Error})
	}
	if s.Quotes == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Quotes)
}

// MainPageReport is the per-card overview
type MainPageReport struct {
	Greeting        string               `json:"greeting"`
	Cards           []AccountSummary     `json:"cards"`
	TopTransactions []TransactionListing `json:"top_transactions"`
	CurrencyRates   []CurrencyRate       `json:"currency_rates"`
	StockPrices     StockPrices          `json:"stock_prices"`
}

// CategorySection is a total plus its ranked category buckets
type CategorySection struct {
	TotalAmount float64          `json:"total_amount"`
	Main        []CategoryBucket `json:"main"`
}

// EventsPageReport is the income/expense breakdown over a period
type EventsPageReport struct {
	Expenses      CategorySection `json:"expenses"`
	Income        CategorySection `json:"income"`
	CurrencyRates []CurrencyRate  `json:"currency_rates"`
	StockPrices   StockPrices     `json:"stock_prices"`
}

// SpendingReport lists the transactions of one category over a window
type SpendingReport struct {
	Category     string               `json:"category"`
	Period       Period               `json:"period"`
	Transactions []TransactionListing `json:"transactions"`
}
