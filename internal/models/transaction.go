package models

import (
	"time"
)

// ListingDateFormat is the layout used when transactions are listed in reports
const ListingDateFormat = "02.01.2006"

// Transaction represents one parsed financial movement
type Transaction struct {
	Date        time.Time `json:"date"`
	Amount      float64   `json:"amount"` // Negative for expense, positive for income
	Category    string    `json:"category"`
	Description string    `json:"description"`
	AccountID   string    `json:"account_id"` // Card number or other payment instrument
	Cashback    float64   `json:"cashback"`   // Precomputed by the bank, 0 when absent
}

// IsExpense reports whether the transaction is a spend
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// IsIncome reports whether the transaction is a credit
func (t Transaction) IsIncome() bool {
	return t.Amount > 0
}

// MaskAccount keeps only the last 4 characters of an account identifier
func MaskAccount(accountID string) string {
	runes := []rune(accountID)
	if len(runes) <= 4 {
		return accountID
	}
	return string(runes[len(runes)-4:])
}

// TransactionListing is the external shape of a transaction in report listings
type TransactionListing struct {
	Date        string  `json:"date"` // DD.MM.YYYY
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// NewTransactionListing converts a transaction into its listing shape
func NewTransactionListing(t Transaction) TransactionListing {
	return TransactionListing{
		Date:        t.Date.Format(ListingDateFormat),
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
	}
}

// AccountSummary aggregates every transaction of one account
type AccountSummary struct {
	LastDigits string  `json:"last_digits"`
	TotalSpent float64 `json:"total_spent"`
	Cashback   float64 `json:"cashback"`
}

// CategoryBucket is an amount summed over one category
type CategoryBucket struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// StatementSchema maps the column headers of an operations export to
// transaction fields. Each field lists the accepted header aliases.
type StatementSchema struct {
	DateColumns        []string
	AccountColumns     []string
	AmountColumns      []string
	CategoryColumns    []string
	DescriptionColumns []string
	CashbackColumns    []string
}
