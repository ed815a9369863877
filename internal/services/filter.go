package services

import (
	"time"

	"github.com/ashmitsharp/cashlens-reports/internal/models"
)

// FilterByPeriod keeps transactions dated within p, preserving input order.
// Transactions without a date are dropped.
func FilterByPeriod(transactions []models.Transaction, p models.Period) []models.Transaction {
	return filter(transactions, func(t models.Transaction) bool {
		return !t.Date.IsZero() && p.Contains(t.Date)
	})
}

// FilterExpenses keeps transactions with a negative amount
func FilterExpenses(transactions []models.Transaction) []models.Transaction {
	return filter(transactions, models.Transaction.IsExpense)
}

// FilterIncome keeps transactions with a positive amount
func FilterIncome(transactions []models.Transaction) []models.Transaction {
	return filter(transactions, models.Transaction.IsIncome)
}

// FilterByCategory keeps transactions whose category equals category exactly
func FilterByCategory(transactions []models.Transaction, category string) []models.Transaction {
	return filter(transactions, func(t models.Transaction) bool {
		return t.Category == category
	})
}

// FilterByMonth keeps transactions dated in the given calendar year and month
func FilterByMonth(transactions []models.Transaction, year int, month time.Month) []models.Transaction {
	return filter(transactions, func(t models.Transaction) bool {
		return !t.Date.IsZero() && t.Date.Year() == year && t.Date.Month() == month
	})
}

// ValidTransactions drops records that must never reach an aggregation:
// no date or no account identifier.
func ValidTransactions(transactions []models.Transaction) []models.Transaction {
	return filter(transactions, func(t models.Transaction) bool {
		return !t.Date.IsZero() && t.AccountID != ""
	})
}

// LatestDate returns the most recent transaction date, or false if there is none
func LatestDate(transactions []models.Transaction) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, t := range transactions {
		if t.Date.IsZero() {
			continue
		}
		if !found || t.Date.After(latest) {
			latest = t.Date
			found = true
		}
	}
	return latest, found
}

func filter(transactions []models.Transaction, keep func(models.Transaction) bool) []models.Transaction {
	result := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if keep(t) {
			result = append(result, t)
		}
	}
	return result
}
