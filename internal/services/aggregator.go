package services

import (
	"math"
	"slices"
	"sort"

	"github.com/ashmitsharp/cashlens-reports/internal/models"
)

// OtherCategory is the synthetic bucket that folds categories outside the top N
const OtherCategory = "Other"

// Aggregator groups and ranks a working set of transactions
type Aggregator struct {
	cashbackRate float64
}

// NewAggregator creates an aggregator applying the given cashback rate
func NewAggregator(cashbackRate float64) *Aggregator {
	return &Aggregator{cashbackRate: cashbackRate}
}

// SummarizeAccounts groups transactions by account. Total spent is the sum of
// absolute amounts, so credits add to it as well as debits.
func (a *Aggregator) SummarizeAccounts(transactions []models.Transaction) []models.AccountSummary {
	totals := make(map[string]float64)
	for _, t := range transactions {
		if t.AccountID == "" {
			continue
		}
		totals[t.AccountID] += math.Abs(t.Amount)
	}

	accounts := make([]string, 0, len(totals))
	for id := range totals {
		accounts = append(accounts, id)
	}
	sort.Strings(accounts)

	summaries := make([]models.AccountSummary, 0, len(accounts))
	for _, id := range accounts {
		total := totals[id]
		summaries = append(summaries, models.AccountSummary{
			LastDigits: models.MaskAccount(id),
			TotalSpent: Round2(total),
			Cashback:   Round2(total * a.cashbackRate),
		})
	}

	return summaries
}

// TopExpenseCategories ranks expense categories by spent magnitude and keeps
// the top n. Remaining categories are folded into one "Other" bucket.
func (a *Aggregator) TopExpenseCategories(transactions []models.Transaction, n int) models.CategorySection {
	expenses := FilterExpenses(transactions)

	buckets := SumByCategory(expenses)
	total := 0.0
	for i := range buckets {
		buckets[i].Amount = -buckets[i].Amount
		total += buckets[i].Amount
	}

	return models.CategorySection{
		TotalAmount: Round2(total),
		Main:        RankBuckets(buckets, n, true),
	}
}

// TopIncomeCategories ranks income categories and keeps the top n. Income is
// not folded into a remainder bucket.
func (a *Aggregator) TopIncomeCategories(transactions []models.Transaction, n int) models.CategorySection {
	income := FilterIncome(transactions)

	buckets := SumByCategory(income)
	total := 0.0
	for _, b := range buckets {
		total += b.Amount
	}

	return models.CategorySection{
		TotalAmount: Round2(total),
		Main:        RankBuckets(buckets, n, false),
	}
}

// TopTransactions returns the k transactions with the largest signed amount.
// Equal amounts keep their input order.
func (a *Aggregator) TopTransactions(transactions []models.Transaction, k int) []models.Transaction {
	ranked := slices.Clone(transactions)
	slices.SortStableFunc(ranked, func(x, y models.Transaction) int {
		switch {
		case x.Amount > y.Amount:
			return -1
		case x.Amount < y.Amount:
			return 1
		}
		return 0
	})

	if k < 0 {
		k = 0
	}
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// CashbackByCategory sums the precomputed cashback of each category and
// truncates every total toward zero.
func (a *Aggregator) CashbackByCategory(transactions []models.Transaction) map[string]int64 {
	sums := make(map[string]float64)
	for _, t := range transactions {
		sums[t.Category] += t.Cashback
	}

	result := make(map[string]int64, len(sums))
	for category, sum := range sums {
		result[category] = int64(sum)
	}
	return result
}

// SumByCategory sums raw amounts per category in first-seen order
func SumByCategory(transactions []models.Transaction) []models.CategoryBucket {
	index := make(map[string]int)
	var buckets []models.CategoryBucket

	for _, t := range transactions {
		category := t.Category
		i, ok := index[category]
		if !ok {
			i = len(buckets)
			index[category] = i
			buckets = append(buckets, models.CategoryBucket{Category: category})
		}
		buckets[i].Amount += t.Amount
	}

	return buckets
}

// RankBuckets sorts buckets by amount descending, ties keeping their order,
// and keeps the first n. When fold is set and buckets were dropped, their sum
// is appended as a single "Other" bucket; a real category named "Other" is
// then folded into it rather than ranked.
func RankBuckets(buckets []models.CategoryBucket, n int, fold bool) []models.CategoryBucket {
	ranked := slices.Clone(buckets)
	slices.SortStableFunc(ranked, func(x, y models.CategoryBucket) int {
		switch {
		case x.Amount > y.Amount:
			return -1
		case x.Amount < y.Amount:
			return 1
		}
		return 0
	})

	if n < 0 {
		n = 0
	}

	folding := fold && len(ranked) > n
	result := make([]models.CategoryBucket, 0, min(len(ranked), n)+1)
	other, dropped := 0.0, false

	for _, b := range ranked {
		if len(result) < n && !(folding && b.Category == OtherCategory) {
			result = append(result, models.CategoryBucket{Category: b.Category, Amount: Round2(b.Amount)})
			continue
		}
		other += b.Amount
		dropped = true
	}

	if folding && dropped {
		result = append(result, models.CategoryBucket{Category: OtherCategory, Amount: Round2(other)})
	}

	return result
}

// Round2 rounds to 2 decimal places, halves away from zero
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
