package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/ashmitsharp/cashlens-reports/internal/models"
)

const listTransactions = `
SELECT operation_date, card_number, amount, category, description, cashback
FROM transactions
ORDER BY id`

// Querier is the subset of pgxpool.Pool used by TransactionStore
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// TransactionStore loads transactions from the transactions table
type TransactionStore struct {
	db  Querier
	log zerolog.Logger
}

// NewTransactionStore creates a store reading through db
func NewTransactionStore(db Querier, log zerolog.Logger) *TransactionStore {
	return &TransactionStore{
		db:  db,
		log: log.With().Str("component", "database").Logger(),
	}
}

func (s *TransactionStore) Name() string {
	return "postgres"
}

// Load reads every transaction. Rows missing a date, card or amount are
// skipped rather than failing the batch.
func (s *TransactionStore) Load(ctx context.Context) ([]models.Transaction, error) {
	rows, err := s.db.Query(ctx, listTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	rowNum := 0
	for rows.Next() {
		rowNum++

		var (
			date        *time.Time
			card        *string
			amount      *float64
			category    *string
			description *string
			cashback    *float64
		)
		if err := rows.Scan(&date, &card, &amount, &category, &description, &cashback); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row %d: %w", rowNum, err)
		}

		txn, ok := toTransaction(date, card, amount, category, description, cashback)
		if !ok {
			s.log.Warn().Int("row", rowNum).Msg("skipping incomplete transaction row")
			continue
		}
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}

	return transactions, nil
}

func toTransaction(date *time.Time, card *string, amount *float64, category, description *string, cashback *float64) (models.Transaction, bool) {
	if date == nil || card == nil || amount == nil || strings.TrimSpace(*card) == "" {
		return models.Transaction{}, false
	}

	txn := models.Transaction{
		Date:      wallClock(*date),
		Amount:    *amount,
		AccountID: strings.TrimSpace(*card),
	}
	if category != nil {
		txn.Category = *category
	}
	if description != nil {
		txn.Description = *description
	}
	if cashback != nil {
		txn.Cashback = *cashback
	}
	return txn, true
}

// wallClock reinterprets a scanned timestamp in the local zone. pgx returns
// timestamp columns without a zone as UTC, while reference dates are parsed
// in local time.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local)
}
