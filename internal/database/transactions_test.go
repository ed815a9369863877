package database

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRows replays fixed values through the pgx.Rows interface
type fakeRows struct {
	data [][]any
	pos  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.data[r.pos-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	for i, d := range dest {
		switch p := d.(type) {
		case **time.Time:
			if v, ok := row[i].(time.Time); ok {
				*p = &v
			}
		case **string:
			if v, ok := row[i].(string); ok {
				*p = &v
			}
		case **float64:
			if v, ok := row[i].(float64); ok {
				*p = &v
			}
		}
	}
	return nil
}

type fakeQuerier struct {
	rows pgx.Rows
	err  error
}

func (q *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return q.rows, q.err
}

func TestTransactionStore_Load(t *testing.T) {
	date := time.Date(2021, 11, 3, 14, 0, 0, 0, time.UTC)
	rows := &fakeRows{data: [][]any{
		{date, "*7197", -160.89, "Супермаркеты", "Колхоз", 3.0},
		{date, nil, -10.0, "Фастфуд", "MOUSE TOWER", nil},
		{nil, "*5091", -64.0, "Супермаркеты", "Колхоз", nil},
		{date, "*4556", 5000.0, nil, nil, nil},
	}}

	store := NewTransactionStore(&fakeQuerier{rows: rows}, zerolog.Nop())
	transactions, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	assert.Equal(t, "*7197", transactions[0].AccountID)
	assert.Equal(t, -160.89, transactions[0].Amount)
	assert.Equal(t, "Супермаркеты", transactions[0].Category)
	assert.Equal(t, 3.0, transactions[0].Cashback)
	assert.Equal(t, time.Date(2021, 11, 3, 14, 0, 0, 0, time.Local), transactions[0].Date)

	assert.Equal(t, "*4556", transactions[1].AccountID)
	assert.Equal(t, "", transactions[1].Category)
	assert.Equal(t, 0.0, transactions[1].Cashback)
}

func TestTransactionStore_LoadQueryError(t *testing.T) {
	store := NewTransactionStore(&fakeQuerier{err: errors.New("connection refused")}, zerolog.Nop())

	transactions, err := store.Load(context.Background())
	assert.Nil(t, transactions)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestTransactionStore_LoadRowsError(t *testing.T) {
	rows := &fakeRows{err: errors.New("stream closed")}
	store := NewTransactionStore(&fakeQuerier{rows: rows}, zerolog.Nop())

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stream closed")
}

func TestConnect_EmptyURL(t *testing.T) {
	pool, err := Connect(context.Background(), "", 5, time.Second)
	assert.Nil(t, pool)
	assert.Error(t, err)
}

func TestConnect_Integration(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	pool, err := Connect(context.Background(), url, 2, 5*time.Second)
	require.NoError(t, err)
	defer pool.Close()

	store := NewTransactionStore(pool, zerolog.Nop())
	_, err = store.Load(context.Background())
	assert.NoError(t, err)
}
