package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/ashmitsharp/cashlens-reports/internal/models"
)

// DefaultStatementSchema accepts the bank's operations export as well as
// plain English column names
var DefaultStatementSchema = models.StatementSchema{
	DateColumns:        []string{"Дата операции", "date", "operation_date", "txn_date"},
	AccountColumns:     []string{"Номер карты", "card", "card_number", "account_id"},
	AmountColumns:      []string{"Сумма операции", "amount"},
	CategoryColumns:    []string{"Категория", "category"},
	DescriptionColumns: []string{"Описание", "description"},
	CashbackColumns:    []string{"Кэшбэк", "cashback"},
}

// RowError describes a statement row that was rejected
type RowError struct {
	Row    int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// ParseResult holds the accepted transactions and the rejected rows
type ParseResult struct {
	Transactions []models.Transaction
	Skipped      []RowError
}

// Parser turns operations exports into transactions
type Parser struct {
	schema models.StatementSchema
	log    zerolog.Logger
}

// NewParser creates a parser using the default statement schema
func NewParser(log zerolog.Logger) *Parser {
	return &Parser{
		schema: DefaultStatementSchema,
		log:    log.With().Str("component", "parser").Logger(),
	}
}

// ParseDate parses date strings in multiple formats
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)

	dateFormats := []string{
		"02.01.2006 15:04:05", // DD.MM.YYYY HH:MM:SS (operations export)
		"02.01.2006",          // DD.MM.YYYY
		"2006-01-02 15:04:05", // YYYY-MM-DD HH:MM:SS
		"2006-01-02",          // YYYY-MM-DD (ISO)
		time.RFC3339,
		"02/01/2006",   // DD/MM/YYYY
		"02-Jan-2006",  // DD-MMM-YYYY
		"02-01-2006",   // DD-MM-YYYY
		"Jan 02, 2006", // MMM DD, YYYY
	}

	for _, format := range dateFormats {
		t, err := time.ParseInLocation(format, dateStr, time.Local)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// thousandsGrouped matches comma-grouped integers such as 1,234 or -12,345,678
var thousandsGrouped = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+$`)

// ParseAmount parses amount strings, handling currency symbols, thousands
// separators and decimal commas
func ParseAmount(amountStr string) (float64, error) {
	cleaned := strings.TrimSpace(amountStr)
	for _, symbol := range []string{"₽", "руб.", "RUB", "$", "€", "₹", "Rs."} {
		cleaned = strings.ReplaceAll(cleaned, symbol, "")
	}
	cleaned = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' || r == '\u202f' {
			return -1
		}
		return r
	}, cleaned)

	if cleaned == "" || cleaned == "-" {
		return 0, errors.New("empty amount")
	}

	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") || thousandsGrouped.MatchString(cleaned) {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		}
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("invalid amount: %s", amountStr)
	}

	return amount, nil
}

// ParseFile dispatches on the file extension
func (p *Parser) ParseFile(file io.Reader, filename string) (*ParseResult, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return p.ParseXLSX(file)
	case ".csv":
		return p.ParseCSV(file)
	default:
		return nil, fmt.Errorf("unsupported statement format: %s", filename)
	}
}

// ParseCSV parses a comma or semicolon separated export
func (p *Parser) ParseCSV(file io.Reader) (*ParseResult, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	if firstLine, _, _ := bytes.Cut(data, []byte("\n")); bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		reader.Comma = ';'
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	return p.ParseRows(rows)
}

// ParseXLSX parses the first sheet of an XLSX workbook
func (p *Parser) ParseXLSX(file io.Reader) (*ParseResult, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	return p.ParseRows(rows)
}

// ParseRows parses a header row followed by data rows. Rows that cannot be
// turned into a transaction are skipped and reported, never fatal.
func (p *Parser) ParseRows(rows [][]string) (*ParseResult, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	columns, err := p.resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	result := &ParseResult{Transactions: []models.Transaction{}}
	for i, row := range rows[1:] {
		rowNum := i + 2

		if isEmptyRow(row) {
			continue
		}

		txn, err := p.parseRow(row, columns)
		if err != nil {
			p.log.Warn().Int("row", rowNum).Err(err).Msg("skipping statement row")
			result.Skipped = append(result.Skipped, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}

		result.Transactions = append(result.Transactions, txn)
	}

	return result, nil
}

type columnIndex struct {
	date, account, amount, category, description, cashback int
}

func (p *Parser) resolveColumns(headers []string) (columnIndex, error) {
	headerIndex := make(map[string]int)
	for i, h := range headers {
		headerIndex[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	find := func(aliases []string) int {
		for _, alias := range aliases {
			if i, ok := headerIndex[strings.ToLower(alias)]; ok {
				return i
			}
		}
		return -1
	}

	idx := columnIndex{
		date:        find(p.schema.DateColumns),
		account:     find(p.schema.AccountColumns),
		amount:      find(p.schema.AmountColumns),
		category:    find(p.schema.CategoryColumns),
		description: find(p.schema.DescriptionColumns),
		cashback:    find(p.schema.CashbackColumns),
	}

	var missing []string
	if idx.date < 0 {
		missing = append(missing, "date")
	}
	if idx.account < 0 {
		missing = append(missing, "card")
	}
	if idx.amount < 0 {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("unknown statement format: missing columns %s", strings.Join(missing, ", "))
	}

	return idx, nil
}

// parseRow parses a single row into a Transaction
func (p *Parser) parseRow(row []string, columns columnIndex) (models.Transaction, error) {
	var txn models.Transaction

	date, err := ParseDate(cell(row, columns.date))
	if err != nil {
		return txn, fmt.Errorf("failed to parse date: %w", err)
	}
	txn.Date = date

	account := cell(row, columns.account)
	if account == "" || strings.EqualFold(account, "nan") {
		return txn, fmt.Errorf("missing card number")
	}
	txn.AccountID = account

	amount, err := ParseAmount(cell(row, columns.amount))
	if err != nil {
		return txn, fmt.Errorf("failed to parse amount: %w", err)
	}
	txn.Amount = amount

	txn.Category = cell(row, columns.category)
	txn.Description = cell(row, columns.description)

	if raw := cell(row, columns.cashback); raw != "" {
		if cashback, err := ParseAmount(raw); err == nil {
			txn.Cashback = cashback
		}
	}

	return txn, nil
}

// cell returns the trimmed value at i, or "" when the row is short or i < 0
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// isEmptyRow checks if all fields in a row are empty
func isEmptyRow(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
