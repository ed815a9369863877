package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ashmitsharp/cashlens-reports/internal/logger"
)

func TestParseDate_OperationsExport(t *testing.T) {
	date, err := ParseDate("31.12.2021 16:44:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.December, 31, 16, 44, 0, 0, time.Local), date)
}

func TestParseDate_DDMMYYYY(t *testing.T) {
	date, err := ParseDate("15.01.2024")
	require.NoError(t, err)
	assert.Equal(t, 2024, date.Year())
	assert.Equal(t, time.January, date.Month())
	assert.Equal(t, 15, date.Day())
}

func TestParseDate_DDMonYYYY(t *testing.T) {
	date, err := ParseDate("15-Jan-2024")
	require.NoError(t, err)
	assert.Equal(t, 2024, date.Year())
	assert.Equal(t, time.January, date.Month())
	assert.Equal(t, 15, date.Day())
}

func TestParseDate_YYYYMMDD(t *testing.T) {
	date, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, 2024, date.Year())
	assert.Equal(t, time.January, date.Month())
	assert.Equal(t, 15, date.Day())
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("invalid-date")
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{in: "3500.00", want: 3500},
		{in: "-160.89", want: -160.89},
		{in: "1,234.56", want: 1234.56},
		{in: "-64,00", want: -64},
		{in: "1,234", want: 1234},
		{in: "-12,345,678", want: -12345678},
		{in: "12,5", want: 12.5},
		{in: "1 234,50", want: 1234.5},
		{in: "1 234,50 ₽", want: 1234.5},
		{in: "$99.99", want: 99.99},
		{in: "Rs. 100", want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			amount, err := ParseAmount(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, amount)
		})
	}
}

func TestParseAmount_Empty(t *testing.T) {
	_, err := ParseAmount("")
	assert.Error(t, err)

	_, err = ParseAmount(" - ")
	assert.Error(t, err)
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"abc", "NaN", "Inf", "12.3.4"} {
		_, err := ParseAmount(in)
		assert.Error(t, err, in)
	}
}

func TestParseCSV_OperationsExport(t *testing.T) {
	csvData := "Дата операции;Номер карты;Сумма операции;Кэшбэк;Категория;Описание\n" +
		"31.12.2021 16:44:00;*7197;-160,89;;Супермаркеты;Колхоз\n" +
		"31.12.2021 16:42:04;*7197;-64,00;1;Супермаркеты;Колхоз\n" +
		"30.12.2021 17:50:30;*5441;5046,00;;Пополнения;Пополнение через Газпромбанк\n"

	parser := NewParser(logger.Nop())
	result, err := parser.ParseCSV(strings.NewReader(csvData))

	require.NoError(t, err)
	require.Len(t, result.Transactions, 3)
	assert.Empty(t, result.Skipped)

	first := result.Transactions[0]
	assert.Equal(t, time.Date(2021, time.December, 31, 16, 44, 0, 0, time.Local), first.Date)
	assert.Equal(t, "*7197", first.AccountID)
	assert.Equal(t, -160.89, first.Amount)
	assert.Equal(t, "Супермаркеты", first.Category)
	assert.Equal(t, "Колхоз", first.Description)
	assert.Equal(t, 0.0, first.Cashback)

	assert.Equal(t, 1.0, result.Transactions[1].Cashback)
	assert.Equal(t, 5046.0, result.Transactions[2].Amount)
}

func TestParseCSV_EnglishHeaders(t *testing.T) {
	csvData := "\ufeffdate,card_number,amount,category,description,cashback\n" +
		"2024-11-05 09:30:00,1234567890123456,1000,Salary,November,\n" +
		"2024-11-06,1234567890123456,-45.5,Food,Lunch,0.45\n"

	parser := NewParser(logger.Nop())
	result, err := parser.ParseCSV(strings.NewReader(csvData))

	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "Salary", result.Transactions[0].Category)
	assert.Equal(t, -45.5, result.Transactions[1].Amount)
	assert.Equal(t, 0.45, result.Transactions[1].Cashback)
}

func TestParseCSV_SkipsBadRows(t *testing.T) {
	csvData := "date,card,amount,category\n" +
		"2024-11-05,1234,10,Food\n" +
		"not-a-date,1234,10,Food\n" +
		"2024-11-06,,10,Food\n" +
		"2024-11-07,nan,10,Food\n" +
		",,,\n" +
		"2024-11-08,1234,abc,Food\n" +
		"2024-11-09,1234,-3,Food\n"

	parser := NewParser(logger.Nop())
	result, err := parser.ParseCSV(strings.NewReader(csvData))

	require.NoError(t, err)
	assert.Len(t, result.Transactions, 2)
	require.Len(t, result.Skipped, 4)
	assert.Equal(t, 3, result.Skipped[0].Row)
	assert.Equal(t, 7, result.Skipped[3].Row)
	assert.Contains(t, result.Skipped[1].Error(), "missing card number")
}

func TestParseCSV_EmptyFile(t *testing.T) {
	parser := NewParser(logger.Nop())
	_, err := parser.ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParseCSV_InvalidFormat(t *testing.T) {
	csvData := "Random,Headers,That,Dont,Match\nvalue1,value2,value3,value4,value5\n"

	parser := NewParser(logger.Nop())
	_, err := parser.ParseCSV(strings.NewReader(csvData))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns date, card, amount")
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Дата операции", "Номер карты", "Сумма операции", "Категория", "Описание", "Кэшбэк"},
		{"31.12.2021 16:44:00", "*7197", "-160.89", "Супермаркеты", "Колхоз", ""},
		{"30.12.2021 17:50:30", "*5441", "5046", "Пополнения", "Газпромбанк", "0"},
	}
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	parser := NewParser(logger.Nop())
	result, err := parser.ParseFile(buf, "operations.xlsx")

	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, -160.89, result.Transactions[0].Amount)
	assert.Equal(t, "*5441", result.Transactions[1].AccountID)
	assert.Equal(t, "Пополнения", result.Transactions[1].Category)
}

func TestParseFile_UnsupportedFormat(t *testing.T) {
	parser := NewParser(logger.Nop())
	_, err := parser.ParseFile(strings.NewReader("x"), "statement.pdf")
	assert.Error(t, err)
}
