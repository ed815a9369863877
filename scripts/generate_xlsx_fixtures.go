package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Generates a sample operations export for local runs:
//
//	go run ./scripts [output path]
func main() {
	path := filepath.Join("data", "operations.xlsx")
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Fatal(err)
	}

	if err := generateOperationsFixture(path); err != nil {
		log.Fatal(err)
	}
	fmt.Println("✓ Generated", path)
}

func generateOperationsFixture(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Отчет по операциям"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	// Headers of the bank's operations export
	headers := []string{"Дата операции", "Номер карты", "Сумма операции", "Кэшбэк", "Категория", "Описание"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	data := [][]interface{}{
		{"31.12.2021 16:44:00", "*7197", -160.89, "", "Супермаркеты", "Колхоз"},
		{"31.12.2021 16:42:04", "*7197", -64.00, "", "Супермаркеты", "Колхоз"},
		{"31.12.2021 16:39:04", "*7197", -118.12, "", "Супермаркеты", "Магнит"},
		{"31.12.2021 15:44:39", "*7197", -78.05, "", "Супермаркеты", "Колхоз"},
		{"31.12.2021 01:23:42", "*5091", -564.00, 5, "Различные товары", "Ozon.ru"},
		{"30.12.2021 22:22:03", "*4556", -1025.00, "", "Ж/д билеты", "РЖД"},
		{"30.12.2021 19:06:39", "*4556", -1.32, "", "Каршеринг", "Ситидрайв"},
		{"30.12.2021 17:50:30", "*4556", 5046.00, "", "Пополнения", "Пополнение через Газпромбанк"},
		{"30.12.2021 14:48:25", "*4556", -174.00, "", "Супермаркеты", "Магнит"},
		{"29.12.2021 22:32:24", "*4556", -20000.00, 100, "Переводы", "Константин Л."},
		{"29.12.2021 16:23:49", "*5091", -421.00, 8, "Фастфуд", "Mouse Tail"},
		{"28.12.2021 20:12:21", "*7197", -312.40, 3, "Фастфуд", "Теремок"},
		{"28.12.2021 10:02:15", "*5091", 1200.00, "", "Бонусы", "Кэшбэк за обычные покупки"},
		{"15.11.2021 12:00:00", "*7197", -1420.00, 14, "Аптеки", "Ригла"},
		{"03.10.2021 09:15:00", "", -99.00, "", "Связь", "МТС"},
	}

	for rowIdx, row := range data {
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
