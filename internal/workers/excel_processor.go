// internal/workers/excel_processor.go
package workers

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/storefront/internal/core/domain"
)

// product sheet columns, by header name; sheets without a recognizable
// header are read positionally in this order
var productColumns = []string{"product_name", "department_name", "price", "stock_quantity"}

// parseProductSheet reads products from the first sheet of an .xlsx file.
// Cells that do not parse are left zero so product validation rejects the row.
func parseProductSheet(data []byte) ([]domain.Product, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}
	sheet := file.Sheets[0]
	defer sheet.Close()

	index := map[string]int{}
	for i, name := range productColumns {
		index[name] = i
	}

	var products []domain.Product
	rowIdx := 0
	err = sheet.ForEachRow(func(r *xlsx.Row) error {
		get := func(i int) string {
			c := r.GetCell(i)
			if c == nil {
				return ""
			}
			if s, err := c.FormattedValue(); err == nil {
				return strings.TrimSpace(s)
			}
			return strings.TrimSpace(c.String())
		}

		if rowIdx == 0 {
			rowIdx++
			if header := headerIndex(get, len(productColumns)+4); header != nil {
				index = header
				return nil
			}
		}
		rowIdx++

		name := get(index["product_name"])
		if name == "" && get(index["price"]) == "" {
			return nil
		}

		stock, _ := strconv.Atoi(get(index["stock_quantity"]))
		products = append(products, domain.Product{
			ProductName:    name,
			DepartmentName: get(index["department_name"]),
			Price:          parseCurrency(get(index["price"])),
			StockQuantity:  stock,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to process Excel rows: %w", err)
	}

	return products, nil
}

// headerIndex maps known column names found in the first row; nil means the
// row is data
func headerIndex(get func(int) string, width int) map[string]int {
	found := map[string]int{}
	for i := 0; i < width; i++ {
		key := strings.ReplaceAll(strings.ToLower(get(i)), " ", "_")
		switch key {
		case "name", "item", "product":
			key = "product_name"
		case "department":
			key = "department_name"
		case "quantity", "stock":
			key = "stock_quantity"
		}
		for _, col := range productColumns {
			if key == col {
				found[col] = i
			}
		}
	}
	if len(found) < len(productColumns) {
		return nil
	}
	return found
}

func parseCurrency(val string) decimal.Decimal {
	cleaned := strings.ReplaceAll(val, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var salesHeaders = []string{"Department ID", "Department", "Overhead Costs", "Total Sales", "Profit"}

// buildSalesWorkbook renders the sales-by-department report
func buildSalesWorkbook(rows []domain.DepartmentSales, req domain.SalesReportRequest, generatedAt time.Time) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Sales By Department")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range salesHeaders {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	totals := struct{ overhead, sales, profit decimal.Decimal }{}
	for _, d := range rows {
		row := sheet.AddRow()
		row.AddCell().SetInt64(d.DepartmentID)
		row.AddCell().SetString(d.DepartmentName)
		addMoney(row, d.OverheadCosts)
		addMoney(row, d.TotalSales)
		addMoney(row, d.Profit)

		totals.overhead = totals.overhead.Add(d.OverheadCosts)
		totals.sales = totals.sales.Add(d.TotalSales)
		totals.profit = totals.profit.Add(d.Profit)
	}

	totalRow := sheet.AddRow()
	totalRow.AddCell()
	label := totalRow.AddCell()
	label.SetString("Total")
	label.GetStyle().Font.Bold = true
	addMoney(totalRow, totals.overhead)
	addMoney(totalRow, totals.sales)
	addMoney(totalRow, totals.profit)

	sheet.AddRow()
	meta := sheet.AddRow()
	meta.AddCell().SetString("Generated")
	meta.AddCell().SetString(generatedAt.UTC().Format(time.RFC3339))
	meta = sheet.AddRow()
	meta.AddCell().SetString("Requested by")
	meta.AddCell().SetString(req.RequestedBy)

	sheet.SetColWidth(1, len(salesHeaders), 18)

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}

func addMoney(row *xlsx.Row, amount decimal.Decimal) {
	f, _ := amount.Round(2).Float64()
	row.AddCell().SetFloatWithFormat(f, "#,##0.00")
}
