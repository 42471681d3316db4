package workers

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/test/helpers"
)

func sheetBytes(t testing.TB, rows [][]string) []byte {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Products")
	require.NoError(t, err)
	for _, r := range rows {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().SetString(v)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestParseProductSheet(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		expected []domain.Product
	}{
		{
			name: "named_header_in_any_order",
			rows: [][]string{
				{"Price", "Product Name", "Stock", "Department"},
				{"$1,250.00", "Espresso Machine", "3", "Home"},
				{"9.99", "Kite", "12", "Toys"},
			},
			expected: []domain.Product{
				{ProductName: "Espresso Machine", DepartmentName: "Home", Price: decimal.RequireFromString("1250"), StockQuantity: 3},
				{ProductName: "Kite", DepartmentName: "Toys", Price: decimal.RequireFromString("9.99"), StockQuantity: 12},
			},
		},
		{
			name: "headerless_sheet_is_positional",
			rows: [][]string{
				{"Desk Lamp", "Home", "20.00", "2"},
			},
			expected: []domain.Product{
				{ProductName: "Desk Lamp", DepartmentName: "Home", Price: decimal.RequireFromString("20"), StockQuantity: 2},
			},
		},
		{
			name: "bad_cells_are_left_zero_and_blank_rows_skipped",
			rows: [][]string{
				{"product_name", "department_name", "price", "stock_quantity"},
				{"Mystery Box", "Toys", "call us", "many"},
				{"", "", "", ""},
			},
			expected: []domain.Product{
				{ProductName: "Mystery Box", DepartmentName: "Toys", Price: decimal.Zero, StockQuantity: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := parseProductSheet(sheetBytes(t, tt.rows))
			require.NoError(t, err)
			require.Len(t, products, len(tt.expected))

			for i, want := range tt.expected {
				got := products[i]
				assert.Equal(t, want.ProductName, got.ProductName)
				assert.Equal(t, want.DepartmentName, got.DepartmentName)
				assert.True(t, want.Price.Equal(got.Price), "price %s", got.Price)
				assert.Equal(t, want.StockQuantity, got.StockQuantity)
			}
		})
	}
}

func TestParseProductSheet_NotAWorkbook(t *testing.T) {
	_, err := parseProductSheet([]byte("product_name,price\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open Excel file")
}

func TestBuildSalesWorkbook(t *testing.T) {
	rows := []domain.DepartmentSales{
		domain.NewDepartmentSales(*helpers.CreateTestDepartment(func(d *domain.Department) {
			d.DepartmentID = 1
			d.TotalSales = decimal.RequireFromString("115.00")
		})),
		domain.NewDepartmentSales(domain.Department{DepartmentID: 2, DepartmentName: "Home"}),
	}
	req := domain.SalesReportRequest{JobID: uuid.New(), RequestedBy: "supervisor"}

	data, err := buildSalesWorkbook(rows, req, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	file, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	assert.Equal(t, "Sales By Department", sheet.Name)

	cell := func(row, col int) string {
		c, err := sheet.Cell(row, col)
		require.NoError(t, err)
		return c.Value
	}

	assert.Equal(t, "Department", cell(0, 1))
	assert.Equal(t, "Electronics", cell(1, 1))
	assert.Equal(t, "-35", cell(1, 4))
	assert.Equal(t, "Home", cell(2, 1))
	assert.Equal(t, "Total", cell(3, 1))
	assert.Equal(t, "115", cell(3, 3))

	requestedBy := ""
	require.NoError(t, sheet.ForEachRow(func(r *xlsx.Row) error {
		if label := r.GetCell(0); label != nil && label.Value == "Requested by" {
			requestedBy = r.GetCell(1).Value
		}
		return nil
	}))
	assert.Equal(t, "supervisor", requestedBy)
}

func TestParsePriceList(t *testing.T) {
	classifier := NewDepartmentClassifier()

	lines := []string{
		"Spring Wholesale Price List",
		"ITEM                     QTY        PRICE",
		"1. Noise Cancelling Headphones  4   $59.99",
		"Ceramic table lamp with",
		"linen shade --------- 2 $34.50",
		"Box kite x10 $1,200.00",
		"Garden gnome [Garden] 3 12.00",
		"Gift card $25.00",
		"SUBTOTAL $1,331.49",
		"Phantom item 1 $99.99",
	}

	products := parsePriceList(lines, classifier)
	require.Len(t, products, 5)

	assert.Equal(t, "Noise Cancelling Headphones", products[0].ProductName)
	assert.Equal(t, "Electronics", products[0].DepartmentName)
	assert.Equal(t, 4, products[0].StockQuantity)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("59.99")))

	assert.Equal(t, "Ceramic Table Lamp With Linen Shade", products[1].ProductName)
	assert.Equal(t, "Home", products[1].DepartmentName)
	assert.Equal(t, 2, products[1].StockQuantity)

	assert.Equal(t, "Box Kite", products[2].ProductName)
	assert.Equal(t, "Toys", products[2].DepartmentName)
	assert.Equal(t, 10, products[2].StockQuantity)
	assert.True(t, products[2].Price.Equal(decimal.RequireFromString("1200")))

	assert.Equal(t, "Garden Gnome", products[3].ProductName)
	assert.Equal(t, "Garden", products[3].DepartmentName)

	assert.Equal(t, "Gift Card", products[4].ProductName)
	assert.Equal(t, DefaultDepartment, products[4].DepartmentName)
	assert.Equal(t, 1, products[4].StockQuantity)
}

func TestParsePriceList_NoHeaderStartsAtTop(t *testing.T) {
	products := parsePriceList([]string{"Yoga mat 5 $19.00"}, NewDepartmentClassifier())
	require.Len(t, products, 1)
	assert.Equal(t, "Sports", products[0].DepartmentName)
}

func TestDepartmentClassifier(t *testing.T) {
	c := NewDepartmentClassifier()

	tests := []struct {
		text     string
		expected string
	}{
		{"USB-C charger cable", "Electronics"},
		{"Plush toy puzzle set", "Toys"},
		{"Wool scarf", "Clothing"},
		{"Cordless drill", "Tools"},
		{"Something unusual", DefaultDepartment},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.text))
		})
	}
}

func TestGenerateProductName(t *testing.T) {
	assert.Equal(t, "Desk Lamp", generateProductName("desk LAMP"))

	long := "Adjustable standing desk. Electric motor with memory presets and a wide oak top"
	assert.Equal(t, "Adjustable Standing Desk", generateProductName(long))
}

func TestExtractTextLines_InvalidPDF(t *testing.T) {
	_, err := extractTextLines([]byte("not a pdf"), helpers.TestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open PDF")
}
