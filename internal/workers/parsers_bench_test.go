package workers

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/storefront/internal/core/domain"
)

func BenchmarkParseProductSheet(b *testing.B) {
	rows := [][]string{{"product_name", "department_name", "price", "stock_quantity"}}
	for i := 0; i < 500; i++ {
		rows = append(rows, []string{fmt.Sprintf("Product %d", i), "Electronics", "$19.99", "12"})
	}
	data := sheetBytes(b, rows)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = parseProductSheet(data)
	}
}

func BenchmarkParsePriceList(b *testing.B) {
	classifier := NewDepartmentClassifier()
	lines := []string{"ITEM QTY PRICE"}
	for i := 0; i < 500; i++ {
		lines = append(lines, fmt.Sprintf("%d. Ceramic table lamp number %d 2 $34.50", i+1, i))
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = parsePriceList(lines, classifier)
	}
}

func BenchmarkClassify(b *testing.B) {
	classifier := NewDepartmentClassifier()
	descriptions := []string{
		"Noise cancelling bluetooth headphones",
		"Ceramic table lamp with linen shade",
		"Wooden puzzle for ages 3 and up",
		"Stainless garden hose reel",
		"Field guide to birds",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		classifier.Classify(descriptions[i%len(descriptions)])
	}
}

func BenchmarkBuildSalesWorkbook(b *testing.B) {
	rows := make([]domain.DepartmentSales, 50)
	for i := range rows {
		rows[i] = domain.NewDepartmentSales(domain.Department{
			DepartmentID:   int64(i + 1),
			DepartmentName: fmt.Sprintf("Department %d", i),
			OverheadCosts:  decimal.NewFromInt(100),
			TotalSales:     decimal.NewFromInt(int64(i * 7)),
		})
	}
	req := domain.SalesReportRequest{JobID: uuid.New(), RequestedBy: "bench"}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = buildSalesWorkbook(rows, req, at)
	}
}
