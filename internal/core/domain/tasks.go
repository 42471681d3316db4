// internal/core/domain/tasks.go
package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LowStockAlert is raised when an order leaves a product below the threshold
type LowStockAlert struct {
	ItemID        int64  `json:"item_id"`
	ProductName   string `json:"product_name"`
	StockQuantity int    `json:"stock_quantity"`
	Threshold     int    `json:"threshold"`
}

// SalesReportRequest asks the worker to export the sales-by-department report
type SalesReportRequest struct {
	JobID       uuid.UUID `json:"job_id"`
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}

// ImportFormat identifies the layout of a product import file
type ImportFormat string

const (
	ImportFormatXLSX ImportFormat = "xlsx"
	ImportFormatPDF  ImportFormat = "pdf"
)

// DetectImportFormat derives the format from a file extension
func DetectImportFormat(path string) (ImportFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ImportFormatXLSX, nil
	case ".pdf":
		return ImportFormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported import file type: %s", filepath.Ext(path))
	}
}

// ImportRequest asks the worker to load products from a file
type ImportRequest struct {
	JobID    uuid.UUID    `json:"job_id"`
	FilePath string       `json:"file_path"`
	Format   ImportFormat `json:"format"`
}

// ImportResult summarizes a bulk import
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
