// internal/core/ports/ledger.go
package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ammerola/storefront/internal/core/domain"
)

// StockLedger reads and mutates per-product stock levels.
// Implementations return *domain.NotFoundError for a missing item and
// *domain.StorageError for any other store failure.
type StockLedger interface {
	CheckAvailability(ctx context.Context, itemID int64, requested int) (domain.Availability, error)
	DecrementStock(ctx context.Context, itemID int64, quantity int) error
	// DecrementStockIfAvailable decrements only when stock covers quantity.
	// It reports false, with no error, when nothing was decremented.
	DecrementStockIfAvailable(ctx context.Context, itemID int64, quantity int) (bool, error)
	IncrementStock(ctx context.Context, itemID int64, quantity int) error
}

// RevenueAccumulator adds sale totals to product and department counters
type RevenueAccumulator interface {
	AddProductRevenue(ctx context.Context, itemID int64, amount decimal.Decimal) error
	AddDepartmentRevenue(ctx context.Context, departmentName string, amount decimal.Decimal) error
}
