// internal/adapters/db/revenue_accumulator.go
package db

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
)

const (
	queryAddProductRevenue = `
		UPDATE products SET product_sales = product_sales + $1
		WHERE item_id = $2`

	queryAddDepartmentRevenue = `
		UPDATE departments SET total_sales = total_sales + $1
		WHERE department_name = $2`
)

// revenueAccumulator implements ports.RevenueAccumulator
type revenueAccumulator struct {
	db     ports.Database
	logger *slog.Logger
}

// NewRevenueAccumulator creates a new revenue accumulator
func NewRevenueAccumulator(db ports.Database, logger *slog.Logger) ports.RevenueAccumulator {
	return &revenueAccumulator{
		db:     db,
		logger: logger.With(slog.String("repository", "revenue")),
	}
}

// AddProductRevenue adds amount to a product's sales counter
func (r *revenueAccumulator) AddProductRevenue(ctx context.Context, itemID int64, amount decimal.Decimal) error {
	tag, err := r.db.Exec(ctx, queryAddProductRevenue, amount, itemID)
	if err != nil {
		return domain.NewStorageError("add_product_revenue", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewProductNotFound(itemID)
	}

	r.logger.DebugContext(ctx, "product revenue credited",
		slog.Int64("item_id", itemID),
		slog.String("amount", amount.StringFixed(2)))

	return nil
}

// AddDepartmentRevenue adds amount to a department's sales counter. A name
// matching no department is an error, never a silent no-op.
func (r *revenueAccumulator) AddDepartmentRevenue(ctx context.Context, departmentName string, amount decimal.Decimal) error {
	tag, err := r.db.Exec(ctx, queryAddDepartmentRevenue, amount, departmentName)
	if err != nil {
		return domain.NewStorageError("add_department_revenue", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewDepartmentNotFound(departmentName)
	}

	r.logger.DebugContext(ctx, "department revenue credited",
		slog.String("department_name", departmentName),
		slog.String("amount", amount.StringFixed(2)))

	return nil
}
