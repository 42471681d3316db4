// internal/core/ports/tasks.go
package ports

import (
	"context"

	"github.com/ammerola/storefront/internal/core/domain"
)

// TaskPublisher enqueues background work for the worker process
type TaskPublisher interface {
	PublishLowStock(ctx context.Context, alert domain.LowStockAlert) error
	PublishSalesReport(ctx context.Context, req domain.SalesReportRequest) error
	PublishProductImport(ctx context.Context, req domain.ImportRequest) error
}
