// internal/core/ports/services.go
package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ammerola/storefront/internal/core/domain"
)

// OrderService runs the customer order pipeline
type OrderService interface {
	ListAvailable(ctx context.Context) (*domain.Catalog, error)
	PlaceOrder(ctx context.Context, order domain.Order) (*domain.OrderResult, error)
}

// InventoryService backs the manager tool
type InventoryService interface {
	ListProducts(ctx context.Context) (*domain.Catalog, error)
	ListLowInventory(ctx context.Context) ([]domain.Product, error)
	AddStock(ctx context.Context, itemID int64, quantity int) (*domain.Product, error)
	AddProduct(ctx context.Context, product *domain.Product) error
	ImportProducts(ctx context.Context, products []domain.Product) (*domain.ImportResult, error)
	RequestImport(ctx context.Context, filePath string, format domain.ImportFormat) (*domain.ImportRequest, error)
}

// DepartmentService backs the supervisor tool
type DepartmentService interface {
	SalesByDepartment(ctx context.Context) ([]domain.DepartmentSales, error)
	CreateDepartment(ctx context.Context, name string, overheadCosts decimal.Decimal) (*domain.Department, error)
	RequestSalesReport(ctx context.Context, requestedBy string) (*domain.SalesReportRequest, error)
	InvalidateSalesCache(ctx context.Context) error
}
