// internal/core/ports/repositories.go
package ports

import (
	"context"

	"github.com/ammerola/storefront/internal/core/domain"
)

// ProductRepository defines the persistence port for catalog products
type ProductRepository interface {
	FindByID(ctx context.Context, itemID int64) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	SaveBatch(ctx context.Context, products []domain.Product) (int, error)
}

// DepartmentRepository defines the persistence port for departments
type DepartmentRepository interface {
	SalesReport(ctx context.Context) ([]domain.DepartmentSales, error)
	Create(ctx context.Context, department *domain.Department) error
}

// ProductFilter narrows a product listing. The zero value lists everything
// ordered by item id.
type ProductFilter struct {
	InStockOnly    bool
	BelowStock     int
	DepartmentName string
}
