// internal/core/domain/product.go
package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold is the stock level below which a product is
// reported as low inventory.
const DefaultLowStockThreshold = 5

// Product represents a purchasable item in the catalog
type Product struct {
	ItemID         int64           `json:"item_id"`
	ProductName    string          `json:"product_name"`
	DepartmentName string          `json:"department_name"`
	Price          decimal.Decimal `json:"price"`
	StockQuantity  int             `json:"stock_quantity"`
	ProductSales   decimal.Decimal `json:"product_sales"`
}

// Validate performs domain validation on a product before it is stored
func (p *Product) Validate() error {
	p.ProductName = strings.TrimSpace(p.ProductName)
	p.DepartmentName = strings.TrimSpace(p.DepartmentName)

	if p.ProductName == "" {
		return fmt.Errorf("product_name is required")
	}
	if p.DepartmentName == "" {
		return fmt.Errorf("department_name is required")
	}
	if !p.Price.IsPositive() {
		return fmt.Errorf("price must be positive")
	}
	if p.StockQuantity < 0 {
		return fmt.Errorf("stock_quantity cannot be negative")
	}
	if p.ProductSales.IsNegative() {
		return fmt.Errorf("product_sales cannot be negative")
	}
	return nil
}

// IsLowStock reports whether the product is below the given threshold
func (p *Product) IsLowStock(threshold int) bool {
	return p.StockQuantity < threshold
}

// InStock reports whether at least one unit is available
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// Availability is the answer of a stock check for a requested quantity
type Availability struct {
	ItemID       int64           `json:"item_id"`
	Requested    int             `json:"requested"`
	CurrentStock int             `json:"current_stock"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Available    bool            `json:"available"`
}

// NewAvailability builds an Availability verdict. A request equal to the
// current stock is available.
func NewAvailability(itemID int64, requested, currentStock int, unitPrice decimal.Decimal) Availability {
	return Availability{
		ItemID:       itemID,
		Requested:    requested,
		CurrentStock: currentStock,
		UnitPrice:    unitPrice,
		Available:    currentStock >= requested,
	}
}
