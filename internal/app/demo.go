package app

import (
	"github.com/shopspring/decimal"

	"github.com/ammerola/storefront/internal/core/domain"
)

// DemoDepartments is the department table of the demo catalog
func DemoDepartments() []domain.Department {
	return []domain.Department{
		{DepartmentID: 1, DepartmentName: "Electronics", OverheadCosts: decimal.RequireFromString("2000.00")},
		{DepartmentID: 2, DepartmentName: "Home", OverheadCosts: decimal.RequireFromString("850.00")},
		{DepartmentID: 3, DepartmentName: "Toys", OverheadCosts: decimal.RequireFromString("400.00")},
		{DepartmentID: 4, DepartmentName: "Sports", OverheadCosts: decimal.RequireFromString("600.00")},
	}
}

// DemoProducts is the product table of the demo catalog. The last item's
// department has no row, so buying it stops at the department credit.
func DemoProducts() []domain.Product {
	row := func(id int64, name, dept, price string, stock int) domain.Product {
		return domain.Product{
			ItemID:         id,
			ProductName:    name,
			DepartmentName: dept,
			Price:          decimal.RequireFromString(price),
			StockQuantity:  stock,
			ProductSales:   decimal.Zero,
		}
	}
	return []domain.Product{
		row(1, "Noise Cancelling Headphones", "Electronics", "129.99", 25),
		row(2, "Bluetooth Speaker", "Electronics", "49.95", 40),
		row(3, "USB-C Charger", "Electronics", "19.99", 3),
		row(4, "Ceramic Desk Lamp", "Home", "34.50", 12),
		row(5, "Linen Throw Pillow", "Home", "22.00", 4),
		row(6, "Box Kite", "Toys", "15.75", 30),
		row(7, "Wooden Puzzle", "Toys", "12.25", 0),
		row(8, "Yoga Mat", "Sports", "27.00", 18),
		row(9, "Camping Tent", "Sports", "189.00", 6),
		row(10, "Field Guide to Birds", "Books", "16.40", 9),
	}
}
