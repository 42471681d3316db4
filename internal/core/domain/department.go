// internal/core/domain/department.go
package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Department groups products and carries its own overhead and sales counters
type Department struct {
	DepartmentID   int64           `json:"department_id"`
	DepartmentName string          `json:"department_name"`
	OverheadCosts  decimal.Decimal `json:"overhead_costs"`
	TotalSales     decimal.Decimal `json:"total_sales"`
}

// Validate performs domain validation on a department before it is stored
func (d *Department) Validate() error {
	d.DepartmentName = strings.TrimSpace(d.DepartmentName)

	if d.DepartmentName == "" {
		return fmt.Errorf("department_name is required")
	}
	if d.OverheadCosts.IsNegative() {
		return fmt.Errorf("overhead_costs cannot be negative")
	}
	if d.TotalSales.IsNegative() {
		return fmt.Errorf("total_sales cannot be negative")
	}
	return nil
}

// Profit is derived at read time and never stored
func (d *Department) Profit() decimal.Decimal {
	return d.TotalSales.Sub(d.OverheadCosts)
}

// DepartmentSales is one row of the sales-by-department report
type DepartmentSales struct {
	Department
	Profit decimal.Decimal `json:"profit"`
}

// NewDepartmentSales builds a report row from a department
func NewDepartmentSales(d Department) DepartmentSales {
	return DepartmentSales{
		Department: d,
		Profit:     d.Profit(),
	}
}
