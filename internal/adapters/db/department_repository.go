// internal/adapters/db/department_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
)

const (
	querySalesByDepartment = `
		SELECT department_id, department_name, overhead_costs, total_sales,
		       total_sales - overhead_costs AS profit
		FROM departments
		ORDER BY department_id ASC`

	queryInsertDepartment = `
		INSERT INTO departments (department_name, overhead_costs, total_sales)
		VALUES ($1, $2, $3)
		RETURNING department_id`
)

// departmentRepository implements ports.DepartmentRepository
type departmentRepository struct {
	db     ports.Database
	logger *slog.Logger
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db ports.Database, logger *slog.Logger) ports.DepartmentRepository {
	return &departmentRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "departments")),
	}
}

// SalesReport lists every department with profit computed by the query
func (r *departmentRepository) SalesReport(ctx context.Context) ([]domain.DepartmentSales, error) {
	rows, err := r.db.Query(ctx, querySalesByDepartment)
	if err != nil {
		return nil, domain.NewStorageError("sales_report", err)
	}
	defer rows.Close()

	report := make([]domain.DepartmentSales, 0)
	for rows.Next() {
		var row domain.DepartmentSales
		if err := rows.Scan(
			&row.DepartmentID, &row.DepartmentName,
			&row.OverheadCosts, &row.TotalSales, &row.Profit,
		); err != nil {
			return nil, domain.NewStorageError("scan_department", err)
		}
		report = append(report, row)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("sales_report", err)
	}

	return report, nil
}

// Create inserts a department and fills in its generated id
func (r *departmentRepository) Create(ctx context.Context, department *domain.Department) error {
	err := r.db.QueryRow(ctx, queryInsertDepartment,
		department.DepartmentName, department.OverheadCosts, department.TotalSales,
	).Scan(&department.DepartmentID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("department %q: %w", department.DepartmentName, domain.ErrAlreadyExists)
		}
		return domain.NewStorageError("create_department", err)
	}

	r.logger.DebugContext(ctx, "department created",
		slog.Int64("department_id", department.DepartmentID),
		slog.String("department_name", department.DepartmentName))

	return nil
}
