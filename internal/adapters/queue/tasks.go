// internal/adapters/queue/tasks.go
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/storefront/internal/core/domain"
)

// Task types
const (
	TypeLowStockAlert   = "inventory:low_stock"
	TypeSalesReport     = "report:department_sales"
	TypeProductImport   = "products:import"
	lowStockUniqueFor   = 15 * time.Minute
	importRetention     = 24 * time.Hour
	reportRetention     = 24 * time.Hour
	defaultTaskMaxRetry = 3
)

// Queue names
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// NewLowStockTask builds an alert task. Repeated alerts for one item within
// the unique window collapse into one.
func NewLowStockTask(alert domain.LowStockAlert) (*asynq.Task, error) {
	payload, err := json.Marshal(alert)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal low stock alert: %w", err)
	}
	return asynq.NewTask(TypeLowStockAlert, payload,
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(defaultTaskMaxRetry),
		asynq.Unique(lowStockUniqueFor),
	), nil
}

// NewSalesReportTask builds a report export task keyed by the job id
func NewSalesReportTask(req domain.SalesReportRequest) (*asynq.Task, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sales report request: %w", err)
	}
	return asynq.NewTask(TypeSalesReport, payload,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(defaultTaskMaxRetry),
		asynq.TaskID(req.JobID.String()),
		asynq.Retention(reportRetention),
	), nil
}

// NewProductImportTask builds an import task keyed by the job id
func NewProductImportTask(req domain.ImportRequest) (*asynq.Task, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal import request: %w", err)
	}
	return asynq.NewTask(TypeProductImport, payload,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(defaultTaskMaxRetry),
		asynq.TaskID(req.JobID.String()),
		asynq.Retention(importRetention),
	), nil
}

// DecodeLowStock parses a low stock task payload
func DecodeLowStock(t *asynq.Task) (domain.LowStockAlert, error) {
	var alert domain.LowStockAlert
	if err := json.Unmarshal(t.Payload(), &alert); err != nil {
		return alert, fmt.Errorf("invalid %s payload: %v: %w", TypeLowStockAlert, err, asynq.SkipRetry)
	}
	return alert, nil
}

// DecodeSalesReport parses a sales report task payload
func DecodeSalesReport(t *asynq.Task) (domain.SalesReportRequest, error) {
	var req domain.SalesReportRequest
	if err := json.Unmarshal(t.Payload(), &req); err != nil {
		return req, fmt.Errorf("invalid %s payload: %v: %w", TypeSalesReport, err, asynq.SkipRetry)
	}
	return req, nil
}

// DecodeProductImport parses an import task payload
func DecodeProductImport(t *asynq.Task) (domain.ImportRequest, error) {
	var req domain.ImportRequest
	if err := json.Unmarshal(t.Payload(), &req); err != nil {
		return req, fmt.Errorf("invalid %s payload: %v: %w", TypeProductImport, err, asynq.SkipRetry)
	}
	return req, nil
}
