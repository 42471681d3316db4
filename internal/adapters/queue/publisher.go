// internal/adapters/queue/publisher.go
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
)

// enqueuer is the part of *asynq.Client the publisher uses
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Publisher enqueues storefront background tasks on asynq
type Publisher struct {
	client enqueuer
	logger *slog.Logger
}

var _ ports.TaskPublisher = (*Publisher)(nil)

// NewPublisher creates a publisher over an asynq client
func NewPublisher(client *asynq.Client, logger *slog.Logger) *Publisher {
	return newPublisher(client, logger)
}

func newPublisher(client enqueuer, logger *slog.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: logger.With(slog.String("component", "task_publisher")),
	}
}

// PublishLowStock enqueues a low stock alert. A duplicate inside the unique
// window is not an error.
func (p *Publisher) PublishLowStock(ctx context.Context, alert domain.LowStockAlert) error {
	task, err := NewLowStockTask(alert)
	if err != nil {
		return err
	}

	info, err := p.client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		p.logger.DebugContext(ctx, "low stock alert already queued",
			slog.Int64("item_id", alert.ItemID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue low stock alert: %w", err)
	}

	p.logger.InfoContext(ctx, "low stock alert queued",
		slog.String("task_id", info.ID),
		slog.Int64("item_id", alert.ItemID),
		slog.Int("stock_quantity", alert.StockQuantity))
	return nil
}

// PublishSalesReport enqueues a department sales export
func (p *Publisher) PublishSalesReport(ctx context.Context, req domain.SalesReportRequest) error {
	task, err := NewSalesReportTask(req)
	if err != nil {
		return err
	}

	info, err := p.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue sales report: %w", err)
	}

	p.logger.InfoContext(ctx, "sales report queued",
		slog.String("task_id", info.ID),
		slog.String("job_id", req.JobID.String()))
	return nil
}

// PublishProductImport enqueues a product file import
func (p *Publisher) PublishProductImport(ctx context.Context, req domain.ImportRequest) error {
	task, err := NewProductImportTask(req)
	if err != nil {
		return err
	}

	info, err := p.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue product import: %w", err)
	}

	p.logger.InfoContext(ctx, "product import queued",
		slog.String("task_id", info.ID),
		slog.String("job_id", req.JobID.String()),
		slog.String("format", string(req.Format)))
	return nil
}
