package queue_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/storefront/internal/adapters/queue"
	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/test/helpers"
)

func newTestPublisher(t *testing.T) (*queue.Publisher, *helpers.TestRedis) {
	t.Helper()

	r := helpers.SetupTestRedis(t)
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: r.Server.Addr()})
	t.Cleanup(func() { client.Close() })

	return queue.NewPublisher(client, helpers.TestLogger()), r
}

func pendingLen(t *testing.T, r *helpers.TestRedis, qname string) int {
	t.Helper()
	if !r.Server.Exists("asynq:{" + qname + "}:pending") {
		return 0
	}
	items, err := r.Server.List("asynq:{" + qname + "}:pending")
	require.NoError(t, err)
	return len(items)
}

func TestPublisher_PublishLowStock_CollapsesDuplicates(t *testing.T) {
	pub, r := newTestPublisher(t)
	ctx := context.Background()

	alert := domain.LowStockAlert{ItemID: 2, ProductName: "Desk Lamp", StockQuantity: 1, Threshold: 5}

	require.NoError(t, pub.PublishLowStock(ctx, alert))
	require.NoError(t, pub.PublishLowStock(ctx, alert))

	assert.Equal(t, 1, pendingLen(t, r, queue.QueueCritical))

	// a different item is a different alert
	alert.ItemID = 3
	require.NoError(t, pub.PublishLowStock(ctx, alert))
	assert.Equal(t, 2, pendingLen(t, r, queue.QueueCritical))
}

func TestPublisher_PublishSalesReport(t *testing.T) {
	pub, r := newTestPublisher(t)
	ctx := context.Background()

	req := domain.SalesReportRequest{JobID: uuid.New(), RequestedBy: "supervisor", RequestedAt: time.Now().UTC()}

	require.NoError(t, pub.PublishSalesReport(ctx, req))
	assert.Equal(t, 1, pendingLen(t, r, queue.QueueLow))

	err := pub.PublishSalesReport(ctx, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.ErrTaskIDConflict)
}

func TestPublisher_PublishProductImport(t *testing.T) {
	pub, r := newTestPublisher(t)

	req := domain.ImportRequest{JobID: uuid.New(), FilePath: "/tmp/products.xlsx", Format: domain.ImportFormatXLSX}

	require.NoError(t, pub.PublishProductImport(context.Background(), req))
	assert.Equal(t, 1, pendingLen(t, r, queue.QueueDefault))
}

func TestPublisher_RedisUnavailable(t *testing.T) {
	pub, r := newTestPublisher(t)
	r.Server.Close()

	err := pub.PublishLowStock(context.Background(), domain.LowStockAlert{ItemID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to enqueue low stock alert")
}

func TestDecodePayloads(t *testing.T) {
	tests := []struct {
		name          string
		task          *asynq.Task
		decode        func(*asynq.Task) error
		expectedError bool
	}{
		{
			name: "valid_low_stock",
			task: func() *asynq.Task {
				task, err := queue.NewLowStockTask(domain.LowStockAlert{ItemID: 7, StockQuantity: 2})
				require.NoError(t, err)
				return task
			}(),
			decode: func(task *asynq.Task) error {
				alert, err := queue.DecodeLowStock(task)
				if err == nil {
					assert.Equal(t, int64(7), alert.ItemID)
				}
				return err
			},
		},
		{
			name: "valid_import",
			task: func() *asynq.Task {
				b, _ := json.Marshal(domain.ImportRequest{FilePath: "a.pdf", Format: domain.ImportFormatPDF})
				return asynq.NewTask(queue.TypeProductImport, b)
			}(),
			decode: func(task *asynq.Task) error {
				req, err := queue.DecodeProductImport(task)
				if err == nil {
					assert.Equal(t, domain.ImportFormatPDF, req.Format)
				}
				return err
			},
		},
		{
			name: "malformed_report_skips_retry",
			task: asynq.NewTask(queue.TypeSalesReport, []byte("{not json")),
			decode: func(task *asynq.Task) error {
				_, err := queue.DecodeSalesReport(task)
				if err != nil {
					assert.ErrorIs(t, err, asynq.SkipRetry)
				}
				return err
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decode(tt.task)
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
