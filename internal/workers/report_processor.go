// internal/workers/report_processor.go
package workers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/storefront/internal/adapters/queue"
	redis_a "github.com/ammerola/storefront/internal/adapters/redis_adapter"
	"github.com/ammerola/storefront/internal/adapters/storage"
	"github.com/ammerola/storefront/internal/core/ports"
)

// ReportLinkTTL is how long the presigned download link stays valid
const ReportLinkTTL = 24 * time.Hour

// ReportResult is cached under the job id once the export is uploaded
type ReportResult struct {
	JobID       string    `json:"job_id"`
	Key         string    `json:"key"`
	Location    string    `json:"location"`
	DownloadURL string    `json:"download_url"`
	Departments int       `json:"departments"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ReportResultKey is the cache key holding a finished export's ReportResult
func ReportResultKey(jobID string) string {
	return redis_a.BuildKey(redis_a.PrefixJob, "report", jobID)
}

// ReportProcessor exports the sales-by-department report to object storage
type ReportProcessor struct {
	departments ports.DepartmentRepository
	objects     ports.ObjectStore
	cache       ports.CacheRepository
	prefix      string
	now         func() time.Time
	logger      *slog.Logger
}

// NewReportProcessor creates a new report processor. cache may be nil; with
// no objects every export fails without retry.
func NewReportProcessor(
	departments ports.DepartmentRepository,
	objects ports.ObjectStore,
	cache ports.CacheRepository,
	prefix string,
	logger *slog.Logger,
) *ReportProcessor {
	return &ReportProcessor{
		departments: departments,
		objects:     objects,
		cache:       cache,
		prefix:      prefix,
		now:         time.Now,
		logger:      logger.With(slog.String("processor", "report")),
	}
}

// GenerateSalesReport handles report:department_sales tasks
func (p *ReportProcessor) GenerateSalesReport(ctx context.Context, t *asynq.Task) error {
	req, err := queue.DecodeSalesReport(t)
	if err != nil {
		return err
	}
	jobID := req.JobID.String()

	if p.objects == nil {
		return fmt.Errorf("object storage not configured: %w", asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "generating sales report",
		slog.String("job_id", jobID),
		slog.String("requested_by", req.RequestedBy))

	// read the store, not the dashboard cache
	rows, err := p.departments.SalesReport(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sales by department: %w", err)
	}

	generatedAt := p.now().UTC()
	data, err := buildSalesWorkbook(rows, req, generatedAt)
	if err != nil {
		return err
	}

	key := storage.ReportKey(p.prefix, req.JobID, generatedAt)
	location, err := p.objects.Upload(ctx, key, bytes.NewReader(data), storage.ContentTypeFor(key))
	if err != nil {
		return fmt.Errorf("failed to upload sales report: %w", err)
	}

	result := ReportResult{
		JobID:       jobID,
		Key:         key,
		Location:    location,
		Departments: len(rows),
		GeneratedAt: generatedAt,
	}

	if url, err := p.objects.GetPresignedURL(ctx, key, ReportLinkTTL); err != nil {
		p.logger.WarnContext(ctx, "failed to presign report link",
			slog.String("key", key),
			slog.String("error", err.Error()))
	} else {
		result.DownloadURL = url
	}

	p.remember(ctx, result)

	p.logger.InfoContext(ctx, "sales report generated",
		slog.String("job_id", jobID),
		slog.String("location", location),
		slog.Int("departments", len(rows)))

	return nil
}

func (p *ReportProcessor) remember(ctx context.Context, result ReportResult) {
	if p.cache == nil {
		return
	}
	if err := p.cache.SetWithTTL(ctx, ReportResultKey(result.JobID), result, ReportLinkTTL); err != nil {
		p.logger.WarnContext(ctx, "failed to cache report result",
			slog.String("job_id", result.JobID),
			slog.String("error", err.Error()))
	}
}

