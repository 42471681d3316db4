// internal/workers/import_processor.go
package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/storefront/internal/adapters/queue"
	redis_a "github.com/ammerola/storefront/internal/adapters/redis_adapter"
	"github.com/ammerola/storefront/internal/adapters/storage"
	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
	"github.com/ammerola/storefront/internal/pkg/config"
)

const importResultTTL = 24 * time.Hour

// ErrFileTooLarge is returned when an import file exceeds its size limit
var ErrFileTooLarge = errors.New("import file too large")

// ImportClaimKey is the cache key that marks an import job as taken or done
func ImportClaimKey(jobID string) string {
	return redis_a.BuildKey(redis_a.PrefixJob, "import", jobID)
}

// ImportProcessor loads product files into the catalog
type ImportProcessor struct {
	inventory  ports.InventoryService
	objects    ports.ObjectStore
	cache      ports.CacheRepository
	files      config.FileProcessingConfig
	classifier *DepartmentClassifier
	logger     *slog.Logger
}

// NewImportProcessor creates a new import processor. objects and cache may
// be nil; without objects only local paths can be read.
func NewImportProcessor(
	inventory ports.InventoryService,
	objects ports.ObjectStore,
	cache ports.CacheRepository,
	files config.FileProcessingConfig,
	logger *slog.Logger,
) *ImportProcessor {
	return &ImportProcessor{
		inventory:  inventory,
		objects:    objects,
		cache:      cache,
		files:      files,
		classifier: NewDepartmentClassifier(),
		logger:     logger.With(slog.String("processor", "import")),
	}
}

// ProcessImport handles products:import tasks. A job already claimed by
// another run is acknowledged without work.
func (p *ImportProcessor) ProcessImport(ctx context.Context, t *asynq.Task) error {
	req, err := queue.DecodeProductImport(t)
	if err != nil {
		return err
	}
	jobID := req.JobID.String()

	if p.files.ProcessingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.files.ProcessingTimeout)
		defer cancel()
	}

	claimed, err := p.claim(ctx, jobID)
	if err != nil {
		return err
	}
	if !claimed {
		p.logger.InfoContext(ctx, "import already claimed, skipping",
			slog.String("job_id", jobID))
		return nil
	}

	p.logger.InfoContext(ctx, "processing product import",
		slog.String("job_id", jobID),
		slog.String("file_path", req.FilePath),
		slog.String("format", string(req.Format)))

	result, err := p.run(ctx, req)
	if err != nil {
		p.release(ctx, jobID)
		if errors.Is(err, ErrFileTooLarge) || errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}

	p.finish(ctx, jobID, result)

	p.logger.InfoContext(ctx, "product import completed",
		slog.String("job_id", jobID),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped))

	return nil
}

func (p *ImportProcessor) run(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error) {
	products, err := p.LoadProducts(ctx, req.FilePath, req.Format)
	if err != nil {
		return nil, err
	}

	result, err := p.inventory.ImportProducts(ctx, products)
	if err != nil {
		return nil, fmt.Errorf("failed to save products: %w", err)
	}

	for _, rowErr := range result.Errors {
		p.logger.WarnContext(ctx, "import row skipped", slog.String("reason", rowErr))
	}
	return result, nil
}

// LoadProducts reads and parses an import file. path may be local or an
// s3:// URI; an empty format is derived from the extension.
func (p *ImportProcessor) LoadProducts(ctx context.Context, path string, format domain.ImportFormat) ([]domain.Product, error) {
	if format == "" {
		detected, err := domain.DetectImportFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	data, err := p.readFile(ctx, path, p.maxBytes(format))
	if err != nil {
		return nil, err
	}

	switch format {
	case domain.ImportFormatXLSX:
		return parseProductSheet(data)
	case domain.ImportFormatPDF:
		lines, err := extractTextLines(data, p.logger)
		if err != nil {
			return nil, err
		}
		return parsePriceList(lines, p.classifier), nil
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}
}

func (p *ImportProcessor) maxBytes(format domain.ImportFormat) int64 {
	mb := p.files.ExcelMaxSizeMB
	if format == domain.ImportFormatPDF {
		mb = p.files.PDFMaxSizeMB
	}
	if mb <= 0 {
		return 0
	}
	return int64(mb) << 20
}

func (p *ImportProcessor) readFile(ctx context.Context, path string, limit int64) ([]byte, error) {
	if key, ok := storage.ParseURI(path); ok {
		if p.objects == nil {
			return nil, fmt.Errorf("object storage not configured for %s", path)
		}
		data, err := p.objects.Download(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to download import file: %w", err)
		}
		if limit > 0 && int64(len(data)) > limit {
			return nil, fmt.Errorf("%s is %d bytes: %w", path, len(data), ErrFileTooLarge)
		}
		return data, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat import file: %w", err)
	}
	if limit > 0 && info.Size() > limit {
		return nil, fmt.Errorf("%s is %d bytes: %w", path, info.Size(), ErrFileTooLarge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	return data, nil
}

func (p *ImportProcessor) claim(ctx context.Context, jobID string) (bool, error) {
	if p.cache == nil {
		return true, nil
	}
	ttl := p.files.ProcessingTimeout
	if ttl <= 0 {
		ttl = time.Hour
	}
	ok, err := p.cache.SetNX(ctx, ImportClaimKey(jobID), "running", ttl)
	if err != nil {
		// without the cache the job still runs; asynq's task id already dedups enqueues
		p.logger.WarnContext(ctx, "failed to claim import job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		return true, nil
	}
	return ok, nil
}

func (p *ImportProcessor) release(ctx context.Context, jobID string) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Delete(ctx, ImportClaimKey(jobID)); err != nil {
		p.logger.WarnContext(ctx, "failed to release import claim",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
	}
}

func (p *ImportProcessor) finish(ctx context.Context, jobID string, result *domain.ImportResult) {
	if p.cache == nil {
		return
	}
	if err := p.cache.SetWithTTL(ctx, ImportClaimKey(jobID), result, importResultTTL); err != nil {
		p.logger.WarnContext(ctx, "failed to record import result",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
	}
}
