// internal/core/services/departments.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
)

// SalesReportCacheKey holds the cached sales-by-department rows
const SalesReportCacheKey = "dash:departments"

// DefaultSalesReportTTL is used when no TTL is configured
const DefaultSalesReportTTL = 5 * time.Minute

// DepartmentService handles the supervisor's department operations
type DepartmentService struct {
	repo      ports.DepartmentRepository
	cache     ports.CacheRepository
	publisher ports.TaskPublisher
	ttl       time.Duration
	logger    *slog.Logger
}

// Statically assert that *DepartmentService implements the DepartmentService interface.
var _ ports.DepartmentService = (*DepartmentService)(nil)

// NewDepartmentService creates a new department service. cache and
// publisher may be nil.
func NewDepartmentService(
	repo ports.DepartmentRepository,
	cache ports.CacheRepository,
	publisher ports.TaskPublisher,
	ttl time.Duration,
	logger *slog.Logger,
) *DepartmentService {
	if ttl <= 0 {
		ttl = DefaultSalesReportTTL
	}
	return &DepartmentService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		ttl:       ttl,
		logger:    logger.With(slog.String("service", "departments")),
	}
}

// SalesByDepartment returns every department with its derived profit.
// A cache failure falls back to the store.
func (s *DepartmentService) SalesByDepartment(ctx context.Context) ([]domain.DepartmentSales, error) {
	if s.cache == nil {
		return s.loadSalesReport(ctx)
	}

	var (
		rows     []domain.DepartmentSales
		fetchErr error
	)
	err := s.cache.GetOrSet(ctx, SalesReportCacheKey, &rows, func() (interface{}, error) {
		fresh, err := s.loadSalesReport(ctx)
		fetchErr = err
		return fresh, err
	}, s.ttl)

	switch {
	case err == nil:
		return rows, nil
	case fetchErr != nil:
		return nil, fetchErr
	default:
		s.logger.WarnContext(ctx, "sales report cache unavailable",
			slog.String("error", err.Error()))
		return s.loadSalesReport(ctx)
	}
}

func (s *DepartmentService) loadSalesReport(ctx context.Context) ([]domain.DepartmentSales, error) {
	rows, err := s.repo.SalesReport(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales by department: %w", err)
	}
	return rows, nil
}

// CreateDepartment stores a new department with zero sales
func (s *DepartmentService) CreateDepartment(ctx context.Context, name string, overheadCosts decimal.Decimal) (*domain.Department, error) {
	dept := &domain.Department{
		DepartmentName: name,
		OverheadCosts:  overheadCosts,
		TotalSales:     decimal.Zero,
	}
	if err := dept.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.repo.Create(ctx, dept); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	if err := s.InvalidateSalesCache(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate sales report cache",
			slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "department created",
		slog.Int64("department_id", dept.DepartmentID),
		slog.String("department_name", dept.DepartmentName))

	return dept, nil
}

// RequestSalesReport enqueues an export of the sales report
func (s *DepartmentService) RequestSalesReport(ctx context.Context, requestedBy string) (*domain.SalesReportRequest, error) {
	if s.publisher == nil {
		return nil, ErrPublisherUnavailable
	}

	req := domain.SalesReportRequest{
		JobID:       uuid.New(),
		RequestedBy: requestedBy,
		RequestedAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishSalesReport(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to enqueue sales report: %w", err)
	}

	s.logger.InfoContext(ctx, "sales report enqueued",
		slog.String("job_id", req.JobID.String()))

	return &req, nil
}

// InvalidateSalesCache drops the cached sales report
func (s *DepartmentService) InvalidateSalesCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, SalesReportCacheKey); err != nil {
		return domain.NewStorageError("invalidate_sales_cache", err)
	}
	return nil
}
