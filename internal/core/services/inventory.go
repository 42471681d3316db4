// internal/core/services/inventory.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
)

const importBatchSize = 100

// ErrPublisherUnavailable is returned when background work is requested but
// no task publisher is configured
var ErrPublisherUnavailable = errors.New("task publisher not configured")

// InventoryService handles the manager's inventory operations
type InventoryService struct {
	products  ports.ProductRepository
	ledger    ports.StockLedger
	publisher ports.TaskPublisher
	threshold int
	logger    *slog.Logger
}

// Statically assert that *InventoryService implements the InventoryService interface.
var _ ports.InventoryService = (*InventoryService)(nil)

// NewInventoryService creates a new inventory service. publisher may be nil.
func NewInventoryService(
	products ports.ProductRepository,
	ledger ports.StockLedger,
	publisher ports.TaskPublisher,
	lowStockThreshold int,
	logger *slog.Logger,
) *InventoryService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = domain.DefaultLowStockThreshold
	}
	return &InventoryService{
		products:  products,
		ledger:    ledger,
		publisher: publisher,
		threshold: lowStockThreshold,
		logger:    logger.With(slog.String("service", "inventory")),
	}
}

// ListProducts lists every product, including sold-out ones
func (s *InventoryService) ListProducts(ctx context.Context) (*domain.Catalog, error) {
	products, err := s.products.List(ctx, ports.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return domain.NewCatalog(products), nil
}

// ListLowInventory lists products below the low-stock threshold
func (s *InventoryService) ListLowInventory(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx, ports.ProductFilter{BelowStock: s.threshold})
	if err != nil {
		return nil, fmt.Errorf("failed to list low inventory: %w", err)
	}
	return products, nil
}

// AddStock increments an item's stock and returns the updated row
func (s *InventoryService) AddStock(ctx context.Context, itemID int64, quantity int) (*domain.Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be greater than 0")
	}

	if err := s.ledger.IncrementStock(ctx, itemID, quantity); err != nil {
		return nil, fmt.Errorf("failed to add stock: %w", err)
	}

	product, err := s.products.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload product: %w", err)
	}

	s.logger.InfoContext(ctx, "stock added",
		slog.Int64("item_id", itemID),
		slog.Int("quantity", quantity),
		slog.Int("stock_quantity", product.StockQuantity))

	return product, nil
}

// AddProduct validates and stores a new product, filling in its item id
func (s *InventoryService) AddProduct(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.products.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to add product: %w", err)
	}

	s.logger.InfoContext(ctx, "product added",
		slog.Int64("item_id", product.ItemID),
		slog.String("product_name", product.ProductName),
		slog.String("department_name", product.DepartmentName))

	return nil
}

// ImportProducts stores parsed products in batches. Invalid rows are
// skipped and reported in the result.
func (s *InventoryService) ImportProducts(ctx context.Context, products []domain.Product) (*domain.ImportResult, error) {
	result := &domain.ImportResult{}

	valid := make([]domain.Product, 0, len(products))
	for i := range products {
		p := products[i]
		if err := p.Validate(); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d (%s): %v", i+1, p.ProductName, err))
			continue
		}
		valid = append(valid, p)
	}

	for i := 0; i < len(valid); i += importBatchSize {
		end := i + importBatchSize
		if end > len(valid) {
			end = len(valid)
		}

		n, err := s.products.SaveBatch(ctx, valid[i:end])
		result.Imported += n
		if err != nil {
			return result, fmt.Errorf("failed to save batch %d-%d: %w", i, end, err)
		}
	}

	s.logger.InfoContext(ctx, "products imported",
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped))

	return result, nil
}

// RequestImport enqueues a file import for the worker. An empty format is
// derived from the file extension.
func (s *InventoryService) RequestImport(ctx context.Context, filePath string, format domain.ImportFormat) (*domain.ImportRequest, error) {
	if s.publisher == nil {
		return nil, ErrPublisherUnavailable
	}

	if format == "" {
		detected, err := domain.DetectImportFormat(filePath)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	req := domain.ImportRequest{
		JobID:    uuid.New(),
		FilePath: filePath,
		Format:   format,
	}
	if err := s.publisher.PublishProductImport(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to enqueue import: %w", err)
	}

	s.logger.InfoContext(ctx, "product import enqueued",
		slog.String("job_id", req.JobID.String()),
		slog.String("file_path", filePath))

	return &req, nil
}
