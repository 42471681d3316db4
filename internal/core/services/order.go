// internal/core/services/order.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
	"github.com/ammerola/storefront/internal/pkg/logger"
)

// OrderOptions tunes the order pipeline
type OrderOptions struct {
	// ConditionalDecrement folds CHECK_STOCK and DECREMENT into one guarded
	// update so concurrent runs cannot drive stock negative.
	ConditionalDecrement bool
	LowStockThreshold    int
}

// OrderService runs the customer order transaction pipeline
type OrderService struct {
	ledger    ports.StockLedger
	revenue   ports.RevenueAccumulator
	products  ports.ProductRepository
	publisher ports.TaskPublisher
	cache     ports.CacheRepository
	opts      OrderOptions
	logger    *slog.Logger
}

// Statically assert that *OrderService implements the OrderService interface.
var _ ports.OrderService = (*OrderService)(nil)

// NewOrderService creates a new order service. publisher and cache may be nil.
func NewOrderService(
	ledger ports.StockLedger,
	revenue ports.RevenueAccumulator,
	products ports.ProductRepository,
	publisher ports.TaskPublisher,
	cache ports.CacheRepository,
	opts OrderOptions,
	logger *slog.Logger,
) *OrderService {
	if opts.LowStockThreshold <= 0 {
		opts.LowStockThreshold = domain.DefaultLowStockThreshold
	}
	return &OrderService{
		ledger:    ledger,
		revenue:   revenue,
		products:  products,
		publisher: publisher,
		cache:     cache,
		opts:      opts,
		logger:    logger.With(slog.String("service", "order")),
	}
}

// ListAvailable lists products with stock on hand
func (s *OrderService) ListAvailable(ctx context.Context) (*domain.Catalog, error) {
	products, err := s.products.List(ctx, ports.ProductFilter{InStockOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list available products: %w", err)
	}
	return domain.NewCatalog(products), nil
}

// PlaceOrder runs one order through the pipeline. The returned result is
// never nil and records the last completed step. A rejection is reported as
// a *domain.InsufficientStockError with LastStep REJECTED; any other error
// is a *domain.StepError naming the step that failed. Completed steps are
// not rolled back.
func (s *OrderService) PlaceOrder(ctx context.Context, order domain.Order) (*domain.OrderResult, error) {
	result := &domain.OrderResult{
		RunID:    uuid.New(),
		Order:    order,
		LastStep: domain.StepStart,
	}

	// adapters inherit the run id through ctx
	ctx = logger.WithRunID(ctx, result.RunID)
	log := s.logger.With(
		slog.Int64("item_id", order.ItemID),
		slog.Int("requested_quantity", order.RequestedQuantity),
	)

	if err := order.Validate(); err != nil {
		return result, fmt.Errorf("invalid order: %w", err)
	}

	var err error
	if s.opts.ConditionalDecrement {
		err = s.reserveConditional(ctx, result)
	} else {
		err = s.reserve(ctx, result)
	}
	if err != nil {
		if result.Rejected() {
			log.InfoContext(ctx, "order rejected", slog.String("reason", err.Error()))
		} else {
			log.ErrorContext(ctx, "order aborted",
				slog.String("last_step", string(result.LastStep)),
				slog.String("error", err.Error()))
		}
		return result, err
	}

	if err := s.settle(ctx, result); err != nil {
		log.ErrorContext(ctx, "order aborted",
			slog.String("last_step", string(result.LastStep)),
			slog.String("error", err.Error()))
		return result, err
	}

	log.InfoContext(ctx, "order complete",
		slog.String("total", result.Total.StringFixed(2)),
		slog.Int("remaining_stock", result.RemainingStock))

	s.afterComplete(ctx, result, log)

	return result, nil
}

// reserve performs CHECK_STOCK then DECREMENT
func (s *OrderService) reserve(ctx context.Context, result *domain.OrderResult) error {
	order := result.Order

	avail, err := s.ledger.CheckAvailability(ctx, order.ItemID, order.RequestedQuantity)
	if err != nil {
		return &domain.StepError{Step: domain.StepCheckStock, Err: err}
	}
	result.LastStep = domain.StepCheckStock
	result.UnitPrice = avail.UnitPrice

	if !avail.Available {
		result.LastStep = domain.StepRejected
		return &domain.InsufficientStockError{
			ItemID:    order.ItemID,
			Requested: order.RequestedQuantity,
			Available: avail.CurrentStock,
		}
	}

	if err := s.ledger.DecrementStock(ctx, order.ItemID, order.RequestedQuantity); err != nil {
		return &domain.StepError{Step: domain.StepDecrement, Err: err}
	}
	result.LastStep = domain.StepDecrement

	return nil
}

// reserveConditional decrements with a single guarded update. A quantity
// beyond what the stock column can hold is never covered, so it is rejected
// without running the update.
func (s *OrderService) reserveConditional(ctx context.Context, result *domain.OrderResult) error {
	order := result.Order

	if order.RequestedQuantity <= domain.MaxQuantity {
		ok, err := s.ledger.DecrementStockIfAvailable(ctx, order.ItemID, order.RequestedQuantity)
		if err != nil {
			return &domain.StepError{Step: domain.StepDecrement, Err: err}
		}
		if ok {
			result.LastStep = domain.StepDecrement
			return nil
		}
	}

	// the guarded update reports no stock level; read it for the rejection
	avail, err := s.ledger.CheckAvailability(ctx, order.ItemID, order.RequestedQuantity)
	if err != nil {
		return &domain.StepError{Step: domain.StepCheckStock, Err: err}
	}
	result.UnitPrice = avail.UnitPrice
	result.LastStep = domain.StepRejected
	return &domain.InsufficientStockError{
		ItemID:    order.ItemID,
		Requested: order.RequestedQuantity,
		Available: avail.CurrentStock,
	}
}

// settle performs COMPUTE_TOTAL, CREDIT_PRODUCT and CREDIT_DEPARTMENT
func (s *OrderService) settle(ctx context.Context, result *domain.OrderResult) error {
	order := result.Order

	product, err := s.products.FindByID(ctx, order.ItemID)
	if err != nil {
		return &domain.StepError{Step: domain.StepComputeTotal, Err: err}
	}
	result.ProductName = product.ProductName
	result.DepartmentName = product.DepartmentName
	result.UnitPrice = product.Price
	result.RemainingStock = product.StockQuantity
	result.Total = domain.TransactionTotal(product.Price, order.RequestedQuantity)
	result.LastStep = domain.StepComputeTotal

	if err := s.revenue.AddProductRevenue(ctx, order.ItemID, result.Total); err != nil {
		return &domain.StepError{Step: domain.StepCreditProduct, Err: err}
	}
	result.LastStep = domain.StepCreditProduct

	if err := s.revenue.AddDepartmentRevenue(ctx, product.DepartmentName, result.Total); err != nil {
		return &domain.StepError{Step: domain.StepCreditDepartment, Err: err}
	}
	result.LastStep = domain.StepComplete

	return nil
}

// afterComplete publishes follow-up work. Failures never change the outcome.
func (s *OrderService) afterComplete(ctx context.Context, result *domain.OrderResult, log *slog.Logger) {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, SalesReportCacheKey); err != nil {
			log.WarnContext(ctx, "failed to invalidate sales report cache",
				slog.String("error", err.Error()))
		}
	}

	if s.publisher == nil || result.RemainingStock >= s.opts.LowStockThreshold {
		return
	}

	alert := domain.LowStockAlert{
		ItemID:        result.Order.ItemID,
		ProductName:   result.ProductName,
		StockQuantity: result.RemainingStock,
		Threshold:     s.opts.LowStockThreshold,
	}
	if err := s.publisher.PublishLowStock(ctx, alert); err != nil {
		log.WarnContext(ctx, "failed to publish low stock alert",
			slog.String("error", err.Error()))
	}
}
