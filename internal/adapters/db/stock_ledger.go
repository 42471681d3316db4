// internal/adapters/db/stock_ledger.go
package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
)

const (
	queryStockLevel = `SELECT stock_quantity, price FROM products WHERE item_id = $1`

	queryDecrementStock = `
		UPDATE products SET stock_quantity = stock_quantity - $1
		WHERE item_id = $2`

	queryDecrementStockIfAvailable = `
		UPDATE products SET stock_quantity = stock_quantity - $1
		WHERE item_id = $2 AND stock_quantity >= $1`

	queryIncrementStock = `
		UPDATE products SET stock_quantity = stock_quantity + $1
		WHERE item_id = $2`
)

// stockLedger implements ports.StockLedger against the products table
type stockLedger struct {
	db     ports.Database
	logger *slog.Logger
}

// NewStockLedger creates a new stock ledger
func NewStockLedger(db ports.Database, logger *slog.Logger) ports.StockLedger {
	return &stockLedger{
		db:     db,
		logger: logger.With(slog.String("repository", "stock_ledger")),
	}
}

// CheckAvailability reads the current stock and unit price of an item
func (l *stockLedger) CheckAvailability(ctx context.Context, itemID int64, requested int) (domain.Availability, error) {
	var (
		stock int
		price decimal.Decimal
	)

	err := l.db.QueryRow(ctx, queryStockLevel, itemID).Scan(&stock, &price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Availability{}, domain.NewProductNotFound(itemID)
		}
		return domain.Availability{}, domain.NewStorageError("check_availability", err)
	}

	return domain.NewAvailability(itemID, requested, stock, price), nil
}

// DecrementStock subtracts quantity without re-checking the level
func (l *stockLedger) DecrementStock(ctx context.Context, itemID int64, quantity int) error {
	tag, err := l.db.Exec(ctx, queryDecrementStock, quantity, itemID)
	if err != nil {
		return domain.NewStorageError("decrement_stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewProductNotFound(itemID)
	}

	l.logger.DebugContext(ctx, "stock decremented",
		slog.Int64("item_id", itemID),
		slog.Int("quantity", quantity))

	return nil
}

// DecrementStockIfAvailable subtracts quantity in one guarded statement.
// Zero affected rows means the item is missing or short; callers tell the
// two apart with CheckAvailability.
func (l *stockLedger) DecrementStockIfAvailable(ctx context.Context, itemID int64, quantity int) (bool, error) {
	tag, err := l.db.Exec(ctx, queryDecrementStockIfAvailable, quantity, itemID)
	if err != nil {
		return false, domain.NewStorageError("decrement_stock_if_available", err)
	}

	ok := tag.RowsAffected() == 1
	l.logger.DebugContext(ctx, "conditional stock decrement",
		slog.Int64("item_id", itemID),
		slog.Int("quantity", quantity),
		slog.Bool("applied", ok))

	return ok, nil
}

// IncrementStock adds quantity to an item's stock
func (l *stockLedger) IncrementStock(ctx context.Context, itemID int64, quantity int) error {
	tag, err := l.db.Exec(ctx, queryIncrementStock, quantity, itemID)
	if err != nil {
		return domain.NewStorageError("increment_stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewProductNotFound(itemID)
	}
	return nil
}
