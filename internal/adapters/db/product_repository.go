// internal/adapters/db/product_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
)

var productColumns = []string{
	"item_id", "product_name", "department_name",
	"price", "stock_quantity", "product_sales",
}

const (
	queryFindProduct = `
		SELECT item_id, product_name, department_name, price, stock_quantity, product_sales
		FROM products
		WHERE item_id = $1`

	queryInsertProduct = `
		INSERT INTO products (product_name, department_name, price, stock_quantity, product_sales)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING item_id`
)

// productRepository implements ports.ProductRepository
type productRepository struct {
	db     ports.Database
	logger *slog.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db ports.Database, logger *slog.Logger) ports.ProductRepository {
	return &productRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "products")),
	}
}

// FindByID loads one product. A missing row is a *domain.NotFoundError.
func (r *productRepository) FindByID(ctx context.Context, itemID int64) (*domain.Product, error) {
	p := &domain.Product{}
	err := r.db.QueryRow(ctx, queryFindProduct, itemID).Scan(
		&p.ItemID, &p.ProductName, &p.DepartmentName,
		&p.Price, &p.StockQuantity, &p.ProductSales,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewProductNotFound(itemID)
		}
		return nil, domain.NewStorageError("find_product", err)
	}
	return p, nil
}

// List returns products matching the filter in item id order
func (r *productRepository) List(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	query, args, err := buildListQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError("list_products", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ItemID, &p.ProductName, &p.DepartmentName,
			&p.Price, &p.StockQuantity, &p.ProductSales,
		); err != nil {
			return nil, domain.NewStorageError("scan_product", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list_products", err)
	}

	return products, nil
}

// buildListQuery renders the listing SELECT for a filter
func buildListQuery(filter ports.ProductFilter) (string, []interface{}, error) {
	qb := squirrel.Select(productColumns...).
		From("products").
		OrderBy("item_id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.InStockOnly {
		qb = qb.Where(squirrel.Gt{"stock_quantity": 0})
	}
	if filter.BelowStock > 0 {
		qb = qb.Where(squirrel.Lt{"stock_quantity": filter.BelowStock})
	}
	if filter.DepartmentName != "" {
		qb = qb.Where(squirrel.Eq{"department_name": filter.DepartmentName})
	}

	return qb.ToSql()
}

// Create inserts a product and fills in its generated item id
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	err := r.db.QueryRow(ctx, queryInsertProduct,
		product.ProductName, product.DepartmentName, product.Price,
		product.StockQuantity, product.ProductSales,
	).Scan(&product.ItemID)
	if err != nil {
		return domain.NewStorageError("create_product", err)
	}

	r.logger.DebugContext(ctx, "product created",
		slog.Int64("item_id", product.ItemID),
		slog.String("product_name", product.ProductName))

	return nil
}

// SaveBatch inserts products in one transaction and fills in their ids
func (r *productRepository) SaveBatch(ctx context.Context, products []domain.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i := range products {
			batch.Queue(queryInsertProduct,
				products[i].ProductName, products[i].DepartmentName, products[i].Price,
				products[i].StockQuantity, products[i].ProductSales,
			)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for i := range products {
			if err := br.QueryRow().Scan(&products[i].ItemID); err != nil {
				return fmt.Errorf("failed to save product %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, domain.NewStorageError("save_product_batch", err)
	}

	return len(products), nil
}
