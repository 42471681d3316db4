// internal/adapters/memstore/store.go
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
)

// Operation names accepted by FailOn
const (
	OpCheckAvailability    = "check_availability"
	OpDecrementStock       = "decrement_stock"
	OpIncrementStock       = "increment_stock"
	OpAddProductRevenue    = "add_product_revenue"
	OpAddDepartmentRevenue = "add_department_revenue"
	OpFindProduct          = "find_product"
	OpListProducts         = "list_products"
	OpCreateProduct        = "create_product"
	OpSaveProductBatch     = "save_product_batch"
	OpSalesReport          = "sales_report"
	OpCreateDepartment     = "create_department"
)

// Store is an in-process catalog. It implements the ledger, revenue and
// product ports with the same error contract as the Postgres adapters;
// Departments covers the department port. It backs the demo mode of the
// CLIs and the pipeline tests.
type Store struct {
	mu          sync.Mutex
	products    map[int64]domain.Product
	departments map[string]domain.Department
	nextItemID  int64
	nextDeptID  int64
	failures    map[string]error
}

var (
	_ ports.StockLedger        = (*Store)(nil)
	_ ports.RevenueAccumulator = (*Store)(nil)
	_ ports.ProductRepository  = (*Store)(nil)
)

// New creates an empty store
func New() *Store {
	return &Store{
		products:    make(map[int64]domain.Product),
		departments: make(map[string]domain.Department),
		nextItemID:  1,
		nextDeptID:  1,
		failures:    make(map[string]error),
	}
}

// Seed loads rows as-is, keeping the ids they carry. Rows with a zero id get
// the next free one.
func (s *Store) Seed(products []domain.Product, departments []domain.Department) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range departments {
		if d.DepartmentID == 0 {
			d.DepartmentID = s.nextDeptID
		}
		if d.DepartmentID >= s.nextDeptID {
			s.nextDeptID = d.DepartmentID + 1
		}
		s.departments[d.DepartmentName] = d
	}
	for _, p := range products {
		if p.ItemID == 0 {
			p.ItemID = s.nextItemID
		}
		if p.ItemID >= s.nextItemID {
			s.nextItemID = p.ItemID + 1
		}
		s.products[p.ItemID] = p
	}
}

// FailOn makes every later call of op fail with a StorageError wrapping err.
// A nil err clears the failure.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// begin fails a call whose ctx is already done, then applies FailOn
func (s *Store) begin(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError(op, err)
	}
	if err, ok := s.failures[op]; ok {
		return domain.NewStorageError(op, err)
	}
	return nil
}

// Product returns a copy of the stored row
func (s *Store) Product(itemID int64) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[itemID]
	return p, ok
}

// Department returns a copy of the stored row
func (s *Store) Department(name string) (domain.Department, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.departments[name]
	return d, ok
}

// CheckAvailability reads the current stock and price of an item
func (s *Store) CheckAvailability(ctx context.Context, itemID int64, requested int) (domain.Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(ctx, OpCheckAvailability); err != nil {
		return domain.Availability{}, err
	}

	p, ok := s.products[itemID]
	if !ok {
		return domain.Availability{}, domain.NewProductNotFound(itemID)
	}
	return domain.NewAvailability(itemID, requested, p.StockQuantity, p.Price), nil
}

// DecrementStock subtracts quantity with no availability check. A result
// below zero is refused the way the schema's CHECK constraint refuses it.
func (s *Store) DecrementStock(ctx context.Context, itemID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(ctx, OpDecrementStock); err != nil {
		return err
	}

	p, ok := s.products[itemID]
	if !ok {
		return domain.NewProductNotFound(itemID)
	}
	if p.StockQuantity-quantity < 0 {
		return domain.NewStorageError(OpDecrementStock,
			fmt.Errorf("stock_quantity check violated for item %d", itemID))
	}
	p.StockQuantity -= quantity
	s.products[itemID] = p
	return nil
}

// DecrementStockIfAvailable subtracts quantity only when stock covers it
func (s *Store) DecrementStockIfAvailable(ctx context.Context, itemID int64, quantity int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(ctx, OpDecrementStock); err != nil {
		return false, err
	}

	p, ok := s.products[itemID]
	if !ok || p.StockQuantity < quantity {
		return false, nil
	}
	p.StockQuantity -= quantity
	s.products[itemID] = p
	return true, nil
}

// IncrementStock adds quantity to an item
func (s *Store) IncrementStock(ctx context.Context, itemID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(ctx, OpIncrementStock); err != nil {
		return err
	}

	p, ok := s.products[itemID]
	if !ok {
		return domain.NewProductNotFound(itemID)
	}
	p.StockQuantity += quantity
	s.products[itemID] = p
	return nil
}

// AddProductRevenue adds amount to product_sales
func (s *Store) AddProductRevenue(ctx context.Context, itemID int64, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(ctx, OpAddProductRevenue); err != nil {
		return err
	}

	p, ok := s.products[itemID]
	if !ok {
		return domain.NewProductNotFound(itemID)
	}
	p.ProductSales = p.ProductSales.Add(amount)
	s.products[itemID] = p
	return nil
}

// AddDepartmentRevenue adds amount to total_sales of the named department
func (s *Store) AddDepartmentRevenue(ctx context.Context, departmentName string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(ctx, OpAddDepartmentRevenue); err != nil {
		return err
	}

	d, ok := s.departments[departmentName]
	if !ok {
		return domain.NewDepartmentNotFound(departmentName)
	}
	d.TotalSales = d.TotalSales.Add(amount)
	s.departments[departmentName] = d
	return nil
}

// FindByID returns one product
func (s *Store) FindByID(ctx context.Context, itemID int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(ctx, OpFindProduct); err != nil {
		return nil, err
	}

	p, ok := s.products[itemID]
	if !ok {
		return nil, domain.NewProductNotFound(itemID)
	}
	return &p, nil
}

// List returns products matching filter ordered by item id
func (s *Store) List(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(ctx, OpListProducts); err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.InStockOnly && !p.InStock() {
			continue
		}
		if filter.BelowStock > 0 && !p.IsLowStock(filter.BelowStock) {
			continue
		}
		if filter.DepartmentName != "" && p.DepartmentName != filter.DepartmentName {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

// Create inserts a product and assigns its id
func (s *Store) Create(ctx context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(ctx, OpCreateProduct); err != nil {
		return err
	}

	product.ItemID = s.nextItemID
	s.nextItemID++
	s.products[product.ItemID] = *product
	return nil
}

// SaveBatch inserts all products, assigning ids in slice order
func (s *Store) SaveBatch(ctx context.Context, products []domain.Product) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(ctx, OpSaveProductBatch); err != nil {
		return 0, err
	}

	for i := range products {
		products[i].ItemID = s.nextItemID
		s.nextItemID++
		s.products[products[i].ItemID] = products[i]
	}
	return len(products), nil
}

// Departments returns the department side of the store
func (s *Store) Departments() *Departments {
	return &Departments{s: s}
}

// Departments implements the department repository over a Store
type Departments struct {
	s *Store
}

var _ ports.DepartmentRepository = (*Departments)(nil)

// SalesReport lists departments by id with derived profit
func (d *Departments) SalesReport(ctx context.Context) ([]domain.DepartmentSales, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	if err := d.s.begin(ctx, OpSalesReport); err != nil {
		return nil, err
	}

	out := make([]domain.DepartmentSales, 0, len(d.s.departments))
	for _, dept := range d.s.departments {
		out = append(out, domain.NewDepartmentSales(dept))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartmentID < out[j].DepartmentID })
	return out, nil
}

// Create inserts a department; names are unique
func (d *Departments) Create(ctx context.Context, department *domain.Department) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	if err := d.s.begin(ctx, OpCreateDepartment); err != nil {
		return err
	}

	if _, exists := d.s.departments[department.DepartmentName]; exists {
		return fmt.Errorf("department %q: %w", department.DepartmentName, domain.ErrAlreadyExists)
	}
	department.DepartmentID = d.s.nextDeptID
	d.s.nextDeptID++
	d.s.departments[department.DepartmentName] = *department
	return nil
}
