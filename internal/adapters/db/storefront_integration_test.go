//go:build integration
// +build integration

package db_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/ammerola/storefront/internal/adapters/db"
	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
	"github.com/ammerola/storefront/internal/core/services"
	"github.com/ammerola/storefront/test/helpers"
)

type StorefrontRepositorySuite struct {
	suite.Suite
	testDB      *helpers.TestDB
	ledger      ports.StockLedger
	revenue     ports.RevenueAccumulator
	products    ports.ProductRepository
	departments ports.DepartmentRepository
	ctx         context.Context
}

func (s *StorefrontRepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	logger := helpers.TestLogger()

	s.ledger = db.NewStockLedger(s.testDB.Database, logger)
	s.revenue = db.NewRevenueAccumulator(s.testDB.Database, logger)
	s.products = db.NewProductRepository(s.testDB.Database, logger)
	s.departments = db.NewDepartmentRepository(s.testDB.Database, logger)
	s.ctx = context.Background()
}

func (s *StorefrontRepositorySuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
	helpers.SeedScenario(s.T(), s.testDB.PgxPool)
}

func (s *StorefrontRepositorySuite) TestCheckAvailability() {
	avail, err := s.ledger.CheckAvailability(s.ctx, 1, 3)
	s.Require().NoError(err)
	s.True(avail.Available)
	s.Equal(10, avail.CurrentStock)
	s.True(avail.UnitPrice.Equal(decimal.RequireFromString("5.00")))

	avail, err = s.ledger.CheckAvailability(s.ctx, 2, 5)
	s.Require().NoError(err)
	s.False(avail.Available)

	_, err = s.ledger.CheckAvailability(s.ctx, 999, 1)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *StorefrontRepositorySuite) TestDecrementAndIncrement() {
	s.Require().NoError(s.ledger.DecrementStock(s.ctx, 1, 3))
	s.Require().NoError(s.ledger.IncrementStock(s.ctx, 1, 1))

	p, err := s.products.FindByID(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(8, p.StockQuantity)

	s.ErrorIs(s.ledger.DecrementStock(s.ctx, 999, 1), domain.ErrNotFound)
	s.ErrorIs(s.ledger.IncrementStock(s.ctx, 999, 1), domain.ErrNotFound)

	// the CHECK constraint refuses a negative level
	s.ErrorIs(s.ledger.DecrementStock(s.ctx, 2, 5), domain.ErrStorage)
}

func (s *StorefrontRepositorySuite) TestDecrementStockIfAvailable_NeverNegative() {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.ledger.DecrementStockIfAvailable(s.ctx, 1, 3)
			s.NoError(err)
			if ok {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(3, applied)

	p, err := s.products.FindByID(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(1, p.StockQuantity)
}

func (s *StorefrontRepositorySuite) TestRevenueCredits() {
	amount := decimal.RequireFromString("15.00")

	s.Require().NoError(s.revenue.AddProductRevenue(s.ctx, 1, amount))
	s.Require().NoError(s.revenue.AddDepartmentRevenue(s.ctx, "Electronics", amount))

	p, err := s.products.FindByID(s.ctx, 1)
	s.Require().NoError(err)
	s.True(p.ProductSales.Equal(amount))

	report, err := s.departments.SalesReport(s.ctx)
	s.Require().NoError(err)
	s.Require().NotEmpty(report)
	s.Equal("Electronics", report[0].DepartmentName)
	s.True(report[0].TotalSales.Equal(decimal.RequireFromString("115.00")))

	err = s.revenue.AddDepartmentRevenue(s.ctx, "Toys", amount)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *StorefrontRepositorySuite) TestListFilters() {
	all, err := s.products.List(s.ctx, ports.ProductFilter{})
	s.Require().NoError(err)
	s.Len(all, 4)
	s.Equal(int64(1), all[0].ItemID)

	inStock, err := s.products.List(s.ctx, ports.ProductFilter{InStockOnly: true})
	s.Require().NoError(err)
	s.Len(inStock, 3)

	low, err := s.products.List(s.ctx, ports.ProductFilter{BelowStock: domain.DefaultLowStockThreshold})
	s.Require().NoError(err)
	s.Len(low, 2)
}

func (s *StorefrontRepositorySuite) TestCreateAndSaveBatch() {
	p := helpers.CreateTestProduct(func(p *domain.Product) { p.ItemID = 0 })
	s.Require().NoError(s.products.Create(s.ctx, p))
	s.NotZero(p.ItemID)

	batch := helpers.CreateTestProducts(3)
	n, err := s.products.SaveBatch(s.ctx, batch)
	s.Require().NoError(err)
	s.Equal(3, n)
	for _, b := range batch {
		s.NotZero(b.ItemID)
	}
}

func (s *StorefrontRepositorySuite) TestSalesReportAndDuplicateDepartment() {
	report, err := s.departments.SalesReport(s.ctx)
	s.Require().NoError(err)
	s.Require().NotEmpty(report)
	s.Equal("Electronics", report[0].DepartmentName)
	s.True(report[0].Profit.Equal(report[0].TotalSales.Sub(report[0].OverheadCosts)))

	dup := &domain.Department{DepartmentName: "Electronics", OverheadCosts: decimal.NewFromInt(1)}
	s.ErrorIs(s.departments.Create(s.ctx, dup), domain.ErrAlreadyExists)
}

func (s *StorefrontRepositorySuite) TestOrderPipeline_EndToEnd() {
	svc := services.NewOrderService(s.ledger, s.revenue, s.products, nil, nil,
		services.OrderOptions{}, helpers.TestLogger())

	result, err := svc.PlaceOrder(s.ctx, domain.Order{ItemID: 1, RequestedQuantity: 3})
	s.Require().NoError(err)
	s.True(result.Total.Equal(decimal.RequireFromString("15.00")))
	s.Equal(7, result.RemainingStock)

	// item 4 names a department with no row
	result, err = svc.PlaceOrder(s.ctx, domain.Order{ItemID: 4, RequestedQuantity: 1})
	s.ErrorIs(err, domain.ErrNotFound)
	s.Equal(domain.StepCreditProduct, result.LastStep)

	orphan, err := s.products.FindByID(s.ctx, 4)
	s.Require().NoError(err)
	s.True(orphan.ProductSales.Equal(orphan.Price))
}

func TestStorefrontRepositorySuite(t *testing.T) {
	suite.Run(t, new(StorefrontRepositorySuite))
}
