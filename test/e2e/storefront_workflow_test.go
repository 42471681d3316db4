//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/suite"

	"github.com/ammerola/storefront/internal/adapters/db"
	redis_a "github.com/ammerola/storefront/internal/adapters/redis_adapter"
	"github.com/ammerola/storefront/internal/cli"
	"github.com/ammerola/storefront/internal/core/ports"
	"github.com/ammerola/storefront/internal/core/services"
	"github.com/ammerola/storefront/test/helpers"
)

type StorefrontE2ESuite struct {
	suite.Suite
	testDB    *helpers.TestDB
	testRedis *helpers.TestRedis

	products    ports.ProductRepository
	orders      ports.OrderService
	inventory   ports.InventoryService
	departments ports.DepartmentService
}

func (s *StorefrontE2ESuite) SetupSuite() {
	color.NoColor = true

	s.testDB = helpers.SetupTestDB(s.T())
	s.testRedis = helpers.SetupTestRedis(s.T())

	logger := helpers.TestLogger()
	ledger := db.NewStockLedger(s.testDB.Database, logger)
	revenue := db.NewRevenueAccumulator(s.testDB.Database, logger)
	s.products = db.NewProductRepository(s.testDB.Database, logger)
	departmentRepo := db.NewDepartmentRepository(s.testDB.Database, logger)
	cache := redis_a.NewCache(s.testRedis.Client, time.Minute, logger)

	s.orders = services.NewOrderService(ledger, revenue, s.products, nil, cache,
		services.OrderOptions{ConditionalDecrement: true, LowStockThreshold: 5}, logger)
	s.inventory = services.NewInventoryService(s.products, ledger, nil, 5, logger)
	s.departments = services.NewDepartmentService(departmentRepo, cache, nil, time.Minute, logger)
}

func (s *StorefrontE2ESuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
	helpers.SeedScenario(s.T(), s.testDB.PgxPool)
	s.testRedis.Server.FlushAll()
}

func script(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func (s *StorefrontE2ESuite) runCustomer(lines ...string) string {
	var out bytes.Buffer
	s.Require().NoError(cli.NewCustomer(s.orders, script(lines...), &out, helpers.TestLogger()).Run(context.Background()))
	return out.String()
}

func (s *StorefrontE2ESuite) runManager(lines ...string) string {
	var out bytes.Buffer
	s.Require().NoError(cli.NewManager(s.inventory, script(lines...), &out, helpers.TestLogger()).Run(context.Background()))
	return out.String()
}

func (s *StorefrontE2ESuite) runSupervisor(lines ...string) string {
	var out bytes.Buffer
	s.Require().NoError(cli.NewSupervisor(s.departments, "e2e", script(lines...), &out, helpers.TestLogger()).Run(context.Background()))
	return out.String()
}

func (s *StorefrontE2ESuite) TestPurchaseShowsUpInDepartmentSales() {
	before := s.runSupervisor("1", "n")
	s.Contains(before, "100.00")

	out := s.runCustomer("1", "3", "n")
	s.Contains(out, "Transaction Successful! Your total is: 15.00")

	product, err := s.products.FindByID(context.Background(), 1)
	s.Require().NoError(err)
	s.Equal(7, product.StockQuantity)
	s.Equal("15.00", product.ProductSales.StringFixed(2))

	after := s.runSupervisor("1", "n")
	s.Contains(after, "115.00")
	s.Contains(after, "-35.00")
}

func (s *StorefrontE2ESuite) TestRejectedOrderLeavesStockAlone() {
	out := s.runCustomer("2", "5", "n")
	s.Contains(out, "Insufficient quantity available!")

	product, err := s.products.FindByID(context.Background(), 2)
	s.Require().NoError(err)
	s.Equal(2, product.StockQuantity)
	s.True(product.ProductSales.IsZero())
}

func (s *StorefrontE2ESuite) TestManagerRestocksAndAddsProducts() {
	out := s.runManager(
		"2", "y",
		"3", "3", "4", "y",
		"4", "Garden Hose", "Garden", "24.50", "12", "n",
	)
	s.Contains(out, "Throw Pillow")
	s.Contains(out, "Inventory add successful!")
	s.Contains(out, "Product add successful!")

	restocked, err := s.products.FindByID(context.Background(), 3)
	s.Require().NoError(err)
	s.Equal(4, restocked.StockQuantity)

	catalog, err := s.orders.ListAvailable(context.Background())
	s.Require().NoError(err)
	s.Equal(5, catalog.Len())
}

func (s *StorefrontE2ESuite) TestSupervisorCreatesDepartment() {
	out := s.runSupervisor("2", "Toys", "40", "y", "2", "Toys", "10", "n")
	s.Contains(out, "Department add: successful!")
	s.Contains(out, `Department "Toys" already exists`)

	out = s.runCustomer("4", "2", "n")
	s.Contains(out, "Your total is: 19.98")

	rows, err := s.departments.SalesByDepartment(context.Background())
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	s.Equal("Toys", rows[2].DepartmentName)
	s.Equal("-20.02", rows[2].Profit.StringFixed(2))
}

func (s *StorefrontE2ESuite) TestExportWithoutWorker() {
	out := s.runSupervisor("3", "n")
	s.Contains(out, "report export needs the worker")
}

func TestStorefrontE2E(t *testing.T) {
	suite.Run(t, new(StorefrontE2ESuite))
}
