package app

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/pkg/config"
)

func newDemo(t *testing.T) *App {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("LOG_LEVEL", "error")

	a, err := New(context.Background(), Options{Tool: config.ToolCustomer, Demo: true})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestNew_DemoWiring(t *testing.T) {
	a := newDemo(t)

	assert.Nil(t, a.Database)
	assert.Nil(t, a.Cache)
	assert.Nil(t, a.Publisher)
	assert.Equal(t, config.ToolCustomer, a.Config.App.Name)

	catalog, err := a.Orders.ListAvailable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, catalog.Len())
	assert.False(t, catalog.Has(7), "sold-out items are not offered")
}

func TestNew_DemoOrderFlow(t *testing.T) {
	a := newDemo(t)
	ctx := context.Background()

	t.Run("completed_order_credits_both_ledgers", func(t *testing.T) {
		result, err := a.Orders.PlaceOrder(ctx, domain.Order{ItemID: 2, RequestedQuantity: 2})
		require.NoError(t, err)
		assert.True(t, result.Total.Equal(decimal.RequireFromString("99.90")))

		rows, err := a.Departments.SalesByDepartment(ctx)
		require.NoError(t, err)
		assert.True(t, rows[0].TotalSales.Equal(decimal.RequireFromString("99.90")))
	})

	t.Run("over_order_is_rejected", func(t *testing.T) {
		result, err := a.Orders.PlaceOrder(ctx, domain.Order{ItemID: 3, RequestedQuantity: 4})
		var insufficient *domain.InsufficientStockError
		require.True(t, errors.As(err, &insufficient))
		assert.True(t, result.Rejected())
		assert.Equal(t, 3, insufficient.Available)
	})

	t.Run("unknown_department_stops_at_department_credit", func(t *testing.T) {
		result, err := a.Orders.PlaceOrder(ctx, domain.Order{ItemID: 10, RequestedQuantity: 1})
		var stepErr *domain.StepError
		require.True(t, errors.As(err, &stepErr))
		assert.Equal(t, domain.StepCreditDepartment, stepErr.Step)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, domain.StepCreditProduct, result.LastStep)
	})

	t.Run("report_export_needs_the_queue", func(t *testing.T) {
		_, err := a.Departments.RequestSalesReport(ctx, "demo")
		assert.Error(t, err)
	})
}

func TestDemoCatalogIsValid(t *testing.T) {
	depts := map[string]bool{}
	for _, d := range DemoDepartments() {
		depts[d.DepartmentName] = true
	}

	missing := 0
	for _, p := range DemoProducts() {
		assert.NoError(t, p.Validate(), p.ProductName)
		if !depts[p.DepartmentName] {
			missing++
		}
	}
	assert.Equal(t, 1, missing)
}

func TestDatabaseConfig(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		Host: "db", Port: "5433", User: "u", Password: "p@ss", Name: "shop", SSLMode: "require",
		MaxConnections: 7,
	}}

	dbc := DatabaseConfig(cfg)
	assert.Equal(t, "shop", dbc.Database)
	assert.Equal(t, int32(7), dbc.MaxConnections)
	assert.Equal(t, "postgres://u:p%40ss@db:5433/shop?sslmode=require", dbc.URL())
}
