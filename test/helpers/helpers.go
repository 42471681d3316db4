// test/helpers/helpers.go
package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/storefront/internal/adapters/db"
	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/pkg/config"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	level := slog.LevelError
	if testing.Verbose() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// SetupTestDB starts a PostgreSQL container and applies the embedded migrations
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_storefront",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_storefront",
		SSLMode:            "disable",
		MaxConnections:     10,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    time.Minute * 30,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     time.Second * 10,
		EnableQueryLogging: testing.Verbose(),
	}

	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")
	t.Cleanup(database.Close)

	err = db.RunMigrationsWithRetry(context.Background(),
		&db.MigrationConfig{DatabaseURL: dbConfig.URL()}, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates an in-process Redis for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// SetupMockDB creates a mock database for unit testing
func SetupMockDB(t *testing.T) (sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create mock DB")

	t.Cleanup(func() {
		db.Close()
	})

	return mock, db
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "storefront-test",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			LogOutput:   "stderr",
			Debug:       true,
		},
		Database: config.DatabaseConfig{
			Host:           "localhost",
			Port:           "5432",
			User:           "test",
			Password:       "test",
			Name:           "test_storefront",
			SSLMode:        "disable",
			MaxConnections: 10,
			MinConnections: 1,
		},
		Redis: config.RedisConfig{
			Enabled:  true,
			Host:     "localhost",
			Port:     "6379",
			TTL:      time.Minute,
			PoolSize: 10,
		},
		Asynq: config.AsynqConfig{
			Enabled:     true,
			RedisAddr:   "localhost:6379",
			Concurrency: 2,
			Queues:      map[string]int{"critical": 6, "default": 3, "low": 1},
			RetryMax:    1,
		},
		AWS: config.AWSConfig{
			Region:          "us-east-1",
			S3Bucket:        "storefront-test",
			SecretsProvider: "env",
		},
		Store: config.StoreConfig{
			LowStockThreshold: domain.DefaultLowStockThreshold,
			ReportCacheTTL:    time.Minute,
			ReportPrefix:      "reports/department-sales",
		},
		Notifications: config.NotificationsConfig{
			From:          "storefront@localhost",
			Recipients:    []string{"ops@example.com"},
			RatePerSecond: 100,
			Burst:         10,
		},
		FileProcessing: config.FileProcessingConfig{
			PDFMaxSizeMB:      50,
			ExcelMaxSizeMB:    100,
			ProcessingTimeout: time.Minute,
		},
	}
}

// CreateTestProduct creates a valid product; overrides are applied in order
func CreateTestProduct(overrides ...func(*domain.Product)) *domain.Product {
	p := &domain.Product{
		ItemID:         1,
		ProductName:    "Wireless Headphones",
		DepartmentName: "Electronics",
		Price:          decimal.RequireFromString("5.00"),
		StockQuantity:  10,
		ProductSales:   decimal.Zero,
	}

	for _, override := range overrides {
		override(p)
	}

	return p
}

// CreateTestProducts creates count unsaved products with distinct names
func CreateTestProducts(count int) []domain.Product {
	departments := []string{"Electronics", "Home", "Garden"}

	products := make([]domain.Product, count)
	for i := 0; i < count; i++ {
		products[i] = *CreateTestProduct(func(p *domain.Product) {
			p.ItemID = 0
			p.ProductName = fmt.Sprintf("Test Product %d", i+1)
			p.DepartmentName = departments[i%len(departments)]
			p.Price = decimal.NewFromInt(int64(10 + i%20)).Add(decimal.RequireFromString("0.99"))
			p.StockQuantity = 1 + i%50
		})
	}

	return products
}

// CreateTestDepartment creates a valid department
func CreateTestDepartment(overrides ...func(*domain.Department)) *domain.Department {
	d := &domain.Department{
		DepartmentName: "Electronics",
		OverheadCosts:  decimal.RequireFromString("150.00"),
		TotalSales:     decimal.Zero,
	}

	for _, override := range overrides {
		override(d)
	}

	return d
}

// TruncateAllTables empties the storefront tables and resets their sequences
func TruncateAllTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"TRUNCATE TABLE products, departments RESTART IDENTITY CASCADE")
	require.NoError(t, err, "Failed to truncate tables")
}

// ScenarioDepartments returns the reference departments: Electronics with
// 100.00 of sales and an empty Home
func ScenarioDepartments() []domain.Department {
	return []domain.Department{
		*CreateTestDepartment(func(d *domain.Department) {
			d.DepartmentID = 1
			d.TotalSales = decimal.RequireFromString("100.00")
		}),
		*CreateTestDepartment(func(d *domain.Department) {
			d.DepartmentID = 2
			d.DepartmentName = "Home"
			d.OverheadCosts = decimal.RequireFromString("80.00")
		}),
	}
}

// ScenarioProducts returns the reference catalog. Item 3 is sold out and
// item 4 names a department with no row.
func ScenarioProducts() []domain.Product {
	return []domain.Product{
		*CreateTestProduct(func(p *domain.Product) { p.ProductName = "Headphones" }),
		*CreateTestProduct(func(p *domain.Product) {
			p.ItemID = 2
			p.ProductName = "Desk Lamp"
			p.DepartmentName = "Home"
			p.Price = decimal.RequireFromString("20.00")
			p.StockQuantity = 2
		}),
		*CreateTestProduct(func(p *domain.Product) {
			p.ItemID = 3
			p.ProductName = "Throw Pillow"
			p.DepartmentName = "Home"
			p.Price = decimal.RequireFromString("12.50")
			p.StockQuantity = 0
		}),
		*CreateTestProduct(func(p *domain.Product) {
			p.ItemID = 4
			p.ProductName = "Kite"
			p.DepartmentName = "Toys"
			p.Price = decimal.RequireFromString("9.99")
			p.StockQuantity = 6
		}),
	}
}

// SeedScenario loads the reference catalog into Postgres
func SeedScenario(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	for _, d := range ScenarioDepartments() {
		_, err := pool.Exec(ctx,
			`INSERT INTO departments (department_name, overhead_costs, total_sales) VALUES ($1, $2, $3)`,
			d.DepartmentName, d.OverheadCosts, d.TotalSales)
		require.NoError(t, err, "Failed to seed department %s", d.DepartmentName)
	}

	for _, p := range ScenarioProducts() {
		_, err := pool.Exec(ctx,
			`INSERT INTO products (product_name, department_name, price, stock_quantity, product_sales)
			 VALUES ($1, $2, $3, $4, $5)`,
			p.ProductName, p.DepartmentName, p.Price, p.StockQuantity, p.ProductSales)
		require.NoError(t, err, "Failed to seed product %s", p.ProductName)
	}
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}

// CreateTempFile creates a temporary file for testing
func CreateTempFile(t *testing.T, content []byte, extension string) string {
	t.Helper()

	file, err := os.CreateTemp(t.TempDir(), fmt.Sprintf("test-*%s", extension))
	require.NoError(t, err, "Failed to create temp file")

	_, err = file.Write(content)
	require.NoError(t, err, "Failed to write to temp file")

	require.NoError(t, file.Close())

	return file.Name()
}
