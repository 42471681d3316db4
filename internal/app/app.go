// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/storefront/internal/adapters/db"
	"github.com/ammerola/storefront/internal/adapters/memstore"
	"github.com/ammerola/storefront/internal/adapters/queue"
	redis_a "github.com/ammerola/storefront/internal/adapters/redis_adapter"
	"github.com/ammerola/storefront/internal/adapters/storage"
	"github.com/ammerola/storefront/internal/core/ports"
	"github.com/ammerola/storefront/internal/core/services"
	"github.com/ammerola/storefront/internal/pkg/config"
	"github.com/ammerola/storefront/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Options selects what New wires
type Options struct {
	Tool string
	// Demo runs against an in-process catalog seeded with the demo rows
	// instead of Postgres, without cache or task queue.
	Demo bool
}

// App holds the wired dependencies of one storefront process
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Ledger         ports.StockLedger
	Revenue        ports.RevenueAccumulator
	Products       ports.ProductRepository
	DepartmentRepo ports.DepartmentRepository
	Cache          ports.CacheRepository
	Publisher      ports.TaskPublisher

	Orders      *services.OrderService
	Inventory   *services.InventoryService
	Departments *services.DepartmentService

	Database    *db.Database
	RedisClient *redis.Client

	log         *logger.Logger
	asynqClient *asynq.Client
}

// New loads configuration and wires repositories and services for the tool.
// Redis and asynq are optional: when either cannot be reached the app runs
// without a cache or background tasks.
func New(ctx context.Context, opts Options) (*App, error) {
	boot := logger.SetupLogger(&logger.LogConfig{Level: "warn", Format: "text", Output: "stderr"})

	cfg, err := config.Load(boot.Logger, opts.Tool)
	if err != nil {
		return nil, err
	}

	if !opts.Demo {
		sm, err := config.NewSecretsManager(ctx, cfg, boot.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize secrets manager: %w", err)
		}
		if err := config.ApplySecrets(ctx, cfg, sm); err != nil {
			return nil, err
		}
	}

	log := logger.SetupLogger(&logger.LogConfig{
		Level:          cfg.App.LogLevel,
		Format:         cfg.App.LogFormat,
		Output:         cfg.App.LogOutput,
		AddSource:      cfg.App.Debug,
		Environment:    cfg.App.Environment,
		ServiceName:    cfg.App.Name,
		ServiceVersion: Version,
	})

	a := &App{Config: cfg, Logger: log.Logger, log: log}

	if opts.Demo {
		a.wireDemo()
	} else if err := a.wireStores(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.Orders = services.NewOrderService(
		a.Ledger, a.Revenue, a.Products, a.Publisher, a.Cache,
		services.OrderOptions{
			ConditionalDecrement: cfg.Store.ConditionalDecrement,
			LowStockThreshold:    cfg.Store.LowStockThreshold,
		},
		a.Logger,
	)
	a.Inventory = services.NewInventoryService(a.Products, a.Ledger, a.Publisher, cfg.Store.LowStockThreshold, a.Logger)
	a.Departments = services.NewDepartmentService(a.DepartmentRepo, a.Cache, a.Publisher, cfg.Store.ReportCacheTTL, a.Logger)

	a.Logger.DebugContext(ctx, "storefront initialized",
		slog.String("tool", opts.Tool),
		slog.Bool("demo", opts.Demo),
		slog.Bool("cache", a.Cache != nil),
		slog.Bool("tasks", a.Publisher != nil))

	return a, nil
}

func (a *App) wireDemo() {
	store := memstore.New()
	store.Seed(DemoProducts(), DemoDepartments())

	a.Ledger = store
	a.Revenue = store
	a.Products = store
	a.DepartmentRepo = store.Departments()
}

func (a *App) wireStores(ctx context.Context) error {
	cfg := a.Config

	a.Logger.InfoContext(ctx, "connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name))

	database, err := db.NewDatabase(ctx, DatabaseConfig(cfg), a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.Database = database

	a.Ledger = db.NewStockLedger(database, a.Logger)
	a.Revenue = db.NewRevenueAccumulator(database, a.Logger)
	a.Products = db.NewProductRepository(database, a.Logger)
	a.DepartmentRepo = db.NewDepartmentRepository(database, a.Logger)

	if cfg.Redis.Enabled {
		a.connectCache(ctx)
	}
	if cfg.Asynq.Enabled {
		a.connectQueue(ctx)
	}
	return nil
}

func (a *App) connectCache(ctx context.Context) {
	cfg := a.Config.Redis

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		a.Logger.WarnContext(ctx, "redis unavailable, running without cache",
			slog.String("addr", cfg.Addr()),
			slog.String("error", err.Error()))
		client.Close()
		return
	}

	a.RedisClient = client
	a.Cache = redis_a.NewCache(client, cfg.TTL, a.Logger)
}

func (a *App) connectQueue(ctx context.Context) {
	opt := AsynqRedisOpt(a.Config)

	// asynq.Client connects lazily; ping through a short-lived inspector
	inspector := asynq.NewInspector(opt)
	_, err := inspector.Queues()
	inspector.Close()
	if err != nil {
		a.Logger.WarnContext(ctx, "task queue unavailable, background jobs disabled",
			slog.String("addr", opt.Addr),
			slog.String("error", err.Error()))
		return
	}

	a.asynqClient = asynq.NewClient(opt)
	a.Publisher = queue.NewPublisher(a.asynqClient, a.Logger)
}

// Close releases connections in reverse order of creation
func (a *App) Close() {
	if a.asynqClient != nil {
		if err := a.asynqClient.Close(); err != nil {
			a.Logger.Error("failed to close task queue client", slog.String("error", err.Error()))
		}
	}
	if a.RedisClient != nil {
		a.RedisClient.Close()
	}
	if a.Database != nil {
		a.Database.Close()
	}
	a.log.Close()
}

// DatabaseConfig maps the database section onto the pool settings
func DatabaseConfig(cfg *config.Config) *db.Config {
	return &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}
}

// AsynqRedisOpt returns the connection options of the task queue
func AsynqRedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
}

// NewObjectStore connects the report and import bucket. It returns nil
// without error when no bucket is configured.
func NewObjectStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (ports.ObjectStore, error) {
	if cfg.AWS.S3Bucket == "" {
		return nil, nil
	}
	s3, err := storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, log)
	if err != nil {
		return nil, err
	}
	return s3, nil
}
