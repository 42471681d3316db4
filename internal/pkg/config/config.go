// internal/pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Tool names, used as the default App.Name
const (
	ToolCustomer   = "storefront-customer"
	ToolManager    = "storefront-manager"
	ToolSupervisor = "storefront-supervisor"
	ToolWorker     = "storefront-worker"
	ToolSeeder     = "storefront-seeder"
)

// Config holds all application configuration
type Config struct {
	App            AppConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	Asynq          AsynqConfig
	AWS            AWSConfig
	Store          StoreConfig
	Notifications  NotificationsConfig
	FileProcessing FileProcessingConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `required:"true"`
	Environment string // development, staging, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text, pretty
	LogOutput   string // stdout, stderr, file:<path>
	Debug       bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host               string `required:"true"`
	Port               string `required:"true"`
	User               string `required:"true"`
	Password           string
	Name               string `required:"true"`
	SSLMode            string
	MaxConnections     int32
	MinConnections     int32
	MaxConnLifetime    time.Duration
	MaxConnIdleTime    time.Duration
	HealthCheckPeriod  time.Duration
	ConnectTimeout     time.Duration
	EnableQueryLogging bool
}

// RedisConfig holds cache configuration
type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	TTL          time.Duration
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// AsynqConfig holds task queue configuration
type AsynqConfig struct {
	Enabled         bool
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	Concurrency     int
	Queues          map[string]int // queue name -> priority
	StrictPriority  bool
	RetryMax        int
	ShutdownTimeout time.Duration
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string // for MinIO in development
	UsePathStyle    bool
	SecretsProvider string // env, aws
	SecretName      string
}

// StoreConfig holds storefront behavior settings
type StoreConfig struct {
	LowStockThreshold    int
	ConditionalDecrement bool
	ReportCacheTTL       time.Duration
	ReportPrefix         string
}

// NotificationsConfig holds low-stock alert delivery settings
type NotificationsConfig struct {
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	From          string
	Recipients    []string
	RatePerSecond float64
	Burst         int
}

// FileProcessingConfig holds import file settings
type FileProcessingConfig struct {
	PDFMaxSizeMB      int
	ExcelMaxSizeMB    int
	ProcessingTimeout time.Duration
}

// Load reads configuration for the named tool from an optional
// storefront.yaml, the environment and, in development, a .env file
func Load(logger *slog.Logger, tool string) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Debug("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		}
	}

	v := newViper(tool, env)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := fromViper(v, env)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// newViper builds a viper instance with defaults and env bindings. Keys use
// dots; environment variables use the upper-cased key with underscores, so
// db.host is DB_HOST.
func newViper(tool, env string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("storefront")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/storefront")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	interactive := tool != ToolWorker

	v.SetDefault("app.name", tool)
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.debug", env == "development")
	v.SetDefault("log.format", "text")
	if interactive {
		// prompts own stdout
		v.SetDefault("log.level", "warn")
		v.SetDefault("log.output", "stderr")
	} else {
		v.SetDefault("log.level", "info")
		v.SetDefault("log.output", "stdout")
	}

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "storefront")
	v.SetDefault("db.password", "storefront_dev")
	v.SetDefault("db.name", "storefront")
	v.SetDefault("db.ssl_mode", "disable")
	v.SetDefault("db.max_connections", 10)
	v.SetDefault("db.min_connections", 1)
	v.SetDefault("db.connection_lifetime", time.Hour)
	v.SetDefault("db.idle_time", 30*time.Minute)
	v.SetDefault("db.health_check_period", time.Minute)
	v.SetDefault("db.connect_timeout", 10*time.Second)
	v.SetDefault("db.query_logging", false)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.ttl", 5*time.Minute)

	v.SetDefault("asynq.enabled", true)
	v.SetDefault("asynq.redis_db", 1)
	v.SetDefault("asynq.concurrency", 5)
	v.SetDefault("asynq.queues", "critical:6,default:3,low:1")
	v.SetDefault("asynq.strict_priority", false)
	v.SetDefault("asynq.retry_max", 3)
	v.SetDefault("asynq.shutdown_timeout", 30*time.Second)

	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.access_key_id", "")
	v.SetDefault("aws.secret_access_key", "")
	v.SetDefault("aws.s3_bucket", "storefront-reports")
	v.SetDefault("aws.s3_endpoint", "")
	v.SetDefault("aws.s3_path_style", env == "development")
	v.SetDefault("secrets.provider", "env")
	v.SetDefault("secrets.name", "storefront/"+env)

	v.SetDefault("store.low_stock_threshold", 5)
	v.SetDefault("order.conditional_decrement", false)
	v.SetDefault("store.report_cache_ttl", 5*time.Minute)
	v.SetDefault("store.report_prefix", "reports/department-sales")

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "storefront@localhost")
	v.SetDefault("notify.recipients", "")
	v.SetDefault("notify.rate", 1.0)
	v.SetDefault("notify.burst", 3)

	v.SetDefault("pdf.max_size_mb", 50)
	v.SetDefault("excel.max_size_mb", 100)
	v.SetDefault("processing.timeout", 5*time.Minute)

	return v
}

func fromViper(v *viper.Viper, env string) *Config {
	redisHost := v.GetString("redis.host")
	redisPort := v.GetString("redis.port")

	return &Config{
		App: AppConfig{
			Name:        v.GetString("app.name"),
			Environment: env,
			Version:     v.GetString("app.version"),
			LogLevel:    v.GetString("log.level"),
			LogFormat:   v.GetString("log.format"),
			LogOutput:   v.GetString("log.output"),
			Debug:       v.GetBool("app.debug"),
		},
		Database: DatabaseConfig{
			Host:               v.GetString("db.host"),
			Port:               v.GetString("db.port"),
			User:               v.GetString("db.user"),
			Password:           v.GetString("db.password"),
			Name:               v.GetString("db.name"),
			SSLMode:            v.GetString("db.ssl_mode"),
			MaxConnections:     v.GetInt32("db.max_connections"),
			MinConnections:     v.GetInt32("db.min_connections"),
			MaxConnLifetime:    v.GetDuration("db.connection_lifetime"),
			MaxConnIdleTime:    v.GetDuration("db.idle_time"),
			HealthCheckPeriod:  v.GetDuration("db.health_check_period"),
			ConnectTimeout:     v.GetDuration("db.connect_timeout"),
			EnableQueryLogging: v.GetBool("db.query_logging"),
		},
		Redis: RedisConfig{
			Enabled:      v.GetBool("redis.enabled"),
			Host:         redisHost,
			Port:         redisPort,
			Password:     v.GetString("redis.password"),
			DB:           v.GetInt("redis.db"),
			PoolSize:     v.GetInt("redis.pool_size"),
			DialTimeout:  v.GetDuration("redis.dial_timeout"),
			ReadTimeout:  v.GetDuration("redis.read_timeout"),
			WriteTimeout: v.GetDuration("redis.write_timeout"),
			TTL:          v.GetDuration("redis.ttl"),
		},
		Asynq: AsynqConfig{
			Enabled:         v.GetBool("asynq.enabled"),
			RedisAddr:       fmt.Sprintf("%s:%s", redisHost, redisPort),
			RedisPassword:   v.GetString("redis.password"),
			RedisDB:         v.GetInt("asynq.redis_db"),
			Concurrency:     v.GetInt("asynq.concurrency"),
			Queues:          parseQueues(v.GetString("asynq.queues")),
			StrictPriority:  v.GetBool("asynq.strict_priority"),
			RetryMax:        v.GetInt("asynq.retry_max"),
			ShutdownTimeout: v.GetDuration("asynq.shutdown_timeout"),
		},
		AWS: AWSConfig{
			Region:          v.GetString("aws.region"),
			AccessKeyID:     v.GetString("aws.access_key_id"),
			SecretAccessKey: v.GetString("aws.secret_access_key"),
			S3Bucket:        v.GetString("aws.s3_bucket"),
			S3Endpoint:      v.GetString("aws.s3_endpoint"),
			UsePathStyle:    v.GetBool("aws.s3_path_style"),
			SecretsProvider: v.GetString("secrets.provider"),
			SecretName:      v.GetString("secrets.name"),
		},
		Store: StoreConfig{
			LowStockThreshold:    v.GetInt("store.low_stock_threshold"),
			ConditionalDecrement: v.GetBool("order.conditional_decrement"),
			ReportCacheTTL:       v.GetDuration("store.report_cache_ttl"),
			ReportPrefix:         v.GetString("store.report_prefix"),
		},
		Notifications: NotificationsConfig{
			SMTPHost:      v.GetString("smtp.host"),
			SMTPPort:      v.GetInt("smtp.port"),
			SMTPUser:      v.GetString("smtp.user"),
			SMTPPassword:  v.GetString("smtp.password"),
			From:          v.GetString("smtp.from"),
			Recipients:    splitList(v.GetString("notify.recipients")),
			RatePerSecond: v.GetFloat64("notify.rate"),
			Burst:         v.GetInt("notify.burst"),
		},
		FileProcessing: FileProcessingConfig{
			PDFMaxSizeMB:      v.GetInt("pdf.max_size_mb"),
			ExcelMaxSizeMB:    v.GetInt("excel.max_size_mb"),
			ProcessingTimeout: v.GetDuration("processing.timeout"),
		},
	}
}

// Validate runs the basic validator and, in production, the strict one
func (c *Config) Validate() error {
	validators := []Validator{&BasicValidator{}}
	if c.IsProduction() {
		validators = append(validators, &ProductionValidator{})
	}

	for _, v := range validators {
		if err := v.Validate(c); err != nil {
			return err
		}
	}
	return nil
}

// GetDatabaseURL returns the formatted database connection string
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseQueues(queuesStr string) map[string]int {
	queues := make(map[string]int)
	for _, pair := range strings.Split(queuesStr, ",") {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			name := strings.TrimSpace(parts[0])
			priority, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err == nil {
				queues[name] = priority
			}
		}
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}
