// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/storefront/internal/adapters/queue"
	"github.com/ammerola/storefront/internal/app"
	"github.com/ammerola/storefront/internal/core/ports"
	"github.com/ammerola/storefront/internal/pkg/config"
	"github.com/ammerola/storefront/internal/pkg/logger"
	"github.com/ammerola/storefront/internal/workers"
)

func main() {
	ctx := logger.WithTool(context.Background(), config.ToolWorker)

	a, err := app.New(ctx, app.Options{Tool: config.ToolWorker})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize worker: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	cfg := a.Config
	slogger := a.Logger
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("version", app.Version),
		slog.String("build_time", app.BuildTime),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	objects, err := app.NewObjectStore(ctx, cfg, slogger)
	if err != nil {
		slogger.Warn("object storage unavailable, report export and s3 imports disabled",
			slog.String("bucket", cfg.AWS.S3Bucket),
			slog.String("error", err.Error()))
	}

	var mailer workers.Mailer
	if cfg.Notifications.SMTPHost != "" {
		mailer = workers.NewSMTPMailer(cfg.Notifications)
	}

	srv := asynq.NewServer(
		app.AsynqRedisOpt(cfg),
		asynq.Config{
			Concurrency:     cfg.Asynq.Concurrency,
			Queues:          cfg.Asynq.Queues,
			StrictPriority:  cfg.Asynq.StrictPriority,
			ErrorHandler:    asynq.ErrorHandlerFunc(handleError),
			RetryDelayFunc:  exponentialBackoff,
			ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
			HealthCheckFunc: healthCheck,
			Logger:          newAsynqLogger(slogger),
		},
	)

	mux := newMux(a, objects, mailer)

	// Handle shutdown gracefully
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(mux); err != nil {
			slogger.Error("failed to run worker server", slog.String("error", err.Error()))
			shutdown <- syscall.SIGTERM
		}
	}()

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues),
		slog.Bool("object_storage", objects != nil),
		slog.Bool("mail", mailer != nil))

	sig := <-shutdown
	slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

	srv.Shutdown()
	slogger.Info("worker shutdown complete")
}

// newMux registers one handler per storefront task type
func newMux(a *app.App, objects ports.ObjectStore, mailer workers.Mailer) *asynq.ServeMux {
	cfg := a.Config
	mux := asynq.NewServeMux()
	mux.Use(taskContext)

	notifications := workers.NewNotificationProcessor(mailer, cfg.Notifications, a.Logger)
	mux.HandleFunc(queue.TypeLowStockAlert, notifications.SendLowStockAlert)

	reports := workers.NewReportProcessor(a.DepartmentRepo, objects, a.Cache, cfg.Store.ReportPrefix, a.Logger)
	mux.HandleFunc(queue.TypeSalesReport, reports.GenerateSalesReport)

	imports := workers.NewImportProcessor(a.Inventory, objects, a.Cache, cfg.FileProcessing, a.Logger)
	mux.HandleFunc(queue.TypeProductImport, imports.ProcessImport)

	return mux
}

// taskContext tags every task's context with its id and type
func taskContext(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		id, _ := asynq.GetTaskID(ctx)
		ctx = logger.WithTool(logger.WithJob(ctx, id, t.Type()), config.ToolWorker)
		return next.ProcessTask(ctx, t)
	})
}

func handleError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	slog.ErrorContext(ctx, "task processing failed",
		slog.String("type", task.Type()),
		slog.Int("retry", retried),
		slog.Int("max_retry", maxRetry),
		slog.String("payload", string(task.Payload())),
		slog.String("error", err.Error()))
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(n))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func healthCheck(err error) {
	if err != nil {
		slog.Error("worker health check failed", slog.String("error", err.Error()))
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
