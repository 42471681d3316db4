// cmd/manager/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ammerola/storefront/internal/app"
	"github.com/ammerola/storefront/internal/cli"
	"github.com/ammerola/storefront/internal/pkg/config"
	"github.com/ammerola/storefront/internal/pkg/logger"
)

func main() {
	demo := flag.Bool("demo", false, "Use the built-in demo catalog instead of Postgres")
	flag.Parse()

	if err := run(*demo); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(demo bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithTool(ctx, config.ToolManager)

	a, err := app.New(ctx, app.Options{Tool: config.ToolManager, Demo: demo})
	if err != nil {
		return fmt.Errorf("failed to start storefront workplace: %w", err)
	}
	defer a.Close()

	a.Logger.InfoContext(ctx, "manager session started",
		slog.String("version", app.Version),
		slog.Bool("demo", demo))

	return cli.NewManager(a.Inventory, os.Stdin, os.Stdout, a.Logger).Run(ctx)
}
