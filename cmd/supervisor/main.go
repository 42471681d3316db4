// cmd/supervisor/main.go
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
	var (
		demo = flag.Bool("demo", false, "Use the built-in demo catalog instead of Postgres")
		user = flag.String("user", defaultUser(), "Name recorded on exported sales reports")
	)
	flag.Parse()

	if err := run(*demo, *user); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(demo bool, user string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithTool(ctx, config.ToolSupervisor)

	a, err := app.New(ctx, app.Options{Tool: config.ToolSupervisor, Demo: demo})
	if err != nil {
		return fmt.Errorf("failed to start manager functions: %w", err)
	}
	defer a.Close()

	a.Logger.InfoContext(ctx, "supervisor session started",
		slog.String("version", app.Version),
		slog.String("user", user),
		slog.Bool("demo", demo))

	return cli.NewSupervisor(a.Departments, user, os.Stdin, os.Stdout, a.Logger).Run(ctx)
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "supervisor"
}
