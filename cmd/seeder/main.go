// cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ammerola/storefront/internal/adapters/db"
	"github.com/ammerola/storefront/internal/adapters/storage"
	"github.com/ammerola/storefront/internal/app"
	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
	"github.com/ammerola/storefront/internal/pkg/config"
	"github.com/ammerola/storefront/internal/pkg/logger"
	"github.com/ammerola/storefront/internal/workers"
)

const demoStateKey = "demo-catalog"

// seedState records which sources were already loaded
type seedState struct {
	Processed      []string  `json:"processed"`
	ProcessedCount int       `json:"processed_count"`
	LastUpdate     time.Time `json:"last_update"`
}

func (s *seedState) has(source string) bool {
	for _, p := range s.Processed {
		if p == source {
			return true
		}
	}
	return false
}

func (s *seedState) mark(source string) {
	if s.has(source) {
		return
	}
	s.Processed = append(s.Processed, source)
	s.ProcessedCount = len(s.Processed)
	s.LastUpdate = time.Now()
}

func loadState(path string) *seedState {
	state := &seedState{}
	if data, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(data, state)
	}
	return state
}

func (s *seedState) save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// productLoader reads an import file into products
type productLoader interface {
	LoadProducts(ctx context.Context, path string, format domain.ImportFormat) ([]domain.Product, error)
}

// seeder loads the demo catalog and product files, skipping sources the
// state already lists unless forced
type seeder struct {
	inventory   ports.InventoryService
	departments ports.DepartmentService
	loader      productLoader
	state       *seedState
	force       bool
	out         io.Writer
	logger      *slog.Logger

	processed int
	imported  int
	skipped   int
	success   map[string]int
	failed    []string
}

func newSeeder(inventory ports.InventoryService, departments ports.DepartmentService, loader productLoader,
	state *seedState, force bool, out io.Writer, logger *slog.Logger) *seeder {
	return &seeder{
		inventory:   inventory,
		departments: departments,
		loader:      loader,
		state:       state,
		force:       force,
		out:         out,
		logger:      logger.With(slog.String("component", "seeder")),
		success:     map[string]int{},
	}
}

// seedDemo creates the demo departments and products
func (s *seeder) seedDemo(ctx context.Context) error {
	if !s.force && s.state.has(demoStateKey) {
		s.logger.InfoContext(ctx, "skipping already seeded demo catalog")
		return nil
	}

	for _, d := range app.DemoDepartments() {
		_, err := s.departments.CreateDepartment(ctx, d.DepartmentName, d.OverheadCosts)
		if errors.Is(err, domain.ErrAlreadyExists) {
			fmt.Fprintf(s.out, "SKIP: department %s already exists\n", d.DepartmentName)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create department %s: %w", d.DepartmentName, err)
		}
	}

	products := app.DemoProducts()
	for i := range products {
		products[i].ItemID = 0
	}
	return s.record(ctx, demoStateKey, products)
}

// importFiles loads each path, local or s3://
func (s *seeder) importFiles(ctx context.Context, paths []string) {
	for i, path := range paths {
		fmt.Fprintf(s.out, "PROGRESS: Processing %d/%d: %s\n", i+1, len(paths), path)

		if !s.force && s.state.has(path) {
			s.logger.InfoContext(ctx, "skipping already imported file", slog.String("path", path))
			continue
		}

		products, err := s.loader.LoadProducts(ctx, path, "")
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to read import file",
				slog.String("path", path),
				slog.String("error", err.Error()))
			fmt.Fprintf(s.out, "ERROR: Failed to read %s - %v\n", path, err)
			s.failed = append(s.failed, path)
			continue
		}

		if len(products) == 0 {
			s.logger.WarnContext(ctx, "no products found", slog.String("path", path))
			fmt.Fprintf(s.out, "WARNING: No products found in %s\n", path)
			s.failed = append(s.failed, fmt.Sprintf("%s (0 products)", path))
			continue
		}

		if err := s.record(ctx, path, products); err != nil {
			fmt.Fprintf(s.out, "ERROR: Failed to save %s - %v\n", path, err)
			s.failed = append(s.failed, path)
		}
	}
}

func (s *seeder) record(ctx context.Context, source string, products []domain.Product) error {
	result, err := s.inventory.ImportProducts(ctx, products)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save products",
			slog.String("source", source),
			slog.String("error", err.Error()))
		return err
	}

	for _, rowErr := range result.Errors {
		fmt.Fprintf(s.out, "SKIP: %s\n", rowErr)
	}
	fmt.Fprintf(s.out, "SUCCESS: Loaded %s - %d products\n", source, result.Imported)

	s.processed++
	s.imported += result.Imported
	s.skipped += result.Skipped
	s.success[source] = result.Imported
	s.state.mark(source)
	return nil
}

func (s *seeder) printSummary() {
	fmt.Fprintln(s.out, "\n"+strings.Repeat("=", 60))
	fmt.Fprintln(s.out, "SEEDING OPERATION SUMMARY")
	fmt.Fprintln(s.out, strings.Repeat("=", 60))
	fmt.Fprintf(s.out, "Sources Loaded: %d\n", s.processed)
	fmt.Fprintf(s.out, "Products Imported: %d\n", s.imported)
	fmt.Fprintf(s.out, "Rows Skipped: %d\n", s.skipped)

	if len(s.success) > 0 {
		sources := make([]string, 0, len(s.success))
		for src := range s.success {
			sources = append(sources, src)
		}
		sort.Strings(sources)
		fmt.Fprintf(s.out, "\nSuccessfully Loaded (%d):\n", len(sources))
		for _, src := range sources {
			fmt.Fprintf(s.out, "  - %s: %d products\n", src, s.success[src])
		}
	}

	if len(s.failed) > 0 {
		fmt.Fprintf(s.out, "\nFailed/Empty (%d):\n", len(s.failed))
		for _, src := range s.failed {
			fmt.Fprintf(s.out, "  - %s\n", src)
		}
	}
}

// importPaths lists the .xlsx and .pdf files of dir followed by extra
func importPaths(dir string, extra []string) ([]string, error) {
	var paths []string
	if dir != "" {
		if _, err := os.Stat(dir); err == nil {
			for _, pattern := range []string{"*.xlsx", "*.pdf"} {
				matches, err := filepath.Glob(filepath.Join(dir, pattern))
				if err != nil {
					return nil, err
				}
				paths = append(paths, matches...)
			}
			sort.Strings(paths)
		}
	}
	return append(paths, extra...), nil
}

func main() {
	var (
		migrateCmd = flag.String("migrate", "", "Run migrations before seeding: up, down or status")
		demo       = flag.Bool("demo", false, "Seed the demo departments and products")
		importsDir = flag.String("imports", "./imports", "Directory of .xlsx and .pdf product files")
		stateFile  = flag.String("state", "./.seed_state.json", "State file for tracking progress")
		dryRun     = flag.Bool("dry-run", false, "Load into an in-memory catalog instead of the database")
		force      = flag.Bool("force", false, "Reload sources the state file lists")
	)
	flag.Parse()

	if err := run(*migrateCmd, *demo, *importsDir, *stateFile, *dryRun, *force, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(migrateCmd string, demo bool, importsDir, stateFile string, dryRun, force bool, extra []string) error {
	ctx := logger.WithTool(context.Background(), config.ToolSeeder)

	a, err := app.New(ctx, app.Options{Tool: config.ToolSeeder, Demo: dryRun})
	if err != nil {
		return fmt.Errorf("failed to initialize seeder: %w", err)
	}
	defer a.Close()

	if migrateCmd != "" && !dryRun {
		if err := migrate(ctx, a, migrateCmd, os.Stdout); err != nil {
			return err
		}
		if migrateCmd != "up" {
			return nil
		}
	}

	paths, err := importPaths(importsDir, extra)
	if err != nil {
		return fmt.Errorf("failed to find import files: %w", err)
	}

	var objects ports.ObjectStore
	for _, p := range paths {
		if strings.HasPrefix(p, storage.URIScheme) {
			if objects, err = app.NewObjectStore(ctx, a.Config, a.Logger); err != nil {
				return fmt.Errorf("failed to connect object storage: %w", err)
			}
			break
		}
	}
	loader := workers.NewImportProcessor(a.Inventory, objects, nil, a.Config.FileProcessing, a.Logger)

	state := &seedState{}
	if !force {
		state = loadState(stateFile)
	}

	s := newSeeder(a.Inventory, a.Departments, loader, state, force, os.Stdout, a.Logger)
	if demo {
		if err := s.seedDemo(ctx); err != nil {
			return err
		}
	}
	s.importFiles(ctx, paths)

	if !dryRun {
		if err := state.save(stateFile); err != nil {
			a.Logger.ErrorContext(ctx, "failed to save seed state", slog.String("error", err.Error()))
		}
	}

	s.printSummary()

	a.Logger.InfoContext(ctx, "seed operation completed",
		slog.Int("sources_loaded", s.processed),
		slog.Int("products_imported", s.imported),
		slog.Int("failed_sources", len(s.failed)))

	if dryRun {
		fmt.Println("\n[DRY RUN] No changes were made to the database")
	}
	return nil
}

func migrate(ctx context.Context, a *app.App, cmd string, out io.Writer) error {
	cfg := &db.MigrationConfig{DatabaseURL: app.DatabaseConfig(a.Config).URL()}

	if cmd == "up" {
		return db.RunMigrationsWithRetry(ctx, cfg, a.Logger, 3)
	}

	migrator, err := db.NewMigrator(cfg, a.Logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	switch cmd {
	case "down":
		return migrator.Down(ctx)
	case "status":
		status, err := migrator.Status(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Current version: %d (dirty: %t)\n", status.CurrentVersion, status.IsDirty)
		for _, m := range status.Applied {
			fmt.Fprintf(out, "  - %d dirty=%t\n", m.Version, m.Dirty)
		}
		return nil
	default:
		return fmt.Errorf("unknown migrate command %q", cmd)
	}
}
