// Package main implements usagectl, the operator CLI for the temple-trust
// console. It reads the same catalog sources as the API (built-in seed, a
// YAML file, or PostgreSQL) and prints plans, usage summaries and
// enforcement decisions, exports the usage report, and manages the schema.
//
// Usage:
//
//	usagectl summaries --status over-limit
//	usagectl check TEN-003 bookings
//	usagectl --catalog-file catalog.yaml export --out report.xlsx
//	usagectl --database-url "$DATABASE_URL" migrate up
//	usagectl --database-url "$DATABASE_URL" catalog import --from catalog.yaml
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"templeadmin/internal/catalog"
	"templeadmin/internal/config"
	"templeadmin/internal/db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// cli holds global flags and the state derived from them in
// PersistentPreRunE.
type cli struct {
	catalogFile  string
	databaseURL  string
	outputFormat string
	verbose      bool

	logger  *slog.Logger
	printer *printer
}

// newRootCmd builds a fresh command tree so tests never share flag state.
func newRootCmd() *cobra.Command {
	app := &cli{}

	root := &cobra.Command{
		Use:   "usagectl",
		Short: "Inspect tenant usage, plans and enforcement for the temple console",
		Long: `usagectl reads the subscription catalog from the built-in seed data,
a YAML file (--catalog-file, optionally .zst compressed) or PostgreSQL
(--database-url) and reports usage against plan ceilings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch app.outputFormat {
			case formatTable, formatJSON, formatYAML:
			default:
				return fmt.Errorf("unsupported output format %q (want table, json or yaml)", app.outputFormat)
			}

			level := slog.LevelWarn
			if app.verbose {
				level = slog.LevelDebug
			}
			app.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			app.printer = newPrinter(cmd.OutOrStdout(), app.outputFormat)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.catalogFile, "catalog-file", "", "read the catalog from a YAML file (.yaml or .yaml.zst)")
	flags.StringVar(&app.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	flags.StringVarP(&app.outputFormat, "output", "o", formatTable, "output format: table, json, yaml")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		app.newPlansCmd(),
		app.newSummariesCmd(),
		app.newSummaryCmd(),
		app.newCheckCmd(),
		app.newExportCmd(),
		app.newMigrateCmd(),
		app.newCatalogCmd(),
		newVersionCmd(),
	)
	return root
}

// dbTimeout bounds pool creation for one-shot commands.
const dbTimeout = 10 * time.Second

func (a *cli) databaseConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		URL:            config.SecretString(a.databaseURL),
		MaxConns:       4,
		AcquireTimeout: dbTimeout,
	}
}

// source picks the catalog source from the global flags: an explicit file
// wins over the database, and the seed data is the fallback.
func (a *cli) source(ctx context.Context) (catalog.Source, func(), error) {
	switch {
	case a.catalogFile != "":
		return catalog.YAMLSource{Path: a.catalogFile}, func() {}, nil
	case a.databaseURL != "":
		pool, err := db.NewPool(ctx, a.databaseConfig())
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		return db.NewCatalogRepo(pool, a.logger), pool.Close, nil
	default:
		return catalog.SeedSource{}, func() {}, nil
	}
}

func (a *cli) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	src, closeFn, err := a.source(ctx)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	c, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s catalog: %w", src.Name(), err)
	}
	a.logger.Debug("catalog loaded", "source", c.Source(), "tenants", len(c.Tenants()))
	return c, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			b := config.NewBuildInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "usagectl version %s (commit %s, built %s)\n", b.Version, b.Commit, b.BuildTime)
		},
	}
}
