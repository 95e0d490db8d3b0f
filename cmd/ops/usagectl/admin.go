package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"templeadmin/internal/catalog"
	"templeadmin/internal/db"
)

var errNoDatabase = errors.New("--database-url (or DATABASE_URL) is required")

func (a *cli) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Apply or inspect the catalog schema migrations",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{db.MigrateUp, db.MigrateDown, db.MigrateStatus, db.MigrateVersion},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := db.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}
			if a.databaseURL == "" {
				return errNoDatabase
			}
			if err := db.Migrate(cmd.Context(), a.databaseURL, command, a.logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: ok\n", command)
			return nil
		},
	}
}

func (a *cli) newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Dump or import the subscription catalog",
	}
	cmd.AddCommand(a.newCatalogDumpCmd(), a.newCatalogImportCmd())
	return cmd
}

func (a *cli) newCatalogDumpCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the current catalog as YAML",
		Long: `dump writes the catalog read from the global source flags. Without --out
it prints YAML to stdout; a path ending in .zst is zstd-compressed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" {
				return catalog.EncodeYAML(cmd.OutOrStdout(), c.Data())
			}
			if err := catalog.WriteFile(out, c.Data()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d tenants to %s\n", len(c.Tenants()), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output path (.yaml or .yaml.zst)")
	return cmd
}

func (a *cli) newCatalogImportCmd() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the database catalog with a YAML file or the seed data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.databaseURL == "" {
				return errNoDatabase
			}

			var src catalog.Source = catalog.SeedSource{}
			if from != "" {
				src = catalog.YAMLSource{Path: from}
			}
			c, err := src.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load %s catalog: %w", src.Name(), err)
			}

			return a.importCatalog(cmd, c)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "YAML file to import (default: built-in seed data)")
	return cmd
}

func (a *cli) importCatalog(cmd *cobra.Command, c *catalog.Catalog) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), dbTimeout)
	defer cancel()

	pool, err := db.NewPool(ctx, a.databaseConfig())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := db.ImportCatalog(cmd.Context(), pool, c.Data()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d plans and %d tenants\n", len(c.Plans()), len(c.Tenants()))
	return nil
}
