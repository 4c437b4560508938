package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-panel/internal/duckdb"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		dbPath     string
		force      bool
		clearFirst bool
	)
	cmd := &cobra.Command{
		Use:   "import <file.json>...",
		Short: "Import annotation JSON into the local database",
		Long: `Import Genome Nexus annotation JSON files into the local DuckDB database so
panels can be rendered offline with --db. A file may hold one annotation or an
array of them. Files that did not change since their last import are skipped.`,
		Example: `  vibe-panel import braf.json
  vibe-panel import --db-path panel.duckdb batch1.json batch2.json`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageErrorf("at least one annotation file required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = a.cfg.DB.Path
			}
			store, err := duckdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			store.SetLogger(a.logger)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if clearFirst {
				if err := store.Clear(ctx); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			total := 0
			for _, path := range args {
				n, skipped, err := store.ImportFile(ctx, path, force)
				if err != nil {
					return err
				}
				if skipped {
					fmt.Fprintf(out, "  %s unchanged, skipping\n", path)
					continue
				}
				a.logger.Debug("imported annotations", zap.String("path", path), zap.Int("variants", n))
				fmt.Fprintf(out, "  %s: %d variants\n", path, n)
				total += n
			}

			count, err := store.CountSummaries(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported %d variants into %s (%d total)\n", total, dbPath, count)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&dbPath, "db-path", "", "Local database path (default: db.path)")
	f.BoolVar(&force, "force", false, "Import files even if unchanged")
	f.BoolVar(&clearFirst, "clear", false, "Remove all stored annotations first")
	return cmd
}
