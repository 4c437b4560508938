package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-panel/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr      string
		genesPath string
		opts      renderOptions
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve basic info panels over HTTP",
		Long: `Serve basic info panels over HTTP.

Routes:
  GET /variant/{variant}      HTML panel (?transcript=, ?igv=true, ?transcripts=open)
  GET /api/panel/{variant}    panel layout as JSON
  GET /annotation/{variant}   annotation JSON behind the panel's JSON link
  GET /health                 health check`,
		Example: `  vibe-panel serve
  vibe-panel serve --addr 127.0.0.1:9000 --db`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			genes, err := a.loadGenes(genesPath)
			if err != nil {
				return err
			}
			source, closeSource, err := a.openSource(opts, nil)
			if err != nil {
				return err
			}
			defer closeSource()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			srv := server.New(server.Config{
				Addr:         addr,
				Genes:        genes,
				OncoKBURL:    a.cfg.OncoKB.URL,
				QueryFields:  a.cfg.Annotation.Fields,
				ReadTimeout:  a.cfg.Server.ReadTimeout,
				WriteTimeout: a.cfg.Server.WriteTimeout,
			}, source, a.logger)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			a.logger.Info("serving panels", zap.String("addr", addr), zap.Bool("db", opts.useDB))
			return srv.Run(ctx)
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", "", "Listen address (default: server.addr)")
	f.StringVar(&genesPath, "genes", "", "OncoKB cancer gene list, TSV or JSON (default: oncokb.genes)")
	f.BoolVar(&opts.useDB, "db", false, "Serve annotations from the local database")
	f.StringVar(&opts.dbPath, "db-path", "", "Local database path (default: db.path)")
	return cmd
}
