// Package main provides the vibe-panel command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-panel/internal/config"
	"github.com/inodb/vibe-panel/internal/datasource/oncokb"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// usageError marks errors caused by bad arguments.
type usageError struct{ error }

func usageErrorf(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// app holds state shared by subcommands.
type app struct {
	cfgFile string
	verbose bool
	v       *viper.Viper
	cfg     *config.Config
	logger  *zap.Logger
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	a := &app{v: viper.New(), logger: zap.NewNop()}
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.Execute()
	a.logger.Sync() //nolint:errcheck
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var ue usageError
	if errors.As(err, &ue) {
		return ExitUsage
	}
	return ExitError
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "vibe-panel",
		Short: "Basic info panel for Genome Nexus variant annotations",
		Long: `vibe-panel renders the basic info summary of a genomic variant: gene,
OncoKB oncogene/TSG status, protein change, mutation type, HGVS notations and
transcript details, from Genome Nexus annotations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (default: ~/.vibe-panel.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug messages to stderr")

	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newDownloadCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newVersionCmd())

	return root
}

// init loads the config and builds the logger.
func (a *app) init() error {
	if err := config.Init(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := newLogger(a.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.logger = logger
	return nil
}

// newLogger logs warnings and above, or everything when verbose, to stderr.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.DisableStacktrace = true
	}
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// loadGenes loads the configured cancer gene list. With no list configured
// it falls back to a downloaded one, and then to an empty map.
func (a *app) loadGenes(path string) (oncokb.GeneMap, error) {
	if path == "" {
		path = a.cfg.OncoKB.Genes
	}
	if path == "" {
		path = findGeneList()
	}
	if path == "" {
		a.logger.Warn("no OncoKB cancer gene list; oncogene and TSG pills are hidden",
			zap.String("hint", "run: vibe-panel download"))
		return oncokb.GeneMap{}, nil
	}

	genes, err := oncokb.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load cancer gene list: %w", err)
	}
	a.logger.Debug("loaded cancer gene list", zap.String("path", path), zap.Int("genes", len(genes)))
	return genes, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vibe-panel version %s (%s) built %s\n", version, commit, date)
		},
	}
}
