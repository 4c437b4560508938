package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-panel/internal/annotation"
	"github.com/inodb/vibe-panel/internal/basicinfo"
	"github.com/inodb/vibe-panel/internal/datasource/oncokb"
	"github.com/inodb/vibe-panel/internal/duckdb"
	"github.com/inodb/vibe-panel/internal/genomenexus"
	"github.com/inodb/vibe-panel/internal/output"
)

type renderOptions struct {
	annotationFile string
	dbPath         string
	useDB          bool
	genesPath      string
	gene           string
	transcript     string
	igv            bool
	allTranscripts bool
	format         string
	outputFile     string
	workers        int
}

func newRenderCmd(a *app) *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render [variant...]",
		Short: "Render the basic info panel of variants",
		Long: `Render the basic info panel of one or more variants (genomic HGVS, e.g.
7:g.140453136A>T). Annotations come from the Genome Nexus API, a local
database (--db) or a JSON file (--annotation).`,
		Example: `  vibe-panel render 7:g.140453136A>T
  vibe-panel render -f html -o braf.html 7:g.140453136A>T
  vibe-panel render --annotation braf.json --all-transcripts
  vibe-panel render --db --transcript ENST00000311936 12:g.25398285C>A
  vibe-panel render --db --gene KRAS -f tab
  curl -s https://www.genomenexus.org/annotation/7:g.140453136A%3ET | vibe-panel render --annotation -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.gene != "" && !opts.useDB {
				return usageErrorf("--gene requires --db")
			}
			if opts.annotationFile == "" && opts.gene == "" && len(args) == 0 {
				return usageErrorf("variant argument, --annotation or --gene required")
			}
			switch opts.format {
			case "text", "html", "tab":
			default:
				return usageErrorf("unknown output format %q", opts.format)
			}
			return a.runRender(cmd.Context(), cmd.OutOrStdout(), opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.annotationFile, "annotation", "", "Read the annotation from a JSON file ('-' for stdin)")
	f.BoolVar(&opts.useDB, "db", false, "Read annotations from the local database")
	f.StringVar(&opts.dbPath, "db-path", "", "Local database path (default: db.path)")
	f.StringVar(&opts.gene, "gene", "", "Render every stored variant in this gene (requires --db)")
	f.StringVar(&opts.genesPath, "genes", "", "OncoKB cancer gene list, TSV or JSON (default: oncokb.genes)")
	f.StringVarP(&opts.transcript, "transcript", "t", "", "Selected transcript id (default: canonical)")
	f.BoolVar(&opts.igv, "igv", false, "Compact IGV layout")
	f.BoolVar(&opts.allTranscripts, "all-transcripts", false, "Show the transcript table")
	f.StringVarP(&opts.format, "format", "f", "text", "Output format: text, html, tab")
	f.StringVarP(&opts.outputFile, "output", "o", "", "Output file (default: stdout)")
	f.IntVarP(&opts.workers, "workers", "j", 4, "Variants fetched in parallel")

	return cmd
}

func (a *app) runRender(ctx context.Context, stdout io.Writer, opts renderOptions, variants []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	genes, err := a.loadGenes(opts.genesPath)
	if err != nil {
		return err
	}

	source, closeSource, err := a.openSource(opts, variants)
	if err != nil {
		return err
	}
	defer closeSource()

	if opts.gene != "" {
		store, ok := source.(*duckdb.Store)
		if !ok {
			return usageErrorf("--gene requires --db")
		}
		byGene, err := store.VariantsByGene(ctx, opts.gene)
		if err != nil {
			return err
		}
		if len(byGene) == 0 {
			a.logger.Warn("no stored variants in gene", zap.String("gene", opts.gene))
		}
		variants = append(variants, byGene...)
	}

	// A single file annotation needs no variant argument
	if opts.annotationFile != "" && len(variants) == 0 {
		for v := range source.(annotation.StaticSource) {
			variants = append(variants, v)
		}
	}

	out := stdout
	if opts.outputFile != "" {
		f, err := os.Create(opts.outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := newPanelWriter(opts.format, out)
	if hw, ok := w.(interface{ WriteHeader() error }); ok {
		if err := hw.WriteHeader(); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	results := annotation.ParallelFetch(ctx, source, annotation.Items(variants), opts.workers)
	err = annotation.OrderedCollect(results, func(r annotation.WorkResult) error {
		if errors.Is(r.Err, annotation.ErrNotFound) {
			return fmt.Errorf("no annotation for %s", r.Variant)
		}
		if r.Err != nil {
			return r.Err
		}
		a.logger.Debug("rendering panel", zap.String("variant", r.Variant))
		v := a.buildView(r.Summary, genes, r.Variant, opts)
		if v == nil {
			a.logger.Warn("no transcript consequence, nothing to show", zap.String("variant", r.Variant))
			return nil
		}
		if err := w.Write(v); err != nil {
			return fmt.Errorf("write panel: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return w.Flush()
}

func (a *app) buildView(s *annotation.Summary, genes oncokb.GeneMap, variant string, opts renderOptions) *basicinfo.View {
	props := basicinfo.PropsFor(s, genes, opts.transcript)
	props.Variant = variant
	props.IGV = opts.igv
	props.OncoKBURL = a.cfg.OncoKB.URL
	props.QueryFields = a.cfg.Annotation.Fields

	p := basicinfo.NewPanel(props)
	p.SetLogger(a.logger)
	if opts.allTranscripts {
		p.Toggle()
	}
	return p.Build()
}

// openSource picks the annotation source: a JSON file, the local database
// or the Genome Nexus API. A file annotation without a variant takes the
// single variant argument.
func (a *app) openSource(opts renderOptions, variants []string) (annotation.Source, func(), error) {
	noop := func() {}
	switch {
	case opts.annotationFile != "":
		s, err := annotation.ReadFile(opts.annotationFile)
		if err != nil {
			return nil, noop, err
		}
		if s.Variant == "" && len(variants) == 1 {
			s.Variant = variants[0]
		}
		if s.Variant == "" {
			return nil, noop, fmt.Errorf("annotation in %s has no variant", opts.annotationFile)
		}
		return annotation.StaticSource{s.Variant: s}, noop, nil

	case opts.useDB:
		path := opts.dbPath
		if path == "" {
			path = a.cfg.DB.Path
		}
		store, err := duckdb.Open(path)
		if err != nil {
			return nil, noop, err
		}
		store.SetLogger(a.logger)
		return store, func() { store.Close() }, nil

	default:
		c := genomenexus.NewClient(a.cfg.GenomeNexus)
		c.SetLogger(a.logger)
		return c, noop, nil
	}
}

func newPanelWriter(format string, w io.Writer) output.PanelWriter {
	switch format {
	case "html":
		return output.NewHTMLWriter(w, output.Links{})
	case "tab":
		return output.NewTabWriter(w)
	default:
		return output.NewTextWriter(w)
	}
}
