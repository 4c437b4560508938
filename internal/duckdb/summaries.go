package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	goduckdb "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/inodb/vibe-panel/internal/annotation"
)

// Transcript row roles.
const (
	roleCanonical = "canonical"
	roleListed    = "listed"
)

// WriteSummaries stores annotation summaries, replacing any previous rows for
// the same variants. Transcript rows are batch-inserted with the Appender API.
// Summaries without a variant are skipped.
func (s *Store) WriteSummaries(ctx context.Context, summaries []*annotation.Summary) (int, error) {
	// Last summary wins for duplicate variants
	byVariant := make(map[string]*annotation.Summary, len(summaries))
	var order []string
	for _, sum := range summaries {
		if sum == nil || sum.Variant == "" {
			continue
		}
		if _, ok := byVariant[sum.Variant]; !ok {
			order = append(order, sum.Variant)
		}
		byVariant[sum.Variant] = sum
	}
	if len(order) == 0 {
		return 0, nil
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	// Deletes, inserts and appended transcripts commit together
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, v := range order {
		sum := byVariant[v]
		if _, err := tx.ExecContext(ctx, "DELETE FROM transcript_consequences WHERE variant = ?", v); err != nil {
			return 0, fmt.Errorf("delete transcripts of %s: %w", v, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM annotation_summaries WHERE variant = ?", v); err != nil {
			return 0, fmt.Errorf("delete summary of %s: %w", v, err)
		}
		loc, err := marshalNullable(sum.GenomicLocation)
		if err != nil {
			return 0, fmt.Errorf("encode genomic location of %s: %w", v, err)
		}
		vues, err := marshalNullable(sum.Vues)
		if err != nil {
			return 0, fmt.Errorf("encode vues of %s: %w", v, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO annotation_summaries
			(variant, assembly_name, variant_type, strand_sign, canonical_transcript_id, genomic_location, vues)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			v, sum.AssemblyName, sum.VariantType, sum.StrandSign, sum.CanonicalTranscriptID, loc, vues,
		); err != nil {
			return 0, fmt.Errorf("insert summary of %s: %w", v, err)
		}
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "transcript_consequences")
		return err
	}); err != nil {
		return 0, fmt.Errorf("create appender: %w", err)
	}

	if err := appendTranscripts(appender, order, byVariant); err != nil {
		appender.Close()
		return 0, err
	}
	if err := appender.Close(); err != nil {
		return 0, fmt.Errorf("flush transcripts: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit summaries: %w", err)
	}

	s.logger.Debug("wrote annotation summaries", zap.Int("variants", len(order)))
	return len(order), nil
}

func appendTranscripts(a *goduckdb.Appender, order []string, byVariant map[string]*annotation.Summary) error {
	for _, v := range order {
		sum := byVariant[v]
		if t := sum.TranscriptConsequenceSummary; t != nil {
			if err := appendTranscript(a, v, roleCanonical, 0, t); err != nil {
				return err
			}
		}
		for i := range sum.TranscriptConsequenceSummaries {
			if err := appendTranscript(a, v, roleListed, i, &sum.TranscriptConsequenceSummaries[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// appendRow adds one row to the appender. Tests swap it to make appends fail.
var appendRow = func(a *goduckdb.Appender, args ...driver.Value) error {
	return a.AppendRow(args...)
}

func appendTranscript(a *goduckdb.Appender, variant, role string, ordinal int, t *annotation.TranscriptConsequenceSummary) error {
	var start, end driver.Value
	if t.ProteinPosition != nil {
		start, end = t.ProteinPosition.Start, t.ProteinPosition.End
	}
	if err := appendRow(a,
		variant, role, int32(ordinal), t.TranscriptID,
		t.HugoGeneSymbol, t.EntrezGeneID, t.HgvspShort, t.Hgvsp, t.Hgvsc,
		t.VariantClassification, t.ConsequenceTerms, t.RefSeq, t.Exon,
		start, end,
	); err != nil {
		return fmt.Errorf("append transcript %s of %s: %w", t.TranscriptID, variant, err)
	}
	return nil
}

func marshalNullable[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalNullable[T any](s sql.NullString) (*T, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal([]byte(s.String), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Summary implements annotation.Source.
func (s *Store) Summary(ctx context.Context, variant string) (*annotation.Summary, error) {
	sum := &annotation.Summary{Variant: variant}
	var loc, vues sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT
		assembly_name, variant_type, strand_sign, canonical_transcript_id, genomic_location, vues
		FROM annotation_summaries WHERE variant = ?`, variant,
	).Scan(&sum.AssemblyName, &sum.VariantType, &sum.StrandSign, &sum.CanonicalTranscriptID, &loc, &vues)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", variant, annotation.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	if sum.GenomicLocation, err = unmarshalNullable[annotation.GenomicLocation](loc); err != nil {
		return nil, fmt.Errorf("decode genomic location: %w", err)
	}
	if sum.Vues, err = unmarshalNullable[annotation.Vues](vues); err != nil {
		return nil, fmt.Errorf("decode vues: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT
		role, transcript_id, hugo_gene_symbol, entrez_gene_id, hgvsp_short, hgvsp, hgvsc,
		variant_classification, consequence_terms, ref_seq, exon, protein_start, protein_end
		FROM transcript_consequences
		WHERE variant = ?
		ORDER BY role, ordinal`, variant)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role string
		var t annotation.TranscriptConsequenceSummary
		var start, end sql.NullInt64
		if err := rows.Scan(
			&role, &t.TranscriptID, &t.HugoGeneSymbol, &t.EntrezGeneID, &t.HgvspShort, &t.Hgvsp, &t.Hgvsc,
			&t.VariantClassification, &t.ConsequenceTerms, &t.RefSeq, &t.Exon, &start, &end,
		); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		if start.Valid || end.Valid {
			t.ProteinPosition = &annotation.ProteinPosition{Start: start.Int64, End: end.Int64}
		}
		if role == roleCanonical {
			canonical := t
			sum.TranscriptConsequenceSummary = &canonical
			continue
		}
		sum.TranscriptConsequenceSummaries = append(sum.TranscriptConsequenceSummaries, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcripts: %w", err)
	}
	return sum, nil
}

// VariantsByGene returns the stored variants with a transcript consequence
// in the given gene, sorted by variant.
func (s *Store) VariantsByGene(ctx context.Context, hugoSymbol string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT variant
		FROM transcript_consequences
		WHERE hugo_gene_symbol = ?
		ORDER BY variant`, hugoSymbol)
	if err != nil {
		return nil, fmt.Errorf("query by gene: %w", err)
	}
	defer rows.Close()

	var variants []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variants: %w", err)
	}
	return variants, nil
}

// CountSummaries returns the number of stored variants.
func (s *Store) CountSummaries(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM annotation_summaries").Scan(&n); err != nil {
		return 0, fmt.Errorf("count summaries: %w", err)
	}
	return n, nil
}

// Clear removes all stored summaries and import records.
func (s *Store) Clear(ctx context.Context) error {
	for _, table := range []string{"transcript_consequences", "annotation_summaries", "imported_files"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
