// Package duckdb stores annotation summaries in DuckDB so panels can be
// rendered offline. Transcript consequences are kept one row per transcript
// so they stay queryable by gene.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

// Store manages a DuckDB connection holding annotation summaries.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path, logger: zap.NewNop()}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// SetLogger sets the logger for import messages.
func (s *Store) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS annotation_summaries (
		variant VARCHAR PRIMARY KEY,
		assembly_name VARCHAR,
		variant_type VARCHAR,
		strand_sign VARCHAR,
		canonical_transcript_id VARCHAR,
		genomic_location VARCHAR,
		vues VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS transcript_consequences (
		variant VARCHAR,
		role VARCHAR,
		ordinal INTEGER,
		transcript_id VARCHAR,
		hugo_gene_symbol VARCHAR,
		entrez_gene_id VARCHAR,
		hgvsp_short VARCHAR,
		hgvsp VARCHAR,
		hgvsc VARCHAR,
		variant_classification VARCHAR,
		consequence_terms VARCHAR,
		ref_seq VARCHAR,
		exon VARCHAR,
		protein_start BIGINT,
		protein_end BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS imported_files (
		path VARCHAR PRIMARY KEY,
		size BIGINT,
		mod_time_ns BIGINT,
		variants INTEGER
	)`,
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
