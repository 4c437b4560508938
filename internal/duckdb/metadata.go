package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/inodb/vibe-panel/internal/annotation"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Imported reports whether a file with the same fingerprint was imported before.
func (s *Store) Imported(ctx context.Context, fp FileFingerprint) (bool, error) {
	var size, modNs int64
	err := s.db.QueryRowContext(ctx,
		"SELECT size, mod_time_ns FROM imported_files WHERE path = ?", fp.Path,
	).Scan(&size, &modNs)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query import record: %w", err)
	}
	return size == fp.Size && modNs == fp.ModTime.UnixNano(), nil
}

// RecordImport remembers that a file was imported.
func (s *Store) RecordImport(ctx context.Context, fp FileFingerprint, variants int) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM imported_files WHERE path = ?", fp.Path); err != nil {
		return fmt.Errorf("delete import record: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO imported_files (path, size, mod_time_ns, variants) VALUES (?, ?, ?, ?)",
		fp.Path, fp.Size, fp.ModTime.UnixNano(), variants,
	); err != nil {
		return fmt.Errorf("insert import record: %w", err)
	}
	return nil
}

// ImportFile loads every annotation in a JSON file into the store. Files whose
// fingerprint matches a previous import are skipped unless force is set.
// It returns the number of variants written and whether the file was skipped.
func (s *Store) ImportFile(ctx context.Context, path string, force bool) (int, bool, error) {
	fp, err := StatFile(path)
	if err != nil {
		return 0, false, fmt.Errorf("stat %s: %w", path, err)
	}
	if !force {
		done, err := s.Imported(ctx, fp)
		if err != nil {
			return 0, false, err
		}
		if done {
			return 0, true, nil
		}
	}

	summaries, err := annotation.ReadAllFile(path)
	if err != nil {
		return 0, false, fmt.Errorf("read %s: %w", path, err)
	}
	n, err := s.WriteSummaries(ctx, summaries)
	if err != nil {
		return 0, false, err
	}
	if err := s.RecordImport(ctx, fp, n); err != nil {
		return n, false, err
	}
	return n, false, nil
}
