// Package ledger records export history in a local sqlite database.
//
// Every successful export appends one Entry; the pipeline reads the most
// recent entry per asset to skip unchanged content, and the history command
// lists recent activity. The database file is created on first open.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/mverhagen/bpdoc/pkg/errors"
	_ "modernc.org/sqlite"
)

// DefaultRecentLimit bounds Recent queries when the caller passes no limit.
const DefaultRecentLimit = 20

const schema = `
CREATE TABLE IF NOT EXISTS exports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	asset_path TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	formats TEXT NOT NULL,
	output_files TEXT NOT NULL,
	exported_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_exports_asset ON exports(asset_path, id);
`

// Entry is one recorded export of a single asset.
type Entry struct {
	ID          int64     `json:"id"`
	AssetPath   string    `json:"asset_path"`
	ContentHash string    `json:"content_hash"`
	Formats     []string  `json:"formats"`
	OutputFiles []string  `json:"output_files"`
	ExportedAt  time.Time `json:"exported_at"`
}

// Ledger is an append-only export history backed by sqlite.
type Ledger struct {
	db *sql.DB
}

// Open opens (or creates) the ledger database at path.
func Open(path string) (*Ledger, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "ledger path must not be empty")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to open ledger %s", path)
	}

	// WAL keeps concurrent readers (history command, HTTP API) from blocking
	// the writer; busy_timeout covers the watcher and a manual export racing.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to configure ledger %s", path)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to configure ledger %s", path)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to create ledger schema in %s", path)
	}

	return &Ledger{db: db}, nil
}

// Record appends one export entry. A zero ExportedAt is stamped with the
// current time.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if e.AssetPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "ledger entry has no asset path")
	}
	if e.ContentHash == "" {
		return errors.New(errors.ErrCodeInvalidInput, "ledger entry has no content hash")
	}
	if e.ExportedAt.IsZero() {
		e.ExportedAt = time.Now().UTC()
	}

	formats, err := json.Marshal(e.Formats)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to encode formats for %s", e.AssetPath)
	}
	files, err := json.Marshal(e.OutputFiles)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to encode output files for %s", e.AssetPath)
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO exports (asset_path, content_hash, formats, output_files, exported_at)
		VALUES (?, ?, ?, ?, ?)
	`, e.AssetPath, e.ContentHash, string(formats), string(files), e.ExportedAt.UnixNano())
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to record export of %s", e.AssetPath)
	}
	return nil
}

// Last returns the most recent entry for assetPath, or nil when the asset has
// never been exported.
func (l *Ledger) Last(ctx context.Context, assetPath string) (*Entry, error) {
	if assetPath == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "asset path must not be empty")
	}

	row := l.db.QueryRowContext(ctx, `
		SELECT id, asset_path, content_hash, formats, output_files, exported_at
		FROM exports
		WHERE asset_path = ?
		ORDER BY id DESC
		LIMIT 1
	`, assetPath)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to read history of %s", assetPath)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// falls back to DefaultRecentLimit.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, asset_path, content_hash, formats, output_files, exported_at
		FROM exports
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to read export history")
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to read export history")
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to read export history")
	}
	return entries, nil
}

// Close releases the underlying database handle.
func (l *Ledger) Close() error {
	if err := l.db.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to close ledger")
	}
	return nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var (
		e        Entry
		formats  string
		files    string
		exported int64
	)
	if err := s.Scan(&e.ID, &e.AssetPath, &e.ContentHash, &formats, &files, &exported); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(formats), &e.Formats); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(files), &e.OutputFiles); err != nil {
		return nil, err
	}
	e.ExportedAt = time.Unix(0, exported).UTC()
	return &e, nil
}
