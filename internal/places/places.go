// Package places remembers the cursor position of every file the editor
// has closed, so reopening a file puts the cursor back where it was.
package places

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/zecora/internal/frame"
	"github.com/zjrosen/zecora/internal/log"
)

// DefaultLimit is the number of places kept by Prune.
const DefaultLimit = 400

const schema = `
CREATE TABLE IF NOT EXISTS places (
	path TEXT PRIMARY KEY,
	row INTEGER NOT NULL,
	col INTEGER NOT NULL,
	touched INTEGER NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS places_touched ON places(touched);
`

// Store persists cursor positions keyed by canonical file path.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the database at dbPath.
func Open(dbPath string) (*Store, error) {
	log.Debug(log.CatPlaces, "Opening database", "path", dbPath)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		log.ErrorErr(log.CatPlaces, "Failed to create state directory", err, "path", dbPath)
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath)
	if err != nil {
		log.ErrorErr(log.CatPlaces, "Failed to open database", err, "path", dbPath)
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		log.ErrorErr(log.CatPlaces, "Failed to create schema", err, "path", dbPath)
		return nil, fmt.Errorf("creating places schema: %w", err)
	}
	log.Info(log.CatPlaces, "Connected to database", "path", dbPath)
	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the saved position for path.
func (s *Store) Get(ctx context.Context, path string) (frame.Position, bool, error) {
	var p frame.Position
	err := s.db.QueryRowContext(ctx,
		`SELECT row, col FROM places WHERE path = ?`, path).Scan(&p.Row, &p.Col)
	if errors.Is(err, sql.ErrNoRows) {
		return frame.Position{}, false, nil
	}
	if err != nil {
		return frame.Position{}, false, fmt.Errorf("reading place for %s: %w", path, err)
	}
	return p, true, nil
}

// Save records pos for path, replacing any earlier position.
func (s *Store) Save(ctx context.Context, path string, pos frame.Position) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO places (path, row, col, touched, updated_at)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(touched), 0) + 1 FROM places), CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
			row = excluded.row,
			col = excluded.col,
			touched = excluded.touched,
			updated_at = excluded.updated_at`,
		path, pos.Row, pos.Col)
	if err != nil {
		return fmt.Errorf("saving place for %s: %w", path, err)
	}
	log.Debug(log.CatPlaces, "saved place", "path", path, "row", pos.Row, "col", pos.Col)
	return nil
}

// Count returns the number of saved places.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM places`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting places: %w", err)
	}
	return n, nil
}

// Prune keeps the limit most recently saved places and deletes the rest.
func (s *Store) Prune(ctx context.Context, limit int) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM places WHERE path NOT IN (
			SELECT path FROM places ORDER BY touched DESC LIMIT ?
		)`, max(limit, 0))
	if err != nil {
		return 0, fmt.Errorf("pruning places: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		log.Debug(log.CatPlaces, "pruned places", "removed", n)
	}
	return int(n), nil
}

// Restore moves f's cursor to its saved position. The row is clamped to the
// document; the column is left for rendering to clamp. Scratch frames and
// unknown paths are untouched.
func (s *Store) Restore(ctx context.Context, f *frame.Frame) (bool, error) {
	if !f.HasPath() {
		return false, nil
	}
	pos, ok, err := s.Get(ctx, f.Path)
	if err != nil || !ok {
		return false, err
	}
	f.Cursor.Row = min(max(pos.Row, 0), f.LineCount()-1)
	f.Cursor.Col = max(pos.Col, 0)
	return true, nil
}

// SaveAll records the cursor of every frame bound to a path.
func (s *Store) SaveAll(ctx context.Context, reg *frame.Registry) error {
	var errs []error
	reg.Each(func(_ frame.Handle, f *frame.Frame) {
		if !f.HasPath() {
			return
		}
		pos := frame.Position{Row: f.Cursor.Row, Col: f.EffectiveColumn()}
		if err := s.Save(ctx, f.Path, pos); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}
