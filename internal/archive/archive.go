// Package archive persists finished generation runs to a SQLite database so
// external tooling can inspect or replay past output.
package archive

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"tileforge/internal/export"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL,
	width INTEGER NOT NULL,
	height INTEGER NOT NULL,
	depth INTEGER NOT NULL,
	seed INTEGER NOT NULL,
	unassigned INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS placements (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	x INTEGER NOT NULL,
	y INTEGER NOT NULL,
	z INTEGER NOT NULL,
	tile TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS fallbacks (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	x INTEGER NOT NULL,
	y INTEGER NOT NULL,
	z INTEGER NOT NULL,
	cause TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS usage (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	tile TEXT NOT NULL,
	count INTEGER NOT NULL,
	cap INTEGER NOT NULL
);
`

// Store wraps the runs database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the archive database at path and ensures the schema
// exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveRun stores one finished run in a single transaction and returns its id.
func (s *Store) SaveRun(result *export.Result) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin archive transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO runs (created_at, width, height, depth, seed, unassigned) VALUES (?, ?, ?, ?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339),
		result.Width, result.Height, result.Depth, result.Seed, result.Unassigned,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	placeStmt, err := tx.Prepare("INSERT INTO placements (run_id, x, y, z, tile) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("prepare placement insert: %w", err)
	}
	defer placeStmt.Close()
	for _, p := range result.Placements {
		if _, err := placeStmt.Exec(runID, p.X, p.Y, p.Z, p.Tile); err != nil {
			return 0, fmt.Errorf("insert placement: %w", err)
		}
	}

	for _, f := range result.Fallbacks {
		if _, err := tx.Exec(
			"INSERT INTO fallbacks (run_id, x, y, z, cause) VALUES (?, ?, ?, ?, ?)",
			runID, f.X, f.Y, f.Z, f.Cause,
		); err != nil {
			return 0, fmt.Errorf("insert fallback: %w", err)
		}
	}

	for _, u := range result.Usage {
		if _, err := tx.Exec(
			"INSERT INTO usage (run_id, tile, count, cap) VALUES (?, ?, ?, ?)",
			runID, u.Tile, u.Count, u.Cap,
		); err != nil {
			return 0, fmt.Errorf("insert usage: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit archive transaction: %w", err)
	}
	return runID, nil
}

// LoadRun reads a stored run back into a result document.
func (s *Store) LoadRun(runID int64) (*export.Result, error) {
	result := &export.Result{}
	err := s.db.QueryRow(
		"SELECT width, height, depth, seed, unassigned FROM runs WHERE id = ?", runID,
	).Scan(&result.Width, &result.Height, &result.Depth, &result.Seed, &result.Unassigned)
	if err != nil {
		return nil, fmt.Errorf("load run %d: %w", runID, err)
	}

	rows, err := s.db.Query("SELECT x, y, z, tile FROM placements WHERE run_id = ? ORDER BY rowid", runID)
	if err != nil {
		return nil, fmt.Errorf("load placements: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p export.Placement
		if err := rows.Scan(&p.X, &p.Y, &p.Z, &p.Tile); err != nil {
			return nil, fmt.Errorf("scan placement: %w", err)
		}
		result.Placements = append(result.Placements, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate placements: %w", err)
	}

	fallbackRows, err := s.db.Query("SELECT x, y, z, cause FROM fallbacks WHERE run_id = ? ORDER BY rowid", runID)
	if err != nil {
		return nil, fmt.Errorf("load fallbacks: %w", err)
	}
	defer fallbackRows.Close()
	for fallbackRows.Next() {
		var f export.Fallback
		if err := fallbackRows.Scan(&f.X, &f.Y, &f.Z, &f.Cause); err != nil {
			return nil, fmt.Errorf("scan fallback: %w", err)
		}
		result.Fallbacks = append(result.Fallbacks, f)
	}
	if err := fallbackRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fallbacks: %w", err)
	}

	usageRows, err := s.db.Query("SELECT tile, count, cap FROM usage WHERE run_id = ? ORDER BY tile", runID)
	if err != nil {
		return nil, fmt.Errorf("load usage: %w", err)
	}
	defer usageRows.Close()
	for usageRows.Next() {
		var u export.UsageEntry
		if err := usageRows.Scan(&u.Tile, &u.Count, &u.Cap); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		result.Usage = append(result.Usage, u)
	}
	if err := usageRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage: %w", err)
	}

	return result, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
