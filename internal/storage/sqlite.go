// Package storage provides SQLite-based persistence for solved levels and
// solve history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/formgrid/internal/solver"
)

// Store manages the SQLite database connection for the solution cache.
type Store struct {
	db *sql.DB
}

// CacheKey identifies one cached answer. Fingerprint hashes the level
// content and RulesFingerprint the movement rulesets, so editing either
// never hits a stale entry.
type CacheKey struct {
	LevelID          string
	Fingerprint      string
	RulesFingerprint string
	Target           int
	MaxDepth         int
}

// CachedSolution is a stored solver answer. Unsolvable answers are cached
// too; Solution is empty for them.
type CachedSolution struct {
	CacheKey
	Solvable  bool
	Solution  solver.Solution
	Explored  int
	CreatedAt time.Time
}

// Run is one recorded solve.
type Run struct {
	ID          int64
	LevelID     string
	Fingerprint string
	Solvable    bool
	Moves       int
	Explored    int
	Elapsed     time.Duration
	Cached      bool   // answered from the cache
	Source      string // "cli", "check", "tui", "ssh"
	CreatedAt   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// SQLite allows one writer; concurrent solves queue on this connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	// Caches written before answers were keyed by ruleset are dropped;
	// they only hold derived data.
	legacy, err := s.missingColumn("solutions", "rules_fingerprint")
	if err != nil {
		return err
	}
	if legacy {
		if _, err := s.db.Exec("DROP TABLE solutions"); err != nil {
			return err
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS solutions (
			level_id TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			rules_fingerprint TEXT NOT NULL,
			target INTEGER NOT NULL,
			max_depth INTEGER NOT NULL,
			solvable INTEGER NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			steps TEXT NOT NULL DEFAULT '[]',
			explored INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (level_id, fingerprint, rules_fingerprint, target, max_depth)
		);

		CREATE TABLE IF NOT EXISTS solve_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			solvable INTEGER NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			explored INTEGER NOT NULL DEFAULT 0,
			elapsed_us INTEGER NOT NULL DEFAULT 0,
			cached INTEGER NOT NULL DEFAULT 0,
			source TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_solve_runs_level_id ON solve_runs(level_id);
	`

	_, err = s.db.Exec(schema)
	return err
}

// missingColumn reports whether table exists but lacks column.
func (s *Store) missingColumn(table, column string) (bool, error) {
	rows, err := s.db.Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	exists := false
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		exists = true
		if name == column {
			return false, nil
		}
	}
	return exists, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSolution stores an answer, replacing any previous entry for the same
// key.
func (s *Store) SaveSolution(c CachedSolution) error {
	steps := c.Solution
	if steps == nil {
		steps = solver.Solution{}
	}
	data, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("storage: cannot encode solution: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO solutions
		 (level_id, fingerprint, rules_fingerprint, target, max_depth, solvable, moves, steps, explored)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.LevelID, c.Fingerprint, c.RulesFingerprint, c.Target, c.MaxDepth,
		c.Solvable, c.Solution.Moves(), string(data), c.Explored,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save solution: %w", err)
	}
	return nil
}

// Solution looks up a cached answer. It returns nil, nil on a miss.
func (s *Store) Solution(key CacheKey) (*CachedSolution, error) {
	c := CachedSolution{CacheKey: key}
	var steps string
	var createdAt any

	err := s.db.QueryRow(
		`SELECT solvable, steps, explored, created_at
		 FROM solutions
		 WHERE level_id = ? AND fingerprint = ? AND rules_fingerprint = ?
		   AND target = ? AND max_depth = ?`,
		key.LevelID, key.Fingerprint, key.RulesFingerprint, key.Target, key.MaxDepth,
	).Scan(&c.Solvable, &steps, &c.Explored, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solution: %w", err)
	}

	if err := json.Unmarshal([]byte(steps), &c.Solution); err != nil {
		return nil, fmt.Errorf("storage: cannot decode solution for %s: %w", key.LevelID, err)
	}
	c.CreatedAt = parseTime(createdAt)

	return &c, nil
}

// DeleteSolutions drops every cached answer for a level, whatever its
// fingerprint. It returns the number of entries removed.
func (s *Store) DeleteSolutions(levelID string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM solutions WHERE level_id = ?", levelID)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot delete solutions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count deleted rows: %w", err)
	}
	return n, nil
}

// SaveRun records a solve. Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO solve_runs
		 (level_id, fingerprint, solvable, moves, explored, elapsed_us, cached, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.LevelID, r.Fingerprint, r.Solvable, r.Moves, r.Explored,
		r.Elapsed.Microseconds(), r.Cached, r.Source,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns returns the latest runs, newest first. An empty levelID
// returns runs for every level.
func (s *Store) RecentRuns(levelID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, fingerprint, solvable, moves, explored, elapsed_us, cached, source, created_at
		 FROM solve_runs
		 WHERE ? = '' OR level_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		levelID, levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var elapsedUS int64
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.LevelID,
			&r.Fingerprint,
			&r.Solvable,
			&r.Moves,
			&r.Explored,
			&elapsedUS,
			&r.Cached,
			&r.Source,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Elapsed = time.Duration(elapsedUS) * time.Microsecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// LevelStats contains aggregated solve history for a level.
type LevelStats struct {
	LevelID     string
	Runs        int
	Solved      int
	CacheHits   int
	BestMoves   int // 0 when never solved
	AvgExplored float64
	LastRun     time.Time
}

// GetLevelStats retrieves aggregated statistics for a specific level.
func (s *Store) GetLevelStats(levelID string) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID}

	var lastRun any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(solvable), 0),
		        COALESCE(SUM(cached), 0),
		        COALESCE(MIN(CASE WHEN solvable THEN moves END), 0),
		        COALESCE(AVG(explored), 0),
		        MAX(created_at)
		 FROM solve_runs WHERE level_id = ?`,
		levelID,
	).Scan(&stats.Runs, &stats.Solved, &stats.CacheHits, &stats.BestMoves, &stats.AvgExplored, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	stats.LastRun = parseTime(lastRun)

	return stats, nil
}

// GetAllLevelStats retrieves statistics for every level that has runs.
func (s *Store) GetAllLevelStats() (map[string]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id, COUNT(*), SUM(solvable), SUM(cached),
		        COALESCE(MIN(CASE WHEN solvable THEN moves END), 0),
		        AVG(explored), MAX(created_at)
		 FROM solve_runs
		 GROUP BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*LevelStats)
	for rows.Next() {
		var ls LevelStats
		var lastRun any
		if err := rows.Scan(&ls.LevelID, &ls.Runs, &ls.Solved, &ls.CacheHits, &ls.BestMoves, &ls.AvgExplored, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ls.LastRun = parseTime(lastRun)
		stats[ls.LevelID] = &ls
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles the driver returning either time.Time or a string for
// DATETIME columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
