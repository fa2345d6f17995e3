// Package cache keeps the most recently fetched story summaries in a
// local SQLite database so the list view still renders when the server
// is unreachable.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Ahilan-1/openground/internal/api"
)

type Cache struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	c := &Cache{readDB: readDB, writeDB: writeDB}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS stories (
			story_id     TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			category     TEXT NOT NULL DEFAULT 'Top',
			coverage     INTEGER NOT NULL DEFAULT 0,
			freshness    REAL NOT NULL DEFAULT 0,
			bias_left    REAL NOT NULL DEFAULT 0,
			bias_center  REAL NOT NULL DEFAULT 0,
			bias_right   REAL NOT NULL DEFAULT 0,
			bias_unknown REAL NOT NULL DEFAULT 0,
			bias_score   REAL NOT NULL DEFAULT 0,
			lean         TEXT NOT NULL DEFAULT '',
			last_seen    TEXT NOT NULL DEFAULT '',
			cached_at    DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_stories_category ON stories(category);
		CREATE INDEX IF NOT EXISTS idx_stories_cached ON stories(cached_at);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// UpsertStories writes through one fetched page.
func (c *Cache) UpsertStories(items []api.StorySummary) error {
	tx, err := c.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO stories (story_id, title, category, coverage, freshness,
			bias_left, bias_center, bias_right, bias_unknown, bias_score,
			lean, last_seen, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(story_id) DO UPDATE SET
			title = excluded.title,
			category = excluded.category,
			coverage = excluded.coverage,
			freshness = excluded.freshness,
			bias_left = excluded.bias_left,
			bias_center = excluded.bias_center,
			bias_right = excluded.bias_right,
			bias_unknown = excluded.bias_unknown,
			bias_score = excluded.bias_score,
			lean = excluded.lean,
			last_seen = excluded.last_seen,
			cached_at = excluded.cached_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, s := range items {
		_, err := stmt.Exec(s.ID, s.Title, s.Category, s.Coverage, s.Freshness,
			s.BiasBar.Left, s.BiasBar.Center, s.BiasBar.Right, s.BiasBar.Unknown,
			s.BiasScore, s.Lean, s.LastSeen, now)
		if err != nil {
			return fmt.Errorf("upserting story %s: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

// GetStories returns cached summaries filtered like /api/stories,
// ordered the way the server orders them (freshness-weighted coverage,
// then recency). The second return is the total matching count before
// the limit/offset window.
func (c *Cache) GetStories(opts QueryOpts) ([]api.StorySummary, int, error) {
	var (
		where []string
		args  []interface{}
	)

	if opts.Category != "" && opts.Category != "All" {
		where = append(where, "category = ?")
		args = append(args, opts.Category)
	}
	if opts.Search != "" {
		where = append(where, "title LIKE ? COLLATE NOCASE")
		args = append(args, "%"+opts.Search+"%")
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := c.readDB.QueryRow("SELECT COUNT(*) FROM stories"+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting stories: %w", err)
	}

	query := `SELECT story_id, title, category, coverage, freshness,
		bias_left, bias_center, bias_right, bias_unknown, bias_score,
		lean, last_seen FROM stories` + clause +
		" ORDER BY freshness * coverage DESC, last_seen DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 500
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := c.readDB.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying stories: %w", err)
	}
	defer rows.Close()

	var out []api.StorySummary
	for rows.Next() {
		var s api.StorySummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Category, &s.Coverage, &s.Freshness,
			&s.BiasBar.Left, &s.BiasBar.Center, &s.BiasBar.Right, &s.BiasBar.Unknown,
			&s.BiasScore, &s.Lean, &s.LastSeen); err != nil {
			return nil, 0, fmt.Errorf("scanning story: %w", err)
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// Prune deletes stories not re-fetched within the retention window and
// returns how many were removed.
func (c *Cache) Prune(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	res, err := c.writeDB.Exec("DELETE FROM stories WHERE cached_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats returns the cached story count and database file size.
func (c *Cache) Stats(dbPath string) (int, int64, error) {
	var count int
	if err := c.readDB.QueryRow("SELECT COUNT(*) FROM stories").Scan(&count); err != nil {
		return 0, 0, err
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, err
	}
	return count, info.Size(), nil
}

// SetLastUpdated records the server's last_updated stamp alongside the
// cached stories.
func (c *Cache) SetLastUpdated(value string) error {
	_, err := c.writeDB.Exec(`
		INSERT INTO meta (key, value) VALUES ('last_updated', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, value)
	return err
}

// LastUpdated returns the recorded server stamp, or "" when none is
// cached.
func (c *Cache) LastUpdated() string {
	var value string
	if err := c.readDB.QueryRow("SELECT value FROM meta WHERE key = 'last_updated'").Scan(&value); err != nil {
		return ""
	}
	return value
}
