// Package store persists favorites and small settings in a local SQLite
// database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/justyntemme/picroute/internal/debug"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Setting keys
const (
	SettingLastPath = "last_path"
)

// Favorite is a pinned location.
type Favorite struct {
	Name      string
	Path      string
	CreatedAt time.Time
}

type DB struct {
	conn *sql.DB
}

// DefaultPath returns ~/.config/picroute/picroute.db.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "picroute", "picroute.db")
}

// Open opens (creating if needed) the database at dbPath.
func Open(ctx context.Context, dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// One writer; avoids SQLITE_BUSY between pooled connections.
	conn.SetMaxOpenConns(1)

	stmts := []string{
		// WAL mode allows simultaneous readers and writers
		"PRAGMA journal_mode=WAL;",
		// Synchronous NORMAL is safe against app crashes, faster than FULL
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS favorites (
			path TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("init %s: %w", dbPath, err)
		}
	}

	debug.Log(debug.STORE, "opened %q", dbPath)
	return &DB{conn: conn}, nil
}

// Favorites returns favorites in the order they were added.
func (d *DB) Favorites(ctx context.Context) ([]Favorite, error) {
	rows, err := d.conn.QueryContext(ctx, "SELECT path, name, created_at FROM favorites ORDER BY created_at ASC, rowid ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favs []Favorite
	for rows.Next() {
		var f Favorite
		var created any
		if err := rows.Scan(&f.Path, &f.Name, &created); err != nil {
			return nil, err
		}
		f.CreatedAt = parseTimestamp(created)
		favs = append(favs, f)
	}
	return favs, rows.Err()
}

// parseTimestamp accepts either a driver-parsed time or SQLite's
// CURRENT_TIMESTAMP text.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		ts, _ := time.Parse(time.DateTime, t)
		return ts
	case []byte:
		ts, _ := time.Parse(time.DateTime, string(t))
		return ts
	}
	return time.Time{}
}

// AddFavorite pins path under name. Adding an existing path renames it.
func (d *DB) AddFavorite(ctx context.Context, name, path string) error {
	if name == "" {
		name = filepath.Base(path)
	}
	_, err := d.conn.ExecContext(ctx,
		"INSERT INTO favorites (path, name) VALUES (?, ?) ON CONFLICT(path) DO UPDATE SET name = excluded.name",
		path, name)
	debug.Log(debug.STORE, "add favorite %q (%q): err=%v", path, name, err)
	return err
}

// RemoveFavorite unpins path. It reports whether anything was removed.
func (d *DB) RemoveFavorite(ctx context.Context, path string) (bool, error) {
	res, err := d.conn.ExecContext(ctx, "DELETE FROM favorites WHERE path = ?", path)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	debug.Log(debug.STORE, "remove favorite %q: %d row(s)", path, n)
	return n > 0, err
}

// Setting returns the value stored under key, or "" and false.
func (d *DB) Setting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := d.conn.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetSetting upserts key.
func (d *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := d.conn.ExecContext(ctx, "INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
	return err
}

// Settings returns every stored setting.
func (d *DB) Settings(ctx context.Context) (map[string]string, error) {
	rows, err := d.conn.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

func (d *DB) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}
