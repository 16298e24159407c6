package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/goldrush-games/arena-server/internal/domain/game"
)

// InitSQLite opens the local SQLite database and creates the schemas
// backing the arena store and its advisory locks.
func InitSQLite(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS arenas (
			key TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			expires_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS arena_locks (
			key TEXT PRIMARY KEY,
			holder TEXT NOT NULL,
			acquired_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_arenas_expires_at ON arenas(expires_at);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	holder string

	// Now is the clock used for TTL bookkeeping; tests override it.
	Now func() time.Time
}

// NewSQLiteStore wraps an initialized database. holder identifies this
// engine instance in the advisory lock table.
func NewSQLiteStore(db *sql.DB, holder string) *SQLiteStore {
	return &SQLiteStore{db: db, holder: holder, Now: time.Now}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (*game.Arena, error) {
	var payload string
	var expiresAt int64
	query := `SELECT payload, expires_at FROM arenas WHERE key = ?`
	err := s.db.QueryRowContext(ctx, query, key).Scan(&payload, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read arena %s: %w", key, err)
	}

	if expiresAt <= s.Now().Unix() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM arenas WHERE key = ?`, key)
		return nil, nil
	}

	var arena game.Arena
	if err := json.Unmarshal([]byte(payload), &arena); err != nil {
		return nil, fmt.Errorf("failed to decode arena %s: %w", key, err)
	}
	return &arena, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, arena *game.Arena) error {
	payload, err := json.Marshal(arena)
	if err != nil {
		return fmt.Errorf("failed to encode arena %s: %w", key, err)
	}

	now := s.Now()
	var prevExpiry time.Time
	var prevUnix int64
	err = s.db.QueryRowContext(ctx, `SELECT expires_at FROM arenas WHERE key = ?`, key).Scan(&prevUnix)
	if err == nil {
		prevExpiry = time.Unix(prevUnix, 0)
	} else if err != sql.ErrNoRows {
		return fmt.Errorf("failed to read expiry for %s: %w", key, err)
	}

	expiresAt := now.Add(nextTTL(prevExpiry, now)).Unix()
	query := `
		INSERT INTO arenas (key, payload, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload=excluded.payload,
			expires_at=excluded.expires_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, string(payload), expiresAt); err != nil {
		return fmt.Errorf("failed to write arena %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM arenas WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete arena %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) ListByPrefix(ctx context.Context, prefix string) ([]*game.Arena, error) {
	query := `SELECT payload FROM arenas WHERE key LIKE ? ESCAPE '\' AND expires_at > ?`
	rows, err := s.db.QueryContext(ctx, query, likePattern(prefix), s.Now().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to list arenas: %w", err)
	}
	defer rows.Close()

	var arenas []*game.Arena
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var arena game.Arena
		if err := json.Unmarshal([]byte(payload), &arena); err != nil {
			return nil, fmt.Errorf("failed to decode arena: %w", err)
		}
		arenas = append(arenas, &arena)
	}
	return arenas, rows.Err()
}

// Acquire polls the advisory lock row until it is obtained or the
// context is done. Locks older than a minute are treated as abandoned
// by a crashed holder and stolen.
func (s *SQLiteStore) Acquire(ctx context.Context, key string) error {
	const staleAfter = 60 // seconds

	for {
		now := s.Now().Unix()
		_, _ = s.db.ExecContext(ctx,
			`DELETE FROM arena_locks WHERE key = ? AND acquired_at < ?`,
			key, now-staleAfter)

		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO arena_locks (key, holder, acquired_at) VALUES (?, ?, ?)`,
			key, s.holder, now)
		if err != nil {
			return fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 1 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func (s *SQLiteStore) Release(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM arena_locks WHERE key = ? AND holder = ?`, key, s.holder)
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("release of unheld lock %s", key)
	}
	return nil
}

// likePattern escapes a key prefix for use in a LIKE clause.
func likePattern(prefix string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	return escaped + "%"
}
