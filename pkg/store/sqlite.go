package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"

	"tableflip.dev/journal/pkg/journal"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS journal_records (
    key TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

type sqlitePersistence struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) a SQLite database at path holding one
// row per record.
func NewSQLite(path string) (Persistence, error) {
	if path == "" {
		return nil, errors.New("store: sqlite path required")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	// One writer at a time; sqlite serialises anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &sqlitePersistence{db: db}, nil
}

func (p *sqlitePersistence) Load(ctx context.Context, key string) (*journal.State, error) {
	var data string
	err := p.db.QueryRowContext(ctx, `SELECT data FROM journal_records WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return journal.DefaultState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	st, err := Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return st, nil
}

func (p *sqlitePersistence) Save(ctx context.Context, key string, st *journal.State) error {
	data, err := Encode(st)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO journal_records (key, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, string(data))
	if err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (p *sqlitePersistence) Delete(ctx context.Context, key string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM journal_records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("store: delete %s: %w", key, err)
	}
	return nil
}

func (p *sqlitePersistence) Keys(ctx context.Context) []string {
	keys := make([]string, 0)
	rows, err := p.db.QueryContext(ctx, `SELECT key FROM journal_records ORDER BY key`)
	if err != nil {
		zap.S().Warnw("store: list keys", "error", err)
		return keys
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			continue
		}
		if IsRecordKey(key) {
			keys = append(keys, key)
		}
	}
	return keys
}

// Watch is not available for sqlite; the database file is owned by this
// process.
func (p *sqlitePersistence) Watch(context.Context) (<-chan Event, error) {
	return nil, ErrWatchUnsupported
}

func (p *sqlitePersistence) Close() error {
	return p.db.Close()
}
