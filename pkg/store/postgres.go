package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tableflip.dev/journal/pkg/journal"
)

const (
	postgresSchema = `
		CREATE TABLE IF NOT EXISTS journal_records (
			key VARCHAR(255) PRIMARY KEY,
			data JSONB NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`
	notifyChannel = "journal_records"
)

type postgresPersistence struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to databaseURL and ensures the records table exists.
// Every save notifies listeners so other processes can reload.
func NewPostgres(ctx context.Context, databaseURL string) (Persistence, error) {
	if databaseURL == "" {
		return nil, errors.New("store: postgres dsn required")
	}
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: parse database URL: %w", err)
	}
	config.MaxConns = 4
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("store: create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &postgresPersistence{pool: pool}, nil
}

func (p *postgresPersistence) Load(ctx context.Context, key string) (*journal.State, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT data FROM journal_records WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return journal.DefaultState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	st, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return st, nil
}

func (p *postgresPersistence) Save(ctx context.Context, key string, st *journal.State) error {
	data, err := Encode(st)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO journal_records (key, data, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, key); err != nil {
		return fmt.Errorf("store: notify %s: %w", key, err)
	}
	return tx.Commit(ctx)
}

func (p *postgresPersistence) Delete(ctx context.Context, key string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM journal_records WHERE key = $1`, key); err != nil {
		return fmt.Errorf("store: delete %s: %w", key, err)
	}
	return nil
}

func (p *postgresPersistence) Keys(ctx context.Context) []string {
	keys := make([]string, 0)
	rows, err := p.pool.Query(ctx, `SELECT key FROM journal_records ORDER BY key`)
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

// Watch holds one pooled connection in LISTEN mode until ctx is done.
func (p *postgresPersistence) Watch(ctx context.Context) (<-chan Event, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: acquire listener: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("store: listen: %w", err)
	}

	events := make(chan Event, 64)
	go func() {
		defer close(events)
		defer conn.Release()

		throttle := newEventThrottle(watchDelay)
		defer throttle.Stop()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
			}
		}
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					zap.S().Warnw("store: listener stopped", "error", err)
				}
				return
			}
			if IsRecordKey(n.Payload) {
				throttle.Enqueue(Event{Key: n.Payload}, send)
			}
		}
	}()
	return events, nil
}

func (p *postgresPersistence) Close() error {
	p.pool.Close()
	return nil
}
