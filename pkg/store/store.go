// Package store persists whole journal records under per-user keys.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/journal/pkg/journal"
)

// RecordPrefix is the key of the unauthenticated record and the prefix of
// every per-user record.
const RecordPrefix = "journal_app_data"

var (
	// ErrNotFound is returned by raw reads of a missing key.
	ErrNotFound = errors.New("store: not found")
	// ErrWatchUnsupported is returned by backends that cannot stream changes.
	ErrWatchUnsupported = errors.New("store: watch not supported by this backend")
)

// Persistence defines the persistence contract for journal records. Load
// returns the default state when the key has never been written.
type Persistence interface {
	Load(ctx context.Context, key string) (*journal.State, error)
	Save(ctx context.Context, key string, st *journal.State) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) []string
	Watch(ctx context.Context) (<-chan Event, error)
	Close() error
}

// Event is emitted by Persistence.Watch when a record changes underneath
// the process.
type Event struct {
	Key string
}

// KeyFor returns the record key of the user uid; an empty uid selects the
// shared unauthenticated record.
func KeyFor(uid string) string {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return RecordPrefix
	}
	return RecordPrefix + "_" + uid
}

// IsRecordKey reports whether key names a journal record.
func IsRecordKey(key string) bool {
	return key == RecordPrefix || strings.HasPrefix(key, RecordPrefix+"_")
}

// Driver names a storage backend.
type Driver string

const (
	DriverDiskv    Driver = "diskv"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open creates the Persistence selected by cfg. A nil cfg reads the
// configuration from disk and environment.
func Open(ctx context.Context, cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	switch d := cfg.Driver(); d {
	case "", DriverDiskv:
		return NewDiskv(cfg.BasePath())
	case DriverSQLite:
		return NewSQLite(cfg.DSN())
	case DriverPostgres:
		return NewPostgres(ctx, cfg.DSN())
	default:
		return nil, fmt.Errorf("store: unknown driver %q", d)
	}
}
