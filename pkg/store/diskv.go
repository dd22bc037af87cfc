package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/journal/pkg/journal"
)

const tempDir = ".tmp"

// NewDiskv creates a Persistence keeping one JSON file per record under
// basePath.
func NewDiskv(basePath string) (Persistence, error) {
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &persistence{d: newDiskv(basePath), basePath: basePath}, nil
}

func newDiskv(basePath string) *diskv.Diskv {
	return diskv.New(diskv.Options{
		BasePath:          basePath,
		TempDir:           filepath.Join(basePath, tempDir),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		// No cache: other processes rewrite records and Watch reloads them.
		CacheSizeMax: 0,
	})
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) Load(_ context.Context, key string) (*journal.State, error) {
	val, err := p.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return journal.DefaultState(), nil
		}
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	if len(val) == 0 {
		return journal.DefaultState(), nil
	}
	st, err := Decode(val)
	if err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return st, nil
}

func (p *persistence) Save(_ context.Context, key string, st *journal.State) error {
	data, err := Encode(st)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := p.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (p *persistence) Delete(_ context.Context, key string) error {
	if err := p.d.Erase(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: erase %s: %w", key, err)
	}
	return nil
}

func (p *persistence) Keys(ctx context.Context) []string {
	keys := make([]string, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if IsRecordKey(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func (p *persistence) Close() error { return nil }

// Records are flat files named after their key.
func keyToPathTransform(s string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{},
		FileName: s,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}
