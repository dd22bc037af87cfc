package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "journal.log")
	log, flush, err := New(Config{File: path, Level: "debug"})
	require.NoError(t, err)

	log.Infow("added entry", "id", "e1")
	zap.S().Debugw("via global", "ok", true)
	flush()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"added entry"`)
	assert.Contains(t, string(data), `"id":"e1"`)
	assert.Contains(t, string(data), "via global")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewWithoutSinks(t *testing.T) {
	log, flush, err := New(Config{})
	require.NoError(t, err)
	defer flush()
	log.Infow("dropped")
}
