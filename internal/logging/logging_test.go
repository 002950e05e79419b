package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cuesheet.log")

	logger, err := New(Options{Level: "debug", Format: "json", OutputPaths: []string{path}})
	require.NoError(t, err)

	logger.Named("editor").Infow("saved sidecar", "cues", 3)
	logger.Debugw("debug line")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"saved sidecar"`)
	assert.Contains(t, out, `"cues":3`)
	assert.Contains(t, out, `"logger":"editor"`)
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warn.log")

	logger, err := New(Options{Level: "warn", Format: "json", OutputPaths: []string{path}})
	require.NoError(t, err)
	logger.Infow("dropped")
	logger.Warnw("kept")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestNewRejectsUnknownOptions(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Infow("nothing", "k", "v")
	assert.NotNil(t, NewLogger(true))
}
