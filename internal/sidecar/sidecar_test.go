package sidecar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgpai22/cuesheet/internal/cue"
	"github.com/mgpai22/cuesheet/internal/timeline"
)

func TestPathFor(t *testing.T) {
	assert.Equal(t, "/videos/movie.json", PathFor("/videos/movie.mp4"))
	assert.Equal(t, "talk.final.json", PathFor("talk.final.mkv"))
	assert.Equal(t, "noext.json", PathFor("noext"))
}

func TestLoadMissing(t *testing.T) {
	store := ForMedia(filepath.Join(t.TempDir(), "movie.mp4"), nil)

	tl, existed, err := store.Load()
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, 0, tl.Len())
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	store := ForMedia(filepath.Join(dir, "movie.mp4"), nil)

	tl := timeline.New()
	tl.Insert(cue.Cue{Start: 0, End: 2000, Text: "a"})
	tl.Insert(cue.Cue{Start: 1000, End: 3000, Text: "b"})
	require.NoError(t, store.Save(tl))

	data, err := os.ReadFile(filepath.Join(dir, "movie.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"end": "00:00:00.999"`)

	loaded, existed, err := store.Load()
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, tl.Cues(), loaded.Cues())
}

func TestSaveNormalizesDirtyTimeline(t *testing.T) {
	store := ForMedia(filepath.Join(t.TempDir(), "movie.mp4"), nil)

	tl := timeline.New(
		cue.Cue{Start: 0, End: 1000, Text: "a"},
		cue.Cue{Start: 2000, End: 3000, Text: "b"},
	)
	require.NoError(t, tl.Nudge(0, timeline.EdgeEnd, 5000, 10000))
	require.NoError(t, store.Save(tl))
	assert.True(t, tl.Normalized())

	loaded, _, err := store.Load()
	require.NoError(t, err)
	first, err := loaded.At(0)
	require.NoError(t, err)
	assert.Equal(t, cue.Cue{Start: 0, End: 1999, Text: "a"}, first)
}

func TestFailedSaveKeepsTimelineAndFile(t *testing.T) {
	dir := t.TempDir()
	store := ForMedia(filepath.Join(dir, "movie.mp4"), nil)

	tl := timeline.New(cue.Cue{Start: 0, End: 1000, Text: "kept"})
	require.NoError(t, store.Save(tl))
	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	// a read-only directory blocks the temp file
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })
	if f, err := os.CreateTemp(dir, "writable"); err == nil {
		// running as root ignores permissions
		f.Close()
		os.Remove(f.Name())
		t.Skip("directory permissions not enforced")
	}

	tl.Insert(cue.Cue{Start: 2000, End: 3000, Text: "unsaved"})
	require.Error(t, store.Save(tl))

	assert.Equal(t, 2, tl.Len())
	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movie.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, existed, err := New(path, nil).Load()
	require.Error(t, err)
	assert.True(t, existed)
}
