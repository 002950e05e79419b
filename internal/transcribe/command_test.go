package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script and returns its path.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "stt.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o644))
	return path
}

func TestCommandTranscriber(t *testing.T) {
	script := writeScript(t, `
if [ "$1" != "--model" ] || [ "$2" != "small" ]; then
  echo "bad args: $*" >&2
  exit 2
fi
echo 'loading model...'
echo '[{"start": 0.5, "end": 2.0, "text": " hello "}, {"start": 1.5, "end": 3.25, "text": "overlap"}]'
`)

	tr, err := NewCommandTranscriber(Options{Command: []string{script, "--model", "small"}, Language: "en"})
	require.NoError(t, err)

	result, err := tr.Transcribe(context.Background(), writeAudio(t))
	require.NoError(t, err)
	require.Len(t, result.Segments, 2)
	assert.Equal(t, Segment{StartTime: 500 * time.Millisecond, EndTime: 2 * time.Second, Text: "hello"}, result.Segments[0])
	assert.Equal(t, 1500*time.Millisecond, result.Segments[1].StartTime)
	assert.Equal(t, 3250*time.Millisecond, result.Duration)
	assert.Equal(t, "en", result.Language)
}

func TestCommandTranscriberFailure(t *testing.T) {
	script := writeScript(t, "echo 'model not found' >&2\nexit 3\n")
	tr, err := NewCommandTranscriber(Options{Command: []string{script}})
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), writeAudio(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestCommandTranscriberBadOutput(t *testing.T) {
	script := writeScript(t, "echo 'no json here'\n")
	tr, err := NewCommandTranscriber(Options{Command: []string{script}})
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), writeAudio(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errNoSegments))
}

func TestCommandTranscriberCancel(t *testing.T) {
	script := writeScript(t, "exec sleep 30\n")
	tr, err := NewCommandTranscriber(Options{Command: []string{script}})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = tr.Transcribe(ctx, writeAudio(t))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestCommandTranscriberValidation(t *testing.T) {
	_, err := NewCommandTranscriber(Options{})
	assert.Error(t, err)

	tr, err := NewCommandTranscriber(Options{Command: []string{"true"}})
	require.NoError(t, err)
	_, err = tr.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audio file not found")
}

func TestFactory(t *testing.T) {
	tr, err := Factory(context.Background(), ProviderCommand, "", Options{Command: []string{"stt"}})
	require.NoError(t, err)
	assert.IsType(t, &CommandTranscriber{}, tr)

	_, err = Factory(context.Background(), Provider("whisper"), "", Options{})
	assert.Error(t, err)

	_, err = Factory(context.Background(), ProviderGemini, "", Options{})
	assert.Error(t, err)
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider(" OpenAI ")
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, p)
	assert.True(t, p.NeedsAPIKey())
	assert.True(t, p.Chunked())

	assert.False(t, ProviderCommand.NeedsAPIKey())
	assert.False(t, ProviderCommand.Chunked())

	_, err = ParseProvider("whisper")
	assert.Error(t, err)
}
