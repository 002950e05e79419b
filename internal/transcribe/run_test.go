package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgpai22/cuesheet/internal/audio"
	"github.com/mgpai22/cuesheet/internal/cue"
	"github.com/mgpai22/cuesheet/internal/subtitle"
)

// fakeTranscriber returns canned segments, or blocks until ctx is done.
type fakeTranscriber struct {
	segments []Segment
	err      error
	block    bool
	calls    atomic.Int32
	seen     atomic.Value
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	f.calls.Add(1)
	f.seen.Store(audioPath)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &Result{Segments: f.segments, Language: "en", Duration: segmentsDuration(f.segments)}, nil
}

func copyPrepare(ctx context.Context, mediaPath, dir string) (string, error) {
	data, err := os.ReadFile(mediaPath)
	if err != nil {
		return "", err
	}
	out := filepath.Join(dir, "audio.wav")
	return out, os.WriteFile(out, data, 0o644)
}

func writeMedia(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talk.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF....WAVE"), 0o644))
	return path
}

func TestRunWritesRawOutput(t *testing.T) {
	media := writeMedia(t)
	fake := &fakeTranscriber{segments: []Segment{
		{StartTime: 5 * time.Second, EndTime: 9 * time.Second, Text: "later"},
		{StartTime: 0, EndTime: 6 * time.Second, Text: "earlier and overlapping"},
	}}

	out, err := Run(context.Background(), fake, media, RunOptions{PrepareAudio: copyPrepare})
	require.NoError(t, err)

	assert.Equal(t, OutputPathFor(media), out.Path)
	assert.True(t, strings.HasSuffix(out.Path, "talk.transcript.json"))
	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, "en", out.Language)

	// prepared audio lives in the per-run work dir
	seen := fake.seen.Load().(string)
	assert.Contains(t, seen, out.RunID)
	_, err = os.Stat(seen)
	assert.True(t, os.IsNotExist(err), "work dir should be removed")

	// raw output keeps provider order and overlap
	cues, err := subtitle.Default(subtitle.DefaultOptions()).ReadFile(out.Path)
	require.NoError(t, err)
	assert.Equal(t, []cue.Cue{
		{Start: 5000, End: 9000, Text: "later"},
		{Start: 0, End: 6000, Text: "earlier and overlapping"},
	}, cues)
	assert.Equal(t, cues, out.Cues)

	_, err = os.Stat(strings.TrimSuffix(media, ".wav") + ".json")
	assert.True(t, os.IsNotExist(err), "sidecar must not be created")
}

func TestRunCancelledLeavesNoOutput(t *testing.T) {
	media := writeMedia(t)
	fake := &fakeTranscriber{block: true}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := Run(ctx, fake, media, RunOptions{PrepareAudio: copyPrepare})
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(OutputPathFor(media))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunPropagatesFailures(t *testing.T) {
	media := writeMedia(t)

	_, err := Run(context.Background(), &fakeTranscriber{err: errors.New("quota exceeded")}, media, RunOptions{PrepareAudio: copyPrepare})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	failPrepare := func(context.Context, string, string) (string, error) {
		return "", errors.New("no audio stream")
	}
	_, err = Run(context.Background(), &fakeTranscriber{}, media, RunOptions{PrepareAudio: failPrepare})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to prepare audio")

	_, err = Run(context.Background(), &fakeTranscriber{}, filepath.Join(t.TempDir(), "gone.wav"), RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "media file not found")
}

func TestRunCustomOutputPathAndSplitter(t *testing.T) {
	media := writeMedia(t)
	target := filepath.Join(t.TempDir(), "nested", "raw.json")
	fake := &fakeTranscriber{segments: []Segment{
		{StartTime: 0, EndTime: 10 * time.Second, Text: "a b c d"},
	}}

	out, err := Run(context.Background(), fake, media, RunOptions{
		OutputPath:   target,
		Splitter:     Splitter{MaxDuration: 5 * time.Second},
		PrepareAudio: copyPrepare,
	})
	require.NoError(t, err)
	assert.Equal(t, target, out.Path)
	require.Len(t, out.Cues, 3)
	assert.Equal(t, int64(10000), int64(out.Cues[2].End))
}

func TestPrepareAudioRejectsUnknownMedia(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := PrepareAudio(context.Background(), path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported media file")
}

func TestTranscribeChunksAppliesOffsets(t *testing.T) {
	fake := &fakeTranscriber{segments: []Segment{{StartTime: time.Second, EndTime: 2 * time.Second, Text: "hi"}}}
	chunks := audio.PlanChunks(150*time.Second, time.Minute)
	for i := range chunks {
		chunks[i].Path = "chunk"
	}

	result, err := TranscribeChunks(context.Background(), fake, chunks, 2)
	require.NoError(t, err)
	require.Len(t, result.Segments, 3)
	assert.Equal(t, time.Second, result.Segments[0].StartTime)
	assert.Equal(t, 61*time.Second, result.Segments[1].StartTime)
	assert.Equal(t, 122*time.Second, result.Segments[2].EndTime)
	assert.Equal(t, 150*time.Second, result.Duration)
	assert.Equal(t, int32(3), fake.calls.Load())
}

func TestTranscribeChunksFirstErrorWins(t *testing.T) {
	fake := &fakeTranscriber{err: errors.New("boom")}
	chunks := audio.PlanChunks(5*time.Minute, time.Minute)

	_, err := TranscribeChunks(context.Background(), fake, chunks, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Less(t, fake.calls.Load(), int32(len(chunks)))
}

func TestTranscribeChunksCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := TranscribeChunks(ctx, &fakeTranscriber{}, audio.PlanChunks(2*time.Minute, time.Minute), 2)
	assert.ErrorIs(t, err, context.Canceled)

	empty, err := TranscribeChunks(context.Background(), &fakeTranscriber{}, nil, 2)
	require.NoError(t, err)
	assert.Empty(t, empty.Segments)
}
