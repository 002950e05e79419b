package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mgpai22/cuesheet/internal/audio"
	"github.com/mgpai22/cuesheet/internal/cue"
	"github.com/mgpai22/cuesheet/internal/fsutil"
	"github.com/mgpai22/cuesheet/internal/logging"
	"github.com/mgpai22/cuesheet/internal/subtitle"
	"github.com/mgpai22/cuesheet/internal/video"
)

// PrepareFunc writes transcribable audio for mediaPath into dir.
type PrepareFunc func(ctx context.Context, mediaPath, dir string) (string, error)

// RunOptions controls a transcription job.
type RunOptions struct {
	ChunkDuration time.Duration // 0 sends the whole file in one request
	Concurrency   int
	OutputPath    string // defaults to OutputPathFor(mediaPath)
	Splitter      Splitter
	Logger        *logging.Logger
	Registry      *subtitle.Registry
	PrepareAudio  PrepareFunc // defaults to PrepareAudio
}

// Output describes a finished job.
type Output struct {
	RunID    string
	Path     string
	Cues     []cue.Cue
	Duration time.Duration
	Language string
}

// OutputPathFor is where raw transcription output for a media file goes.
// It is never the sidecar, so an unfinished job cannot clobber edits.
func OutputPathFor(mediaPath string) string {
	base := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	return base + ".transcript.json"
}

// Run transcribes mediaPath and writes the raw cues to the job's output
// path. Cues are written as reported; they are normalized on adoption.
// Cancelling ctx stops ffmpeg and the provider and leaves no output.
func Run(ctx context.Context, t Transcriber, mediaPath string, opts RunOptions) (*Output, error) {
	if _, err := os.Stat(mediaPath); err != nil {
		return nil, fmt.Errorf("media file not found: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	registry := opts.Registry
	if registry == nil {
		registry = subtitle.Default(subtitle.DefaultOptions())
	}
	prepare := opts.PrepareAudio
	if prepare == nil {
		prepare = PrepareAudio
	}
	outPath := opts.OutputPath
	if outPath == "" {
		outPath = OutputPathFor(mediaPath)
	}

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)

	workDir, err := os.MkdirTemp("", "cuesheet-"+runID+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Warnw("failed to remove work directory", "dir", workDir, "error", err)
		}
	}()

	logger.Infow("preparing audio", "media", mediaPath)
	audioPath, err := prepare(ctx, mediaPath, workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare audio: %w", err)
	}

	var result *Result
	if opts.ChunkDuration <= 0 {
		logger.Infow("transcribing", "audio", audioPath)
		result, err = t.Transcribe(ctx, audioPath)
	} else {
		result, err = transcribeChunked(ctx, t, audioPath, workDir, opts, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cues := opts.Splitter.Cues(result.Segments)

	codec, err := registry.Codec(subtitle.FormatJSON)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := codec.Encode(&buf, cues); err != nil {
		return nil, fmt.Errorf("failed to encode transcript: %w", err)
	}
	if err := fsutil.WriteFileAtomic(outPath, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write transcript: %w", err)
	}

	logger.Infow("transcript written",
		"path", outPath,
		"segments", len(result.Segments),
		"cues", len(cues),
	)

	return &Output{
		RunID:    runID,
		Path:     outPath,
		Cues:     cues,
		Duration: result.Duration,
		Language: result.Language,
	}, nil
}

func transcribeChunked(
	ctx context.Context,
	t Transcriber,
	audioPath, workDir string,
	opts RunOptions,
	logger *logging.Logger,
) (*Result, error) {
	chunks, err := audio.ChunkAudio(
		ctx,
		audioPath,
		opts.ChunkDuration,
		filepath.Join(workDir, "chunks"),
		opts.Concurrency,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk audio: %w", err)
	}
	logger.Infow("transcribing chunks", "chunks", len(chunks), "concurrency", opts.Concurrency)

	return TranscribeChunks(ctx, t, chunks, opts.Concurrency)
}

// PrepareAudio extracts mono speech audio from video or compresses an
// audio file for upload.
func PrepareAudio(ctx context.Context, mediaPath, dir string) (string, error) {
	outPath := filepath.Join(dir, "audio.mp3")

	switch {
	case audio.IsVideoFile(mediaPath):
		processor := video.NewProcessor()
		info, err := processor.GetInfo(ctx, mediaPath)
		if err != nil {
			return "", err
		}
		if !info.HasAudio {
			return "", errors.New("video has no audio stream")
		}
		opts := video.DefaultExtractAudioOptions()
		opts.Format = "mp3"
		opts.Bitrate = "64k"
		if err := processor.ExtractAudio(ctx, mediaPath, outPath, opts); err != nil {
			return "", err
		}
	case audio.IsAudioFile(mediaPath):
		if err := audio.CompressAudio(ctx, mediaPath, outPath, audio.DefaultCompressionOptions()); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unsupported media file: %s", filepath.Base(mediaPath))
	}
	return outPath, nil
}
