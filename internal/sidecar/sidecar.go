// Package sidecar persists a timeline as the JSON file that sits beside its
// media file.
package sidecar

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/mgpai22/cuesheet/internal/fsutil"
	"github.com/mgpai22/cuesheet/internal/subtitle"
	"github.com/mgpai22/cuesheet/internal/timeline"
)

const (
	lockTimeout    = 5 * time.Second
	lockRetryDelay = 50 * time.Millisecond
)

// PathFor returns the sidecar path for a media file: same directory and base
// name, .json extension.
func PathFor(mediaPath string) string {
	return strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + ".json"
}

type Store struct {
	path     string
	registry *subtitle.Registry
}

// New returns a store for the sidecar at path. A nil registry uses the
// built-in codecs.
func New(path string, registry *subtitle.Registry) *Store {
	if registry == nil {
		registry = subtitle.Default(subtitle.DefaultOptions())
	}
	return &Store{path: path, registry: registry}
}

// ForMedia returns the store for the sidecar of mediaPath.
func ForMedia(mediaPath string, registry *subtitle.Registry) *Store {
	return New(PathFor(mediaPath), registry)
}

func (s *Store) Path() string { return s.path }

// Load reads the sidecar into a normalized timeline. The bool reports
// whether the file existed; a missing file yields an empty timeline.
func (s *Store) Load() (*timeline.Timeline, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return timeline.New(), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read sidecar: %w", err)
	}

	cues, err := s.registry.Load(subtitle.FormatJSON, data)
	if err != nil {
		return nil, true, fmt.Errorf("failed to parse sidecar %s: %w", s.path, err)
	}
	return timeline.New(cues...), true, nil
}

// Save normalizes tl and replaces the sidecar file. The write happens under
// an exclusive lock on <path>.lock; on failure the previous file is kept.
func (s *Store) Save(tl *timeline.Timeline) error {
	tl.Normalize()

	data, err := s.registry.Save(subtitle.FormatJSON, tl.Cues())
	if err != nil {
		return fmt.Errorf("failed to encode sidecar: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create sidecar directory: %w", err)
	}

	lock := flock.New(s.path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to lock sidecar: %w", err)
	}
	if !ok {
		return fmt.Errorf("sidecar %s is locked by another process", s.path)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if err := fsutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write sidecar: %w", err)
	}
	return nil
}
