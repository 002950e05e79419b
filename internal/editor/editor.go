// Package editor holds an editing session: one media file, its duration
// bound, its timeline and the sidecar the timeline is persisted to.
package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mgpai22/cuesheet/internal/audio"
	"github.com/mgpai22/cuesheet/internal/cue"
	"github.com/mgpai22/cuesheet/internal/logging"
	"github.com/mgpai22/cuesheet/internal/sidecar"
	"github.com/mgpai22/cuesheet/internal/subtitle"
	"github.com/mgpai22/cuesheet/internal/timecode"
	"github.com/mgpai22/cuesheet/internal/timeline"
)

// Prober reports the playable duration of a media file.
type Prober func(ctx context.Context, path string) (time.Duration, error)

// Policy holds the editing defaults that are not properties of the data.
type Policy struct {
	AutoEndPerWord timecode.Millis
	DefaultCue     timecode.Millis
}

func DefaultPolicy() Policy {
	return Policy{AutoEndPerWord: 1000, DefaultCue: 2000}
}

type Options struct {
	// Duration skips probing when positive.
	Duration timecode.Millis
	Policy   Policy
	Logger   *logging.Logger
	Prober   Prober
	Registry *subtitle.Registry
}

// ErrNegativeTime is returned when a cue would start or end before zero.
var ErrNegativeTime = errors.New("cue times must not be negative")

// SaveError wraps a failed persist. The in-memory edit it follows is kept.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string { return "edit kept in memory but not saved: " + e.Err.Error() }

func (e *SaveError) Unwrap() error { return e.Err }

type Session struct {
	media    string
	duration timecode.Millis
	policy   Policy
	tl       *timeline.Timeline
	store    *sidecar.Store
	registry *subtitle.Registry
	logger   *logging.Logger
}

// Open starts a session for mediaPath. The duration is probed unless given;
// an unprobeable file gets an unbounded timeline. A missing sidecar is
// created empty.
func Open(ctx context.Context, mediaPath string, opts Options) (*Session, error) {
	if _, err := os.Stat(mediaPath); err != nil {
		return nil, fmt.Errorf("failed to open media: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	registry := opts.Registry
	if registry == nil {
		registry = subtitle.Default(subtitle.DefaultOptions())
	}
	policy := opts.Policy
	if policy.AutoEndPerWord <= 0 {
		policy.AutoEndPerWord = DefaultPolicy().AutoEndPerWord
	}
	if policy.DefaultCue <= 0 {
		policy.DefaultCue = DefaultPolicy().DefaultCue
	}

	duration := opts.Duration
	if duration <= 0 {
		prober := opts.Prober
		if prober == nil {
			prober = audio.GetDuration
		}
		d, err := prober(ctx, mediaPath)
		if err != nil || d <= 0 {
			logger.Warnw("media duration unknown, nudges are unbounded", "media", mediaPath, "error", err)
			duration = timecode.Unbounded
		} else {
			duration = timecode.FromDuration(d)
		}
	}

	store := sidecar.ForMedia(mediaPath, registry)
	tl, exists, err := store.Load()
	if err != nil {
		return nil, err
	}

	s := &Session{
		media:    mediaPath,
		duration: duration,
		policy:   policy,
		tl:       tl,
		store:    store,
		registry: registry,
		logger:   logger.With("media", mediaPath),
	}

	if !exists {
		if err := s.persist(); err != nil {
			return nil, err
		}
		s.logger.Infow("created sidecar", "path", store.Path())
	}
	return s, nil
}

func (s *Session) MediaPath() string { return s.media }

func (s *Session) SidecarPath() string { return s.store.Path() }

// Duration is the media length, or timecode.Unbounded when unknown.
func (s *Session) Duration() timecode.Millis { return s.duration }

func (s *Session) Len() int { return s.tl.Len() }

// Cues returns a copy of the current cues in timeline order.
func (s *Session) Cues() []cue.Cue { return s.tl.Cues() }

// Add inserts a cue and returns its index. With autoEnd the end is estimated
// from the word count; a nil end means start plus the default cue length.
func (s *Session) Add(start timecode.Millis, end *timecode.Millis, text string, autoEnd bool) (int, error) {
	c := cue.Cue{Start: start, Text: text}
	switch {
	case autoEnd:
		c.End = cue.AutoEnd(start, text, s.policy.AutoEndPerWord)
	case end != nil:
		c.End = *end
	default:
		c.End = start + s.policy.DefaultCue
	}
	if err := checkCue(c); err != nil {
		return -1, err
	}

	i := s.tl.Insert(c)
	s.logger.Debugw("added cue", "index", i, "start", c.Start, "end", c.End)
	return i, s.persist()
}

// EditValues names the fields of a cue to change; nil fields are kept.
type EditValues struct {
	Start *timecode.Millis
	End   *timecode.Millis
	Text  *string
}

// Edit changes the cue at i and returns the index it moved to.
func (s *Session) Edit(i int, v EditValues) (int, error) {
	c, err := s.tl.At(i)
	if err != nil {
		return -1, err
	}
	if v.Start != nil {
		c.Start = *v.Start
	}
	if v.End != nil {
		c.End = *v.End
	}
	if v.Text != nil {
		c.Text = *v.Text
	}
	if err := checkCue(c); err != nil {
		return -1, err
	}

	j, err := s.tl.Update(i, c)
	if err != nil {
		return -1, err
	}
	s.logger.Debugw("edited cue", "index", i, "new_index", j)
	return j, s.persist()
}

func (s *Session) Delete(i int) error {
	if err := s.tl.Remove(i); err != nil {
		return err
	}
	s.logger.Debugw("deleted cue", "index", i)
	return s.persist()
}

// Nudge shifts one edge of the cue at i, clamped to the media duration.
func (s *Session) Nudge(i int, edge timeline.Edge, delta timecode.Millis) (cue.Cue, error) {
	if err := s.tl.Nudge(i, edge, delta, s.duration); err != nil {
		return cue.Cue{}, err
	}
	c, _ := s.tl.At(i)
	s.logger.Debugw("nudged cue", "index", i, "edge", edge.String(), "delta", delta)
	return c, s.persist()
}

// ActiveAt returns the cue shown at pos, which is clamped to the media.
func (s *Session) ActiveAt(pos timecode.Millis) (int, cue.Cue, bool) {
	return s.tl.ActiveCueAt(pos.Clamp(0, s.duration))
}

// Normalize rewrites the sidecar in canonical order.
func (s *Session) Normalize() error {
	return s.persist()
}

// Adopt ingests the raw output of a finished transcription run and saves.
func (s *Session) Adopt(outputPath string) (timeline.IngestReport, error) {
	raw, err := s.registry.ReadFile(outputPath)
	if err != nil {
		return timeline.IngestReport{}, fmt.Errorf("failed to read transcription output: %w", err)
	}
	report := s.tl.Ingest(raw)
	s.logger.Infow("adopted transcription",
		"path", outputPath,
		"accepted", report.Accepted,
		"corrected", report.Corrected,
		"truncated", report.Truncated,
	)
	return report, s.persist()
}

// Import replaces the timeline with the cues of a subtitle file.
func (s *Session) Import(path string) (int, error) {
	cues, err := s.registry.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if err := s.Replace(cues); err != nil {
		return 0, err
	}
	s.logger.Infow("imported subtitles", "path", path, "cues", len(cues))
	return len(cues), nil
}

// Replace swaps the whole timeline for cues and saves. Invalid cues leave
// the session unchanged.
func (s *Session) Replace(cues []cue.Cue) error {
	for i, c := range cues {
		if err := checkCue(c); err != nil {
			return fmt.Errorf("cue %d: %w", i, err)
		}
	}
	s.tl = timeline.New(cues...)
	return s.persist()
}

// Export writes the timeline in the format implied by path's extension.
func (s *Session) Export(path string) error {
	s.tl.Normalize()
	if err := s.registry.WriteFile(path, s.tl.Cues()); err != nil {
		return err
	}
	s.logger.Infow("exported subtitles", "path", path, "cues", s.tl.Len())
	return nil
}

func (s *Session) persist() error {
	if err := s.store.Save(s.tl); err != nil {
		s.logger.Warnw("failed to save sidecar", "path", s.store.Path(), "error", err)
		return &SaveError{Err: err}
	}
	return nil
}

func checkCue(c cue.Cue) error {
	if c.Start < 0 || c.End < 0 {
		return ErrNegativeTime
	}
	return c.Validate()
}
