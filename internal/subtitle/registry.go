package subtitle

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mgpai22/cuesheet/internal/cue"
	"github.com/mgpai22/cuesheet/internal/fsutil"
)

// Registry maps formats and file extensions to codecs.
type Registry struct {
	codecs map[Format]Codec
	exts   map[string]Format
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[Format]Codec),
		exts:   make(map[string]Format),
	}
}

// Default returns a registry with every built-in codec.
func Default(opts Options) *Registry {
	r := NewRegistry()
	r.Register(&srtCodec{}, ".srt")
	r.Register(&vttCodec{}, ".vtt")
	r.Register(newASSCodec(FormatASS, opts), ".ass")
	r.Register(newASSCodec(FormatSSA, opts), ".ssa")
	r.Register(&sbvCodec{}, ".sbv")
	r.Register(&lrcCodec{cueDuration: opts.LRCCueDuration}, ".lrc")
	r.Register(&stlCodec{title: opts.ASSTitle}, ".stl")
	r.Register(&jsonCodec{}, ".json")
	return r
}

// Register adds c under its format and the given extensions, replacing any
// previous codec for them.
func (r *Registry) Register(c Codec, exts ...string) {
	r.codecs[c.Format()] = c
	for _, ext := range exts {
		r.exts[normalizeExt(ext)] = c.Format()
	}
}

func (r *Registry) Codec(format Format) (Codec, error) {
	c, ok := r.codecs[Format(strings.ToLower(string(format)))]
	if !ok {
		return nil, &UnsupportedFormatError{Ext: string(format)}
	}
	return c, nil
}

// FormatForPath picks a format from the file extension.
func (r *Registry) FormatForPath(path string) (Format, error) {
	ext := normalizeExt(filepath.Ext(path))
	f, ok := r.exts[ext]
	if !ok {
		return "", &UnsupportedFormatError{Ext: ext}
	}
	return f, nil
}

// Formats lists registered formats in name order.
func (r *Registry) Formats() []Format {
	out := make([]Format, 0, len(r.codecs))
	for f := range r.codecs {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Load decodes data in the given format. Cues come back in file order.
func (r *Registry) Load(format Format, data []byte) ([]cue.Cue, error) {
	c, err := r.Codec(format)
	if err != nil {
		return nil, err
	}
	return c.Decode(bytes.NewReader(data))
}

// Save encodes a normalized cue sequence. Unsorted or overlapping input is
// rejected before anything is written.
func (r *Registry) Save(format Format, cues []cue.Cue) ([]byte, error) {
	c, err := r.Codec(format)
	if err != nil {
		return nil, err
	}
	if err := cue.ValidateSequence(cues); err != nil {
		return nil, fmt.Errorf("refusing to encode %s: %w", format, err)
	}
	var buf bytes.Buffer
	if err := c.Encode(&buf, cues); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

func (r *Registry) ReadFile(path string) ([]cue.Cue, error) {
	format, err := r.FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}
	return r.Load(format, data)
}

// WriteFile encodes cues in the format implied by path and replaces the file
// atomically.
func (r *Registry) WriteFile(path string, cues []cue.Cue) error {
	format, err := r.FormatForPath(path)
	if err != nil {
		return err
	}
	data, err := r.Save(format, cues)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write subtitle file: %w", err)
	}
	return nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
