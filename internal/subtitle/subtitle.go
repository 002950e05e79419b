package subtitle

import (
	"fmt"
	"io"

	"github.com/mgpai22/cuesheet/internal/cue"
	"github.com/mgpai22/cuesheet/internal/timecode"
)

// represents supported subtitle formats
type Format string

const (
	FormatSRT  Format = "srt"
	FormatVTT  Format = "vtt"
	FormatASS  Format = "ass"
	FormatSSA  Format = "ssa"
	FormatSBV  Format = "sbv"
	FormatLRC  Format = "lrc"
	FormatSTL  Format = "stl"
	FormatJSON Format = "json"
)

// Codec converts between one file format and cues.
//
// Decode returns cues in file order without normalizing them. Encode expects
// a normalized sequence.
type Codec interface {
	Format() Format
	Decode(r io.Reader) ([]cue.Cue, error)
	Encode(w io.Writer, cues []cue.Cue) error
}

// codec settings that are not part of the cue data
type Options struct {
	// synthesized duration of LRC cues, which carry no end time
	LRCCueDuration timecode.Millis
	ASSTitle       string
	FontName       string
	FontSize       int
}

func DefaultOptions() Options {
	return Options{
		LRCCueDuration: 2000,
		ASSTitle:       "Cuesheet Subtitles",
		FontName:       "Arial",
		FontSize:       20,
	}
}

// UnsupportedFormatError is returned for a path or format name with no
// registered codec.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported subtitle format: %q", e.Ext)
}

// ParseError reports malformed content. Line is 1-based, or 0 when the
// failure is not tied to a line.
type ParseError struct {
	Format Format
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %v", e.Format, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErr(f Format, line int, format string, args ...any) error {
	return &ParseError{Format: f, Line: line, Err: fmt.Errorf(format, args...)}
}
