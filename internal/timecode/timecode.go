package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// point in media time, in milliseconds since media start
type Millis int64

// bound used for clamping when the media duration is unknown
const Unbounded Millis = math.MaxInt64

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// converts a duration, truncating toward zero
func FromDuration(d time.Duration) Millis {
	return Millis(d / time.Millisecond)
}

func (m Millis) Duration() time.Duration {
	return time.Duration(m) * time.Millisecond
}

// Clamp limits m to [lo, hi].
func (m Millis) Clamp(lo, hi Millis) Millis {
	if m < lo {
		return lo
	}
	if m > hi {
		return hi
	}
	return m
}

func (m Millis) String() string {
	return Format(m, Sidecar)
}

// textual timecode grammar of a subtitle format
type Grammar int

const (
	// HH:MM:SS.mmm, the sidecar JSON form
	Sidecar Grammar = iota
	// HH:MM:SS,mmm
	SRT
	// HH:MM:SS.mmm, hours optional on read
	VTT
	// H:MM:SS.cc
	ASS
	// H:MM:SS.mmm
	SBV
	// MM:SS.ss, no hours field
	LRC
)

func (g Grammar) String() string {
	switch g {
	case Sidecar:
		return "sidecar"
	case SRT:
		return "srt"
	case VTT:
		return "vtt"
	case ASS:
		return "ass"
	case SBV:
		return "sbv"
	case LRC:
		return "lrc"
	default:
		return fmt.Sprintf("grammar(%d)", int(g))
	}
}

// FormatError reports text that does not match a timecode grammar.
type FormatError struct {
	Text    string
	Grammar Grammar
	Reason  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s timecode %q: %s", e.Grammar, e.Text, e.Reason)
}

// Parse reads text in the given grammar. Both '.' and ',' are accepted as the
// sub-second separator; sub-millisecond digits are truncated.
func Parse(text string, g Grammar) (Millis, error) {
	raw := text
	text = strings.TrimSpace(text)
	fail := func(reason string) (Millis, error) {
		return 0, &FormatError{Text: raw, Grammar: g, Reason: reason}
	}
	if text == "" {
		return fail("empty")
	}

	head, frac, hasFrac := cutFraction(text)
	if !hasFrac && g != Sidecar && g != LRC {
		return fail("missing sub-second field")
	}

	fields := strings.Split(head, ":")
	var hours, minutes, seconds int64
	var err error

	switch {
	case g == LRC:
		if len(fields) != 2 {
			return fail("expected MM:SS")
		}
		if minutes, err = parseField(fields[0], 0); err != nil {
			return fail("minutes: " + err.Error())
		}
		if seconds, err = parseField(fields[1], 2); err != nil {
			return fail("seconds: " + err.Error())
		}
	case len(fields) == 2 && g == VTT:
		if minutes, err = parseField(fields[0], 2); err != nil {
			return fail("minutes: " + err.Error())
		}
		if seconds, err = parseField(fields[1], 2); err != nil {
			return fail("seconds: " + err.Error())
		}
	case len(fields) == 3:
		if hours, err = parseField(fields[0], 0); err != nil {
			return fail("hours: " + err.Error())
		}
		if minutes, err = parseField(fields[1], 2); err != nil {
			return fail("minutes: " + err.Error())
		}
		if seconds, err = parseField(fields[2], 2); err != nil {
			return fail("seconds: " + err.Error())
		}
		if minutes >= 60 {
			return fail("minutes out of range")
		}
	default:
		return fail(fmt.Sprintf("unexpected field count %d", len(fields)))
	}

	if seconds >= 60 {
		return fail("seconds out of range")
	}

	var ms int64
	if hasFrac {
		if ms, err = parseFraction(frac); err != nil {
			return fail("sub-second: " + err.Error())
		}
	}

	return Millis(hours*msPerHour + minutes*msPerMinute + seconds*msPerSecond + ms), nil
}

// ParseLenient accepts a bare millisecond count or a sidecar/VTT style
// timecode. Used for positions typed by a user.
func ParseLenient(text string) (Millis, error) {
	text = strings.TrimSpace(text)
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		if n < 0 {
			return 0, &FormatError{Text: text, Grammar: Sidecar, Reason: "negative"}
		}
		return Millis(n), nil
	}
	if strings.Count(text, ":") == 1 {
		return Parse(text, VTT)
	}
	return Parse(text, Sidecar)
}

// Format renders ms in the given grammar. Negative values render as zero.
func Format(ms Millis, g Grammar) string {
	if ms < 0 {
		ms = 0
	}
	v := int64(ms)
	h := v / msPerHour
	m := (v / msPerMinute) % 60
	s := (v / msPerSecond) % 60
	f := v % msPerSecond

	switch g {
	case SRT:
		return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, f)
	case ASS:
		return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, f/10)
	case SBV:
		return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, f)
	case LRC:
		return fmt.Sprintf("%02d:%02d.%02d", v/msPerMinute, s, f/10)
	default:
		return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, f)
	}
}

func cutFraction(text string) (head, frac string, ok bool) {
	idx := strings.LastIndexAny(text, ".,")
	if idx < 0 {
		return text, "", false
	}
	return text[:idx], text[idx+1:], true
}

// maxDigits of 0 means unbounded width (up to 9 digits)
func parseField(field string, maxDigits int) (int64, error) {
	if field == "" {
		return 0, fmt.Errorf("empty field")
	}
	limit := maxDigits
	if limit == 0 {
		limit = 9
	}
	if len(field) > limit {
		return 0, fmt.Errorf("too many digits in %q", field)
	}
	for _, r := range field {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-numeric field %q", field)
		}
	}
	return strconv.ParseInt(field, 10, 64)
}

func parseFraction(frac string) (int64, error) {
	if frac == "" || len(frac) > 9 {
		return 0, fmt.Errorf("bad fraction %q", frac)
	}
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-numeric fraction %q", frac)
		}
	}
	if len(frac) > 3 {
		frac = frac[:3]
	}
	for len(frac) < 3 {
		frac += "0"
	}
	return strconv.ParseInt(frac, 10, 64)
}
