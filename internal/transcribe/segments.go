package transcribe

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mgpai22/cuesheet/internal/cue"
	"github.com/mgpai22/cuesheet/internal/timecode"
)

// Splitter turns raw segments into cues, breaking up segments that are too
// long to read as a single subtitle. Times are kept as reported; overlap
// and ordering are left for the timeline to normalize.
type Splitter struct {
	MaxChars    int           // 0 disables the length limit
	MaxDuration time.Duration // 0 disables the duration limit
}

func NewSplitter(maxDuration time.Duration) Splitter {
	return Splitter{
		MaxChars:    84, // two lines of 42
		MaxDuration: maxDuration,
	}
}

// Cues converts segments in order, skipping ones without text.
func (s Splitter) Cues(segments []Segment) []cue.Cue {
	cues := make([]cue.Cue, 0, len(segments))
	for _, seg := range segments {
		text := strings.Join(strings.Fields(seg.Text), " ")
		if text == "" {
			continue
		}
		seg.Text = text
		if s.needsSplit(seg) {
			cues = append(cues, s.split(seg)...)
			continue
		}
		cues = append(cues, toCue(seg.StartTime, seg.EndTime, text))
	}
	return cues
}

func toCue(start, end time.Duration, text string) cue.Cue {
	return cue.Cue{
		Start: timecode.FromDuration(start),
		End:   timecode.FromDuration(end),
		Text:  text,
	}
}

func (s Splitter) needsSplit(seg Segment) bool {
	if s.MaxChars > 0 && utf8.RuneCountInString(seg.Text) > s.MaxChars {
		return true
	}
	return s.MaxDuration > 0 && seg.EndTime-seg.StartTime > s.MaxDuration
}

// split spreads the words evenly over enough pieces to satisfy both limits.
// The last piece ends exactly where the segment did.
func (s Splitter) split(seg Segment) []cue.Cue {
	words := strings.Fields(seg.Text)
	total := seg.EndTime - seg.StartTime

	pieces := 1
	if s.MaxChars > 0 {
		chars := utf8.RuneCountInString(seg.Text)
		pieces = (chars + s.MaxChars - 1) / s.MaxChars
	}
	if s.MaxDuration > 0 && total > 0 {
		if byTime := int(total/s.MaxDuration) + 1; byTime > pieces {
			pieces = byTime
		}
	}
	if pieces > len(words) {
		pieces = len(words)
	}
	if pieces <= 1 {
		return []cue.Cue{toCue(seg.StartTime, seg.EndTime, seg.Text)}
	}

	wordsPer := (len(words) + pieces - 1) / pieces
	step := total / time.Duration(pieces)

	cues := make([]cue.Cue, 0, pieces)
	start := seg.StartTime
	for len(words) > 0 {
		n := min(wordsPer, len(words))
		text := strings.Join(words[:n], " ")
		words = words[n:]

		end := start + step
		if len(words) == 0 {
			end = seg.EndTime
		}
		cues = append(cues, toCue(start, end, text))
		start = end
	}
	return cues
}
