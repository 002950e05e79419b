package cue

import (
	"fmt"
	"strings"

	"github.com/mgpai22/cuesheet/internal/timecode"
)

// Cue is one timed subtitle: text shown from Start through End, inclusive.
type Cue struct {
	Start timecode.Millis
	End   timecode.Millis
	Text  string
}

// InvertedRangeError is returned for a cue whose start is after its end.
type InvertedRangeError struct {
	Start timecode.Millis
	End   timecode.Millis
}

func (e *InvertedRangeError) Error() string {
	return fmt.Sprintf("cue start %s is after end %s", e.Start, e.End)
}

// OverlapError reports the first adjacent pair in a sequence that is out of
// order or overlapping. Index is the position of the second cue.
type OverlapError struct {
	Index int
	Prev  Cue
	Next  Cue
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("cue %d (%s-%s) overlaps or precedes cue %d (%s-%s)",
		e.Index, e.Next.Start, e.Next.End, e.Index-1, e.Prev.Start, e.Prev.End)
}

func (c Cue) Validate() error {
	if c.Start > c.End {
		return &InvertedRangeError{Start: c.Start, End: c.End}
	}
	return nil
}

// Contains reports whether pos falls inside the cue, bounds included.
func (c Cue) Contains(pos timecode.Millis) bool {
	return c.Start <= pos && pos <= c.End
}

// Length of the cue in milliseconds.
func (c Cue) Length() timecode.Millis {
	return c.End - c.Start
}

// ClampEndBefore pulls End back so it stops one millisecond before
// otherStart, never earlier than Start.
func (c Cue) ClampEndBefore(otherStart timecode.Millis) Cue {
	if c.End >= otherStart {
		c.End = otherStart - 1
	}
	if c.End < c.Start {
		c.End = c.Start
	}
	return c
}

// ValidateSequence checks that cues are individually valid, sorted by start
// and free of overlap.
func ValidateSequence(cues []Cue) error {
	for i, c := range cues {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("cue %d: %w", i, err)
		}
		if i == 0 {
			continue
		}
		prev := cues[i-1]
		if c.Start < prev.Start || prev.End > c.Start {
			return &OverlapError{Index: i, Prev: prev, Next: c}
		}
	}
	return nil
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// AutoEnd estimates an end time from the word count of text, perWord per
// word.
func AutoEnd(start timecode.Millis, text string, perWord timecode.Millis) timecode.Millis {
	return start + timecode.Millis(WordCount(text))*perWord
}
