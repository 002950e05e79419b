// Package timeline keeps an ordered, non-overlapping set of cues and answers
// which cue is showing at a given media position.
//
// A Timeline has a single writer. Mutations other than Nudge re-normalize
// before returning; Nudge leaves the timeline dirty until the next
// normalizing call.
package timeline

import (
	"fmt"
	"sort"

	"github.com/mgpai22/cuesheet/internal/cue"
	"github.com/mgpai22/cuesheet/internal/timecode"
)

type Timeline struct {
	cues       []cue.Cue
	normalized bool
}

// IndexOutOfRangeError is returned by index based mutations; the timeline is
// left unchanged.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("cue index %d out of range [0,%d)", e.Index, e.Len)
}

// Edge selects which bound of a cue Nudge moves.
type Edge int

const (
	EdgeStart Edge = iota
	EdgeEnd
)

func (e Edge) String() string {
	if e == EdgeEnd {
		return "end"
	}
	return "start"
}

func ParseEdge(s string) (Edge, error) {
	switch s {
	case "start", "s":
		return EdgeStart, nil
	case "end", "e":
		return EdgeEnd, nil
	default:
		return EdgeStart, fmt.Errorf("unknown cue edge %q (want start or end)", s)
	}
}

// IngestReport summarizes a bulk load of raw cues.
type IngestReport struct {
	Accepted  int
	Corrected int // negative or inverted bounds fixed
	Truncated int // ends pulled back to resolve overlap
}

// New returns a normalized timeline holding a copy of cues.
func New(cues ...cue.Cue) *Timeline {
	tl := &Timeline{cues: append([]cue.Cue(nil), cues...)}
	tl.normalize()
	return tl
}

func (t *Timeline) Len() int { return len(t.cues) }

func (t *Timeline) Normalized() bool { return t.normalized }

// Cues returns a copy of the cues in their current order.
func (t *Timeline) Cues() []cue.Cue {
	out := make([]cue.Cue, len(t.cues))
	copy(out, t.cues)
	return out
}

func (t *Timeline) At(i int) (cue.Cue, error) {
	if err := t.checkIndex(i); err != nil {
		return cue.Cue{}, err
	}
	return t.cues[i], nil
}

// Duration is the latest end time across all cues.
func (t *Timeline) Duration() timecode.Millis {
	var last timecode.Millis
	for _, c := range t.cues {
		if c.End > last {
			last = c.End
		}
	}
	return last
}

// Insert adds c, normalizes, and returns the index c ended up at.
func (t *Timeline) Insert(c cue.Cue) int {
	t.cues = append(t.cues, c)
	_, at := t.normalizeTracking(len(t.cues) - 1)
	return at
}

// Update replaces the cue at i in place and returns its index after
// normalization. Among equal starts it keeps its position relative to the
// other cues.
func (t *Timeline) Update(i int, c cue.Cue) (int, error) {
	if err := t.checkIndex(i); err != nil {
		return -1, err
	}
	t.cues[i] = c
	_, at := t.normalizeTracking(i)
	return at, nil
}

func (t *Timeline) Remove(i int) error {
	if err := t.checkIndex(i); err != nil {
		return err
	}
	t.cues = append(t.cues[:i:i], t.cues[i+1:]...)
	t.normalize()
	return nil
}

// Nudge moves one edge of the cue at i by delta, clamped to [0, bound]. The
// timeline is not re-normalized.
func (t *Timeline) Nudge(i int, edge Edge, delta, bound timecode.Millis) error {
	if err := t.checkIndex(i); err != nil {
		return err
	}
	c := &t.cues[i]
	switch edge {
	case EdgeEnd:
		c.End = shift(c.End, delta, bound)
	default:
		c.Start = shift(c.Start, delta, bound)
	}
	t.normalized = false
	return nil
}

// ActiveCueAt returns the cue whose [Start, End] contains pos. When several
// match, the earliest in sorted order wins.
func (t *Timeline) ActiveCueAt(pos timecode.Millis) (int, cue.Cue, bool) {
	if !t.normalized {
		return t.scanActive(pos)
	}

	j := sort.Search(len(t.cues), func(k int) bool {
		return t.cues[k].Start > pos
	}) - 1

	// ends are non-decreasing once normalized, so walking back can stop at
	// the first cue that ends before pos
	best := -1
	for k := j; k >= 0; k-- {
		if t.cues[k].End < pos {
			break
		}
		best = k
	}
	if best < 0 {
		return -1, cue.Cue{}, false
	}
	return best, t.cues[best], true
}

// Normalize repairs inverted cues, sorts by start and truncates overlapping
// ends. Calling it twice is the same as calling it once.
func (t *Timeline) Normalize() {
	t.normalize()
}

// Ingest bulk loads raw cues of unknown quality: negative times become zero,
// inverted bounds are swapped, and the whole timeline is normalized once.
func (t *Timeline) Ingest(raw []cue.Cue) IngestReport {
	report := IngestReport{Accepted: len(raw)}
	for _, c := range raw {
		fixed := false
		if c.Start < 0 {
			c.Start, fixed = 0, true
		}
		if c.End < 0 {
			c.End, fixed = 0, true
		}
		if c.Start > c.End {
			c.Start, c.End, fixed = c.End, c.Start, true
		}
		if fixed {
			report.Corrected++
		}
		t.cues = append(t.cues, c)
	}
	report.Truncated = t.normalize()
	return report
}

func (t *Timeline) normalize() int {
	truncated, _ := t.normalizeTracking(-1)
	return truncated
}

// normalizeTracking normalizes and reports where the cue stored at tracked
// ended up (-1 when tracked is -1).
func (t *Timeline) normalizeTracking(tracked int) (int, int) {
	for i := range t.cues {
		if t.cues[i].End < t.cues[i].Start {
			t.cues[i].End = t.cues[i].Start
		}
	}

	order := t.sortedOrder()
	sorted := make([]cue.Cue, len(order))
	at := -1
	for pos, i := range order {
		sorted[pos] = t.cues[i]
		if i == tracked {
			at = pos
		}
	}
	t.cues = sorted

	truncated := 0
	for i := 0; i+1 < len(t.cues); i++ {
		next := t.cues[i+1].Start
		if t.cues[i].End >= next {
			before := t.cues[i].End
			t.cues[i] = t.cues[i].ClampEndBefore(next)
			if t.cues[i].End != before {
				truncated++
			}
		}
	}

	t.normalized = true
	return truncated, at
}

// sortedOrder lists storage indices stably sorted by start.
func (t *Timeline) sortedOrder() []int {
	order := make([]int, len(t.cues))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t.cues[order[a]].Start < t.cues[order[b]].Start
	})
	return order
}

// scanActive is the lookup for a dirty timeline: first match in stable
// sorted order. The returned index is the storage index, usable with At,
// Update, Remove and Nudge.
func (t *Timeline) scanActive(pos timecode.Millis) (int, cue.Cue, bool) {
	for _, i := range t.sortedOrder() {
		if t.cues[i].Contains(pos) {
			return i, t.cues[i], true
		}
	}
	return -1, cue.Cue{}, false
}

func (t *Timeline) checkIndex(i int) error {
	if i < 0 || i >= len(t.cues) {
		return &IndexOutOfRangeError{Index: i, Len: len(t.cues)}
	}
	return nil
}

// shift adds delta to v without overflowing and clamps to [0, bound].
func shift(v, delta, bound timecode.Millis) timecode.Millis {
	switch {
	case delta > 0 && v > bound-delta:
		return bound
	case delta < 0 && v < -delta:
		return 0
	}
	return (v + delta).Clamp(0, bound)
}
