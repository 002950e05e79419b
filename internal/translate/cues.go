package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgpai22/cuesheet/internal/cue"
)

// Cues translates cue texts and returns new cues with the original timings.
// Cues without text are passed through untouched.
func Cues(ctx context.Context, t Translator, cues []cue.Cue) ([]cue.Cue, error) {
	var items []TranslationItem
	for i, c := range cues {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		items = append(items, TranslationItem{Index: i, Text: c.Text})
	}

	out := append([]cue.Cue(nil), cues...)
	if len(items) == 0 {
		return out, nil
	}

	results, err := t.Translate(ctx, items)
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		if r.Index < 0 || r.Index >= len(out) {
			return nil, fmt.Errorf("translation returned index %d outside %d cues", r.Index, len(out))
		}
		out[r.Index].Text = strings.TrimSpace(r.Text)
	}
	return out, nil
}
