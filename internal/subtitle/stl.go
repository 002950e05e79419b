package subtitle

import (
	"fmt"
	"io"
	"strings"

	"github.com/asticode/go-astisub"

	"github.com/mgpai22/cuesheet/internal/cue"
	"github.com/mgpai22/cuesheet/internal/timecode"
)

const stlFramerate = 25

// EBU STL binary subtitles
type stlCodec struct {
	title string
}

func (c *stlCodec) Format() Format { return FormatSTL }

func (c *stlCodec) Decode(r io.Reader) ([]cue.Cue, error) {
	subs, err := astisub.ReadFromSTL(r, astisub.STLOptions{})
	if err != nil {
		return nil, &ParseError{Format: FormatSTL, Err: err}
	}

	cues := make([]cue.Cue, 0, len(subs.Items))
	for _, item := range subs.Items {
		cues = append(cues, cue.Cue{
			Start: timecode.FromDuration(item.StartAt),
			End:   timecode.FromDuration(item.EndAt),
			Text:  cleanText(itemText(item)),
		})
	}
	return cues, nil
}

func (c *stlCodec) Encode(w io.Writer, cues []cue.Cue) error {
	if len(cues) == 0 {
		return fmt.Errorf("stl: %w", astisub.ErrNoSubtitlesToWrite)
	}

	subs := astisub.NewSubtitles()
	subs.Metadata = &astisub.Metadata{
		Framerate: stlFramerate,
		Title:     c.title,
	}
	for _, entry := range cues {
		item := &astisub.Item{
			StartAt: entry.Start.Duration(),
			EndAt:   entry.End.Duration(),
		}
		for _, line := range textLines(entry.Text) {
			item.Lines = append(item.Lines, astisub.Line{
				Items: []astisub.LineItem{{Text: line}},
			})
		}
		subs.Items = append(subs.Items, item)
	}

	return subs.WriteToSTL(w)
}

func itemText(item *astisub.Item) string {
	var sb strings.Builder
	for i, line := range item.Lines {
		if i > 0 {
			sb.WriteRune('\n')
		}
		for j, litem := range line.Items {
			if j > 0 {
				sb.WriteRune(' ')
			}
			sb.WriteString(strings.TrimSpace(litem.Text))
		}
	}
	return sb.String()
}
