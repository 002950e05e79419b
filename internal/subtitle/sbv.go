package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"

	"github.com/mgpai22/cuesheet/internal/cue"
	"github.com/mgpai22/cuesheet/internal/timecode"
)

var sbvTimingRegex = regexp.MustCompile(`^\s*(\d+:\d+:\d+[.,]\d+)\s*,\s*(\d+:\d+:\d+[.,]\d+)\s*$`)

// YouTube SubViewer format
type sbvCodec struct{}

func (c *sbvCodec) Format() Format { return FormatSBV }

func (c *sbvCodec) Decode(r io.Reader) ([]cue.Cue, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	var cues []cue.Cue
	var current *cue.Cue
	var text []string

	flush := func() {
		if current == nil {
			return
		}
		current.Text = cleanText(text...)
		cues = append(cues, *current)
		current = nil
		text = nil
	}

	for i, line := range lines {
		lineNum := i + 1

		if isBlank(line) {
			flush()
			continue
		}

		if current == nil {
			matches := sbvTimingRegex.FindStringSubmatch(line)
			if matches == nil {
				return nil, parseErr(FormatSBV, lineNum, "expected timing line, got %q", line)
			}
			start, err := timecode.Parse(matches[1], timecode.SBV)
			if err != nil {
				return nil, &ParseError{Format: FormatSBV, Line: lineNum, Err: err}
			}
			end, err := timecode.Parse(matches[2], timecode.SBV)
			if err != nil {
				return nil, &ParseError{Format: FormatSBV, Line: lineNum, Err: err}
			}
			current = &cue.Cue{Start: start, End: end}
			continue
		}

		text = append(text, line)
	}
	flush()

	return cues, nil
}

func (c *sbvCodec) Encode(w io.Writer, cues []cue.Cue) error {
	bw := bufio.NewWriter(w)
	for i, entry := range cues {
		if i > 0 {
			bw.WriteString("\n")
		}
		fmt.Fprintf(bw, "%s,%s\n",
			timecode.Format(entry.Start, timecode.SBV),
			timecode.Format(entry.End, timecode.SBV))
		for _, line := range textLines(entry.Text) {
			bw.WriteString(line)
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}
