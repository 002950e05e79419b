package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/mgpai22/cuesheet/internal/cue"
	"github.com/mgpai22/cuesheet/internal/timecode"
)

// start --> end, anything after the end timecode (positioning) is ignored
var arrowTimingRegex = regexp.MustCompile(`^\s*([0-9:.,]+)\s*-->\s*([0-9:.,]+)`)

// SubRip format
type srtCodec struct{}

func (c *srtCodec) Format() Format { return FormatSRT }

func (c *srtCodec) Decode(r io.Reader) ([]cue.Cue, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	const (
		wantIndex = iota
		wantTiming
		inText
	)

	var cues []cue.Cue
	var current cue.Cue
	var text []string
	state := wantIndex

	flush := func() {
		current.Text = cleanText(text...)
		cues = append(cues, current)
		current = cue.Cue{}
		text = nil
	}

	for i, line := range lines {
		lineNum := i + 1

		switch state {
		case wantIndex:
			if isBlank(line) {
				continue
			}
			if _, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
				state = wantTiming
				continue
			}
			// some writers omit the index
			if arrowTimingRegex.MatchString(line) {
				if current, err = parseArrowTiming(FormatSRT, timecode.SRT, line, lineNum); err != nil {
					return nil, err
				}
				state = inText
				continue
			}
			return nil, parseErr(FormatSRT, lineNum, "expected cue index, got %q", line)

		case wantTiming:
			if current, err = parseArrowTiming(FormatSRT, timecode.SRT, line, lineNum); err != nil {
				return nil, err
			}
			state = inText

		case inText:
			if isBlank(line) {
				flush()
				state = wantIndex
				continue
			}
			text = append(text, line)
		}
	}

	switch state {
	case inText:
		flush()
	case wantTiming:
		return nil, parseErr(FormatSRT, len(lines), "cue index without timing line")
	}

	return cues, nil
}

func (c *srtCodec) Encode(w io.Writer, cues []cue.Cue) error {
	bw := bufio.NewWriter(w)
	for i, entry := range cues {
		// index (1-based)
		fmt.Fprintf(bw, "%d\n", i+1)

		// timestamps: 00:00:00,000 --> 00:00:00,000
		fmt.Fprintf(bw, "%s --> %s\n",
			timecode.Format(entry.Start, timecode.SRT),
			timecode.Format(entry.End, timecode.SRT))

		for _, line := range textLines(entry.Text) {
			bw.WriteString(line)
			bw.WriteString("\n")
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

func parseArrowTiming(f Format, g timecode.Grammar, line string, lineNum int) (cue.Cue, error) {
	matches := arrowTimingRegex.FindStringSubmatch(line)
	if len(matches) != 3 {
		return cue.Cue{}, parseErr(f, lineNum, "expected timing line, got %q", line)
	}
	start, err := timecode.Parse(matches[1], g)
	if err != nil {
		return cue.Cue{}, &ParseError{Format: f, Line: lineNum, Err: err}
	}
	end, err := timecode.Parse(matches[2], g)
	if err != nil {
		return cue.Cue{}, &ParseError{Format: f, Line: lineNum, Err: err}
	}
	return cue.Cue{Start: start, End: end}, nil
}
