package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mgpai22/cuesheet/internal/cue"
	"github.com/mgpai22/cuesheet/internal/timecode"
)

var (
	lrcTagRegex = regexp.MustCompile(`^\[([^\]]*)\]`)
	// enhanced LRC word timings inside the lyric text
	lrcWordTimeRegex = regexp.MustCompile(`<\d+:\d+(?:[.,]\d+)?>`)
)

// LRC lyrics. Lines carry only a start time, so every cue is given a fixed
// duration on read.
type lrcCodec struct {
	cueDuration timecode.Millis
}

func (c *lrcCodec) Format() Format { return FormatLRC }

func (c *lrcCodec) Decode(r io.Reader) ([]cue.Cue, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	var cues []cue.Cue
	for i, line := range lines {
		lineNum := i + 1
		rest := strings.TrimSpace(line)

		var starts []timecode.Millis
		for {
			m := lrcTagRegex.FindStringSubmatch(rest)
			if m == nil {
				break
			}
			tag := m[1]
			if !looksLikeLRCTime(tag) {
				// [ar:...], [ti:...], [offset:...]
				break
			}
			start, err := timecode.Parse(tag, timecode.LRC)
			if err != nil {
				return nil, &ParseError{Format: FormatLRC, Line: lineNum, Err: err}
			}
			starts = append(starts, start)
			rest = strings.TrimSpace(rest[len(m[0]):])
		}

		if len(starts) == 0 {
			continue
		}

		// a bare timestamp marks an instrumental gap and stays as an empty cue
		text := cleanText(lrcWordTimeRegex.ReplaceAllString(rest, ""))

		for _, start := range starts {
			cues = append(cues, cue.Cue{
				Start: start,
				End:   start + c.cueDuration,
				Text:  text,
			})
		}
	}

	return cues, nil
}

func (c *lrcCodec) Encode(w io.Writer, cues []cue.Cue) error {
	bw := bufio.NewWriter(w)
	for _, entry := range cues {
		fmt.Fprintf(bw, "[%s]%s\n",
			timecode.Format(entry.Start, timecode.LRC),
			strings.Join(textLines(entry.Text), " "))
	}
	return bw.Flush()
}

func looksLikeLRCTime(tag string) bool {
	return tag != "" && tag[0] >= '0' && tag[0] <= '9'
}
