package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mgpai22/cuesheet/internal/cue"
	"github.com/mgpai22/cuesheet/internal/timecode"
)

// WebVTT format
type vttCodec struct{}

func (c *vttCodec) Format() Format { return FormatVTT }

func (c *vttCodec) Decode(r io.Reader) ([]cue.Cue, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	i := 0
	for i < len(lines) && isBlank(lines[i]) {
		i++
	}
	if i >= len(lines) || !isVTTHeader(lines[i]) {
		return nil, parseErr(FormatVTT, i+1, "missing WEBVTT header")
	}
	// header text runs until the first blank line
	for i < len(lines) && !isBlank(lines[i]) {
		i++
	}

	var cues []cue.Cue
	for i < len(lines) {
		if isBlank(lines[i]) {
			i++
			continue
		}

		blockStart := i
		end := i
		for end < len(lines) && !isBlank(lines[end]) {
			end++
		}
		block := lines[blockStart:end]
		i = end

		if isVTTMetadataBlock(block[0]) {
			continue
		}

		timingIdx := 0
		if !strings.Contains(block[0], "-->") {
			// cue identifier
			timingIdx = 1
			if len(block) < 2 {
				return nil, parseErr(FormatVTT, blockStart+1, "cue identifier %q without timing line", block[0])
			}
		}

		c, err := parseArrowTiming(FormatVTT, timecode.VTT, block[timingIdx], blockStart+timingIdx+1)
		if err != nil {
			return nil, err
		}
		c.Text = cleanText(block[timingIdx+1:]...)
		cues = append(cues, c)
	}

	return cues, nil
}

func (c *vttCodec) Encode(w io.Writer, cues []cue.Cue) error {
	bw := bufio.NewWriter(w)

	// VTT header
	bw.WriteString("WEBVTT\n\n")

	for _, entry := range cues {
		// timestamps: 00:00:00.000 --> 00:00:00.000
		fmt.Fprintf(bw, "%s --> %s\n",
			timecode.Format(entry.Start, timecode.VTT),
			timecode.Format(entry.End, timecode.VTT))

		for _, line := range textLines(entry.Text) {
			bw.WriteString(line)
			bw.WriteString("\n")
		}
		bw.WriteString("\n")
	}

	return bw.Flush()
}

func isVTTHeader(line string) bool {
	line = strings.TrimSpace(line)
	return line == "WEBVTT" ||
		strings.HasPrefix(line, "WEBVTT ") ||
		strings.HasPrefix(line, "WEBVTT\t")
}

func isVTTMetadataBlock(first string) bool {
	for _, kw := range []string{"NOTE", "STYLE", "REGION"} {
		if first == kw || strings.HasPrefix(first, kw+" ") || strings.HasPrefix(first, kw+"\t") {
			return true
		}
	}
	return false
}
