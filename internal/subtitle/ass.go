package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mgpai22/cuesheet/internal/cue"
	"github.com/mgpai22/cuesheet/internal/timecode"
)

// Advanced SubStation Alpha (.ass) and SubStation Alpha v4 (.ssa)
type assCodec struct {
	format   Format
	title    string
	fontName string
	fontSize int
}

func newASSCodec(format Format, opts Options) *assCodec {
	return &assCodec{
		format:   format,
		title:    opts.ASSTitle,
		fontName: opts.FontName,
		fontSize: opts.FontSize,
	}
}

func (c *assCodec) Format() Format { return c.format }

// column positions taken from the [Events] Format line
type assColumns struct {
	count int
	start int
	end   int
	text  int
}

func (c *assCodec) Decode(r io.Reader) ([]cue.Cue, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	var cues []cue.Cue
	var cols *assColumns
	inEventsSection := false

	for i, line := range lines {
		lineNum := i + 1
		trimmedLine := strings.TrimSpace(line)

		if strings.HasPrefix(trimmedLine, "[") &&
			strings.HasSuffix(trimmedLine, "]") {
			sectionName := strings.ToLower(
				strings.TrimSuffix(strings.TrimPrefix(trimmedLine, "["), "]"),
			)
			inEventsSection = sectionName == "events"
			continue
		}

		if !inEventsSection {
			continue
		}

		if strings.HasPrefix(trimmedLine, "Format:") {
			cols, err = parseASSFormatLine(strings.TrimPrefix(trimmedLine, "Format:"))
			if err != nil {
				return nil, &ParseError{Format: c.format, Line: lineNum, Err: err}
			}
			continue
		}

		if !strings.HasPrefix(trimmedLine, "Dialogue:") {
			// Comment:, Picture:, Sound: and friends
			continue
		}
		if cols == nil {
			return nil, parseErr(c.format, lineNum, "Dialogue before Format line")
		}

		parsed, err := parseASSDialogue(
			strings.TrimSpace(strings.TrimPrefix(trimmedLine, "Dialogue:")),
			cols,
		)
		if err != nil {
			return nil, &ParseError{Format: c.format, Line: lineNum, Err: err}
		}
		cues = append(cues, parsed)
	}

	if cols == nil {
		return nil, parseErr(c.format, 0, "missing Format line in [Events] section")
	}

	return cues, nil
}

func parseASSFormatLine(formatPart string) (*assColumns, error) {
	columns := strings.Split(formatPart, ",")
	cols := &assColumns{count: len(columns), start: -1, end: -1, text: -1}
	for i, col := range columns {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "start":
			cols.start = i
		case "end":
			cols.end = i
		case "text":
			cols.text = i
		}
	}
	if cols.start < 0 || cols.end < 0 || cols.text < 0 {
		return nil, fmt.Errorf("format line needs Start, End and Text columns")
	}
	// text holds commas, so it has to be the last column
	if cols.text != cols.count-1 {
		return nil, fmt.Errorf("text must be the last format column")
	}
	return cols, nil
}

func parseASSDialogue(content string, cols *assColumns) (cue.Cue, error) {
	parts := splitASSFields(content, cols.count)
	if len(parts) < cols.count {
		return cue.Cue{}, fmt.Errorf(
			"expected %d fields, got %d",
			cols.count,
			len(parts),
		)
	}

	start, err := timecode.Parse(parts[cols.start], timecode.ASS)
	if err != nil {
		return cue.Cue{}, err
	}
	end, err := timecode.Parse(parts[cols.end], timecode.ASS)
	if err != nil {
		return cue.Cue{}, err
	}

	text := strings.NewReplacer(`\N`, "\n", `\n`, "\n", `\h`, " ").Replace(parts[cols.text])
	return cue.Cue{Start: start, End: end, Text: cleanText(text)}, nil
}

func splitASSFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}

	parts := make([]string, 0, numFields)
	remaining := content

	for i := 0; i < numFields-1; i++ {
		idx := strings.Index(remaining, ",")
		if idx == -1 {
			parts = append(parts, remaining)
			remaining = ""
			break
		}
		parts = append(parts, remaining[:idx])
		remaining = remaining[idx+1:]
	}

	parts = append(parts, remaining)

	return parts
}

func (c *assCodec) Encode(w io.Writer, cues []cue.Cue) error {
	bw := bufio.NewWriter(w)
	if c.format == FormatSSA {
		c.writeSSAHeader(bw)
	} else {
		c.writeASSHeader(bw)
	}

	for _, entry := range cues {
		start := timecode.Format(entry.Start, timecode.ASS)
		end := timecode.Format(entry.End, timecode.ASS)
		if c.format == FormatSSA {
			fmt.Fprintf(bw, "Dialogue: Marked=0,%s,%s,Default,,0000,0000,0000,,%s\n",
				start, end, escapeASSText(entry.Text))
		} else {
			fmt.Fprintf(bw, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
				start, end, escapeASSText(entry.Text))
		}
	}

	return bw.Flush()
}

func (c *assCodec) writeASSHeader(bw *bufio.Writer) {
	// script info section
	bw.WriteString("[Script Info]\n")
	fmt.Fprintf(bw, "Title: %s\n", c.title)
	bw.WriteString("ScriptType: v4.00+\n")
	bw.WriteString("Collisions: Normal\n")
	bw.WriteString("PlayDepth: 0\n\n")

	// v4+ styles section
	bw.WriteString("[V4+ Styles]\n")
	bw.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(bw, "Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1\n\n",
		c.fontName, c.fontSize)

	// events section
	bw.WriteString("[Events]\n")
	bw.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
}

func (c *assCodec) writeSSAHeader(bw *bufio.Writer) {
	bw.WriteString("[Script Info]\n")
	fmt.Fprintf(bw, "Title: %s\n", c.title)
	bw.WriteString("ScriptType: v4.00\n")
	bw.WriteString("Collisions: Normal\n")
	bw.WriteString("PlayDepth: 0\n\n")

	// v4 styles use decimal BGR colours
	bw.WriteString("[V4 Styles]\n")
	bw.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, TertiaryColour, BackColour, Bold, Italic, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, AlphaLevel, Encoding\n")
	fmt.Fprintf(bw, "Style: Default,%s,%d,16777215,255,0,0,0,0,1,2,2,2,10,10,10,0,1\n\n",
		c.fontName, c.fontSize)

	bw.WriteString("[Events]\n")
	bw.WriteString("Format: Marked, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
}

func escapeASSText(text string) string {
	return strings.Join(textLines(text), `\N`)
}
