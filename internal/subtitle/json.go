package subtitle

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mgpai22/cuesheet/internal/cue"
	"github.com/mgpai22/cuesheet/internal/timecode"
)

// one sidecar entry, timestamps in HH:MM:SS.mmm
type jsonEntry struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Text  string `json:"text"`
}

// the sidecar JSON list, also usable as an import/export format
type jsonCodec struct{}

func (c *jsonCodec) Format() Format { return FormatJSON }

func (c *jsonCodec) Decode(r io.Reader) ([]cue.Cue, error) {
	var entries []jsonEntry
	if err := json.NewDecoder(utf8Reader(r)).Decode(&entries); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, &ParseError{Format: FormatJSON, Err: err}
	}

	cues := make([]cue.Cue, 0, len(entries))
	for i, e := range entries {
		start, err := timecode.Parse(e.Start, timecode.Sidecar)
		if err != nil {
			return nil, &ParseError{Format: FormatJSON, Err: fmt.Errorf("entry %d start: %w", i, err)}
		}
		end, err := timecode.Parse(e.End, timecode.Sidecar)
		if err != nil {
			return nil, &ParseError{Format: FormatJSON, Err: fmt.Errorf("entry %d end: %w", i, err)}
		}
		cues = append(cues, cue.Cue{Start: start, End: end, Text: cleanText(e.Text)})
	}
	return cues, nil
}

func (c *jsonCodec) Encode(w io.Writer, cues []cue.Cue) error {
	entries := make([]jsonEntry, 0, len(cues))
	for _, entry := range cues {
		entries = append(entries, jsonEntry{
			Start: timecode.Format(entry.Start, timecode.Sidecar),
			End:   timecode.Format(entry.End, timecode.Sidecar),
			Text:  entry.Text,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(entries)
}
