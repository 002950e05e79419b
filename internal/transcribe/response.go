package transcribe

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// segment from a model's JSON response, times in seconds
type transcriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

var jsonBlockRegex = regexp.MustCompile("```(?:json)?\\s*")

// removes markdown formatting from the response
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)

	// remove ```json and ``` markers
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")

	return strings.TrimSpace(s)
}

// wrapper keys tried before any other key of an object
var preferredKeys = []string{"segments", "transcript", "data"}

// extractTranscriptSegments finds the first JSON value in s that holds a
// usable segment list. Models wrap the array in prose, fences or an object.
func extractTranscriptSegments(s string) ([]transcriptSegment, error) {
	for i := 0; i < len(s); i++ {
		if s[i] != '[' && s[i] != '{' {
			continue
		}
		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(s[i:])).Decode(&raw); err != nil {
			continue
		}
		if segments, ok := segmentsFromValue(raw, 0); ok {
			return segments, nil
		}
	}
	return nil, fmt.Errorf("%w in response: %s", errNoSegments, truncateString(s, 200))
}

func segmentsFromValue(raw json.RawMessage, depth int) ([]transcriptSegment, bool) {
	if depth > 4 {
		return nil, false
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil, false
	}

	switch trimmed[0] {
	case '[':
		var segments []transcriptSegment
		if err := json.Unmarshal(raw, &segments); err != nil {
			return nil, false
		}
		return segments, validateSegments(segments)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, false
		}
		for _, key := range orderedKeys(obj) {
			if segments, ok := segmentsFromValue(obj[key], depth+1); ok {
				return segments, true
			}
		}
	}
	return nil, false
}

func orderedKeys(obj map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(obj))
	for _, k := range preferredKeys {
		if _, ok := obj[k]; ok {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range obj {
		if k != "segments" && k != "transcript" && k != "data" {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// at least one segment must carry a time or text
func validateSegments(segments []transcriptSegment) bool {
	for _, seg := range segments {
		if seg.Start != 0 || seg.End != 0 || seg.Text != "" {
			return true
		}
	}
	return false
}

func toSegments(ts []transcriptSegment) []Segment {
	segments := make([]Segment, len(ts))
	for i, s := range ts {
		segments[i] = Segment{
			StartTime: seconds(s.Start),
			EndTime:   seconds(s.End),
			Text:      strings.TrimSpace(s.Text),
		}
	}
	return segments
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// parseSegmentsText runs the full cleanup and extraction on model output.
func parseSegmentsText(text string) ([]Segment, error) {
	cleaned := cleanJSONResponse(text)
	if cleaned == "" {
		return nil, errNoSegments
	}
	ts, err := extractTranscriptSegments(cleaned)
	if err != nil {
		return nil, err
	}
	return toSegments(ts), nil
}

// truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// latest segment end
func segmentsDuration(segments []Segment) time.Duration {
	var d time.Duration
	for _, s := range segments {
		if s.EndTime > d {
			d = s.EndTime
		}
	}
	return d
}
