package transcribe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// raw speech segment as reported by a provider, before normalization
type Segment struct {
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// transcription result
type Result struct {
	Segments []Segment
	Language string
	Duration time.Duration
}

// interface for audio transcription
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// transcription service provider
type Provider string

const (
	ProviderGemini  Provider = "gemini"
	ProviderOpenAI  Provider = "openai"
	ProviderCommand Provider = "command"
)

// ParseProvider accepts a provider name in any case.
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(name))); p {
	case ProviderGemini, ProviderOpenAI, ProviderCommand:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported provider: %s", name)
	}
}

// NeedsAPIKey reports whether the provider talks to a hosted API.
func (p Provider) NeedsAPIKey() bool {
	return p == ProviderGemini || p == ProviderOpenAI
}

// Chunked reports whether audio should be split before transcription.
// External commands receive the whole file.
func (p Provider) Chunked() bool {
	return p != ProviderCommand
}

// transcription options
type Options struct {
	Language           string // Source language of audio
	TranscriptLanguage string // Output language for transcript (default: "native")
	Model              string
	Prompt             string
	Command            []string // argv for ProviderCommand; the audio path is appended
}

// creates transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	case ProviderCommand:
		return NewCommandTranscriber(opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

var errNoSegments = errors.New("no transcript segments found")

// shifts segment times by a chunk offset
func offsetSegments(segments []Segment, offset time.Duration) []Segment {
	adjusted := make([]Segment, len(segments))
	for i, seg := range segments {
		adjusted[i] = Segment{
			StartTime: seg.StartTime + offset,
			EndTime:   seg.EndTime + offset,
			Text:      seg.Text,
		}
	}
	return adjusted
}
