package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mgpai22/cuesheet/internal/audio"
)

// implements Transcriber interface using the OpenAI Audio API
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
	// probes the file when the response has no timing at all
	durationOf func(ctx context.Context, path string) (time.Duration, error)
}

// verbose_json response structure from Whisper
type whisperVerboseResponse struct {
	Text     string              `json:"text"`
	Segments []transcriptSegment `json:"segments"`
	Language string              `json:"language"`
	Duration float64             `json:"duration"`
}

func NewOpenAITranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAITranscriber{
		client:     openai.NewClient(option.WithAPIKey(apiKey)),
		model:      model,
		options:    opts,
		durationOf: audio.GetDuration,
	}, nil
}

// transcribes single audio file
func (t *OpenAITranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("audio file not found: %s", audioPath)
		}
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	var (
		rawJSON, text string
		language      = t.options.Language
	)
	if t.shouldUseTranslation() {
		rawJSON, text, err = t.translate(ctx, file)
		language = "en"
	} else {
		rawJSON, text, err = t.transcribe(ctx, file)
	}
	if err != nil {
		return nil, err
	}

	segments, err := t.parseVerboseJSONResponse(rawJSON, 0)
	switch {
	case errors.Is(err, errNoTiming):
		segments = t.wholeFile(ctx, audioPath, rawText(rawJSON))
	case err != nil && strings.TrimSpace(text) != "":
		segments = t.wholeFile(ctx, audioPath, text)
	case err != nil:
		return nil, err
	}

	return &Result{
		Segments: segments,
		Language: language,
		Duration: segmentsDuration(segments),
	}, nil
}

// one segment spanning the probed file duration
func (t *OpenAITranscriber) wholeFile(ctx context.Context, path, text string) []Segment {
	var duration time.Duration
	if t.durationOf != nil {
		duration, _ = t.durationOf(ctx, path)
	}
	return []Segment{{EndTime: duration, Text: strings.TrimSpace(text)}}
}

// Whisper can only translate into English
func (t *OpenAITranscriber) shouldUseTranslation() bool {
	lang := strings.ToLower(strings.TrimSpace(t.options.TranscriptLanguage))
	return lang == "english" || lang == "en"
}

func (t *OpenAITranscriber) translate(ctx context.Context, file *os.File) (string, string, error) {
	params := openai.AudioTranslationNewParams{
		File:           file,
		Model:          openai.AudioModel(t.model),
		ResponseFormat: openai.AudioTranslationNewParamsResponseFormatVerboseJSON,
	}
	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Translations.New(ctx, params)
	if err != nil {
		return "", "", fmt.Errorf("translation failed: %w", err)
	}
	return resp.RawJSON(), resp.Text, nil
}

func (t *OpenAITranscriber) transcribe(ctx context.Context, file *os.File) (string, string, error) {
	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	}
	if t.options.Language != "" {
		params.Language = openai.String(t.options.Language)
	}
	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", "", fmt.Errorf("transcription failed: %w", err)
	}
	return resp.RawJSON(), resp.Text, nil
}

// errNoTiming marks a response with text but neither segments nor duration.
var errNoTiming = errors.New("response has text but no timing")

func rawText(rawJSON string) string {
	var resp whisperVerboseResponse
	_ = json.Unmarshal([]byte(rawJSON), &resp)
	return resp.Text
}

// parseVerboseJSONResponse converts a verbose_json body into segments. A body
// with text but no segments becomes one segment spanning the reported
// duration, or fallbackDuration when the body reports none.
func (t *OpenAITranscriber) parseVerboseJSONResponse(
	rawJSON string,
	fallbackDuration time.Duration,
) ([]Segment, error) {
	if rawJSON == "" {
		return nil, errors.New("empty response")
	}

	var verboseResp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &verboseResp); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	if len(verboseResp.Segments) == 0 {
		if strings.TrimSpace(verboseResp.Text) == "" {
			return nil, errors.New("no segments or text in response")
		}
		dur := fallbackDuration
		if verboseResp.Duration > 0 {
			dur = seconds(verboseResp.Duration)
		}
		if dur <= 0 {
			return nil, errNoTiming
		}
		return []Segment{{
			StartTime: 0,
			EndTime:   dur,
			Text:      strings.TrimSpace(verboseResp.Text),
		}}, nil
	}

	segments := make([]Segment, 0, len(verboseResp.Segments))
	for _, seg := range toSegments(verboseResp.Segments) {
		if seg.Text == "" {
			continue
		}
		segments = append(segments, seg)
	}

	return segments, nil
}
