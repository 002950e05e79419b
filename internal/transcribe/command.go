package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// CommandTranscriber runs an external speech-to-text program. The audio path
// is appended to Command and the program prints JSON segments on stdout.
type CommandTranscriber struct {
	argv     []string
	language string
}

func NewCommandTranscriber(opts Options) (*CommandTranscriber, error) {
	if len(opts.Command) == 0 || strings.TrimSpace(opts.Command[0]) == "" {
		return nil, errors.New("command provider requires a program to run")
	}
	return &CommandTranscriber{
		argv:     append([]string(nil), opts.Command...),
		language: opts.Language,
	}, nil
}

func (t *CommandTranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	args := append(append([]string(nil), t.argv[1:]...), audioPath)
	cmd := exec.CommandContext(ctx, t.argv[0], args...)
	// grandchildren holding the pipes must not block cancellation
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%s failed: %w", t.argv[0], err)
		}
		return nil, fmt.Errorf("%s failed: %w: %s", t.argv[0], err, truncateString(msg, 200))
	}

	segments, err := parseSegmentsText(stdout.String())
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s output: %w", t.argv[0], err)
	}

	return &Result{
		Segments: segments,
		Language: t.language,
		Duration: segmentsDuration(segments),
	}, nil
}
