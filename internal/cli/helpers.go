package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mgpai22/cuesheet/internal/cue"
	"github.com/mgpai22/cuesheet/internal/editor"
	"github.com/mgpai22/cuesheet/internal/subtitle"
	"github.com/mgpai22/cuesheet/internal/timecode"
)

func (c *commandContext) registry() *subtitle.Registry {
	f := c.config.Formats
	return subtitle.Default(subtitle.Options{
		LRCCueDuration: timecode.Millis(f.LRCCueMs),
		ASSTitle:       f.ASSTitle,
		FontName:       f.ASSFontName,
		FontSize:       f.ASSFontSize,
	})
}

func (c *commandContext) openSession(ctx context.Context, mediaPath string) (*editor.Session, error) {
	e := c.config.Editor
	return editor.Open(ctx, mediaPath, editor.Options{
		Policy: editor.Policy{
			AutoEndPerWord: timecode.Millis(e.AutoEndPerWordMs),
			DefaultCue:     timecode.Millis(e.DefaultCueMs),
		},
		Logger:   c.logger,
		Registry: c.registry(),
	})
}

// parseIndex turns a 1-based cue number into a timeline index.
func parseIndex(arg string, count int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid cue number %q", arg)
	}
	if n < 1 || n > count {
		if count == 0 {
			return 0, fmt.Errorf("cue %d does not exist: the timeline is empty", n)
		}
		return 0, fmt.Errorf("cue %d does not exist: expected 1-%d", n, count)
	}
	return n - 1, nil
}

func parseTime(arg string) (timecode.Millis, error) {
	ms, err := timecode.ParseLenient(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", arg, err)
	}
	return ms, nil
}

// parseDelta accepts a signed millisecond count or timecode, e.g. -500 or
// +00:00:01.250.
func parseDelta(arg string) (timecode.Millis, error) {
	arg = strings.TrimSpace(arg)
	sign := timecode.Millis(1)
	switch {
	case strings.HasPrefix(arg, "-"):
		sign, arg = -1, arg[1:]
	case strings.HasPrefix(arg, "+"):
		arg = arg[1:]
	}
	ms, err := parseTime(arg)
	if err != nil {
		return 0, err
	}
	return sign * ms, nil
}

func formatTime(ms timecode.Millis) string {
	return timecode.Format(ms, timecode.Sidecar)
}

func describeCue(i int, c cue.Cue) string {
	return fmt.Sprintf("#%d %s --> %s %s", i+1, formatTime(c.Start), formatTime(c.End), c.Text)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// apiKey resolves the key for a hosted provider from the flag or the
// provider's environment variable.
func apiKey(provider, flagValue string) (string, error) {
	if key := strings.TrimSpace(flagValue); key != "" {
		return key, nil
	}
	envVar := strings.ToUpper(provider) + "_API_KEY"
	if key := strings.TrimSpace(os.Getenv(envVar)); key != "" {
		return key, nil
	}
	return "", fmt.Errorf(
		"%s API key is required: use --api-key flag or set %s environment variable",
		provider,
		envVar,
	)
}
