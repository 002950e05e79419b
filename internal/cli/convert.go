package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuesheet/internal/fsutil"
	"github.com/mgpai22/cuesheet/internal/sidecar"
	"github.com/mgpai22/cuesheet/internal/subtitle"
	"github.com/mgpai22/cuesheet/internal/timeline"
)

var (
	errMissingOutput = errors.New("--output_file is required with --from_json")
	errSameFile      = errors.New("output would overwrite the input")
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		toJSON     bool
		fromJSON   bool
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "convert [input_file]",
		Short: "Convert subtitles to or from the sidecar JSON",
		Long: `Convert a subtitle file to the sidecar JSON, or a sidecar JSON file to a
subtitle format picked from the output extension.

Overlapping or unsorted input is normalized before writing.

Examples:
  cuesheet convert movie.srt --to_json
  cuesheet convert movie.ass --to_json --output_file movie.json
  cuesheet convert movie.json --from_json --output_file movie.vtt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, n, err := convertFile(ctx.registry(), args[0], outputFile, toJSON)
			if err != nil {
				return err
			}
			ctx.logger.Infow("converted subtitles", "input", args[0], "output", out, "cues", n)

			absOutput, _ := filepath.Abs(out)
			fmt.Fprintf(cmd.OutOrStdout(), "Converted %d cues: %s\n", n, absOutput)
			return nil
		},
	}

	cmd.Flags().BoolVar(&toJSON, "to_json", false, "Convert a subtitle file to JSON")
	cmd.Flags().BoolVar(&fromJSON, "from_json", false, "Convert a JSON file to a subtitle file")
	cmd.Flags().StringVar(&outputFile, "output_file", "", "Output path (defaults to the sidecar path with --to_json)")
	cmd.MarkFlagsMutuallyExclusive("to_json", "from_json")
	cmd.MarkFlagsOneRequired("to_json", "from_json")

	return cmd
}

// convertFile converts input and returns the written path and cue count.
func convertFile(reg *subtitle.Registry, input, output string, toJSON bool) (string, int, error) {
	if !fileExists(input) {
		return "", 0, fmt.Errorf("file not found: %s", input)
	}

	var (
		src       subtitle.Format
		err       error
		outFormat subtitle.Format
	)
	if toJSON {
		if src, err = reg.FormatForPath(input); err != nil {
			return "", 0, err
		}
		if output == "" {
			output = sidecar.PathFor(input)
		}
		outFormat = subtitle.FormatJSON
	} else {
		if output == "" {
			return "", 0, errMissingOutput
		}
		src = subtitle.FormatJSON
		if outFormat, err = reg.FormatForPath(output); err != nil {
			return "", 0, err
		}
	}
	if samePath(input, output) {
		return "", 0, fmt.Errorf("%w: %s", errSameFile, output)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read %s: %w", input, err)
	}
	cues, err := reg.Load(src, data)
	if err != nil {
		return "", 0, err
	}

	tl := timeline.New(cues...)
	encoded, err := reg.Save(outFormat, tl.Cues())
	if err != nil {
		return "", 0, err
	}
	if err := fsutil.WriteFileAtomic(output, encoded, 0o644); err != nil {
		return "", 0, fmt.Errorf("failed to write %s: %w", output, err)
	}
	return output, tl.Len(), nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	if absA == absB {
		return true
	}
	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}
