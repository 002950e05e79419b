package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuesheet/internal/audio"
	"github.com/mgpai22/cuesheet/internal/video"
)

var extractFormats = map[string]bool{
	"wav":  true,
	"mp3":  true,
	"aac":  true,
	"flac": true,
}

func newExtractCommand(ctx *commandContext) *cobra.Command {
	defaults := video.DefaultExtractAudioOptions()
	var (
		opts   video.ExtractAudioOptions
		output string
	)

	cmd := &cobra.Command{
		Use:   "extract [video_file]",
		Short: "Extract audio from a video file",
		Long: `Extract the audio track from a video file and save it as a separate audio file,
for example to feed an external speech-to-text program.

Supports multiple output formats: wav, mp3, aac, flac.

Examples:
  cuesheet extract video.mp4
  cuesheet extract video.mp4 -o audio.mp3 -f mp3
  cuesheet extract video.mp4 --format wav --sample-rate 44100 --channels 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoPath := args[0]
			if !fileExists(videoPath) {
				return fmt.Errorf("file not found: %s", videoPath)
			}
			if !audio.IsVideoFile(videoPath) {
				return fmt.Errorf("unsupported file type: %s (expected a video file)", filepath.Ext(videoPath))
			}
			opts.Format = strings.ToLower(opts.Format)
			if !extractFormats[opts.Format] {
				return fmt.Errorf(
					"invalid format %q: supported formats are wav, mp3, aac, flac",
					opts.Format,
				)
			}
			if output == "" {
				output = strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + "." + opts.Format
			}

			ctx.logger.Infow("Extracting audio",
				"video", videoPath,
				"output", output,
				"format", opts.Format,
				"sample_rate", opts.SampleRate,
				"channels", opts.Channels,
			)

			processor := video.NewProcessor()
			info, err := processor.GetInfo(cmd.Context(), videoPath)
			if err != nil {
				return fmt.Errorf("failed to probe video: %w", err)
			}
			if !info.HasAudio {
				return fmt.Errorf("%s has no audio stream", videoPath)
			}
			if err := processor.ExtractAudio(cmd.Context(), videoPath, output, opts); err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}

			absOutput, _ := filepath.Abs(output)
			fmt.Fprintf(cmd.OutOrStdout(), "Audio extracted successfully: %s\n", absOutput)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", defaults.Format, "Output audio format (wav, mp3, aac, flac)")
	cmd.Flags().IntVarP(&opts.SampleRate, "sample-rate", "r", defaults.SampleRate, "Sample rate in Hz (e.g., 16000, 44100, 48000)")
	cmd.Flags().IntVarP(&opts.Channels, "channels", "C", defaults.Channels, "Number of audio channels (1=mono, 2=stereo)")
	cmd.Flags().StringVarP(&opts.Bitrate, "bitrate", "b", defaults.Bitrate, "Bitrate for lossy formats (e.g., 128k, 320k)")

	return cmd
}
