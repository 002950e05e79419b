package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuesheet/internal/audio"
	"github.com/mgpai22/cuesheet/internal/transcribe"
)

type generateOptions struct {
	provider           string
	apiKey             string
	model              string
	language           string
	transcriptLanguage string
	chunkMinutes       int
	concurrency        int
	output             string
	noAdopt            bool
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate [media_file]",
		Short: "Generate subtitles for an audio or video file",
		Long: `Generate subtitles for the specified audio or video file using AI transcription.

The command accepts both audio files (mp3, wav, aac, etc.) and video files (mp4, mkv, etc.).
For video files, audio is automatically extracted before transcription.

Hosted providers (gemini, openai) receive the audio in chunks (default 1 minute)
transcribed in parallel. The command provider runs the program configured in
transcribe.command on the whole file.

The raw transcript is written to <media>.transcript.json and then merged into
the sidecar. Ctrl-C stops the job and leaves the sidecar untouched.

Examples:
  cuesheet generate video.mp4
  cuesheet generate audio.mp3 --provider openai
  cuesheet generate video.mp4 --api-key YOUR_KEY --chunk-minutes 2
  cuesheet generate podcast.mp3 --concurrency 5 --transcript-language english`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd, ctx, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.provider, "provider", "p", "", "Transcription provider (gemini, openai, command)")
	cmd.Flags().StringVarP(&opts.apiKey, "api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY env var)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model to use for transcription")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Spoken language code (e.g., en, es, fr)")
	cmd.Flags().StringVar(&opts.transcriptLanguage, "transcript-language", "", "Output language for transcript (e.g., 'english', or 'native' for original language)")
	cmd.Flags().IntVarP(&opts.chunkMinutes, "chunk-minutes", "d", 0, "Chunk duration in minutes for splitting audio")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Number of parallel transcription workers")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Raw transcript path (default <media>.transcript.json)")
	cmd.Flags().BoolVar(&opts.noAdopt, "no-adopt", false, "Only write the raw transcript; leave the sidecar alone")

	return cmd
}

// fills unset flags from the [transcribe] config section
func (o generateOptions) withDefaults(ctx *commandContext) generateOptions {
	t := ctx.config.Transcribe
	if o.provider == "" {
		o.provider = t.Provider
	}
	if o.model == "" && o.provider == t.Provider {
		o.model = t.Model
	}
	if o.language == "" {
		o.language = t.Language
	}
	if o.transcriptLanguage == "" {
		o.transcriptLanguage = t.TranscriptLanguage
	}
	if o.chunkMinutes <= 0 {
		o.chunkMinutes = t.ChunkMinutes
	}
	if o.concurrency <= 0 {
		o.concurrency = t.Concurrency
	}
	return o
}

func runGenerate(
	runCtx context.Context,
	cmd *cobra.Command,
	ctx *commandContext,
	mediaPath string,
	opts generateOptions,
) error {
	if !fileExists(mediaPath) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	opts = opts.withDefaults(ctx)
	provider, err := transcribe.ParseProvider(opts.provider)
	if err != nil {
		return err
	}

	var key string
	if provider.NeedsAPIKey() {
		if key, err = apiKey(string(provider), opts.apiKey); err != nil {
			return err
		}
	}

	transcriber, err := transcribe.Factory(runCtx, provider, key, transcribe.Options{
		Language:           opts.language,
		TranscriptLanguage: opts.transcriptLanguage,
		Model:              opts.model,
		Command:            ctx.config.Transcribe.Command,
	})
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	runOpts := transcribe.RunOptions{
		Concurrency: opts.concurrency,
		OutputPath:  opts.output,
		Splitter:    transcribe.NewSplitter(time.Duration(ctx.config.Transcribe.MaxCueSeconds) * time.Second),
		Logger:      ctx.logger,
		Registry:    ctx.registry(),
	}
	if provider.Chunked() {
		runOpts.ChunkDuration = time.Duration(opts.chunkMinutes) * time.Minute
	}

	ctx.logger.Infow("Starting subtitle generation",
		"input", mediaPath,
		"provider", provider,
		"model", opts.model,
		"chunk_duration", runOpts.ChunkDuration.String(),
		"concurrency", opts.concurrency,
	)

	out, err := transcribe.Run(runCtx, transcriber, mediaPath, runOpts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Transcription cancelled; the sidecar was not changed")
		}
		return err
	}

	w := cmd.OutOrStdout()
	absOutput, _ := filepath.Abs(out.Path)
	fmt.Fprintf(w, "Transcript written: %s\n", absOutput)
	fmt.Fprintf(w, "  Cues: %d\n", len(out.Cues))
	fmt.Fprintf(w, "  Duration: %s\n", out.Duration.String())
	if opts.noAdopt {
		return nil
	}

	s, err := ctx.openSession(runCtx, mediaPath)
	if err != nil {
		return err
	}
	report, err := s.Adopt(out.Path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Subtitles generated successfully: %s\n", s.SidecarPath())
	fmt.Fprintf(w, "  Entries: %d\n", s.Len())
	if report.Corrected > 0 || report.Truncated > 0 {
		fmt.Fprintf(w, "  Repaired: %d inverted, %d overlapping\n", report.Corrected, report.Truncated)
	}
	return nil
}
