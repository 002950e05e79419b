package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuesheet/internal/cue"
	"github.com/mgpai22/cuesheet/internal/translate"
)

type translateOptions struct {
	targetLanguage string
	inputLanguage  string
	provider       string
	apiKey         string
	model          string
	prompt         string
	batchSize      int
	concurrency    int
	output         string
	overlay        bool
}

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var opts translateOptions

	cmd := &cobra.Command{
		Use:   "translate [media_file]",
		Short: "Translate the cues of a media file using AI",
		Long: `Translate the text of every cue of a media file. Cue timings are kept.

Without --output the sidecar is replaced with the translation. With --output
the translation is written to that file (format picked from the extension)
and the sidecar is left alone.

The --overlay flag creates bilingual subtitles with the translated text
first, followed by the original text on the next line.

Examples:
  cuesheet translate video.mp4 --target-language japanese
  cuesheet translate video.mp4 -t ja --overlay -o video.ja.ass
  cuesheet translate video.mp4 -l english -t spanish --provider anthropic`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, ctx, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.targetLanguage, "target-language", "t", "", "Target language for translation (required)")
	cmd.Flags().StringVarP(&opts.inputLanguage, "language", "l", "", "Language of the existing cues")
	cmd.Flags().StringVarP(&opts.provider, "provider", "p", "", "Translation provider (gemini, openai, anthropic)")
	cmd.Flags().StringVarP(&opts.apiKey, "api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY env var)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	cmd.Flags().StringVar(&opts.prompt, "prompt", "", "Extra instructions for the model")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 0, "Number of cues per API request")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Number of parallel translation workers")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the translation to this subtitle file")
	cmd.Flags().BoolVar(&opts.overlay, "overlay", false, "Overlay translated text with original (bilingual subtitles)")

	_ = cmd.MarkFlagRequired("target-language")

	return cmd
}

func runTranslate(cmd *cobra.Command, ctx *commandContext, mediaPath string, opts translateOptions) error {
	if opts.inputLanguage != "" &&
		strings.EqualFold(
			strings.TrimSpace(opts.inputLanguage),
			strings.TrimSpace(opts.targetLanguage),
		) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			opts.inputLanguage,
			opts.targetLanguage,
		)
	}

	t := ctx.config.Translate
	if opts.provider == "" {
		opts.provider = t.Provider
	}
	if opts.model == "" && strings.EqualFold(opts.provider, t.Provider) {
		opts.model = t.Model
	}
	if opts.batchSize <= 0 {
		opts.batchSize = t.BatchSize
	}
	if opts.concurrency <= 0 {
		opts.concurrency = t.Concurrency
	}
	provider := translate.Provider(strings.ToLower(opts.provider))

	key, err := apiKey(string(provider), opts.apiKey)
	if err != nil {
		return err
	}

	s, err := ctx.openSession(cmd.Context(), mediaPath)
	if err != nil {
		return err
	}
	if s.Len() == 0 {
		return fmt.Errorf("no cues to translate in %s", s.SidecarPath())
	}

	translator, err := translate.Factory(cmd.Context(), provider, key, translate.Options{
		InputLanguage:  opts.inputLanguage,
		TargetLanguage: opts.targetLanguage,
		Model:          opts.model,
		Prompt:         opts.prompt,
		BatchSize:      opts.batchSize,
		Concurrency:    opts.concurrency,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	ctx.logger.Infow("Translating subtitles",
		"media", mediaPath,
		"cues", s.Len(),
		"provider", provider,
		"target_language", opts.targetLanguage,
		"concurrency", opts.concurrency,
	)

	original := s.Cues()
	translated, err := translate.Cues(cmd.Context(), translator, original)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	if opts.overlay {
		translated = overlayCues(translated, original)
	}

	w := cmd.OutOrStdout()
	if opts.output != "" {
		if err := ctx.registry().WriteFile(opts.output, translated); err != nil {
			return err
		}
		absOutput, _ := filepath.Abs(opts.output)
		fmt.Fprintf(w, "Subtitles translated successfully: %s\n", absOutput)
	} else {
		if err := s.Replace(translated); err != nil {
			return err
		}
		fmt.Fprintf(w, "Subtitles translated successfully: %s\n", s.SidecarPath())
	}
	fmt.Fprintf(w, "  Entries: %d\n", len(translated))
	fmt.Fprintf(w, "  Target language: %s\n", opts.targetLanguage)
	if opts.overlay {
		fmt.Fprintf(w, "  Mode: bilingual overlay\n")
	}
	return nil
}

// translated + newline + original
func overlayCues(translated, original []cue.Cue) []cue.Cue {
	out := make([]cue.Cue, len(translated))
	for i, c := range translated {
		if c.Text != original[i].Text {
			c.Text = c.Text + "\n" + original[i].Text
		}
		out[i] = c
	}
	return out
}
