package config

const (
	defaultLogLevel = "info"

	defaultTranscribeProvider = "gemini"
	defaultTranscribeModel    = "gemini-2.5-flash"
	defaultTranslateModel     = "gemini-2.5-flash"
)

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Editor: Editor{
			AutoEndPerWordMs: 1000,
			DefaultCueMs:     2000,
			NudgeStepMs:      500,
		},
		Formats: Formats{
			LRCCueMs:    2000,
			ASSTitle:    "Cuesheet Subtitles",
			ASSFontName: "Arial",
			ASSFontSize: 20,
		},
		Transcribe: Transcribe{
			Provider:           defaultTranscribeProvider,
			Model:              defaultTranscribeModel,
			TranscriptLanguage: "native",
			ChunkMinutes:       1,
			Concurrency:        3,
			MaxCueSeconds:      7,
		},
		Translate: Translate{
			Provider:    "gemini",
			Model:       defaultTranslateModel,
			BatchSize:   50,
			Concurrency: 3,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: "console",
		},
	}
}
