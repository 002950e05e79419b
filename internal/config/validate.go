package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEditor(); err != nil {
		return err
	}
	if err := c.validateFormats(); err != nil {
		return err
	}
	if err := c.validateTranscribe(); err != nil {
		return err
	}
	if err := c.validateTranslate(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEditor() error {
	if c.Editor.AutoEndPerWordMs <= 0 {
		return errors.New("editor.auto_end_per_word_ms must be positive")
	}
	if c.Editor.DefaultCueMs <= 0 {
		return errors.New("editor.default_cue_ms must be positive")
	}
	if c.Editor.NudgeStepMs <= 0 {
		return errors.New("editor.nudge_step_ms must be positive")
	}
	return nil
}

func (c *Config) validateFormats() error {
	if c.Formats.LRCCueMs <= 0 {
		return errors.New("formats.lrc_cue_ms must be positive")
	}
	if c.Formats.ASSFontSize <= 0 {
		return errors.New("formats.ass_font_size must be positive")
	}
	return nil
}

func (c *Config) validateTranscribe() error {
	switch c.Transcribe.Provider {
	case "gemini", "openai":
	case "command":
		if len(c.Transcribe.Command) == 0 {
			return errors.New("transcribe.command is required when transcribe.provider is \"command\"")
		}
	default:
		return fmt.Errorf("transcribe.provider: unsupported value %q", c.Transcribe.Provider)
	}
	if c.Transcribe.ChunkMinutes <= 0 {
		return errors.New("transcribe.chunk_minutes must be positive")
	}
	if c.Transcribe.Concurrency <= 0 {
		return errors.New("transcribe.concurrency must be positive")
	}
	if c.Transcribe.MaxCueSeconds < 0 {
		return errors.New("transcribe.max_cue_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateTranslate() error {
	switch c.Translate.Provider {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("translate.provider: unsupported value %q", c.Translate.Provider)
	}
	if c.Translate.BatchSize <= 0 {
		return errors.New("translate.batch_size must be positive")
	}
	if c.Translate.Concurrency <= 0 {
		return errors.New("translate.concurrency must be positive")
	}
	return nil
}
