package config

import (
	"strings"
)

func (c *Config) normalize() {
	c.normalizeTranscribe()
	c.normalizeTranslate()
	c.normalizeLogging()
}

func (c *Config) normalizeTranscribe() {
	c.Transcribe.Provider = strings.ToLower(strings.TrimSpace(c.Transcribe.Provider))
	if c.Transcribe.Provider == "" {
		c.Transcribe.Provider = defaultTranscribeProvider
	}
	c.Transcribe.Model = strings.TrimSpace(c.Transcribe.Model)
	c.Transcribe.Language = strings.TrimSpace(c.Transcribe.Language)
	c.Transcribe.TranscriptLanguage = strings.TrimSpace(c.Transcribe.TranscriptLanguage)
	if c.Transcribe.TranscriptLanguage == "" {
		c.Transcribe.TranscriptLanguage = "native"
	}

	command := c.Transcribe.Command[:0]
	for _, arg := range c.Transcribe.Command {
		if strings.TrimSpace(arg) != "" {
			command = append(command, arg)
		}
	}
	c.Transcribe.Command = command
}

func (c *Config) normalizeTranslate() {
	c.Translate.Provider = strings.ToLower(strings.TrimSpace(c.Translate.Provider))
	if c.Translate.Provider == "" {
		c.Translate.Provider = "gemini"
	}
	c.Translate.Model = strings.TrimSpace(c.Translate.Model)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
