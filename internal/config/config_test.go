package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/mgpai22/cuesheet/internal/config"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if !strings.HasSuffix(resolved, filepath.Join(".config", "cuesheet", "config.toml")) {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}

	want := config.Default()
	if cfg.Editor != want.Editor {
		t.Fatalf("editor defaults: got %+v want %+v", cfg.Editor, want.Editor)
	}
	if cfg.Editor.AutoEndPerWordMs != 1000 || cfg.Editor.NudgeStepMs != 500 {
		t.Fatalf("unexpected editor defaults: %+v", cfg.Editor)
	}
	if cfg.Formats.LRCCueMs != 2000 {
		t.Fatalf("unexpected lrc duration: %d", cfg.Formats.LRCCueMs)
	}
	if cfg.Transcribe.Provider != "gemini" {
		t.Fatalf("unexpected transcribe provider: %q", cfg.Transcribe.Provider)
	}
}

func TestLoadOverridesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cuesheet.toml")
	content := `
[editor]
auto_end_per_word_ms = 600

[transcribe]
provider = " Command "
command = ["whisper-json", "", "--fast"]

[logging]
level = "DEBUG"
format = "yaml"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected %s to be loaded, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.Editor.AutoEndPerWordMs != 600 {
		t.Fatalf("expected override, got %d", cfg.Editor.AutoEndPerWordMs)
	}
	if cfg.Editor.DefaultCueMs != 2000 {
		t.Fatalf("expected default to survive partial file, got %d", cfg.Editor.DefaultCueMs)
	}
	if cfg.Transcribe.Provider != "command" {
		t.Fatalf("expected normalized provider, got %q", cfg.Transcribe.Provider)
	}
	if len(cfg.Transcribe.Command) != 2 || cfg.Transcribe.Command[1] != "--fast" {
		t.Fatalf("expected blank args dropped, got %q", cfg.Transcribe.Command)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown provider", "[transcribe]\nprovider = \"carrier-pigeon\"\n", "transcribe.provider"},
		{"command without program", "[transcribe]\nprovider = \"command\"\n", "transcribe.command"},
		{"zero nudge", "[editor]\nnudge_step_ms = 0\n", "nudge_step_ms"},
		{"bad translate provider", "[translate]\nprovider = \"babelfish\"\n", "translate.provider"},
		{"unknown key", "[editor]\nsnap_to_frames = true\n", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSampleConfigIsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if cfg.Editor != config.Default().Editor {
		t.Fatalf("sample editor section drifted from defaults: %+v", cfg.Editor)
	}
}
