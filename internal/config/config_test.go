package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"murmur/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("OPENAI_API_KEY", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "murmur")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.LogDir != filepath.Join(wantState, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Transcription.Backend != config.BackendWhisperX {
		t.Fatalf("expected whisperx backend by default, got %q", cfg.Transcription.Backend)
	}
	if cfg.Transcription.Model != "medium" || cfg.Transcription.Device != "cuda" {
		t.Fatalf("unexpected model defaults: %q on %q", cfg.Transcription.Model, cfg.Transcription.Device)
	}
	if cfg.Transcription.Language != "ru" {
		t.Fatalf("expected default language ru, got %q", cfg.Transcription.Language)
	}
	if !cfg.Transcription.DeviceLock {
		t.Fatal("expected device lock enabled by default")
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.HistoryPath() != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "murmur.toml")

	type payload struct {
		Paths struct {
			StateDir string `toml:"state_dir"`
		} `toml:"paths"`
		Transcription struct {
			Model    string `toml:"model"`
			Device   string `toml:"device"`
			Language string `toml:"language"`
		} `toml:"transcription"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.StateDir = filepath.Join(tempDir, "state")
	custom.Transcription.Model = "large-v3"
	custom.Transcription.Device = "CPU"
	custom.Transcription.Language = "German"
	custom.Logging.Format = "JSON"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.StateDir != filepath.Join(tempDir, "state") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if cfg.Transcription.Model != "large-v3" {
		t.Fatalf("unexpected model: %q", cfg.Transcription.Model)
	}
	if cfg.Transcription.Device != "cpu" {
		t.Fatalf("expected device lowercased, got %q", cfg.Transcription.Device)
	}
	if cfg.Transcription.Language != "de" {
		t.Fatalf("expected language normalized to de, got %q", cfg.Transcription.Language)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsInvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "murmur.toml")
	if err := os.WriteFile(configPath, []byte("this is not = = toml"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(*config.Config) {},
		},
		{
			name:    "unknown backend",
			mutate:  func(c *config.Config) { c.Transcription.Backend = "vosk" },
			wantErr: "transcription.backend",
		},
		{
			name:    "unknown language",
			mutate:  func(c *config.Config) { c.Transcription.Language = "klingon!" },
			wantErr: "transcription.language",
		},
		{
			name:    "empty model",
			mutate:  func(c *config.Config) { c.Transcription.Model = " " },
			wantErr: "transcription.model",
		},
		{
			name:    "bad vad method",
			mutate:  func(c *config.Config) { c.Transcription.VADMethod = "webrtc" },
			wantErr: "transcription.vad_method",
		},
		{
			name: "openai without key",
			mutate: func(c *config.Config) {
				c.Transcription.Backend = config.BackendOpenAI
				c.OpenAI.APIKey = ""
			},
			wantErr: "openai.api_key",
		},
		{
			name: "openai with key",
			mutate: func(c *config.Config) {
				c.Transcription.Backend = config.BackendOpenAI
				c.OpenAI.APIKey = "sk-test"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadReadsOpenAIKeyFromEnv(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "murmur.toml")
	content := "[transcription]\nbackend = \"openai\"\n\n[paths]\nstate_dir = \"" + filepath.ToSlash(filepath.Join(tempDir, "state")) + "\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.OpenAI.APIKey != "env-key" {
		t.Fatalf("expected api key from env, got %q", cfg.OpenAI.APIKey)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Transcription.Model != "medium" {
		t.Fatalf("unexpected sample model: %q", cfg.Transcription.Model)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()

	if err := cfg.ApplyOverrides(config.Overrides{Model: "large-v3", Device: "CPU", Language: "English"}); err != nil {
		t.Fatalf("ApplyOverrides returned error: %v", err)
	}
	if cfg.Transcription.Model != "large-v3" || cfg.Transcription.Device != "cpu" || cfg.Transcription.Language != "en" {
		t.Fatalf("unexpected transcription config %#v", cfg.Transcription)
	}
	if cfg.Transcription.Backend != config.BackendWhisperX {
		t.Fatalf("backend should be untouched, got %q", cfg.Transcription.Backend)
	}

	if err := cfg.ApplyOverrides(config.Overrides{Language: "klingon"}); err == nil {
		t.Fatal("expected error for unrecognized language override")
	}
}
