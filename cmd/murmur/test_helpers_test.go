package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"murmur/internal/config"
	"murmur/internal/testsupport"
	"murmur/internal/transcription"
)

type cliTestEnv struct {
	configPath string
	stateDir   string
	logDir     string
	audioDir   string
	model      *testsupport.FakeModel
	loads      atomic.Int32
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("OPENAI_API_KEY", "")

	env := &cliTestEnv{
		configPath: filepath.Join(base, "murmur.toml"),
		stateDir:   filepath.Join(base, "state"),
		logDir:     filepath.Join(base, "logs"),
		audioDir:   filepath.Join(base, "audio"),
		model:      testsupport.NewFakeModel(" hello world"),
	}
	writeTestConfig(t, env.configPath, fmt.Sprintf(`[paths]
state_dir = %q
log_dir = %q

[transcription]
model = "medium"
device = "cpu"
language = "ru"
`, env.stateDir, env.logDir))
	return env
}

func writeTestConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (e *cliTestEnv) loader() contextOption {
	return withModelLoader(func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (transcription.Model, error) {
		e.loads.Add(1)
		return e.model, nil
	})
}

func (e *cliTestEnv) audio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(e.audioDir, name)
	testsupport.WriteFile(t, path, 32)
	return path
}

func runCLI(t *testing.T, args []string, configPath string, opts ...contextOption) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(opts...)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	err := execute(context.Background(), cmd, append(flags, args...))
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
