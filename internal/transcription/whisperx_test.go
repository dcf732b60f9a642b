package transcription

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func TestWhisperXBuildArgsCUDA(t *testing.T) {
	w := NewWhisperX(WhisperXConfig{Model: "medium", Device: "cuda", BatchSize: 4}, nil)
	args := w.buildArgs("/audio/talk.mp3", "/tmp/out", "Russian")

	if args[0] != "--index-url" || args[1] != CUDAIndexURL {
		t.Fatalf("expected CUDA index url first, got %v", args[:2])
	}
	checks := map[string]string{
		"--model":         "medium",
		"--batch_size":    "4",
		"--output_dir":    "/tmp/out",
		"--output_format": "json",
		"--language":      "ru",
		"--device":        "cuda",
		"--vad_method":    VADMethodSilero,
	}
	for flag, want := range checks {
		if got := argValue(args, flag); got != want {
			t.Errorf("%s = %q, want %q", flag, got, want)
		}
	}
	if slices.Contains(args, "--compute_type") {
		t.Fatalf("did not expect compute_type for cuda without override: %v", args)
	}
}

func TestWhisperXBuildArgsCPU(t *testing.T) {
	w := NewWhisperX(WhisperXConfig{Device: "cpu", VADMethod: VADMethodPyannote, HFToken: "hf-token"}, nil)
	args := w.buildArgs("/audio/talk.wav", "/tmp/out", "")

	if args[1] != PypiIndexURL {
		t.Fatalf("expected pypi index url, got %v", args[:2])
	}
	if got := argValue(args, "--model"); got != DefaultWhisperX {
		t.Fatalf("expected default model, got %q", got)
	}
	if got := argValue(args, "--compute_type"); got != CPUComputeType {
		t.Fatalf("expected cpu compute type, got %q", got)
	}
	if got := argValue(args, "--hf_token"); got != "hf-token" {
		t.Fatalf("expected hf token, got %q", got)
	}
	if slices.Contains(args, "--language") {
		t.Fatalf("expected no language flag for empty language: %v", args)
	}
}

func TestWhisperXTranscribeParsesJSON(t *testing.T) {
	w := NewWhisperX(WhisperXConfig{Model: "medium", Device: "cpu"}, nil)
	var gotName string
	w.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotName = name
		outDir := argValue(args, "--output_dir")
		payload := `{"language":"ru","segments":[` +
			`{"text":" Привет.","start":0.0,"end":1.2},` +
			`{"text":" Как дела?","start":1.2,"end":2.75}]}`
		return os.WriteFile(filepath.Join(outDir, "talk.json"), []byte(payload), 0o644)
	})

	result, err := w.Transcribe(context.Background(), "/audio/talk.mp3", "ru")
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if gotName != UVXCommand {
		t.Fatalf("expected uvx command, got %q", gotName)
	}
	if result.Text != " Привет. Как дела?" {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if len(result.Segments) != 2 || result.Segments[1].End != 2.75 {
		t.Fatalf("unexpected segments %+v", result.Segments)
	}
	if result.Language != "ru" {
		t.Fatalf("unexpected language %q", result.Language)
	}
	if result.Duration != 0 {
		t.Fatalf("unexpected duration %v", result.Duration)
	}
}

func TestWhisperXTranscribeRemovesWorkDir(t *testing.T) {
	w := NewWhisperX(WhisperXConfig{}, nil)
	var outDir string
	w.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		outDir = argValue(args, "--output_dir")
		if err := os.WriteFile(filepath.Join(outDir, "a.srt"), []byte("x"), 0o644); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(outDir, "a.json"), []byte(`{"segments":[]}`), 0o644)
	})

	if _, err := w.Transcribe(context.Background(), "/audio/a.ogg", "en"); err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Fatalf("expected work dir %s removed, stat err=%v", outDir, err)
	}
}

func TestWhisperXTranscribeRunnerError(t *testing.T) {
	w := NewWhisperX(WhisperXConfig{}, nil)
	w.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return errors.New("CUDA out of memory")
	})

	_, err := w.Transcribe(context.Background(), "/audio/a.mp3", "ru")
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
	if !strings.Contains(err.Error(), "CUDA out of memory") {
		t.Fatalf("expected cause in error, got %v", err)
	}
}

func TestWhisperXTranscribeMissingOutput(t *testing.T) {
	w := NewWhisperX(WhisperXConfig{}, nil)
	w.WithCommandRunner(func(ctx context.Context, name string, args ...string) error { return nil })

	_, err := w.Transcribe(context.Background(), "/audio/a.mp3", "ru")
	if !errors.Is(err, ErrInvalidOutput) {
		t.Fatalf("expected ErrInvalidOutput, got %v", err)
	}
}

func TestWhisperXName(t *testing.T) {
	w := NewWhisperX(WhisperXConfig{Model: "large-v3", Device: "cuda"}, nil)
	if got := w.Name(); got != "whisperx/large-v3@cuda" {
		t.Fatalf("unexpected name %q", got)
	}
}
