package transcription_test

import (
	"context"
	"errors"
	"testing"

	"murmur/internal/config"
	"murmur/internal/logging"
	"murmur/internal/testsupport"
	"murmur/internal/transcription"
)

func TestLoadWhisperXRequiresUVX(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	t.Setenv("PATH", t.TempDir())

	_, err := transcription.Load(context.Background(), cfg, logging.NewNop())
	if !errors.Is(err, transcription.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadWhisperXWithStubbedUVX(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("uvx"))

	model, err := transcription.Load(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := model.Name(); got != "whisperx/medium@cuda" {
		t.Fatalf("unexpected model name %q", got)
	}
}

func TestLoadWithCommandRunnerSkipsLookup(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	t.Setenv("PATH", t.TempDir())

	runner := func(ctx context.Context, name string, args ...string) error { return nil }
	if _, err := transcription.Load(context.Background(), cfg, nil, transcription.WithCommandRunner(runner)); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
}

func TestLoadOpenAI(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithBackend(config.BackendOpenAI))
	cfg.OpenAI.APIKey = "sk-test"

	model, err := transcription.Load(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if _, ok := model.(*transcription.OpenAI); !ok {
		t.Fatalf("expected OpenAI model, got %T", model)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithBackend("kaldi"))

	_, err := transcription.Load(context.Background(), cfg, logging.NewNop())
	if !errors.Is(err, transcription.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadHonorsCanceledContext(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := transcription.Load(ctx, cfg, logging.NewNop()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := transcription.Wrap(transcription.ErrBackend, "whisperx", "transcribe", "a.mp3", cause)
	if !errors.Is(err, transcription.ErrBackend) || !errors.Is(err, cause) {
		t.Fatalf("expected marker and cause in chain, got %v", err)
	}
	want := "transcription backend error: whisperx: transcribe: a.mp3: exit status 1"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}

	if got := transcription.Wrap(nil, "", "", "", nil).Error(); got != "transcription backend error: transcription failure" {
		t.Fatalf("unexpected default message %q", got)
	}
}
