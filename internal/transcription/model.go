package transcription

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"murmur/internal/config"
	"murmur/internal/logging"
)

// Model turns one audio file into a transcript.
type Model interface {
	Transcribe(ctx context.Context, audioPath, language string) (Result, error)
	// Name describes the loaded model for logs, e.g. "whisperx/medium@cuda".
	Name() string
}

// CommandRunner executes an external command. Tests substitute it to avoid
// launching real processes.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Option adjusts how Load constructs a model.
type Option func(*loadOptions)

type loadOptions struct {
	runner CommandRunner
}

// WithCommandRunner replaces the process runner used by the whisperx backend.
func WithCommandRunner(runner CommandRunner) Option {
	return func(o *loadOptions) {
		o.runner = runner
	}
}

// Load builds the configured backend once. The model size and device are
// taken as configured; an unavailable device surfaces on first use.
func Load(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, Wrap(ErrConfiguration, "", "load", "configuration required", nil)
	}
	var options loadOptions
	for _, opt := range opts {
		opt(&options)
	}
	logger = logging.NewComponentLogger(logger, "transcription")

	backend := strings.ToLower(strings.TrimSpace(cfg.Transcription.Backend))
	switch backend {
	case config.BackendWhisperX:
		if options.runner == nil {
			if _, err := exec.LookPath(UVXCommand); err != nil {
				return nil, Wrap(ErrConfiguration, backend, "load", "uvx not found on PATH", err)
			}
		}
		model := NewWhisperX(WhisperXConfig{
			Model:       cfg.Transcription.Model,
			Device:      cfg.Transcription.Device,
			ComputeType: cfg.Transcription.ComputeType,
			BatchSize:   cfg.Transcription.BatchSize,
			VADMethod:   cfg.Transcription.VADMethod,
			HFToken:     cfg.Transcription.HFToken,
		}, logger)
		if options.runner != nil {
			model.WithCommandRunner(options.runner)
		}
		logger.Info("model loaded",
			logging.String("model", model.Name()),
			logging.String(logging.FieldEventType, "model_loaded"),
		)
		return model, nil
	case config.BackendOpenAI:
		if strings.TrimSpace(cfg.OpenAI.APIKey) == "" {
			return nil, Wrap(ErrConfiguration, backend, "load", "api key required", nil)
		}
		model := NewOpenAI(OpenAIConfig{
			BaseURL: cfg.OpenAI.BaseURL,
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			Timeout: time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
		}, logger)
		logger.Info("model loaded",
			logging.String("model", model.Name()),
			logging.String(logging.FieldEventType, "model_loaded"),
		)
		return model, nil
	default:
		return nil, Wrap(ErrConfiguration, backend, "load", fmt.Sprintf("unsupported backend %q", cfg.Transcription.Backend), nil)
	}
}
