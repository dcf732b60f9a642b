package transcription

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"murmur/internal/language"
	"murmur/internal/logging"
)

// OpenAIConfig configures an OpenAI-compatible transcription endpoint.
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// OpenAI transcribes files through the /audio/transcriptions API. LocalAI and
// other compatible servers work by pointing BaseURL at them.
type OpenAI struct {
	client *openai.Client
	model  string
	host   string
	logger *slog.Logger
}

// NewOpenAI creates an OpenAI-compatible backend.
func NewOpenAI(cfg OpenAIConfig, logger *slog.Logger) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		clientCfg.BaseURL = base
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = openai.Whisper1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		host:   clientCfg.BaseURL,
		logger: logger,
	}
}

// Name returns backend/model@endpoint.
func (o *OpenAI) Name() string {
	return fmt.Sprintf("openai/%s@%s", o.model, o.host)
}

// Transcribe uploads audioPath and requests verbose JSON so segment timings
// are returned alongside the text.
func (o *OpenAI) Transcribe(ctx context.Context, audioPath, lang string) (Result, error) {
	req := openai.AudioRequest{
		Model:    o.model,
		FilePath: audioPath,
		Language: language.Normalize(lang),
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	o.logger.Debug("requesting transcription",
		logging.String(logging.FieldSource, audioPath),
		logging.String("model", o.model),
	)
	resp, err := o.client.CreateTranscription(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return Result{}, Wrap(ErrBackend, "openai", "transcribe", audioPath, err)
	}

	segments := make([]Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	lang = firstNonEmpty(resp.Language, lang)
	if code := language.Normalize(lang); code != "" {
		lang = code
	}
	return Result{
		Text:     resp.Text,
		Segments: segments,
		Language: lang,
		Duration: time.Duration(resp.Duration * float64(time.Second)),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
