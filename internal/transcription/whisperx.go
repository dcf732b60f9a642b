package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"murmur/internal/language"
	"murmur/internal/logging"
)

// WhisperX invocation constants.
const (
	UVXCommand        = "uvx"
	CUDAIndexURL      = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL      = "https://pypi.org/simple"
	DefaultWhisperX   = "medium"
	DefaultBatchSize  = 8
	SegmentResolution = "sentence"
	CUDADevice        = "cuda"
	CPUDevice         = "cpu"
	CPUComputeType    = "float32"
	VADMethodPyannote = "pyannote"
	VADMethodSilero   = "silero"
)

// WhisperXConfig captures runtime settings for WhisperX runs.
type WhisperXConfig struct {
	Model       string
	Device      string
	ComputeType string
	BatchSize   int
	VADMethod   string
	// HFToken is the Hugging Face token for pyannote VAD.
	HFToken string
}

// WhisperX transcribes files by running WhisperX through uvx.
type WhisperX struct {
	cfg    WhisperXConfig
	logger *slog.Logger
	runner CommandRunner
}

// NewWhisperX creates a WhisperX backend.
func NewWhisperX(cfg WhisperXConfig, logger *slog.Logger) *WhisperX {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultWhisperX
	}
	if strings.TrimSpace(cfg.Device) == "" {
		cfg.Device = CUDADevice
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.VADMethod == "" {
		cfg.VADMethod = VADMethodSilero
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &WhisperX{cfg: cfg, logger: logger}
}

// WithCommandRunner sets a custom command runner (for testing).
func (w *WhisperX) WithCommandRunner(runner CommandRunner) {
	w.runner = runner
}

// Name returns backend/model@device.
func (w *WhisperX) Name() string {
	return fmt.Sprintf("whisperx/%s@%s", w.cfg.Model, w.cfg.Device)
}

// Transcribe runs WhisperX on audioPath. Output files are written to a private
// temporary directory and removed once parsed.
func (w *WhisperX) Transcribe(ctx context.Context, audioPath, lang string) (Result, error) {
	if strings.TrimSpace(audioPath) == "" {
		return Result{}, Wrap(ErrBackend, "whisperx", "transcribe", "source path required", nil)
	}

	workDir, err := os.MkdirTemp("", "murmur-whisperx-")
	if err != nil {
		return Result{}, Wrap(ErrBackend, "whisperx", "transcribe", "create work dir", err)
	}
	defer os.RemoveAll(workDir)

	args := w.buildArgs(audioPath, workDir, lang)
	w.logger.Debug("running whisperx",
		logging.String(logging.FieldSource, audioPath),
		logging.String("args", strings.Join(args, " ")),
	)
	if err := w.run(ctx, UVXCommand, args...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return Result{}, Wrap(ErrBackend, "whisperx", "transcribe", audioPath, err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	payload, err := loadPayload(filepath.Join(workDir, baseName+".json"))
	if err != nil {
		return Result{}, Wrap(ErrInvalidOutput, "whisperx", "parse output", audioPath, err)
	}
	return payload.result(lang), nil
}

func (w *WhisperX) run(ctx context.Context, name string, args ...string) error {
	if w.runner != nil {
		return w.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, lastLines(string(output), 5))
	}
	return nil
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (w *WhisperX) buildArgs(source, outputDir, lang string) []string {
	args := make([]string, 0, 32)

	cuda := w.cfg.Device == CUDADevice
	if cuda {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"whisperx",
		source,
		"--model", w.cfg.Model,
		"--batch_size", strconv.Itoa(w.cfg.BatchSize),
		"--output_dir", outputDir,
		"--output_format", "json",
		"--segment_resolution", SegmentResolution,
		"--vad_method", w.cfg.VADMethod,
	)
	if w.cfg.VADMethod == VADMethodPyannote && w.cfg.HFToken != "" {
		args = append(args, "--hf_token", w.cfg.HFToken)
	}

	if code := language.Normalize(lang); code != "" {
		args = append(args, "--language", code)
	}

	args = append(args, "--device", w.cfg.Device)
	computeType := w.cfg.ComputeType
	if computeType == "" && !cuda {
		computeType = CPUComputeType
	}
	if computeType != "" {
		args = append(args, "--compute_type", computeType)
	}

	return args
}

type whisperXSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type whisperXPayload struct {
	Segments []whisperXSegment `json:"segments"`
	Language string            `json:"language"`
}

func loadPayload(jsonPath string) (whisperXPayload, error) {
	var payload whisperXPayload
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return payload, err
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, fmt.Errorf("parse whisperx json: %w", err)
	}
	return payload, nil
}

// result concatenates segment text verbatim, the way Whisper itself builds
// its full transcript. The JSON carries no audio length, so Duration stays zero.
func (p whisperXPayload) result(requested string) Result {
	var text strings.Builder
	segments := make([]Segment, 0, len(p.Segments))
	for _, seg := range p.Segments {
		text.WriteString(seg.Text)
		segments = append(segments, Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	lang := p.Language
	if lang == "" {
		lang = requested
	}
	return Result{
		Text:     text.String(),
		Segments: segments,
		Language: lang,
	}
}

func lastLines(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
