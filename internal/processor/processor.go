package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"murmur/internal/fileutil"
	"murmur/internal/history"
	"murmur/internal/logging"
	"murmur/internal/media"
	"murmur/internal/subtitles"
	"murmur/internal/transcription"
)

// Status summarizes what happened to one input.
type Status string

const (
	StatusDone    Status = "done"
	StatusMissing Status = "missing"
	StatusFailed  Status = "failed"
)

// Outcome describes the result of processing one input.
type Outcome struct {
	Source       string
	Status       Status
	OutputDir    string
	TextPath     string
	SubtitlePath string
	Segments     int
	Language     string
	Elapsed      time.Duration
	// AudioDuration is zero when the length could not be measured.
	AudioDuration time.Duration
}

// Recorder stores one history entry per processed input.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) (int64, error)
}

// DurationProbe measures an audio file.
type DurationProbe func(ctx context.Context, path string) (time.Duration, error)

// Options configures a Processor.
type Options struct {
	Model    transcription.Model
	Language string
	Reporter Reporter
	Logger   *slog.Logger
	// Recorder is optional; nil disables history.
	Recorder Recorder
	RunID    string
	// Probe defaults to media.Duration using FFprobeBinary.
	Probe         DurationProbe
	FFprobeBinary string
}

// Processor handles single audio files with a preloaded model.
type Processor struct {
	model    transcription.Model
	language string
	reporter Reporter
	logger   *slog.Logger
	recorder Recorder
	runID    string
	probe    DurationProbe
	now      func() time.Time
}

// New validates opts and builds a Processor.
func New(opts Options) (*Processor, error) {
	if opts.Model == nil {
		return nil, errors.New("processor: model required")
	}
	if opts.Reporter == nil {
		opts.Reporter = discardReporter{}
	}
	if opts.Probe == nil {
		binary := opts.FFprobeBinary
		opts.Probe = func(ctx context.Context, path string) (time.Duration, error) {
			return media.Duration(ctx, binary, path)
		}
	}
	logger := logging.NewComponentLogger(opts.Logger, "processor")
	if opts.RunID != "" {
		logger = logger.With(logging.String(logging.FieldRunID, opts.RunID))
	}
	return &Processor{
		model:    opts.Model,
		language: opts.Language,
		reporter: opts.Reporter,
		logger:   logger,
		recorder: opts.Recorder,
		runID:    opts.RunID,
		probe:    opts.Probe,
		now:      time.Now,
	}, nil
}

// OutputPaths returns the directory and the two files produced for path.
func OutputPaths(path string) (dir, textPath, subtitlePath string) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dir = filepath.Join(filepath.Dir(path), base)
	return dir, filepath.Join(dir, base+".txt"), filepath.Join(dir, base+".srt")
}

// Process transcribes path and writes its transcript and subtitles. A missing
// input yields StatusMissing with a nil error and creates nothing. Any
// transcription or write failure is returned.
func (p *Processor) Process(ctx context.Context, path string) (Outcome, error) {
	outcome := Outcome{Source: path}
	logger := p.logger.With(logging.String(logging.FieldSource, path))

	p.reporter.Report(LevelInfo, "Processing file: "+path)

	if _, err := os.Stat(path); err != nil {
		p.reporter.Report(LevelWarn, "File not found: "+path)
		logging.WarnWithContext(logger, "input file not found", "input_missing",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the path and re-run"),
			logging.String(logging.FieldImpact, "file skipped"),
		)
		outcome.Status = StatusMissing
		p.record(ctx, logger, outcome, nil)
		return outcome, nil
	}

	outDir, textPath, srtPath := OutputPaths(path)
	outcome.OutputDir = outDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		outcome.Status = StatusFailed
		err = fmt.Errorf("create output directory %s: %w", outDir, err)
		p.record(ctx, logger, outcome, err)
		return outcome, err
	}
	p.reporter.Report(LevelInfo, "Output directory: "+outDir)

	p.reporter.Report(LevelInfo, "Starting transcription...")
	logger.Info("transcription started",
		logging.String("model", p.model.Name()),
		logging.String("language", p.language),
	)
	started := p.now()
	result, err := p.model.Transcribe(ctx, path, p.language)
	outcome.Elapsed = p.now().Sub(started)
	if err != nil {
		outcome.Status = StatusFailed
		logger.Error("transcription failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "transcription_failed"),
			logging.String(logging.FieldErrorHint, "check the backend output above; the device and model are fixed by configuration"),
			logging.Duration("elapsed", outcome.Elapsed),
		)
		err = fmt.Errorf("transcribe %s: %w", path, err)
		p.record(ctx, logger, outcome, err)
		return outcome, err
	}
	p.reporter.Report(LevelInfo, fmt.Sprintf("Transcription finished in %.2f seconds.", outcome.Elapsed.Seconds()))

	outcome.Segments = len(result.Segments)
	outcome.Language = result.Language
	outcome.AudioDuration = p.audioDuration(ctx, logger, path, result)

	if err := fileutil.WriteFileAtomic(textPath, []byte(result.Text), 0o644); err != nil {
		outcome.Status = StatusFailed
		err = fmt.Errorf("write transcript %s: %w", textPath, err)
		p.record(ctx, logger, outcome, err)
		return outcome, err
	}
	outcome.TextPath = textPath
	p.reporter.Report(LevelOK, "TXT saved: "+textPath)

	segments := toSubtitleSegments(result.Segments)
	if issues := subtitles.Validate(segments); len(issues) > 0 {
		logging.WarnWithContext(logger, "segments out of order", "segment_order",
			logging.Int("issue_count", len(issues)),
			logging.String("first_issue", issues[0]),
			logging.String(logging.FieldErrorHint, "subtitles are written in backend order"),
			logging.String(logging.FieldImpact, "players may show overlapping cues"),
		)
	}
	if err := subtitles.WriteFile(srtPath, segments); err != nil {
		outcome.Status = StatusFailed
		p.record(ctx, logger, outcome, err)
		return outcome, err
	}
	outcome.SubtitlePath = srtPath
	p.reporter.Report(LevelOK, "SRT saved: "+srtPath)

	if len(segments) > 0 {
		if issues := subtitles.ValidateFile(srtPath, outcome.AudioDuration.Seconds()); len(issues) > 0 {
			logging.WarnWithContext(logger, "subtitle validation issues", "srt_validation",
				logging.String("issues", strings.Join(issues, "; ")),
				logging.String(logging.FieldImpact, "subtitle file written anyway"),
			)
		}
	}

	outcome.Status = StatusDone
	attrs := []logging.Attr{
		logging.Duration("elapsed", outcome.Elapsed),
		logging.Int("segments", outcome.Segments),
		logging.String("output_dir", outDir),
		logging.String(logging.FieldEventType, "file_done"),
	}
	if outcome.AudioDuration > 0 && outcome.Elapsed > 0 {
		attrs = append(attrs, logging.Float64("realtime_factor", outcome.AudioDuration.Seconds()/outcome.Elapsed.Seconds()))
	}
	logger.Info("transcription finished", logging.Args(attrs...)...)
	p.record(ctx, logger, outcome, nil)
	return outcome, nil
}

func (p *Processor) audioDuration(ctx context.Context, logger *slog.Logger, path string, result transcription.Result) time.Duration {
	if result.Duration > 0 {
		return result.Duration
	}
	d, err := p.probe(ctx, path)
	if err != nil {
		logger.Debug("audio duration unavailable", logging.Error(err))
		return 0
	}
	return d
}

func (p *Processor) record(ctx context.Context, logger *slog.Logger, outcome Outcome, cause error) {
	if p.recorder == nil {
		return
	}
	entry := history.Entry{
		RunID:          p.runID,
		SourcePath:     outcome.Source,
		OutputDir:      outcome.OutputDir,
		Status:         string(outcome.Status),
		Model:          p.model.Name(),
		Language:       outcome.Language,
		SegmentCount:   outcome.Segments,
		AudioSeconds:   outcome.AudioDuration.Seconds(),
		ElapsedSeconds: outcome.Elapsed.Seconds(),
		CreatedAt:      p.now(),
	}
	if entry.Language == "" {
		entry.Language = p.language
	}
	if cause != nil {
		entry.ErrorMessage = cause.Error()
	}
	// Record even when the batch was interrupted.
	if _, err := p.recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
		logging.WarnWithContext(logger, "history record failed", "history_write",
			logging.Error(err),
			logging.String(logging.FieldImpact, "file processed but missing from history"),
		)
	}
}

func toSubtitleSegments(segments []transcription.Segment) []subtitles.Segment {
	out := make([]subtitles.Segment, 0, len(segments))
	for _, seg := range segments {
		out = append(out, subtitles.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	return out
}
