package main

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"murmur/internal/config"
	"murmur/internal/devicelock"
	"murmur/internal/history"
	"murmur/internal/logging"
	"murmur/internal/preflight"
	"murmur/internal/processor"
)

func runBatch(cmd *cobra.Command, ctx *commandContext, paths []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	baseLogger, err := ctx.ensureLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	runCtx := cmd.Context()
	runID := uuid.NewString()
	logger := logging.NewComponentLogger(baseLogger, "batch").With(logging.String(logging.FieldRunID, runID))
	logger.Info("batch started",
		logging.Int("files", len(paths)),
		logging.String("config", ctx.configPath),
		logging.String("backend", cfg.Transcription.Backend),
		logging.String("language", cfg.Transcription.Language),
	)

	if check := preflight.CheckDiskSpace("state", cfg.Paths.StateDir, preflight.MinFreeBytes); !check.Passed {
		logging.WarnWithContext(logger, "low disk space", "disk_space",
			logging.String("detail", check.Detail),
			logging.String(logging.FieldImpact, "history and logs may fail to write"),
		)
	}

	if cfg.Transcription.DeviceLock && cfg.Transcription.Backend == config.BackendWhisperX {
		lock := devicelock.New(cfg.LockPath(), baseLogger)
		if err := lock.Acquire(runCtx); err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logging.WarnWithContext(logger, "device lock release failed", "device_lock", logging.Error(err))
			}
		}()
	}

	out := cmd.OutOrStdout()
	reporter := newConsoleReporter(out)
	reporter.Report(processor.LevelInfo, loadingMessage(cfg))
	model, err := ctx.loadModel(runCtx, cfg, baseLogger)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	reporter.Report(processor.LevelOK, "Model loaded.")

	var recorder processor.Recorder
	if cfg.History.Enabled {
		store, err := history.Open(cfg)
		if err != nil {
			logging.WarnWithContext(logger, "history unavailable", "history_open",
				logging.Error(err),
				logging.String(logging.FieldImpact, "this batch will not appear in murmur history"),
			)
		} else {
			defer store.Close()
			recorder = store
		}
	}

	proc, err := processor.New(processor.Options{
		Model:         model,
		Language:      cfg.Transcription.Language,
		Reporter:      reporter,
		Logger:        baseLogger,
		Recorder:      recorder,
		RunID:         runID,
		FFprobeBinary: cfg.FFprobeBinary(),
	})
	if err != nil {
		return err
	}

	started := time.Now()
	outcomes := make([]processor.Outcome, 0, len(paths))
	for i, path := range paths {
		outcome, err := proc.Process(runCtx, path)
		outcomes = append(outcomes, outcome)
		if err != nil {
			logger.Error("batch aborted",
				logging.Error(err),
				logging.String(logging.FieldSource, path),
				logging.Int("remaining", len(paths)-i-1),
				logging.String(logging.FieldEventType, "batch_aborted"),
			)
			for _, rest := range paths[i+1:] {
				outcomes = append(outcomes, processor.Outcome{Source: rest})
			}
			printSummary(out, outcomes)
			return err
		}
	}

	printSummary(out, outcomes)
	logger.Info("batch finished",
		logging.Duration("elapsed", time.Since(started)),
		logging.Int("files", len(paths)),
		logging.String(logging.FieldEventType, "batch_finished"),
	)
	return nil
}

func loadingMessage(cfg *config.Config) string {
	if cfg.Transcription.Backend == config.BackendOpenAI {
		return fmt.Sprintf("Connecting to transcription API (%s) at %s ...", cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
	}
	return fmt.Sprintf("Loading Whisper model (%s) on device '%s' ...", cfg.Transcription.Model, cfg.Transcription.Device)
}

func printSummary(out io.Writer, outcomes []processor.Outcome) {
	if len(outcomes) == 0 {
		return
	}
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		status := string(o.Status)
		if status == "" {
			status = "not started"
		}
		rows = append(rows, []string{
			o.Source,
			status,
			formatSegments(o),
			formatSeconds(o.AudioDuration),
			formatSeconds(o.Elapsed),
		})
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable(
		[]string{"File", "Status", "Segments", "Audio", "Elapsed"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
	))
}

func formatSegments(o processor.Outcome) string {
	if o.Status != processor.StatusDone {
		return "-"
	}
	return fmt.Sprintf("%d", o.Segments)
}

func formatSeconds(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
