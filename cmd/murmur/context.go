package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"murmur/internal/config"
	"murmur/internal/logging"
	"murmur/internal/transcription"
)

type modelLoader func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (transcription.Model, error)

type contextOption func(*commandContext)

// withModelLoader replaces transcription.Load, letting tests run batches
// without a speech backend.
func withModelLoader(loader modelLoader) contextOption {
	return func(c *commandContext) {
		c.loadModel = loader
	}
}

type commandContext struct {
	configFlag  string
	verboseFlag bool
	overrides   config.Overrides

	loadModel modelLoader

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(opts ...contextOption) *commandContext {
	c := &commandContext{
		loadModel: func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (transcription.Model, error) {
			return transcription.Load(ctx, cfg, logger)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.ApplyOverrides(c.overrides); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, c.verboseFlag)
	})
	return c.logger, c.loggerErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
