package main

import (
	"errors"

	"github.com/spf13/cobra"
)

const usageLine = "usage: murmur <audio1> [audio2 ...]"

var errUsage = errors.New(usageLine)

func newRootCommand(opts ...contextOption) *cobra.Command {
	ctx := newCommandContext(opts...)

	rootCmd := &cobra.Command{
		Use:   "murmur <audio1> [audio2 ...]",
		Short: "Transcribe audio files into text and SRT subtitles",
		Long: "murmur transcribes each audio file with a speech-recognition model and writes\n" +
			"<dir>/<name>/<name>.txt and <dir>/<name>/<name>.srt next to every input.\n\n" +
			"An existing file named like a subcommand is transcribed; use -- before a\n" +
			"path to force the batch, e.g. murmur -- history.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errUsage
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, ctx, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&ctx.verboseFlag, "verbose", "v", false, "Mirror log output to stderr")
	rootCmd.Flags().StringVar(&ctx.overrides.Backend, "backend", "", "Transcription backend (whisperx or openai)")
	rootCmd.Flags().StringVarP(&ctx.overrides.Model, "model", "m", "", "Model size, e.g. medium or large-v3")
	rootCmd.Flags().StringVarP(&ctx.overrides.Device, "device", "d", "", "Accelerator device, e.g. cuda or cpu")
	rootCmd.Flags().StringVarP(&ctx.overrides.Language, "language", "l", "", "Spoken language of every input")

	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))

	return rootCmd
}
