package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"murmur/internal/deps"
	"murmur/internal/language"
	"murmur/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that murmur can run with the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			printLines := func(lines []string) {
				for _, line := range lines {
					fmt.Fprintln(out, line)
				}
			}

			t := cfg.Transcription
			printLines(renderSectionHeader("Configuration", colorize))
			fmt.Fprintln(out, renderStatusLine("Config file", statusInfo, ctx.configPath, colorize))
			fmt.Fprintln(out, renderStatusLine("Backend", statusInfo, t.Backend, colorize))
			fmt.Fprintln(out, renderStatusLine("Model", statusInfo, fmt.Sprintf("%s on %s", t.Model, t.Device), colorize))
			fmt.Fprintln(out, renderStatusLine("Language", statusInfo, language.DisplayName(t.Language), colorize))
			fmt.Fprintln(out, renderStatusLine("Device lock", statusInfo, yesNo(t.DeviceLock), colorize))
			fmt.Fprintln(out, renderStatusLine("History", statusInfo, yesNo(cfg.History.Enabled), colorize))
			fmt.Fprintln(out)

			failures := 0
			printLines(renderSectionHeader("Dependencies", colorize))
			statuses := preflight.CheckSystemDeps(cfg)
			for _, status := range statuses {
				fmt.Fprintln(out, renderStatusLine(status.Name, dependencyKind(status), dependencyDetail(status), colorize))
			}
			failures += len(deps.MissingRequired(statuses))
			fmt.Fprintln(out)

			printLines(renderSectionHeader("Checks", colorize))
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failures++
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			if failures > 0 {
				return fmt.Errorf("doctor: %d check(s) failed", failures)
			}
			return nil
		},
	}
}

func dependencyKind(status deps.Status) statusKind {
	switch {
	case status.Available:
		return statusOK
	case status.Optional:
		return statusWarn
	default:
		return statusError
	}
}

func dependencyDetail(status deps.Status) string {
	if status.Available {
		return status.Path
	}
	if status.Description != "" {
		return fmt.Sprintf("%s; %s", status.Detail, status.Description)
	}
	return status.Detail
}
