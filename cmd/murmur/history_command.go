package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"murmur/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently processed files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No files processed yet")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.SourcePath,
					e.CreatedAt.Local().Format("2006-01-02 15:04"),
					e.Status,
					fmt.Sprintf("%d", e.SegmentCount),
					formatSeconds(time.Duration(e.AudioSeconds * float64(time.Second))),
					formatSeconds(time.Duration(e.ElapsedSeconds * float64(time.Second))),
					e.Model,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"File", "When", "Status", "Segments", "Audio", "Elapsed", "Model"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")
	return cmd
}
