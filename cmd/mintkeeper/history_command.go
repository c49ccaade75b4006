package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mintkeeper/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent deployments, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()

			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			store, err := journal.Open(cfg.JournalPath())
			if err != nil {
				return fmt.Errorf("open deployment journal: %w", err)
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list deployments: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No deployments recorded")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.CreatedAt.Local().Format(time.DateTime),
					entry.Outcome,
					shortHash(entry.ConfigHash),
					yesNo(entry.EnvFile),
					entry.Message,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"When", "Outcome", "Config", "Env", "Message"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")
	return cmd
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
