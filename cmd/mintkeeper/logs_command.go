package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"mintkeeper/internal/logtail"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent daemon log output",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()
			path := filepath.Join(cfg.Paths.LogDir, "mintkeeperd.log")

			lines, offset, err := logtail.Last(path, limit)
			if err != nil {
				return err
			}
			if len(lines) == 0 && !follow {
				fmt.Fprintf(cmd.ErrOrStderr(), "No log output at %s\n", path)
				return nil
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}

			if !follow {
				return nil
			}
			err = logtail.Follow(cmd.Context(), path, offset, out)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep streaming new log lines")
	return cmd
}
