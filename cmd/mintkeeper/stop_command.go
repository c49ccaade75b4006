package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mintkeeper/internal/ipc"
)

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Ask the mintkeeper daemon to shut down",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Stop()
				if err != nil {
					return err
				}
				if !resp.Stopped {
					return fmt.Errorf("daemon declined stop request")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Stop request sent")
				return nil
			})
		},
	}
}
