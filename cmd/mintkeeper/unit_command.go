package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mintkeeper/internal/supervisor"
	"mintkeeper/internal/systemd"
)

func newUnitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unit",
		Short: "Preview the systemd service unit without installing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()

			desc := supervisor.NewDescriptor(cfg, len(cfg.Environment) > 0)
			daemonBinary, err := daemonExecutable()
			if err != nil {
				daemonBinary = "/usr/local/bin/mintkeeperd"
			}

			unit, err := systemd.UnitFor(desc, daemonBinary, ctx.resolvedConfigPath(), cfg.Paths.StateDir, cfg.Paths.LogDir)
			if err != nil {
				return fmt.Errorf("render service unit: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(unit))
			return nil
		},
	}
}
