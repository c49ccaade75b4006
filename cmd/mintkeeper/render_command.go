package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mintkeeper/internal/envfile"
	"mintkeeper/internal/mintconfig"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var showEnv bool
	var showOverrides bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Preview the rendered mint configuration without writing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()

			if showEnv {
				data, err := envfile.Render(cfg.Environment)
				if err != nil {
					return fmt.Errorf("render environment file: %w", err)
				}
				if len(data) == 0 {
					fmt.Fprintln(cmd.ErrOrStderr(), "No environment entries configured")
					return nil
				}
				fmt.Fprint(out, string(data))
				return nil
			}

			if showOverrides {
				data, err := envfile.Render(cfg.Settings.EnvOverrides())
				if err != nil {
					return fmt.Errorf("render environment overrides: %w", err)
				}
				fmt.Fprint(out, string(data))
				return nil
			}

			data, err := mintconfig.Render(cfg.Settings)
			if err != nil {
				return fmt.Errorf("render mint configuration: %w", err)
			}
			fmt.Fprint(out, string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showEnv, "env", false, "Show the rendered secret environment file instead")
	cmd.Flags().BoolVar(&showOverrides, "env-overrides", false, "Show the settings expressed as CDK_MINTD_* environment variables")
	return cmd
}
