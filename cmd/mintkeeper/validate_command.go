package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mintkeeper/internal/mintconfig"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the mint settings for missing required fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()

			if cfg.Mintd.ConfigPath != "" {
				fmt.Fprintf(out, "Using operator-managed mint configuration at %s; settings tree not checked\n", cfg.Mintd.ConfigPath)
				return nil
			}

			errs := mintconfig.Validate(cfg.Settings)
			if len(errs) == 0 {
				fmt.Fprintln(out, "Mint settings valid")
				return nil
			}

			for _, fieldErr := range errs {
				fmt.Fprintf(out, "  - %s\n", fieldErr.Error())
			}
			return fmt.Errorf("%d settings violation(s)", len(errs))
		},
	}
}
