package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mintkeeper/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Deployment file utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample deployment file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				target = config.DefaultConfigPath()
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("deployment file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample deployment file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample deployment file to %s\n", target)
			fmt.Fprintln(out, "Edit the [settings] sections to match your mint, then run `mintkeeper deploy`.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the deployment file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing deployment file if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the deployment file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return fmt.Errorf("load deployment file: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Deployment file: %s\n", ctx.resolvedConfigPath())
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective deployment configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Deployment file:   %s\n", ctx.resolvedConfigPath())
			fmt.Fprintf(out, "Mint binary:       %s\n", cfg.Mintd.Binary)
			fmt.Fprintf(out, "Data directory:    %s\n", cfg.Mintd.DataDir)
			fmt.Fprintf(out, "Service identity:  %s:%s\n", cfg.Mintd.User, cfg.Mintd.Group)
			fmt.Fprintf(out, "Log level:         %s\n", cfg.Mintd.LogLevel)
			if cfg.Mintd.ConfigPath != "" {
				fmt.Fprintf(out, "Config override:   %s\n", cfg.Mintd.ConfigPath)
			} else {
				fmt.Fprintf(out, "Rendered config:   %s\n", cfg.SettingsArtifactPath())
			}
			if cfg.Mintd.MnemonicFile != "" {
				fmt.Fprintf(out, "Mnemonic file:     %s\n", cfg.Mintd.MnemonicFile)
			}
			fmt.Fprintf(out, "Listen port:       %d\n", cfg.Settings.ListenPort())
			fmt.Fprintf(out, "Firewall managed:  %s (%s)\n", yesNo(cfg.Firewall.OpenPort), cfg.Firewall.Backend)
			fmt.Fprintf(out, "State directory:   %s\n", cfg.Paths.StateDir)
			fmt.Fprintf(out, "Secrets in env:    %d entries\n", len(cfg.Environment))
			return nil
		},
	}
}
