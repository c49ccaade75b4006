package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"mintkeeper/internal/deploy"
	"mintkeeper/internal/firewall"
	"mintkeeper/internal/journal"
	"mintkeeper/internal/systemd"
)

func newDeployCommand(ctx *commandContext) *cobra.Command {
	var skipInstall bool
	var skipFirewall bool

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Render artifacts, install the service unit, and restart the mint",
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

			opts := deploy.Options{}
			if os.Geteuid() != 0 {
				opts.SkipProvision = true
				fmt.Fprintln(out, "Not running as root; skipping user and data directory provisioning")
			}

			result, err := deploy.Run(cmd.Context(), cfg, store, nil, opts)
			if err != nil {
				var validationErr *deploy.ValidationError
				if errors.As(err, &validationErr) {
					fmt.Fprintln(out, "Settings validation failed:")
					for _, fieldErr := range validationErr.Errors {
						fmt.Fprintf(out, "  - %s\n", fieldErr.Error())
					}
				}
				return err
			}

			fmt.Fprintf(out, "Mint configuration: %s\n", result.Descriptor.ConfigPath)
			if result.EnvFileWritten {
				fmt.Fprintf(out, "Environment file:   %s\n", result.Descriptor.EnvFile)
			}
			if result.Changed {
				fmt.Fprintln(out, "Configuration changed since last deploy")
			} else {
				fmt.Fprintln(out, "Configuration unchanged since last deploy")
			}

			if !skipInstall {
				if err := installUnit(cmd, ctx, result); err != nil {
					return err
				}
			}

			if cfg.Firewall.OpenPort && !skipFirewall {
				rule := firewall.Rule{Backend: cfg.Firewall.Backend, Port: cfg.Settings.ListenPort()}
				if err := rule.Apply(cmd.Context()); err != nil {
					return fmt.Errorf("open listen port: %w", err)
				}
				fmt.Fprintf(out, "Opened TCP port %d via %s\n", rule.Port, rule.Backend)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&skipInstall, "skip-install", false, "Render artifacts without touching systemd")
	cmd.Flags().BoolVar(&skipFirewall, "skip-firewall", false, "Do not apply firewall rules even when configured")
	return cmd
}

func installUnit(cmd *cobra.Command, ctx *commandContext, result *deploy.Result) error {
	out := cmd.OutOrStdout()

	daemonBinary, err := daemonExecutable()
	if err != nil {
		return err
	}

	unit, err := systemd.UnitFor(result.Descriptor, daemonBinary, ctx.resolvedConfigPath(), ctx.configValue().Paths.StateDir, ctx.configValue().Paths.LogDir)
	if err != nil {
		return fmt.Errorf("render service unit: %w", err)
	}

	manager := systemd.NewManager()
	unitPath, err := manager.WriteUnit(unit)
	if err != nil {
		return fmt.Errorf("install service unit: %w", err)
	}
	fmt.Fprintf(out, "Installed unit:     %s\n", unitPath)

	if err := manager.DaemonReload(cmd.Context()); err != nil {
		return err
	}
	if err := manager.Enable(cmd.Context()); err != nil {
		return err
	}
	if err := manager.Restart(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(out, "Service restarted:  %s\n", systemd.UnitName)
	return nil
}

// daemonExecutable locates the mintkeeperd binary, preferring the directory
// the CLI itself was installed into.
func daemonExecutable() (string, error) {
	exe, err := os.Executable()
	if err == nil {
		sibling := filepath.Join(filepath.Dir(exe), "mintkeeperd")
		if info, statErr := os.Stat(sibling); statErr == nil && !info.IsDir() {
			return sibling, nil
		}
	}
	path, lookErr := exec.LookPath("mintkeeperd")
	if lookErr != nil {
		return "", fmt.Errorf("locate mintkeeperd binary: %w", lookErr)
	}
	return path, nil
}
