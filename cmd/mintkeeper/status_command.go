package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mintkeeper/internal/deps"
	"mintkeeper/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon, dependency, and path status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			printSection(stdout, "Daemon", daemonLines(ctx), colorize)
			printSection(stdout, "Dependencies", dependencyLines(deps.CheckBinaries(deps.SystemRequirements(cfg))), colorize)

			pathLines := []statusLine{
				pathLine("State directory", deps.CheckDirectoryAccess("State directory", cfg.Paths.StateDir)),
				pathLine("Data directory", deps.CheckDirectoryAccess("Data directory", cfg.Mintd.DataDir)),
			}
			printSection(stdout, "Paths", pathLines, colorize)
			return nil
		},
	}
}

func daemonLines(ctx *commandContext) []statusLine {
	var status *ipc.StatusResponse
	err := ctx.withClient(func(client *ipc.Client) error {
		resp, statusErr := client.Status()
		if statusErr != nil {
			return statusErr
		}
		status = resp
		return nil
	})
	if err != nil {
		return []statusLine{{Label: "mintkeeperd", Sev: sevDegraded, Detail: "not running"}}
	}

	lines := make([]statusLine, 0, 6)
	if status.Running {
		uptime := (time.Duration(status.UptimeSeconds) * time.Second).String()
		lines = append(lines, statusLine{
			Label:  "Mint process",
			Sev:    sevReady,
			Detail: fmt.Sprintf("running (pid %d, up %s)", status.PID, uptime),
		})
	} else {
		detail := "not running"
		if strings.TrimSpace(status.LastExit) != "" {
			detail = fmt.Sprintf("not running (last exit: %s)", status.LastExit)
		}
		lines = append(lines, statusLine{Label: "Mint process", Sev: sevDown, Detail: detail})
	}
	lines = append(lines, statusLine{Label: "Restarts", Sev: sevNote, Detail: fmt.Sprintf("%d", status.Restarts)})
	lines = append(lines, statusLine{Label: "Config", Sev: sevNote, Detail: status.ConfigPath})
	if status.EnvFile != "" {
		lines = append(lines, statusLine{Label: "Environment file", Sev: sevNote, Detail: status.EnvFile})
	}
	lines = append(lines, statusLine{Label: "Lock", Sev: sevNote, Detail: status.LockPath})
	return lines
}

func dependencyLines(statuses []deps.Status) []statusLine {
	lines := make([]statusLine, 0, len(statuses)+1)
	missing := make([]string, 0)
	for _, dep := range statuses {
		if dep.Available {
			detail := ""
			if dep.Command != "" {
				detail = fmt.Sprintf("command: %s", dep.Command)
			}
			lines = append(lines, statusLine{Label: dep.Name, Sev: sevReady, Detail: detail})
			continue
		}

		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		sev := sevDown
		if dep.Optional {
			sev = sevDegraded
		}
		lines = append(lines, statusLine{Label: dep.Name, Sev: sev, Detail: detail})
		if !dep.Optional {
			missing = append(missing, dep.Name)
		}
	}
	if len(missing) > 0 {
		lines = append(lines, statusLine{Label: "Missing", Sev: sevDegraded, Detail: strings.Join(missing, ", ")})
	}
	return lines
}

func pathLine(label string, check deps.Status) statusLine {
	if check.Available {
		return statusLine{Label: label, Sev: sevReady, Detail: check.Command}
	}
	return statusLine{
		Label:  label,
		Sev:    sevDegraded,
		Detail: fmt.Sprintf("%s (%s)", check.Command, check.Detail),
	}
}
