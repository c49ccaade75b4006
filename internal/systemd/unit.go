package systemd

import (
	"bytes"
	"fmt"
	"text/template"

	"mintkeeper/internal/supervisor"
)

// UnitName is the service unit mintkeeper installs.
const UnitName = "cdk-mintd.service"

// unitTemplate is the systemd service unit for the supervised mint. The
// ExecStart points at mintkeeperd so the pre-start hook (mnemonic read,
// environment assembly) runs inside the supervising process rather than in
// shell glue. Sandboxing is deny-by-default with the data directory as the
// single writable exception.
const unitTemplate = `[Unit]
Description=Cashu mint daemon (supervised by mintkeeper)
Documentation=https://github.com/cashubtc/cdk
After=network-online.target
Wants=network-online.target

[Service]
ExecStart={{.KeeperBinary}} --config {{.DeploymentFile}}
User={{.User}}
Group={{.Group}}
WorkingDirectory={{.DataDir}}
{{- if .EnvFile}}
EnvironmentFile={{.EnvFile}}
{{- end}}
Restart=always
RestartSec=10

# Sandboxing: deny by default, data directory writable.
NoNewPrivileges=true
PrivateTmp=true
ProtectSystem=strict
ReadWritePaths={{.DataDir}} {{.StateDir}} {{.LogDir}}
ProtectHome=true
ProtectKernelModules=true
ProtectKernelTunables=true
ProtectKernelLogs=true
ProtectControlGroups=true
RestrictNamespaces=true
RestrictRealtime=true
MemoryDenyWriteExecute=true
LockPersonality=true
SystemCallArchitectures=native
RestrictAddressFamilies=AF_UNIX AF_INET AF_INET6

[Install]
WantedBy=multi-user.target
`

var unitTmpl = template.Must(template.New("unit").Parse(unitTemplate))

// UnitParams feeds the unit template.
type UnitParams struct {
	KeeperBinary   string
	DeploymentFile string
	StateDir       string
	LogDir         string
	User           string
	Group          string
	DataDir        string
	EnvFile        string
}

// UnitFor renders the service unit for a launch descriptor.
func UnitFor(desc supervisor.Descriptor, keeperBinary, deploymentFile, stateDir, logDir string) ([]byte, error) {
	params := UnitParams{
		KeeperBinary:   keeperBinary,
		DeploymentFile: deploymentFile,
		StateDir:       stateDir,
		LogDir:         logDir,
		User:           desc.User,
		Group:          desc.Group,
		DataDir:        desc.DataDir,
		EnvFile:        desc.EnvFile,
	}
	var buf bytes.Buffer
	if err := unitTmpl.Execute(&buf, params); err != nil {
		return nil, fmt.Errorf("render unit: %w", err)
	}
	return buf.Bytes(), nil
}
