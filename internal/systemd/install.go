package systemd

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"mintkeeper/internal/fileutil"
)

// UnitDir is the standard location for administrator-installed units.
const UnitDir = "/etc/systemd/system"

// Manager wraps the systemctl lifecycle verbs for the mint unit.
type Manager struct {
	// Systemctl is the manager binary; overridable for tests.
	Systemctl string
	// UnitDir is where units are written; overridable for tests.
	UnitDir string
}

// NewManager returns a Manager using the host defaults.
func NewManager() *Manager {
	return &Manager{Systemctl: "systemctl", UnitDir: UnitDir}
}

// WriteUnit installs the rendered unit file and returns its path.
func (m *Manager) WriteUnit(data []byte) (string, error) {
	path := filepath.Join(m.UnitDir, UnitName)
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("install unit: %w", err)
	}
	return path, nil
}

// DaemonReload asks systemd to pick up unit changes.
func (m *Manager) DaemonReload(ctx context.Context) error {
	return m.run(ctx, "daemon-reload")
}

// Enable marks the unit to start at boot.
func (m *Manager) Enable(ctx context.Context) error {
	return m.run(ctx, "enable", UnitName)
}

// Restart (re)starts the unit, picking up freshly rendered artifacts.
func (m *Manager) Restart(ctx context.Context) error {
	return m.run(ctx, "restart", UnitName)
}

// Stop stops the unit.
func (m *Manager) Stop(ctx context.Context) error {
	return m.run(ctx, "stop", UnitName)
}

func (m *Manager) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, m.Systemctl, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			return fmt.Errorf("%s %s: %w", m.Systemctl, strings.Join(args, " "), err)
		}
		return fmt.Errorf("%s %s: %w: %s", m.Systemctl, strings.Join(args, " "), err, detail)
	}
	return nil
}
