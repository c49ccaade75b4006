package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"mintkeeper/internal/config"
)

// Requirement defines an external binary mintkeeper relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// SystemRequirements lists the binaries a deployment needs for the given
// configuration. The firewall backend is only included when a port is
// being opened.
func SystemRequirements(cfg *config.Config) []Requirement {
	requirements := []Requirement{
		{
			Name:        "cdk-mintd",
			Command:     cfg.Mintd.Binary,
			Description: "The mint daemon being supervised",
		},
		{
			Name:        "systemctl",
			Command:     "systemctl",
			Description: "Required for unit installation and service control",
		},
	}
	if cfg.Firewall.OpenPort {
		switch cfg.Firewall.Backend {
		case "nftables":
			requirements = append(requirements, Requirement{
				Name:        "nft",
				Command:     "nft",
				Description: "Required to open the mint listen port",
			})
		case "iptables":
			requirements = append(requirements, Requirement{
				Name:        "iptables",
				Command:     "iptables",
				Description: "Required to open the mint listen port",
			})
		}
	}
	return requirements
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable and writable by the current process.
func CheckDirectoryAccess(name, path string) Status {
	status := Status{Name: name, Command: path}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			status.Detail = "does not exist"
			return status
		}
		status.Detail = fmt.Sprintf("stat: %v", err)
		return status
	}
	if !info.IsDir() {
		status.Detail = "is not a directory"
		return status
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		status.Detail = fmt.Sprintf("insufficient permissions: %v", err)
		return status
	}
	status.Available = true
	return status
}
