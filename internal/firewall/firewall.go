// Package firewall opens the mint's TCP listen port on the host.
package firewall

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Rule describes a single TCP port to accept on the host firewall.
type Rule struct {
	Backend string
	Port    int
}

// Command returns the backend invocation that opens the port. Pure so the
// assembled command line is testable without touching the host.
func (r Rule) Command() ([]string, error) {
	port := strconv.Itoa(r.Port)
	switch r.Backend {
	case "nftables":
		return []string{"nft", "add", "rule", "inet", "filter", "input", "tcp", "dport", port, "accept"}, nil
	case "iptables":
		return []string{"iptables", "-A", "INPUT", "-p", "tcp", "--dport", port, "-j", "ACCEPT"}, nil
	default:
		return nil, fmt.Errorf("unsupported firewall backend %q", r.Backend)
	}
}

// Apply executes the rule on the host.
func (r Rule) Apply(ctx context.Context) error {
	argv, err := r.Command()
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			return fmt.Errorf("%s: %w", strings.Join(argv, " "), err)
		}
		return fmt.Errorf("%s: %w: %s", strings.Join(argv, " "), err, detail)
	}
	return nil
}
