package deps_test

import (
	"os"
	"path/filepath"
	"testing"

	"mintkeeper/internal/config"
	"mintkeeper/internal/deps"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []deps.Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: ""},
	}

	results := deps.CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatal("expected detail message for missing binary")
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for unset command: %q", results[2].Detail)
	}
}

func TestSystemRequirementsIncludesFirewallBackend(t *testing.T) {
	cfg := config.Default()

	names := func() []string {
		var out []string
		for _, req := range deps.SystemRequirements(&cfg) {
			out = append(out, req.Name)
		}
		return out
	}

	base := names()
	for _, name := range []string{"cdk-mintd", "systemctl"} {
		found := false
		for _, got := range base {
			if got == name {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected requirement %q in %v", name, base)
		}
	}
	for _, got := range base {
		if got == "nft" || got == "iptables" {
			t.Fatalf("firewall backend listed without open_port: %v", base)
		}
	}

	cfg.Firewall.OpenPort = true
	cfg.Firewall.Backend = "iptables"
	withFirewall := names()
	found := false
	for _, got := range withFirewall {
		if got == "iptables" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected iptables requirement, got %v", withFirewall)
	}
}

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	status := deps.CheckDirectoryAccess("State directory", dir)
	if !status.Available {
		t.Fatalf("expected directory to be accessible: %#v", status)
	}

	missing := deps.CheckDirectoryAccess("State directory", filepath.Join(dir, "nope"))
	if missing.Available {
		t.Fatal("expected missing directory to be unavailable")
	}
	if missing.Detail != "does not exist" {
		t.Fatalf("unexpected detail: %q", missing.Detail)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	notDir := deps.CheckDirectoryAccess("State directory", file)
	if notDir.Available || notDir.Detail != "is not a directory" {
		t.Fatalf("unexpected result for file path: %#v", notDir)
	}
}
