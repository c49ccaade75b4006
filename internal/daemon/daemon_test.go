package daemon_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mintkeeper/internal/config"
	"mintkeeper/internal/daemon"
	"mintkeeper/internal/supervisor"
)

func testSetup(t *testing.T) (*config.Config, supervisor.Descriptor) {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Mintd.DataDir = t.TempDir()

	stub := filepath.Join(t.TempDir(), "fake-mintd")
	script := "#!/bin/sh\nsleep 60\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	desc := supervisor.Descriptor{
		Binary:       stub,
		DataDir:      cfg.Mintd.DataDir,
		ConfigPath:   "/dev/null",
		RestartDelay: 10 * time.Millisecond,
	}
	return &cfg, desc
}

func TestStartRejectsSecondInstance(t *testing.T) {
	cfg, desc := testSetup(t)

	first, err := daemon.New(cfg, nil, supervisor.NewRunner(desc, nil), nil)
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("start first: %v", err)
	}
	defer first.Stop()

	second, err := daemon.New(cfg, nil, supervisor.NewRunner(desc, nil), nil)
	if err != nil {
		t.Fatalf("new second daemon: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("expected lock contention error")
	}
}

func TestStatusReflectsRunningChild(t *testing.T) {
	cfg, desc := testSetup(t)

	d, err := daemon.New(cfg, nil, supervisor.NewRunner(desc, nil), nil)
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer d.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for {
		status := d.Status()
		if status.Running && status.PID > 0 {
			if status.ConfigPath != cfg.SettingsArtifactPath() {
				t.Fatalf("unexpected config path: %q", status.ConfigPath)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("child never reported running: %+v", status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStopReleasesLock(t *testing.T) {
	cfg, desc := testSetup(t)

	d, err := daemon.New(cfg, nil, supervisor.NewRunner(desc, nil), nil)
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	d.Stop()

	replacement, err := daemon.New(cfg, nil, supervisor.NewRunner(desc, nil), nil)
	if err != nil {
		t.Fatalf("new replacement: %v", err)
	}
	if err := replacement.Start(context.Background()); err != nil {
		t.Fatalf("lock not released: %v", err)
	}
	replacement.Stop()
}
