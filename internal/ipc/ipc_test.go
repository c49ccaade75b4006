package ipc_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mintkeeper/internal/config"
	"mintkeeper/internal/daemon"
	"mintkeeper/internal/ipc"
	"mintkeeper/internal/supervisor"
)

func startTestDaemon(t *testing.T) (*config.Config, *daemon.Daemon) {
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
	d, err := daemon.New(&cfg, nil, supervisor.NewRunner(desc, nil), nil)
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start daemon: %v", err)
	}
	t.Cleanup(d.Stop)
	return &cfg, d
}

func TestStatusRoundTrip(t *testing.T) {
	cfg, d := startTestDaemon(t)

	shutdownCtx, shutdown := context.WithCancel(context.Background())
	defer shutdown()

	server, err := ipc.NewServer(shutdownCtx, cfg.SocketPath(), d, shutdown, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	server.Serve()
	defer server.Close()

	client, err := ipc.Dial(cfg.SocketPath())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		status, err := client.Status()
		if err != nil {
			t.Fatalf("status call: %v", err)
		}
		if status.Running && status.PID > 0 {
			if status.LockPath != cfg.LockPath() {
				t.Fatalf("unexpected lock path: %q", status.LockPath)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("child never reported running: %+v", status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStopTriggersShutdown(t *testing.T) {
	cfg, d := startTestDaemon(t)

	shutdownCtx, shutdown := context.WithCancel(context.Background())
	defer shutdown()

	server, err := ipc.NewServer(shutdownCtx, cfg.SocketPath(), d, shutdown, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	server.Serve()
	defer server.Close()

	client, err := ipc.Dial(cfg.SocketPath())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	resp, err := client.Stop()
	if err != nil {
		t.Fatalf("stop call: %v", err)
	}
	if !resp.Stopped {
		t.Fatal("expected stopped response")
	}

	select {
	case <-shutdownCtx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown never triggered")
	}
}

func TestCloseRemovesSocket(t *testing.T) {
	cfg, d := startTestDaemon(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := ipc.NewServer(ctx, cfg.SocketPath(), d, cancel, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	server.Serve()

	if err := server.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(cfg.SocketPath()); !os.IsNotExist(err) {
		t.Fatalf("socket still present after close: %v", err)
	}
}
