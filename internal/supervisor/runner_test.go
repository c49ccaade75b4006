package supervisor_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mintkeeper/internal/supervisor"
)

// writeStub creates an executable that records each invocation and exits
// immediately, standing in for the mint daemon binary.
func writeStub(t *testing.T, marker string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-mintd")
	script := "#!/bin/sh\necho run >> " + marker + "\nexit 0\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestRunnerRestartsAfterExit(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "invocations")
	desc := supervisor.Descriptor{
		Binary:       writeStub(t, marker),
		DataDir:      t.TempDir(),
		ConfigPath:   "/dev/null",
		RestartDelay: 10 * time.Millisecond,
	}
	runner := supervisor.NewRunner(desc, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := runner.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline, got %v", err)
	}

	data, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("stub never ran: %v", err)
	}
	if len(data) < len("run\nrun\n") {
		t.Fatalf("expected at least two invocations, got %q", data)
	}

	status := runner.Status()
	if status.Running {
		t.Fatal("expected stopped status after cancellation")
	}
	if status.Restarts < 2 {
		t.Fatalf("expected restart count >= 2, got %d", status.Restarts)
	}
	if status.LastExit != "exit status 0" {
		t.Fatalf("unexpected last exit: %q", status.LastExit)
	}
}

func TestRunnerDoesNotCountFinalStopAsRestart(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "fake-mintd")
	script := "#!/bin/sh\nsleep 60\n"
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	desc := supervisor.Descriptor{
		Binary:       binary,
		DataDir:      t.TempDir(),
		ConfigPath:   "/dev/null",
		RestartDelay: 10 * time.Millisecond,
	}
	runner := supervisor.NewRunner(desc, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for runner.Status().PID == 0 {
		if time.Now().After(deadline) {
			t.Fatal("daemon never reported running")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if got := runner.Status().Restarts; got != 0 {
		t.Fatalf("single run stopped by cancellation counted %d restarts", got)
	}
}

func TestRunnerFailsBeforeSpawnWhenMnemonicMissing(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "invocations")
	desc := supervisor.Descriptor{
		Binary:       writeStub(t, marker),
		DataDir:      t.TempDir(),
		ConfigPath:   "/dev/null",
		MnemonicFile: filepath.Join(t.TempDir(), "missing-mnemonic"),
		RestartDelay: 10 * time.Millisecond,
	}
	runner := supervisor.NewRunner(desc, nil)

	err := runner.Run(context.Background())
	if err == nil {
		t.Fatal("expected pre-start failure")
	}
	if _, statErr := os.Stat(marker); !os.IsNotExist(statErr) {
		t.Fatal("daemon executable was invoked despite pre-start failure")
	}
}

func TestRunnerReturnsStartErrorForMissingBinary(t *testing.T) {
	desc := supervisor.Descriptor{
		Binary:     filepath.Join(t.TempDir(), "not-a-binary"),
		DataDir:    t.TempDir(),
		ConfigPath: "/dev/null",
	}
	runner := supervisor.NewRunner(desc, nil)

	if err := runner.Run(context.Background()); err == nil {
		t.Fatal("expected error for missing binary")
	}
}
