package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestStatusLineRenderPlain(t *testing.T) {
	line := statusLine{Label: "Mint process", Sev: sevReady, Detail: "running (pid 42)"}

	got := line.render(false)
	if strings.Contains(got, "\x1b[") {
		t.Fatalf("unexpected ANSI codes without colorize: %q", got)
	}
	if !strings.Contains(got, "ready") {
		t.Fatalf("expected severity word in %q", got)
	}
	if !strings.Contains(got, "running (pid 42)") {
		t.Fatalf("expected detail in %q", got)
	}
}

func TestStatusLineRenderColorized(t *testing.T) {
	down := statusLine{Label: "cdk-mintd", Sev: sevDown, Detail: "binary not found"}

	got := down.render(true)
	if !strings.Contains(got, ansiRed) || !strings.Contains(got, ansiReset) {
		t.Fatalf("expected red severity, got %q", got)
	}

	note := statusLine{Label: "Restarts", Sev: sevNote, Detail: "0"}
	if strings.Contains(note.render(true), "\x1b[3") {
		t.Fatalf("note lines should not be colored: %q", note.render(true))
	}
}

func TestPrintSectionLayout(t *testing.T) {
	var buf bytes.Buffer
	printSection(&buf, "Paths", []statusLine{
		{Label: "State directory", Sev: sevReady, Detail: "/var/lib/mintkeeper"},
		{Label: "Data directory", Sev: sevDegraded, Detail: "/var/lib/cdk-mintd (does not exist)"},
	}, false)

	out := buf.String()
	if !strings.HasPrefix(out, "PATHS\n") {
		t.Fatalf("expected uppercase heading, got %q", out)
	}
	if !strings.Contains(out, "degraded") {
		t.Fatalf("expected degraded line, got %q", out)
	}
	if !strings.HasSuffix(out, "\n\n") {
		t.Fatalf("expected trailing blank line, got %q", out)
	}
}
