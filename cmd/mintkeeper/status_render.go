package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// severity grades a single line of the status report. The vocabulary is
// deployment-flavored: a dependency or the mint process is ready, degraded
// (missing but optional, or recoverable), or down.
type severity int

const (
	sevNote severity = iota
	sevReady
	sevDegraded
	sevDown
)

func (s severity) word() string {
	switch s {
	case sevReady:
		return "ready"
	case sevDegraded:
		return "degraded"
	case sevDown:
		return "down"
	default:
		return "-"
	}
}

func (s severity) color() string {
	switch s {
	case sevReady:
		return ansiGreen
	case sevDegraded:
		return ansiYellow
	case sevDown:
		return ansiRed
	default:
		return ""
	}
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 18
	severityWidth    = 9
	statusIndent     = "  "
)

// statusLine is one row of the report: a label, a severity, and free-form
// detail.
type statusLine struct {
	Label  string
	Sev    severity
	Detail string
}

func (l statusLine) render(colorize bool) string {
	sev := fmt.Sprintf("%-*s", severityWidth, l.Sev.word())
	if colorize {
		if c := l.Sev.color(); c != "" {
			sev = c + sev + ansiReset
		}
	}
	out := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, l.Label, sev)
	if l.Detail != "" {
		out += l.Detail
	}
	return out
}

func printSection(w io.Writer, title string, lines []statusLine, colorize bool) {
	heading := strings.ToUpper(strings.TrimSpace(title))
	if colorize {
		heading = ansiBlue + heading + ansiReset
	}
	fmt.Fprintln(w, heading)
	for _, line := range lines {
		fmt.Fprintln(w, line.render(colorize))
	}
	fmt.Fprintln(w)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
