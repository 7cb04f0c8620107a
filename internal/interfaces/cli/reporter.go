package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	stageStyle = lipgloss.NewStyle().Bold(true)
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	skipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// ConsoleReporter prints one line per pipeline stage with a pass, fail or
// skip status.
type ConsoleReporter struct {
	w io.Writer
}

// NewConsoleReporter creates a reporter writing to w.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

func (r *ConsoleReporter) StageStarted(name string) {
	fmt.Fprintf(r.w, "%s... ", stageStyle.Render(name))
}

func (r *ConsoleReporter) StageCompleted(name string) {
	fmt.Fprintln(r.w, passStyle.Render("ok"))
}

func (r *ConsoleReporter) StageSkipped(name, reason string) {
	fmt.Fprintln(r.w, skipStyle.Render("skipped ("+reason+")"))
}

func (r *ConsoleReporter) StageFailed(name string, err error) {
	fmt.Fprintln(r.w, failStyle.Render("failed"))
}
