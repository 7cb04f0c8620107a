package logging

import (
	"fmt"
	"io"
	"os"
)

// DebugLogger writes diagnostics to stderr when debug mode is enabled and
// stays silent otherwise, keeping stdout free for pipeline output.
type DebugLogger struct {
	enabled bool
	w       io.Writer
}

// NewDebugLogger creates a logger writing to stderr.
func NewDebugLogger(enabled bool) *DebugLogger {
	return &DebugLogger{enabled: enabled, w: os.Stderr}
}

// NewDebugLoggerWithWriter creates a logger writing to w, for tests.
func NewDebugLoggerWithWriter(enabled bool, w io.Writer) *DebugLogger {
	return &DebugLogger{enabled: enabled, w: w}
}

// Debugf logs a formatted diagnostic line when debug mode is enabled.
func (l *DebugLogger) Debugf(format string, args ...any) {
	if !l.enabled {
		return
	}
	fmt.Fprintf(l.w, "[debug] "+format+"\n", args...)
}
