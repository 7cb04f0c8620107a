package archive

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"plugpack.dev/cli/internal/infrastructure/logging"
)

// DefaultCommand is the conventional packaging tool invocation.
var DefaultCommand = []string{"npm", "pack"}

// PackToolArchiver produces the project archive by running an external
// packaging tool in the project directory. The tool is expected to leave a
// single archive in that directory and print its file name as the last line
// of stdout, which is how npm pack behaves.
type PackToolArchiver struct {
	command []string
	logger  *logging.DebugLogger
}

// NewPackToolArchiver creates an archiver invoking the given command, or the
// default packaging tool when command is empty.
func NewPackToolArchiver(command []string, logger *logging.DebugLogger) *PackToolArchiver {
	if len(command) == 0 {
		command = DefaultCommand
	}
	if logger == nil {
		logger = logging.NewDebugLogger(false)
	}
	return &PackToolArchiver{command: command, logger: logger}
}

// ProduceArchive runs the packaging tool once in workDir and returns the
// path of the archive it reported producing.
func (a *PackToolArchiver) ProduceArchive(ctx context.Context, workDir string) (string, error) {
	a.logger.Debugf("running %s in %s", strings.Join(a.command, " "), workDir)

	cmd := exec.CommandContext(ctx, a.command[0], a.command[1:]...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = strings.TrimSpace(stdout.String())
		}
		if message != "" {
			return "", fmt.Errorf("%s: %w: %s", strings.Join(a.command, " "), err, message)
		}
		return "", fmt.Errorf("%s: %w", strings.Join(a.command, " "), err)
	}

	name := lastLine(stdout.String())
	if name == "" {
		return "", fmt.Errorf("%s produced no output file name", strings.Join(a.command, " "))
	}
	a.logger.Debugf("packaging tool produced %s", name)
	return filepath.Join(workDir, name), nil
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
