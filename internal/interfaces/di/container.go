package di

import (
	"plugpack.dev/cli/internal/infrastructure/logging"
	"plugpack.dev/cli/internal/infrastructure/manifest"
	"plugpack.dev/cli/internal/interfaces/cli"
)

// Container wires the application's dependencies.
type Container struct {
	Repo   *manifest.FileRepository
	Logger *logging.DebugLogger
}

// NewContainer builds the dependency graph with production defaults.
func NewContainer() *Container {
	return &Container{
		Repo:   manifest.NewFileRepository(),
		Logger: logging.NewDebugLogger(false),
	}
}

// GetCLIContainer returns the subset of dependencies the CLI commands use.
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return &cli.CLIContainer{
		Repo:   c.Repo,
		Logger: c.Logger,
	}
}
