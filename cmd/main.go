package main

import (
	"plugpack.dev/cli/internal/interfaces/cli"
	"plugpack.dev/cli/internal/interfaces/di"
)

func main() {
	container := di.NewContainer()
	cli.Execute(container.GetCLIContainer())
}
