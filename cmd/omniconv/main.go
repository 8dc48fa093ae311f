package main

import (
	"github.com/ssargent/omniconv/cmd/omniconv/cmd"
	"github.com/ssargent/omniconv/pkg/di"
)

func main() {
	// Initialize dependency injection container
	container := di.NewContainer()

	// Inject dependencies into cmd package
	cmd.SetContainer(container)

	cmd.Execute()
}
