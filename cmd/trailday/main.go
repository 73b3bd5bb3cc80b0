package main

import "github.com/pfrederiksen/trailday/internal/cli"

var version = "dev"

func main() {
	cli.Version = version
	cli.Execute()
}
