package main

import "github.com/pfrederiksen/kandilli/internal/cli"

func main() {
	cli.Execute()
}
