package main

import (
	"os"

	"github.com/framewave/directive/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
