// Package main is the entry point for the leapstore command.
package main

import (
	"os"

	"github.com/leapstack-labs/leapstore/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
