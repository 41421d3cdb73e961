// Package main is the entry point for the insight CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/insight/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
