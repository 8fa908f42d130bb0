// Package main provides the leapfluff command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/leapfluff/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
