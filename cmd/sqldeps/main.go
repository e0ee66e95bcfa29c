// Package main is the entry point for the sqldeps CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/sqldeps/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
