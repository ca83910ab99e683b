// Package main provides the CLI for the sqlschema DDL parser.
package main

import (
	"os"

	"github.com/leapstack-labs/sqlschema/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
