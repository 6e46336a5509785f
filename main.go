// Package main is the entry point for the fabric-ontology CLI.
package main

import (
	"fmt"
	"os"

	"github.com/madstone-tech/fabric-ontology/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date, builtBy)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
