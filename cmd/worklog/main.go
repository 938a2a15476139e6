// Package main is the entry point for the worklog CLI.
// worklog tracks dated job entries against open OJT requirements and
// reconciles the two automatically.
package main

import (
	"os"

	"worklog/cmd/worklog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
