// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for pybookmarks.
//
// Usage:
//
//	go run . [flags]
//	./pybookmarks [flags]
//
// Without a subcommand the interactive TUI is started. See --help for options.
package main

import (
	"os"

	"github.com/toeirei/pybookmarks/internal/logging"
	"github.com/toeirei/pybookmarks/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}
