// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the ctrkit CLI.
//
// Every subcommand builds a response descriptor with the container or
// compose client, then either prints the rendered command line (--dry-run)
// or executes it through the process runner and prints the normalized
// result as a table, JSON, YAML or TOML.
package cmd
