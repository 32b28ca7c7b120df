// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// globalFlags holds the persistent flags. Unset flags leave the loaded
	// configuration untouched.
	globalFlags struct {
		configPath string
		engine     string
		command    string
		shell      string
		output     string
		verbose    bool
		strict     bool
		dryRun     bool
	}

	// cli carries the App and the parsed global flags into subcommand
	// handlers.
	cli struct {
		app   *App
		flags globalFlags
	}
)

// NewRootCommand builds the ctrkit command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	c := &cli{app: app}

	root := &cobra.Command{
		Use:   "ctrkit",
		Short: "Drive docker and podman through one normalized CLI",
		Long: TitleStyle.Render("ctrkit") + SubtitleStyle.Render(" - one CLI for docker and podman") + `

ctrkit builds docker-compatible command lines for the detected container
engine, runs them, and prints the engine output as normalized records.

` + SubtitleStyle.Render("Examples:") + `
  ctrkit containers ls --all             List all containers
  ctrkit images pull alpine:3.20         Pull an image
  ctrkit containers run -d -p 8080:80 nginx
  ctrkit --dry-run --shell bash images ls   Print the command line only
  ctrkit check                           Verify the engine and its API version`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.setVerbose(c.flags.verbose)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default is <user config dir>/ctrkit/config.cue)")
	pf.StringVar(&c.flags.engine, "engine", "", "container engine: auto, docker or podman")
	pf.StringVar(&c.flags.command, "command", "", "engine executable name or path")
	pf.StringVar(&c.flags.shell, "shell", "", "shell used to render --dry-run output: none, bash, powershell or cmd")
	pf.StringVarP(&c.flags.output, "output", "o", "", "output format: table, json, yaml or toml")
	pf.BoolVar(&c.flags.verbose, "verbose", false, "log every engine invocation")
	pf.BoolVar(&c.flags.strict, "strict", false, "fail on the first malformed record instead of skipping it")
	pf.BoolVar(&c.flags.dryRun, "dry-run", false, "print the engine command line instead of running it")

	root.AddCommand(
		newVersionCommand(c),
		newInfoCommand(c),
		newCheckCommand(c),
		newEventsCommand(c),
		newLoginCommand(c),
		newLogoutCommand(c),
		newImagesCommand(c),
		newContainersCommand(c),
		newVolumesCommand(c),
		newNetworksCommand(c),
		newContextsCommand(c),
		newFilesCommand(c),
		newComposeCommand(c),
		newConfigCommand(c),
	)
	return root
}

func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
