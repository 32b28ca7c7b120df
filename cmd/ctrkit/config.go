// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/invowk/ctrkit/internal/config"
	"github.com/invowk/ctrkit/internal/issue"
)

// newConfigCommand creates the `ctrkit config` command tree. These commands
// never touch the container engine.
func newConfigCommand(c *cli) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ctrkit configuration",
		Long: `Manage ctrkit configuration.

Configuration is stored in:
  - Linux: ~/.config/ctrkit/config.cue
  - macOS: ~/Library/Application Support/ctrkit/config.cue
  - Windows: %APPDATA%\ctrkit\config.cue

CTRKIT_* environment variables (e.g. CTRKIT_ENGINE, CTRKIT_RETRY_ATTEMPTS)
override file values; global flags override both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.showConfig(cmd); err != nil {
				return c.app.fail(err)
			}
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.initConfig(force); err != nil {
				return c.app.fail(err)
			}
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configPath()
			if err != nil {
				return c.app.fail(err)
			}
			fmt.Fprintln(c.app.stdout, path)
			return nil
		},
	})

	return cfgCmd
}

func (c *cli) configPath() (string, error) {
	return config.ResolvePath(config.LoadOptions{ConfigFilePath: c.flags.configPath})
}

// configPathHint names the config file in suggestions.
func configPathHint(c *cli) string {
	path, err := c.configPath()
	if err != nil {
		return config.ConfigFileName + "." + config.ConfigFileExt
	}
	return path
}

func (c *cli) showConfig(cmd *cobra.Command) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	out := &printer{w: c.app.stdout, format: cfg.UI.Output}
	if cfg.UI.Output != config.OutputTable {
		return out.print(cfg, nil)
	}

	w := c.app.stdout
	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	path := configPathHint(c)
	if !fileExists(path) {
		path = SubtitleStyle.Render("(using defaults)")
	}
	fmt.Fprintf(w, "%s: %s\n\n", CmdStyle.Render("Config file"), path)
	fmt.Fprint(w, config.GenerateCUE(cfg))
	return nil
}

func (c *cli) initConfig(force bool) error {
	path, err := c.configPath()
	if err != nil {
		return issue.NewErrorContext().
			WithIssue(issue.ConfigLoadFailedId).
			WithOperation("locate configuration directory").
			Wrap(err).
			BuildError()
	}
	if err := config.WriteFile(path, config.DefaultConfig(), force); err != nil {
		return issue.NewErrorContext().
			WithOperation("create configuration").
			WithResource(path).
			WithSuggestion("Pass --force to overwrite an existing file").
			WithSuggestion("Check that the directory is writable").
			Wrap(err).
			BuildError()
	}
	fmt.Fprintf(c.app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
