// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/invowk/ctrkit/internal/container"
	"github.com/invowk/ctrkit/internal/issue"
)

func newVersionCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the engine client and server API versions",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *session, _ []string) error {
			v, ran, err := promise(ctx, s, "query engine version", (*container.Client).Version)
			if err != nil || !ran {
				return err
			}
			return s.out.print(v, &tableView{
				headers: []string{"ENGINE", "CLIENT API", "SERVER API"},
				rows:    [][]string{{s.exec.DisplayName, v.Client, orEmpty(v.Server)}},
			})
		}),
	}
}

func newInfoCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show engine host information",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *session, _ []string) error {
			info, ran, err := promise(ctx, s, "query engine info", (*container.Client).Info)
			if err != nil || !ran {
				return err
			}
			return s.out.print(info, &tableView{
				headers: []string{"ENGINE", "OPERATING SYSTEM", "OS TYPE"},
				rows:    [][]string{{s.exec.DisplayName, orEmpty(info.OperatingSystem), orEmpty(info.OSType)}},
			})
		}),
	}
}

func newCheckCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the engine is installed and its API version is supported",
		Long: `Verify the engine is installed and its API version is supported.

The reported server API version (or the client's when no server answers) is
checked against min_api_version from the configuration, e.g. ">= 1.41".`,
		Args: cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *session, _ []string) error {
			installed, ran, err := promise(ctx, s, "check engine installation", (*container.Client).CheckInstall)
			if err != nil {
				return err
			}
			if !ran {
				// The version query is printed too.
				_, _, err = promise(ctx, s, "query engine version", (*container.Client).Version)
				return err
			}
			fmt.Fprintf(s.stdout, "%s %s\n", SuccessStyle.Render("✓"), strings.TrimSpace(installed))

			constraint := string(s.cfg.MinAPIVersion)
			v, err := container.CheckAPIVersion(ctx, s.runner, s.exec, constraint)
			if err != nil {
				if !errors.Is(err, container.ErrAPIVersion) {
					return s.wrap(err, "query engine version")
				}
				return issue.ForEngine(err, "verify engine API version", s.exec.DisplayName).
					WithSuggestion("Relax min_api_version in '" + configPathHint(c) + "'").
					BuildError()
			}
			reported := v.Server
			if reported == "" {
				reported = v.Client
			}
			if constraint == "" {
				fmt.Fprintf(s.stdout, "%s API version %s\n", SuccessStyle.Render("✓"), reported)
				return nil
			}
			fmt.Fprintf(s.stdout, "%s API version %s satisfies %s\n", SuccessStyle.Render("✓"), reported, constraint)
			return nil
		}),
	}
}

func newEventsCommand(c *cli) *cobra.Command {
	var (
		opts   container.EventStreamOptions
		types  []string
		events []string
		labels []string
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream engine events",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *session, _ []string) error {
			for _, t := range types {
				opts.Types = append(opts.Types, container.EventType(t))
			}
			for _, e := range events {
				opts.Events = append(opts.Events, container.EventAction(e))
			}
			filters, err := parseLabelFilters(labels)
			if err != nil {
				return err
			}
			opts.Labels = filters
			return generator(ctx, s, "stream engine events",
				func(cl *container.Client) (container.GeneratorResponse[container.EventItem], error) {
					return cl.GetEventStream(opts)
				},
				func(e container.EventItem) error {
					line := fmt.Sprintf("%s %s %s %s", e.Timestamp.Format(time.RFC3339), e.Type, e.Action, shortID(e.Actor.ID))
					return s.out.printItem(e, line)
				})
		}),
	}
	f := cmd.Flags()
	f.StringVar(&opts.Since, "since", "", "show events created since this timestamp or duration")
	f.StringVar(&opts.Until, "until", "", "stop streaming at this timestamp or duration")
	f.StringArrayVar(&types, "type", nil, "only show events for this object type (repeatable)")
	f.StringArrayVar(&events, "event", nil, "only show this event action (repeatable)")
	f.StringArrayVar(&labels, "label", nil, "only show events for objects with this label key or key=value (repeatable)")
	return cmd
}

func newLoginCommand(c *cli) *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login [registry]",
		Short: "Log in to a registry",
		Long: `Log in to a registry.

The password is read from standard input and handed to the engine on its
standard input, never on the command line.`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			if !passwordStdin {
				return errors.New("login requires --password-stdin")
			}
			opts := container.LoginOptions{Username: username}
			if len(args) == 1 {
				opts.Registry = args[0]
			}
			if !s.dryRun {
				password, err := readPassword(s.stdin)
				if err != nil {
					return err
				}
				opts.Password = password
			}
			ran, err := void(ctx, s, "log in", nil, func(cl *container.Client) (container.VoidResponse, error) {
				return cl.Login(opts)
			})
			if err == nil && ran {
				fmt.Fprintln(s.stdout, SuccessStyle.Render("Login succeeded"))
			}
			return err
		}),
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "registry username")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout [registry]",
		Short: "Log out from a registry",
		Args:  cobra.MaximumNArgs(1),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			var opts container.LogoutOptions
			if len(args) == 1 {
				opts.Registry = args[0]
			}
			_, err := void(ctx, s, "log out", nil, func(cl *container.Client) (container.VoidResponse, error) {
				return cl.Logout(opts)
			})
			return err
		}),
	}
}

// readPassword reads the first line of r without its line terminator.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("empty password on stdin")
	}
	return password, nil
}
