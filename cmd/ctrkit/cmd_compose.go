// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/invowk/ctrkit/internal/compose"
)

type composeFlags struct {
	common compose.CommonOptions
	v1     bool
}

// client returns the compose client for the session's engine. Compose v2 is
// a subcommand of the engine executable; v1 is the standalone binary.
func (f *composeFlags) client(s *session) *compose.Client {
	if f.v1 {
		return compose.New(compose.WithV1())
	}
	return compose.New(compose.WithCommandName(s.client().CommandName))
}

// timeoutFlag returns the value of --timeout when it was set.
func timeoutFlag(flags *pflag.FlagSet, value time.Duration) *time.Duration {
	if !flags.Changed("timeout") {
		return nil
	}
	return &value
}

func newComposeCommand(c *cli) *cobra.Command {
	f := &composeFlags{}
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Drive docker compose projects",
		Long: `Drive docker compose projects.

Commands run "<engine> compose" by default; --v1 runs the standalone
docker-compose binary instead.`,
	}
	pf := cmd.PersistentFlags()
	pf.StringArrayVarP(&f.common.Files, "file", "f", nil, "compose file (repeatable)")
	pf.StringVar(&f.common.EnvFile, "env-file", "", "environment file")
	pf.StringVarP(&f.common.ProjectName, "project-name", "p", "", "project name")
	pf.BoolVar(&f.v1, "v1", false, "use the standalone docker-compose binary")

	cmd.AddCommand(
		newComposeUpCommand(c, f),
		newComposeDownCommand(c, f),
		newComposeStartCommand(c, f),
		newComposeStopCommand(c, f, "stop", "Stop services"),
		newComposeStopCommand(c, f, "restart", "Restart services"),
		newComposeLogsCommand(c, f),
		newComposeConfigCommand(c, f),
	)
	return cmd
}

func newComposeUpCommand(c *cli, f *composeFlags) *cobra.Command {
	var (
		opts    compose.UpOptions
		scale   []string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "up [service...]",
		Short: "Create and start services",
	}
	cmd.RunE = c.action(func(ctx context.Context, s *session, args []string) error {
		replicas, err := parseScale(scale)
		if err != nil {
			return err
		}
		opts.CommonOptions = f.common
		opts.Scale = replicas
		opts.Timeout = timeoutFlag(cmd.Flags(), timeout)
		opts.Services = args
		_, err = runVoid(ctx, s, "compose up", nil, f.client(s).Up(opts))
		return err
	})
	fl := cmd.Flags()
	fl.StringArrayVar(&opts.Profiles, "profile", nil, "enable a profile (repeatable)")
	fl.BoolVarP(&opts.Detached, "detach", "d", false, "run services in the background")
	fl.BoolVar(&opts.Build, "build", false, "build images before starting")
	fl.StringArrayVar(&scale, "scale", nil, "service=replicas (repeatable)")
	fl.DurationVarP(&timeout, "timeout", "t", 10*time.Second, "shutdown timeout for attached containers")
	fl.BoolVar(&opts.Wait, "wait", false, "wait for services to be running or healthy")
	fl.StringVar(&opts.CustomOptions, "opts", "", "extra compose options passed through verbatim")
	return cmd
}

func newComposeDownCommand(c *cli, f *composeFlags) *cobra.Command {
	var (
		opts    compose.DownOptions
		rmi     string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Stop and remove services",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = c.action(func(ctx context.Context, s *session, _ []string) error {
		switch compose.RemoveImages(rmi) {
		case "", compose.RemoveImagesAll, compose.RemoveImagesLocal:
			opts.RemoveImages = compose.RemoveImages(rmi)
		default:
			return errInvalidFlag("rmi", rmi, "all or local")
		}
		opts.CommonOptions = f.common
		opts.Timeout = timeoutFlag(cmd.Flags(), timeout)
		_, err := runVoid(ctx, s, "compose down", nil, f.client(s).Down(opts))
		return err
	})
	fl := cmd.Flags()
	fl.StringVar(&rmi, "rmi", "", "remove images: all or local")
	fl.BoolVarP(&opts.RemoveVolumes, "volumes", "v", false, "remove named and anonymous volumes")
	fl.DurationVarP(&timeout, "timeout", "t", 10*time.Second, "shutdown timeout")
	fl.StringVar(&opts.CustomOptions, "opts", "", "extra compose options passed through verbatim")
	return cmd
}

func newComposeStartCommand(c *cli, f *composeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "start [service...]",
		Short: "Start existing services",
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			opts := compose.StartOptions{CommonOptions: f.common, Services: args}
			_, err := runVoid(ctx, s, "compose start", nil, f.client(s).Start(opts))
			return err
		}),
	}
}

func newComposeStopCommand(c *cli, f *composeFlags, verb, short string) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   verb + " [service...]",
		Short: short,
	}
	cmd.RunE = c.action(func(ctx context.Context, s *session, args []string) error {
		opts := compose.StopOptions{
			CommonOptions: f.common,
			Timeout:       timeoutFlag(cmd.Flags(), timeout),
			Services:      args,
		}
		cl := f.client(s)
		resp := cl.Stop(opts)
		if verb == "restart" {
			resp = cl.Restart(opts)
		}
		_, err := runVoid(ctx, s, "compose "+verb, nil, resp)
		return err
	})
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 10*time.Second, "shutdown timeout")
	return cmd
}

func newComposeLogsCommand(c *cli, f *composeFlags) *cobra.Command {
	var opts compose.LogsOptions
	cmd := &cobra.Command{
		Use:   "logs [service...]",
		Short: "Stream service logs",
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			opts.CommonOptions = f.common
			opts.Services = args
			return runGenerator(ctx, s, "compose logs", f.client(s).Logs(opts), s.printLine)
		}),
	}
	cmd.Flags().BoolVar(&opts.Follow, "follow", false, "follow log output")
	cmd.Flags().IntVarP(&opts.Tail, "tail", "n", 0, "number of lines per service to show from the end")
	return cmd
}

func newComposeConfigCommand(c *cli, f *composeFlags) *cobra.Command {
	var services, images, profiles, volumes bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "List services, images, profiles or volumes of the project",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *session, _ []string) error {
			opts := compose.ConfigOptions{CommonOptions: f.common, Type: compose.ConfigServices}
			switch {
			case images:
				opts.Type = compose.ConfigImages
			case profiles:
				opts.Type = compose.ConfigProfiles
			case volumes:
				opts.Type = compose.ConfigVolumes
			}
			resp, err := f.client(s).Config(opts)
			if err != nil {
				return s.wrap(err, "compose config")
			}
			names, ran, err := runPromise(ctx, s, "compose config", resp)
			if err != nil || !ran {
				return err
			}
			view := &tableView{headers: []string{string(opts.Type)}}
			for _, n := range names {
				view.rows = append(view.rows, []string{n})
			}
			return s.out.print(names, view)
		}),
	}
	fl := cmd.Flags()
	fl.BoolVar(&services, "services", false, "list services (default)")
	fl.BoolVar(&images, "images", false, "list images")
	fl.BoolVar(&profiles, "profiles", false, "list profiles")
	fl.BoolVar(&volumes, "volumes", false, "list volumes")
	cmd.MarkFlagsMutuallyExclusive("services", "images", "profiles", "volumes")
	return cmd
}
