// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/invowk/ctrkit/internal/container"
)

func newContainersCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "containers",
		Aliases: []string{"container"},
		Short:   "Manage containers",
	}
	cmd.AddCommand(
		newContainersListCommand(c),
		newContainersRunCommand(c),
		newContainersExecCommand(c),
		newContainersRefsCommand(c, "start", "Start stopped containers", (*container.Client).StartContainers),
		newContainersStopCommand(c),
		newContainersRefsCommand(c, "restart", "Restart containers", (*container.Client).RestartContainers),
		newContainersRemoveCommand(c),
		newContainersPruneCommand(c),
		newContainersLogsCommand(c),
		newContainersInspectCommand(c),
		newContainersStatsCommand(c),
	)
	return cmd
}

func newContainersListCommand(c *cli) *cobra.Command {
	var (
		opts   container.ListContainersOptions
		labels []string
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list", "ps"},
		Short:   "List containers",
		Args:    cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *session, _ []string) error {
			filters, err := parseLabelFilters(labels)
			if err != nil {
				return err
			}
			opts.Labels = filters
			list, ran, err := promise(ctx, s, "list containers", func(cl *container.Client) (container.PromiseResponse[[]container.ListContainersItem], error) {
				return cl.ListContainers(opts)
			})
			if err != nil || !ran {
				return err
			}
			return s.out.print(list, containersTable(list, time.Now()))
		}),
	}
	f := cmd.Flags()
	f.BoolVarP(&opts.All, "all", "a", false, "show all containers, not just running ones")
	f.BoolVar(&opts.Running, "running", false, "only show running containers")
	f.BoolVar(&opts.Exited, "exited", false, "only show exited containers")
	f.StringArrayVar(&labels, "label", nil, "filter by label key or key=value (repeatable)")
	f.StringArrayVar(&opts.Names, "name", nil, "filter by name (repeatable)")
	f.StringArrayVar(&opts.ImageAncestors, "ancestor", nil, "filter by image ancestor (repeatable)")
	f.StringArrayVar(&opts.Volumes, "volume", nil, "filter by mounted volume (repeatable)")
	f.StringArrayVar(&opts.Networks, "network", nil, "filter by network (repeatable)")
	return cmd
}

func containersTable(list []container.ListContainersItem, now time.Time) *tableView {
	view := &tableView{headers: []string{"CONTAINER ID", "IMAGE", "CREATED", "STATE", "PORTS", "NAME"}}
	for _, ct := range list {
		ports := make([]string, 0, len(ct.Ports))
		for _, p := range ct.Ports {
			ports = append(ports, formatPort(p))
		}
		view.rows = append(view.rows, []string{
			shortID(ct.ID),
			ct.Image.OriginalName,
			humanAge(ct.CreatedAt, now),
			ct.State,
			orEmpty(strings.Join(ports, ", ")),
			ct.Name,
		})
	}
	return view
}

func formatPort(p container.PortBinding) string {
	target := fmt.Sprintf("%d/%s", p.ContainerPort, p.Protocol)
	if p.HostPort == 0 {
		return target
	}
	host := p.HostIP
	if host == "" {
		host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d->%s", host, p.HostPort, target)
}

func newContainersRunCommand(c *cli) *cobra.Command {
	var (
		opts     container.RunContainerOptions
		publish  []string
		volumes  []string
		labels   []string
		env      []string
		addHosts []string
	)
	cmd := &cobra.Command{
		Use:   "run [flags] <image> [command...]",
		Short: "Create and start a container",
		Long: `Create and start a container.

With --detach the new container ID is printed; otherwise the engine output
is passed through.`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			var err error
			if opts.Ports, err = parsePublish(publish); err != nil {
				return err
			}
			if opts.Mounts, err = parseVolumes(volumes); err != nil {
				return err
			}
			if opts.Labels, err = parseKeyValues("label", labels); err != nil {
				return err
			}
			if opts.Env, err = parseKeyValues("env", env); err != nil {
				return err
			}
			if opts.AddHost, err = parseKeyValues("add-host", addHosts); err != nil {
				return err
			}
			opts.ImageRef = args[0]
			opts.Command = args[1:]
			out, ran, err := promise(ctx, s, "run container", func(cl *container.Client) (container.PromiseResponse[string], error) {
				return cl.RunContainer(opts)
			})
			if err != nil || !ran {
				return err
			}
			_, err = fmt.Fprintln(s.stdout, out)
			return err
		}),
	}
	f := cmd.Flags()
	f.SetInterspersed(false)
	f.StringVar(&opts.Name, "name", "", "container name")
	f.BoolVarP(&opts.Detached, "detach", "d", false, "run in the background and print the container ID")
	f.BoolVarP(&opts.Interactive, "interactive", "i", false, "keep stdin open")
	f.BoolVar(&opts.RemoveOnExit, "rm", false, "remove the container when it exits")
	f.StringArrayVarP(&publish, "publish", "p", nil, "publish a port, e.g. 8080:80 or 127.0.0.1:53:53/udp (repeatable)")
	f.BoolVarP(&opts.PublishAllPorts, "publish-all", "P", false, "publish all exposed ports to random host ports")
	f.StringVar(&opts.Network, "network", "", "connect to this network")
	f.StringVar(&opts.NetworkAlias, "network-alias", "", "network-scoped alias")
	f.StringArrayVar(&addHosts, "add-host", nil, "add a host=ip mapping (repeatable)")
	f.StringArrayVarP(&volumes, "volume", "v", nil, "mount source:destination[:ro] (repeatable)")
	f.StringArrayVarP(&labels, "label", "l", nil, "container label key=value (repeatable)")
	f.StringArrayVarP(&env, "env", "e", nil, "environment variable KEY=VALUE (repeatable)")
	f.StringArrayVar(&opts.EnvFiles, "env-file", nil, "read environment variables from a file (repeatable)")
	f.StringVar(&opts.Entrypoint, "entrypoint", "", "override the image entrypoint")
	f.StringVar(&opts.CustomOptions, "opts", "", "extra engine options passed through verbatim")
	return cmd
}

func newContainersExecCommand(c *cli) *cobra.Command {
	var (
		opts container.ExecContainerOptions
		env  []string
	)
	cmd := &cobra.Command{
		Use:   "exec [flags] <container> <command> [args...]",
		Short: "Run a command in a running container",
		Args:  cobra.MinimumNArgs(2),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			var err error
			if opts.Env, err = parseKeyValues("env", env); err != nil {
				return err
			}
			opts.Container = args[0]
			opts.Command = args[1:]
			return generator(ctx, s, "exec in container", func(cl *container.Client) (container.GeneratorResponse[string], error) {
				return cl.ExecContainer(opts)
			}, s.printLine)
		}),
	}
	f := cmd.Flags()
	f.SetInterspersed(false)
	f.BoolVarP(&opts.Interactive, "interactive", "i", false, "keep stdin open")
	f.BoolVarP(&opts.Detached, "detach", "d", false, "run the command in the background")
	f.BoolVarP(&opts.TTY, "tty", "t", false, "allocate a pseudo-TTY")
	f.StringArrayVarP(&env, "env", "e", nil, "environment variable KEY=VALUE (repeatable)")
	return cmd
}

func newContainersRefsCommand(c *cli, verb, short string, op func(*container.Client, container.ContainerRefsOptions) (container.PromiseResponse[[]string], error)) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <container>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			return printIDs(ctx, s, verb+" containers", func(cl *container.Client) (container.PromiseResponse[[]string], error) {
				return op(cl, container.ContainerRefsOptions{Containers: args})
			})
		}),
	}
}

func newContainersStopCommand(c *cli) *cobra.Command {
	var grace time.Duration
	cmd := &cobra.Command{
		Use:   "stop <container>...",
		Short: "Stop running containers",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.RunE = c.action(func(ctx context.Context, s *session, args []string) error {
		opts := container.StopContainersOptions{Containers: args}
		if cmd.Flags().Changed("time") {
			opts.Time = &grace
		}
		return printIDs(ctx, s, "stop containers", func(cl *container.Client) (container.PromiseResponse[[]string], error) {
			return cl.StopContainers(opts)
		})
	})
	cmd.Flags().DurationVarP(&grace, "time", "t", 10*time.Second, "grace period before the container is killed")
	return cmd
}

func newContainersRemoveCommand(c *cli) *cobra.Command {
	var opts container.RemoveContainersOptions
	cmd := &cobra.Command{
		Use:     "rm <container>...",
		Aliases: []string{"remove"},
		Short:   "Remove containers",
		Args:    cobra.MinimumNArgs(1),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			opts.Containers = args
			return printIDs(ctx, s, "remove containers", func(cl *container.Client) (container.PromiseResponse[[]string], error) {
				return cl.RemoveContainers(opts)
			})
		}),
	}
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "force removal of running containers")
	return cmd
}

func newContainersPruneCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove all stopped containers",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *session, _ []string) error {
			return printPrune(ctx, s, "prune containers", (*container.Client).PruneContainers)
		}),
	}
}

func newContainersLogsCommand(c *cli) *cobra.Command {
	var opts container.LogsForContainerOptions
	cmd := &cobra.Command{
		Use:   "logs <container>",
		Short: "Stream container logs",
		Args:  cobra.ExactArgs(1),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			opts.Container = args[0]
			return generator(ctx, s, "stream container logs", func(cl *container.Client) (container.GeneratorResponse[string], error) {
				return cl.LogsForContainer(opts)
			}, s.printLine)
		}),
	}
	f := cmd.Flags()
	f.BoolVarP(&opts.Follow, "follow", "f", false, "follow log output")
	f.BoolVarP(&opts.Timestamps, "timestamps", "t", false, "show timestamps")
	f.IntVarP(&opts.Tail, "tail", "n", 0, "number of lines to show from the end of the logs")
	f.StringVar(&opts.Since, "since", "", "show logs since a timestamp or duration")
	f.StringVar(&opts.Until, "until", "", "show logs before a timestamp or duration")
	return cmd
}

func newContainersInspectCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <container>...",
		Short: "Show detailed container information",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			list, ran, err := promise(ctx, s, "inspect containers", func(cl *container.Client) (container.PromiseResponse[[]container.InspectContainersItem], error) {
				return cl.InspectContainers(container.InspectContainersOptions{Containers: args})
			})
			if err != nil || !ran {
				return err
			}
			view := &tableView{headers: []string{"NAME", "ID", "IMAGE", "STATUS", "IP", "STARTED"}}
			now := time.Now()
			for _, ct := range list {
				view.rows = append(view.rows, []string{
					ct.Name,
					shortID(ct.ID),
					ct.Image.OriginalName,
					orEmpty(ct.Status),
					orEmpty(ct.IPAddress),
					humanAge(ct.StartedAt, now),
				})
			}
			return s.out.print(list, view)
		}),
	}
}

func newContainersStatsCommand(c *cli) *cobra.Command {
	var opts container.StatsContainersOptions
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show a snapshot of container resource usage",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *session, _ []string) error {
			stats, ran, err := promise(ctx, s, "query container stats", func(cl *container.Client) (container.PromiseResponse[string], error) {
				return cl.StatsContainers(opts)
			})
			if err != nil || !ran {
				return err
			}
			_, err = fmt.Fprint(s.stdout, stats)
			return err
		}),
	}
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "include stopped containers")
	return cmd
}

// printLine writes a raw output line.
func (s *session) printLine(line string) error {
	_, err := fmt.Fprintln(s.stdout, line)
	return err
}
