// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/invowk/ctrkit/internal/container"
)

func newVolumesCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "volumes",
		Aliases: []string{"volume"},
		Short:   "Manage volumes",
	}
	cmd.AddCommand(
		newVolumesListCommand(c),
		newVolumesCreateCommand(c),
		newVolumesRemoveCommand(c),
		newVolumesPruneCommand(c),
		newVolumesInspectCommand(c),
	)
	return cmd
}

func newVolumesListCommand(c *cli) *cobra.Command {
	var (
		dangling bool
		driver   string
		labels   []string
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List volumes",
		Args:    cobra.NoArgs,
	}
	cmd.RunE = c.action(func(ctx context.Context, s *session, _ []string) error {
		filters, err := parseLabelFilters(labels)
		if err != nil {
			return err
		}
		opts := container.ListVolumesOptions{
			Dangling: optionalBool(cmd.Flags().Changed("dangling"), dangling),
			Driver:   driver,
			Labels:   filters,
		}
		list, ran, err := promise(ctx, s, "list volumes", func(cl *container.Client) (container.PromiseResponse[[]container.ListVolumeItem], error) {
			return cl.ListVolumes(opts)
		})
		if err != nil || !ran {
			return err
		}
		view := &tableView{headers: []string{"NAME", "DRIVER", "SCOPE", "SIZE", "CREATED"}}
		now := time.Now()
		for _, v := range list {
			view.rows = append(view.rows, []string{v.Name, v.Driver, orEmpty(v.Scope), humanSize(v.Size), humanAge(v.CreatedAt, now)})
		}
		return s.out.print(list, view)
	})
	f := cmd.Flags()
	f.BoolVar(&dangling, "dangling", false, "only dangling volumes (true) or only volumes in use (false)")
	f.StringVar(&driver, "driver", "", "filter by volume driver")
	f.StringArrayVar(&labels, "label", nil, "filter by label key or key=value (repeatable)")
	return cmd
}

func newVolumesCreateCommand(c *cli) *cobra.Command {
	var opts container.CreateVolumeOptions
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a volume",
		Args:  cobra.ExactArgs(1),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			opts.Name = args[0]
			_, err := void(ctx, s, "create volume", nil, func(cl *container.Client) (container.VoidResponse, error) {
				return cl.CreateVolume(opts)
			})
			return err
		}),
	}
	cmd.Flags().StringVarP(&opts.Driver, "driver", "d", "", "volume driver")
	return cmd
}

func newVolumesRemoveCommand(c *cli) *cobra.Command {
	var opts container.RemoveVolumesOptions
	cmd := &cobra.Command{
		Use:     "rm <volume>...",
		Aliases: []string{"remove"},
		Short:   "Remove volumes",
		Args:    cobra.MinimumNArgs(1),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			opts.Volumes = args
			return printIDs(ctx, s, "remove volumes", func(cl *container.Client) (container.PromiseResponse[[]string], error) {
				return cl.RemoveVolumes(opts)
			})
		}),
	}
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "force removal of volumes in use")
	return cmd
}

func newVolumesPruneCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove all unused volumes",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *session, _ []string) error {
			return printPrune(ctx, s, "prune volumes", (*container.Client).PruneVolumes)
		}),
	}
}

func newVolumesInspectCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <volume>...",
		Short: "Show detailed volume information",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			list, ran, err := promise(ctx, s, "inspect volumes", func(cl *container.Client) (container.PromiseResponse[[]container.InspectVolumesItem], error) {
				return cl.InspectVolumes(container.InspectVolumesOptions{Volumes: args})
			})
			if err != nil || !ran {
				return err
			}
			view := &tableView{headers: []string{"NAME", "DRIVER", "MOUNTPOINT", "LABELS"}}
			for _, v := range list {
				view.rows = append(view.rows, []string{v.Name, v.Driver, orEmpty(v.Mountpoint), fmt.Sprint(len(v.Labels))})
			}
			return s.out.print(list, view)
		}),
	}
}
