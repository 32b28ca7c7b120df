// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/ctrkit/internal/container"
)

func newNetworksCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "networks",
		Aliases: []string{"network"},
		Short:   "Manage networks",
	}
	cmd.AddCommand(
		newNetworksListCommand(c),
		newNetworksCreateCommand(c),
		newNetworksRemoveCommand(c),
		newNetworksPruneCommand(c),
		newNetworksInspectCommand(c),
	)
	return cmd
}

func newNetworksListCommand(c *cli) *cobra.Command {
	var labels []string
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List networks",
		Args:    cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *session, _ []string) error {
			filters, err := parseLabelFilters(labels)
			if err != nil {
				return err
			}
			list, ran, err := promise(ctx, s, "list networks", func(cl *container.Client) (container.PromiseResponse[[]container.ListNetworkItem], error) {
				return cl.ListNetworks(container.ListNetworksOptions{Labels: filters})
			})
			if err != nil || !ran {
				return err
			}
			view := &tableView{headers: []string{"NETWORK ID", "NAME", "DRIVER", "SCOPE", "INTERNAL"}}
			for _, n := range list {
				view.rows = append(view.rows, []string{shortID(n.ID), n.Name, n.Driver, orEmpty(n.Scope), strconv.FormatBool(n.Internal)})
			}
			return s.out.print(list, view)
		}),
	}
	cmd.Flags().StringArrayVar(&labels, "label", nil, "filter by label key or key=value (repeatable)")
	return cmd
}

func newNetworksCreateCommand(c *cli) *cobra.Command {
	var opts container.CreateNetworkOptions
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a network",
		Args:  cobra.ExactArgs(1),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			opts.Name = args[0]
			_, err := void(ctx, s, "create network", nil, func(cl *container.Client) (container.VoidResponse, error) {
				return cl.CreateNetwork(opts)
			})
			return err
		}),
	}
	cmd.Flags().StringVarP(&opts.Driver, "driver", "d", "", "network driver")
	return cmd
}

func newNetworksRemoveCommand(c *cli) *cobra.Command {
	var opts container.RemoveNetworksOptions
	cmd := &cobra.Command{
		Use:     "rm <network>...",
		Aliases: []string{"remove"},
		Short:   "Remove networks",
		Args:    cobra.MinimumNArgs(1),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			opts.Networks = args
			return printIDs(ctx, s, "remove networks", func(cl *container.Client) (container.PromiseResponse[[]string], error) {
				return cl.RemoveNetworks(opts)
			})
		}),
	}
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "force removal")
	return cmd
}

func newNetworksPruneCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove all unused networks",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *session, _ []string) error {
			return printPrune(ctx, s, "prune networks", (*container.Client).PruneNetworks)
		}),
	}
}

func newNetworksInspectCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <network>...",
		Short: "Show detailed network information",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			list, ran, err := promise(ctx, s, "inspect networks", func(cl *container.Client) (container.PromiseResponse[[]container.InspectNetworksItem], error) {
				return cl.InspectNetworks(container.InspectNetworksOptions{Networks: args})
			})
			if err != nil || !ran {
				return err
			}
			view := &tableView{headers: []string{"NAME", "ID", "DRIVER", "SUBNETS", "ATTACHABLE"}}
			for _, n := range list {
				subnets := make([]string, 0, len(n.IPAM.Config))
				for _, sn := range n.IPAM.Config {
					subnets = append(subnets, sn.Subnet)
				}
				view.rows = append(view.rows, []string{
					n.Name,
					shortID(n.ID),
					n.Driver,
					orEmpty(strings.Join(subnets, ", ")),
					strconv.FormatBool(n.Attachable),
				})
			}
			return s.out.print(list, view)
		}),
	}
}
