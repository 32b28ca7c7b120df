// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/invowk/ctrkit/internal/container"
)

func newContextsCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contexts",
		Aliases: []string{"context"},
		Short:   "Manage engine contexts (podman: system connections)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "ls",
			Aliases: []string{"list"},
			Short:   "List contexts",
			Args:    cobra.NoArgs,
			RunE: c.action(func(ctx context.Context, s *session, _ []string) error {
				list, ran, err := promise(ctx, s, "list contexts", (*container.Client).ListContexts)
				if err != nil || !ran {
					return err
				}
				view := &tableView{headers: []string{"NAME", "CURRENT", "DESCRIPTION", "ENDPOINT"}}
				for _, ctxItem := range list {
					current := ""
					if ctxItem.Current {
						current = "*"
					}
					view.rows = append(view.rows, []string{ctxItem.Name, current, orEmpty(ctxItem.Description), orEmpty(ctxItem.ContainerEndpoint)})
				}
				return s.out.print(list, view)
			}),
		},
		&cobra.Command{
			Use:   "use <context>",
			Short: "Switch the active context",
			Args:  cobra.ExactArgs(1),
			RunE: c.action(func(ctx context.Context, s *session, args []string) error {
				_, err := void(ctx, s, "use context", nil, func(cl *container.Client) (container.VoidResponse, error) {
					return cl.UseContext(container.UseContextOptions{Context: args[0]})
				})
				return err
			}),
		},
		&cobra.Command{
			Use:     "rm <context>...",
			Aliases: []string{"remove"},
			Short:   "Remove contexts",
			Args:    cobra.MinimumNArgs(1),
			RunE: c.action(func(ctx context.Context, s *session, args []string) error {
				return printIDs(ctx, s, "remove contexts", func(cl *container.Client) (container.PromiseResponse[[]string], error) {
					return cl.RemoveContexts(container.ContextsOptions{Contexts: args})
				})
			}),
		},
		&cobra.Command{
			Use:   "inspect <context>...",
			Short: "Show detailed context information",
			Args:  cobra.MinimumNArgs(1),
			RunE: c.action(func(ctx context.Context, s *session, args []string) error {
				list, ran, err := promise(ctx, s, "inspect contexts", func(cl *container.Client) (container.PromiseResponse[[]container.InspectContextsItem], error) {
					return cl.InspectContexts(container.ContextsOptions{Contexts: args})
				})
				if err != nil || !ran {
					return err
				}
				view := &tableView{headers: []string{"NAME", "DESCRIPTION"}}
				for _, item := range list {
					view.rows = append(view.rows, []string{item.Name, orEmpty(item.Description)})
				}
				return s.out.print(list, view)
			}),
		},
	)
	return cmd
}
