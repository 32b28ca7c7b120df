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

func newImagesCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "images",
		Aliases: []string{"image"},
		Short:   "Manage images",
	}
	cmd.AddCommand(
		newImagesListCommand(c),
		newImagesRemoveCommand(c),
		newImagesPruneCommand(c),
		newImagesPullCommand(c),
		newImagesPushCommand(c),
		newImagesTagCommand(c),
		newImagesInspectCommand(c),
		newImagesBuildCommand(c),
	)
	return cmd
}

func newImagesListCommand(c *cli) *cobra.Command {
	var (
		opts     container.ListImagesOptions
		dangling bool
		labels   []string
	)
	cmd := &cobra.Command{
		Use:     "ls [reference...]",
		Aliases: []string{"list"},
		Short:   "List images",
	}
	cmd.RunE = c.action(func(ctx context.Context, s *session, args []string) error {
		filters, err := parseLabelFilters(labels)
		if err != nil {
			return err
		}
		opts.Labels = filters
		opts.References = args
		opts.Dangling = optionalBool(cmd.Flags().Changed("dangling"), dangling)
		images, ran, err := promise(ctx, s, "list images", func(cl *container.Client) (container.PromiseResponse[[]container.ListImagesItem], error) {
			return cl.ListImages(opts)
		})
		if err != nil || !ran {
			return err
		}
		return s.out.print(images, imagesTable(images, time.Now()))
	})
	f := cmd.Flags()
	f.BoolVarP(&opts.All, "all", "a", false, "show intermediate images")
	f.BoolVar(&dangling, "dangling", false, "only show (true) or hide (false) untagged images")
	f.StringArrayVar(&labels, "label", nil, "filter by label key or key=value (repeatable)")
	return cmd
}

func imagesTable(images []container.ListImagesItem, now time.Time) *tableView {
	view := &tableView{headers: []string{"REPOSITORY", "TAG", "IMAGE ID", "CREATED", "SIZE"}}
	for _, img := range images {
		repo := img.Image.Image
		if img.Image.Registry != "" && img.Image.Registry != container.DefaultRegistry {
			repo = img.Image.Registry + "/" + repo
		}
		view.rows = append(view.rows, []string{
			orEmpty(repo),
			orEmpty(img.Image.Tag),
			shortID(img.ID),
			humanAge(img.CreatedAt, now),
			humanSize(img.Size),
		})
	}
	return view
}

func newImagesRemoveCommand(c *cli) *cobra.Command {
	var opts container.RemoveImagesOptions
	cmd := &cobra.Command{
		Use:     "rm <image>...",
		Aliases: []string{"remove"},
		Short:   "Remove images",
		Args:    cobra.MinimumNArgs(1),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			opts.ImageRefs = args
			return printIDs(ctx, s, "remove images", func(cl *container.Client) (container.PromiseResponse[[]string], error) {
				return cl.RemoveImages(opts)
			})
		}),
	}
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "force removal")
	return cmd
}

func newImagesPruneCommand(c *cli) *cobra.Command {
	var opts container.PruneImagesOptions
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove unused images",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *session, _ []string) error {
			return printPrune(ctx, s, "prune images", func(cl *container.Client) (container.PromiseResponse[container.PruneItem], error) {
				return cl.PruneImages(opts)
			})
		}),
	}
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "remove all unused images, not just dangling ones")
	return cmd
}

func newImagesPullCommand(c *cli) *cobra.Command {
	var (
		opts         container.PullImageOptions
		contentTrust bool
	)
	cmd := &cobra.Command{
		Use:   "pull <image>",
		Short: "Pull an image",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = c.action(func(ctx context.Context, s *session, args []string) error {
		if _, err := container.ParseImageName(args[0]); err != nil {
			return err
		}
		opts.ImageRef = args[0]
		opts.DisableContentTrust = optionalBool(cmd.Flags().Changed("disable-content-trust"), contentTrust)
		_, err := void(ctx, s, "pull image", nil, func(cl *container.Client) (container.VoidResponse, error) {
			return cl.PullImage(opts)
		})
		return err
	})
	cmd.Flags().BoolVarP(&opts.AllTags, "all-tags", "a", false, "pull all tagged images in the repository")
	cmd.Flags().BoolVar(&contentTrust, "disable-content-trust", true, "skip image verification")
	return cmd
}

func newImagesPushCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "push <image>",
		Short: "Push an image",
		Args:  cobra.ExactArgs(1),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			_, err := void(ctx, s, "push image", nil, func(cl *container.Client) (container.VoidResponse, error) {
				return cl.PushImage(container.PushImageOptions{ImageRef: args[0]})
			})
			return err
		}),
	}
}

func newImagesTagCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <source> <target>",
		Short: "Tag an image",
		Args:  cobra.ExactArgs(2),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			if _, err := container.ParseImageName(args[1]); err != nil {
				return err
			}
			_, err := void(ctx, s, "tag image", nil, func(cl *container.Client) (container.VoidResponse, error) {
				return cl.TagImage(container.TagImageOptions{FromImageRef: args[0], ToImageRef: args[1]})
			})
			return err
		}),
	}
}

func newImagesInspectCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <image>...",
		Short: "Show detailed image information",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			images, ran, err := promise(ctx, s, "inspect images", func(cl *container.Client) (container.PromiseResponse[[]container.InspectImagesItem], error) {
				return cl.InspectImages(container.InspectImagesOptions{ImageRefs: args})
			})
			if err != nil || !ran {
				return err
			}
			view := &tableView{headers: []string{"IMAGE", "ID", "PLATFORM", "LOCAL", "ENTRYPOINT", "COMMAND"}}
			for _, img := range images {
				view.rows = append(view.rows, []string{
					img.Image.OriginalName,
					shortID(img.ID),
					orEmpty(strings.Trim(img.OperatingSystem+"/"+img.Architecture, "/")),
					fmt.Sprint(img.IsLocalImage),
					orEmpty(strings.Join(img.Entrypoint, " ")),
					orEmpty(strings.Join(img.Command, " ")),
				})
			}
			return s.out.print(images, view)
		}),
	}
}

func newImagesBuildCommand(c *cli) *cobra.Command {
	var (
		opts      container.BuildImageOptions
		labels    []string
		buildArgs []string
	)
	cmd := &cobra.Command{
		Use:   "build <context>",
		Short: "Build an image",
		Args:  cobra.ExactArgs(1),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			var err error
			if opts.Labels, err = parseKeyValues("label", labels); err != nil {
				return err
			}
			if opts.BuildArgs, err = parseKeyValues("build-arg", buildArgs); err != nil {
				return err
			}
			opts.Path = args[0]
			_, err = void(ctx, s, "build image", nil, func(cl *container.Client) (container.VoidResponse, error) {
				return cl.BuildImage(opts)
			})
			return err
		}),
	}
	f := cmd.Flags()
	f.StringVarP(&opts.File, "file", "f", "", "name of the Dockerfile")
	f.StringVar(&opts.Stage, "target", "", "build stage to target")
	f.StringArrayVarP(&opts.Tags, "tag", "t", nil, "image name and tag (repeatable)")
	f.BoolVar(&opts.Pull, "pull", false, "always pull newer base images")
	f.StringArrayVar(&labels, "label", nil, "image label key=value (repeatable)")
	f.StringArrayVar(&buildArgs, "build-arg", nil, "build-time variable key=value (repeatable)")
	f.StringVar(&opts.ImageIDFile, "iidfile", "", "write the image ID to this file")
	f.StringVar(&opts.CustomOptions, "opts", "", "extra engine options passed through verbatim")
	return cmd
}

// printIDs runs a promise of identifiers and prints one per line.
func printIDs(ctx context.Context, s *session, op string, build func(*container.Client) (container.PromiseResponse[[]string], error)) error {
	ids, ran, err := promise(ctx, s, op, build)
	if err != nil || !ran {
		return err
	}
	view := &tableView{headers: []string{"ID"}}
	for _, id := range ids {
		view.rows = append(view.rows, []string{id})
	}
	return s.out.print(ids, view)
}

// printPrune runs a prune and prints its summary.
func printPrune(ctx context.Context, s *session, op string, build func(*container.Client) (container.PromiseResponse[container.PruneItem], error)) error {
	pruned, ran, err := promise(ctx, s, op, build)
	if err != nil || !ran {
		return err
	}
	view := &tableView{headers: []string{"DELETED", "RECLAIMED"}}
	view.rows = append(view.rows, []string{fmt.Sprint(len(pruned.Deleted)), humanSize(pruned.SpaceReclaimed)})
	return s.out.print(pruned, view)
}
