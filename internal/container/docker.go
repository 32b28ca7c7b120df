// SPDX-License-Identifier: MPL-2.0

package container

import (
	"github.com/invowk/ctrkit/internal/cmdline"
)

// NewDockerClient creates a client for the Docker CLI.
func NewDockerClient(opts ...ClientOption) *Client {
	return newClient(EngineDocker, Client{
		ID:          "com.docker.cli",
		DisplayName: "Docker",
		Description: "Runs container commands using the Docker CLI",
		CommandName: "docker",
	}, dockerOperations(), opts...)
}

// dockerOperations extends the base recipes with Docker contexts.
func dockerOperations() Operations {
	ops := baseOperations()
	ops.ListContexts = dockerListContextsOp
	ops.RemoveContexts = dockerRemoveContextsOp
	ops.UseContext = dockerUseContextOp
	ops.InspectContexts = dockerInspectContextsOp
	return ops
}

func dockerListContextsOp(c *Client) (PromiseResponse[[]ListContextItem], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("context", "ls"),
		withJSONFormatArg(c.shell),
	).Build()
	return promise(c, ClassList, args, func(out string, strict bool) ([]ListContextItem, error) {
		return parseJSONLines("listContexts", out, strict, func(r *dockerContextRecord) (ListContextItem, error) {
			return ListContextItem{
				Name:              r.Name,
				Current:           r.Current,
				Description:       r.Description,
				ContainerEndpoint: r.DockerEndpoint,
			}, nil
		})
	}), nil
}

func dockerRemoveContextsOp(c *Client, opts ContextsOptions) (PromiseResponse[[]string], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("context", "rm"),
		cmdline.WithArg(opts.Contexts...),
		cmdline.WithArg("--force"),
	).Build()
	return idsResponse(c, args), nil
}

func dockerUseContextOp(c *Client, opts UseContextOptions) (VoidResponse, error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("context", "use"),
		cmdline.WithArg(opts.Context),
	).Build()
	return void(c, args), nil
}

func dockerInspectContextsOp(c *Client, opts ContextsOptions) (PromiseResponse[[]InspectContextsItem], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("context", "inspect"),
		withJSONFormatArg(c.shell),
		cmdline.WithArg(opts.Contexts...),
	).Build()
	return promise(c, ClassInspect, args, func(out string, strict bool) ([]InspectContextsItem, error) {
		return parseJSONLines("inspectContexts", out, strict, func(r *inspectContextRecord) (InspectContextsItem, error) {
			item := InspectContextsItem{Name: r.Name, Raw: r.raw}
			if r.Metadata != nil {
				item.Description = r.Metadata.Description
			}
			return item, nil
		})
	}), nil
}
