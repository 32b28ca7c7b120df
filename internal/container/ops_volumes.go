// SPDX-License-Identifier: MPL-2.0

package container

import (
	"github.com/invowk/ctrkit/internal/cmdline"
)

var inspectVolumeFields = templateFields{
	{"Name", ".Name"},
	{"Driver", ".Driver"},
	{"Mountpoint", ".Mountpoint"},
	{"Scope", ".Scope"},
	{"Labels", ".Labels"},
	{"Options", ".Options"},
	{"CreatedAt", ".CreatedAt"},
	{"Raw", "."},
}

func createVolumeOp(c *Client, opts CreateVolumeOptions) (VoidResponse, error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("volume", "create"),
		cmdline.WithNamedArg("--driver", opts.Driver),
		cmdline.WithArg(opts.Name),
		withJSONFormatArg(c.shell),
	).Build()
	return void(c, args), nil
}

func listVolumesOp(c *Client, opts ListVolumesOptions) (PromiseResponse[[]ListVolumeItem], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("volume", "ls"),
		withBoolFilterArg("dangling", opts.Dangling),
		withFilterArgs("driver", []string{opts.Driver}),
		withLabelFilterArgs(opts.Labels),
		withJSONFormatArg(c.shell),
	).Build()
	return promise(c, ClassList, args, func(out string, strict bool) ([]ListVolumeItem, error) {
		return parseJSONLines("listVolumes", out, strict, func(r *listVolumeRecord) (ListVolumeItem, error) {
			createdAt, _ := ParseDate(r.CreatedAt, isoLayouts...)
			return ListVolumeItem{
				Name:       r.Name,
				Driver:     r.Driver,
				Labels:     Labels(r.Labels),
				Mountpoint: r.Mountpoint,
				Scope:      r.Scope,
				CreatedAt:  createdAt,
				Size:       TryParseSize(r.Size),
			}, nil
		})
	}), nil
}

func removeVolumesOp(c *Client, opts RemoveVolumesOptions) (PromiseResponse[[]string], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("volume", "rm"),
		cmdline.WithFlagArg("--force", opts.Force),
		cmdline.WithArg(opts.Volumes...),
	).Build()
	return idsResponse(c, args), nil
}

func pruneVolumesOp(c *Client) (PromiseResponse[PruneItem], error) {
	return pruneResponse(c, cmdline.ComposeArgs(cmdline.WithArg("volume", "prune", "--force")).Build()), nil
}

func inspectVolumesOp(c *Client, opts InspectVolumesOptions) (PromiseResponse[[]InspectVolumesItem], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("volume", "inspect"),
		withTemplateFormatArg(c.shell, inspectVolumeFields),
		cmdline.WithArg(opts.Volumes...),
	).Build()
	return promise(c, ClassInspect, args, func(out string, strict bool) ([]InspectVolumesItem, error) {
		return parseJSONLines("inspectVolumes", out, strict, func(r *inspectVolumeRecord) (InspectVolumesItem, error) {
			createdAt, _ := ParseDate(r.CreatedAt, isoLayouts...)
			return InspectVolumesItem{
				Name:       r.Name,
				Driver:     r.Driver,
				Mountpoint: r.Mountpoint,
				Scope:      r.Scope,
				Labels:     Labels(r.Labels),
				Options:    r.Options,
				CreatedAt:  createdAt,
				Raw:        rawString(r.Raw),
			}, nil
		})
	}), nil
}
