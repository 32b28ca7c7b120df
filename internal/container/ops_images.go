// SPDX-License-Identifier: MPL-2.0

package container

import (
	"maps"
	"slices"

	"github.com/invowk/ctrkit/internal/cmdline"
)

var inspectImageFields = templateFields{
	{"Id", ".ID"},
	{"RepoTags", ".RepoTags"},
	{"EnvVars", ".Config.Env"},
	{"Labels", ".Config.Labels"},
	{"Ports", ".Config.ExposedPorts"},
	{"Volumes", ".Config.Volumes"},
	{"Entrypoint", ".Config.Entrypoint"},
	{"Command", ".Config.Cmd"},
	{"CWD", ".Config.WorkingDir"},
	{"RepoDigests", ".RepoDigests"},
	{"Architecture", ".Architecture"},
	{"OperatingSystem", ".Os"},
	{"CreatedAt", ".Created"},
	{"User", ".Config.User"},
	{"Raw", "."},
}

func buildImageOp(c *Client, opts BuildImageOptions) (VoidResponse, error) {
	var custom cmdline.Fragment
	if opts.CustomOptions != "" {
		custom = cmdline.WithVerbatimArg(opts.CustomOptions)
	}
	args := cmdline.ComposeArgs(
		cmdline.WithArg("image", "build"),
		cmdline.WithFlagArg("--pull", opts.Pull),
		cmdline.WithNamedArg("--file", opts.File),
		cmdline.WithNamedArg("--target", opts.Stage),
		cmdline.WithNamedArgs("--tag", opts.Tags),
		withOptionalBoolArg("--disable-content-trust", opts.DisableContentTrust),
		withLabelsArg(opts.Labels),
		cmdline.WithNamedArg("--iidfile", opts.ImageIDFile),
		withBuildArgs(opts.BuildArgs),
		custom,
		cmdline.WithQuotedArg(opts.Path),
	).Build()
	return void(c, args), nil
}

func listImagesOp(c *Client, opts ListImagesOptions) (PromiseResponse[[]ListImagesItem], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("image", "ls"),
		cmdline.WithFlagArg("--all", opts.All),
		withBoolFilterArg("dangling", opts.Dangling),
		withFilterArgs("reference", opts.References),
		withLabelFilterArgs(opts.Labels),
		withNoTruncArg,
		withJSONFormatArg(c.shell),
	).Build()
	return promise(c, ClassList, args, func(out string, strict bool) ([]ListImagesItem, error) {
		return parseJSONLines("listImages", out, strict, normalizeListImage)
	}), nil
}

func normalizeListImage(r *listImageRecord) (ListImagesItem, error) {
	name := r.Repository
	if r.Tag != "" {
		name += ":" + r.Tag
	}
	image, err := ParseImageName(name)
	if err != nil {
		return ListImagesItem{}, err
	}
	createdAt, _ := ParseDate(r.CreatedAt, isoLayouts...)
	return ListImagesItem{
		ID:        r.ID,
		Image:     image,
		CreatedAt: createdAt,
		Size:      TryParseSize(r.Size),
	}, nil
}

func removeImagesOp(c *Client, opts RemoveImagesOptions) (PromiseResponse[[]string], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("image", "remove"),
		cmdline.WithFlagArg("--force", opts.Force),
		cmdline.WithArg(opts.ImageRefs...),
	).Build()
	return idsResponse(c, args), nil
}

func pruneImagesOp(c *Client, opts PruneImagesOptions) (PromiseResponse[PruneItem], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("image", "prune", "--force"),
		cmdline.WithFlagArg("--all", opts.All),
	).Build()
	return pruneResponse(c, args), nil
}

func pullImageOp(c *Client, opts PullImageOptions) (VoidResponse, error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("image", "pull"),
		cmdline.WithFlagArg("--all-tags", opts.AllTags),
		withOptionalBoolArg("--disable-content-trust", opts.DisableContentTrust),
		cmdline.WithArg(opts.ImageRef),
	).Build()
	return void(c, args), nil
}

func pushImageOp(c *Client, opts PushImageOptions) (VoidResponse, error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("image", "push"),
		cmdline.WithArg(opts.ImageRef),
	).Build()
	return void(c, args), nil
}

func tagImageOp(c *Client, opts TagImageOptions) (VoidResponse, error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("image", "tag"),
		cmdline.WithArg(opts.FromImageRef, opts.ToImageRef),
	).Build()
	return void(c, args), nil
}

func inspectImagesOp(c *Client, opts InspectImagesOptions) (PromiseResponse[[]InspectImagesItem], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("image", "inspect"),
		withTemplateFormatArg(c.shell, inspectImageFields),
		cmdline.WithArg(opts.ImageRefs...),
	).Build()
	return promise(c, ClassInspect, args, func(out string, strict bool) ([]InspectImagesItem, error) {
		return parseJSONLines("inspectImages", out, strict, func(r *inspectImageRecord) (InspectImagesItem, error) {
			return normalizeInspectImage(r, strict)
		})
	}), nil
}

func normalizeInspectImage(r *inspectImageRecord, strict bool) (InspectImagesItem, error) {
	var name string
	if len(r.RepoTags) > 0 {
		name = r.RepoTags[0]
	}
	image, err := ParseImageName(name)
	if err != nil {
		return InspectImagesItem{}, err
	}

	ports := make([]PortBinding, 0, len(r.Ports))
	for _, key := range slices.Sorted(maps.Keys(r.Ports)) {
		p, err := parsePortKey(key)
		if err != nil {
			if strict {
				return InspectImagesItem{}, err
			}
			continue
		}
		ports = append(ports, p)
	}

	createdAt, _ := ParseDate(r.CreatedAt, isoLayouts...)
	return InspectImagesItem{
		ID:               r.ID,
		Image:            image,
		RepoDigests:      r.RepoDigests,
		IsLocalImage:     isLocalImage(r.RepoDigests),
		Env:              ParseEnvironment(r.EnvVars),
		Ports:            ports,
		Volumes:          slices.Sorted(maps.Keys(r.Volumes)),
		Labels:           Labels(r.Labels),
		Entrypoint:       r.Entrypoint,
		Command:          r.Command,
		CurrentDirectory: r.CWD,
		Architecture:     normalizeArchitecture(r.Architecture),
		OperatingSystem:  normalizeOS(r.OperatingSystem),
		CreatedAt:        createdAt,
		User:             r.User,
		Raw:              rawString(r.Raw),
	}, nil
}
