// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/invowk/ctrkit/internal/cmdline"
)

var (
	listContainerFields = templateFields{
		{"Id", ".ID"},
		{"Names", ".Names"},
		{"Image", ".Image"},
		{"Ports", ".Ports"},
		{"Networks", ".Networks"},
		{"Labels", ".Labels"},
		{"CreatedAt", ".CreatedAt"},
		{"State", ".State"},
		{"Status", ".Status"},
	}

	inspectContainerFields = templateFields{
		{"Id", ".ID"},
		{"Name", ".Name"},
		{"ImageId", ".Image"},
		{"ImageName", ".Config.Image"},
		{"Status", ".State.Status"},
		{"Platform", ".Platform"},
		{"EnvVars", ".Config.Env"},
		{"Networks", ".NetworkSettings.Networks"},
		{"IP", ".NetworkSettings.IPAddress"},
		{"Ports", ".NetworkSettings.Ports"},
		{"PublishAllPorts", ".HostConfig.PublishAllPorts"},
		{"Mounts", ".Mounts"},
		{"Labels", ".Config.Labels"},
		{"Entrypoint", ".Config.Entrypoint"},
		{"Command", ".Config.Cmd"},
		{"CWD", ".Config.WorkingDir"},
		{"CreatedAt", ".Created"},
		{"StartedAt", ".State.StartedAt"},
		{"FinishedAt", ".State.FinishedAt"},
		{"Raw", "."},
	}
)

func runContainerOp(c *Client, opts RunContainerOptions) (PromiseResponse[string], error) {
	var custom cmdline.Fragment
	if opts.CustomOptions != "" {
		custom = cmdline.WithVerbatimArg(opts.CustomOptions)
	}
	args := cmdline.ComposeArgs(
		cmdline.WithArg("container", "run"),
		cmdline.WithFlagArg("--detach", opts.Detached),
		cmdline.WithFlagArg("--interactive", opts.Interactive),
		cmdline.WithFlagArg("--tty", opts.Detached || opts.Interactive),
		cmdline.WithFlagArg("--rm", opts.RemoveOnExit),
		cmdline.WithNamedArg("--name", opts.Name),
		withPortsArg(opts.Ports),
		cmdline.WithFlagArg("--publish-all", opts.PublishAllPorts),
		cmdline.WithNamedArg("--network", opts.Network),
		cmdline.WithNamedArg("--network-alias", opts.NetworkAlias),
		withAddHostArg(opts.AddHost),
		withMountsArg(opts.Mounts),
		withLabelsArg(opts.Labels),
		withEnvArg(opts.Env),
		cmdline.WithNamedArgs("--env-file", opts.EnvFiles),
		cmdline.WithNamedArg("--entrypoint", opts.Entrypoint),
		custom,
		cmdline.WithArg(opts.ImageRef),
		cmdline.WithArg(opts.Command...),
	).Build()

	detached := opts.Detached
	return promise(c, ClassMutate, args, func(out string, _ bool) (string, error) {
		if !detached {
			return out, nil
		}
		first, _, _ := strings.Cut(out, "\n")
		return strings.TrimSpace(first), nil
	}), nil
}

func execContainerOp(c *Client, opts ExecContainerOptions) (GeneratorResponse[string], error) {
	return textGenerator(c, execContainerArgs(opts, cmdline.Strings(opts.Command...)...)), nil
}

// execContainerArgs builds an exec invocation. The command is taken as
// pre-built tokens so that file operations can pass a quoted script.
func execContainerArgs(opts ExecContainerOptions, command ...cmdline.Arg) cmdline.Args {
	return cmdline.ComposeArgs(
		cmdline.WithArg("container", "exec"),
		cmdline.WithFlagArg("--interactive", opts.Interactive),
		cmdline.WithFlagArg("--detach", opts.Detached),
		cmdline.WithFlagArg("--tty", opts.TTY),
		withEnvArg(opts.Env),
		cmdline.WithArg(opts.Container),
		cmdline.WithArgs(command...),
	).Build()
}

func textGenerator(c *Client, args cmdline.Args) GeneratorResponse[string] {
	return TextGenerator(c.CommandName, args)
}

// TextGenerator describes a stream of raw output lines from command. Line
// terminators are stripped; lines are never parsed, so strictness does not
// apply.
func TextGenerator(command string, args cmdline.Args) GeneratorResponse[string] {
	return GeneratorResponse[string]{
		Command: command,
		Args:    args,
		ParseStream: func(ctx context.Context, r io.Reader, _ bool) *Stream[string] {
			return streamText(ctx, r)
		},
	}
}

func listContainersArgs(c *Client, opts ListContainersOptions, format cmdline.Fragment) cmdline.Args {
	var status []string
	if opts.Running {
		status = append(status, StateRunning)
	}
	if opts.Exited {
		status = append(status, StateExited)
	}
	return cmdline.ComposeArgs(
		cmdline.WithArg("container", "ls"),
		cmdline.WithFlagArg("--all", opts.All),
		withLabelFilterArgs(opts.Labels),
		withFilterArgs("status", status),
		withFilterArgs("name", opts.Names),
		withFilterArgs("ancestor", opts.ImageAncestors),
		withFilterArgs("volume", opts.Volumes),
		withFilterArgs("network", opts.Networks),
		withNoTruncArg,
		format,
	).Build()
}

func listContainersOp(c *Client, opts ListContainersOptions) (PromiseResponse[[]ListContainersItem], error) {
	args := listContainersArgs(c, opts, withTemplateFormatArg(c.shell, listContainerFields))
	return promise(c, ClassList, args, func(out string, strict bool) ([]ListContainersItem, error) {
		return parseJSONLines("listContainers", out, strict, func(r *listContainerRecord) (ListContainersItem, error) {
			return normalizeListContainer(r, strict)
		})
	}), nil
}

func normalizeListContainer(r *listContainerRecord, strict bool) (ListContainersItem, error) {
	image, err := ParseImageName(r.Image)
	if err != nil {
		return ListContainersItem{}, err
	}

	name, _, _ := strings.Cut(r.Names, ",")

	var ports []PortBinding
	for raw := range strings.SplitSeq(r.Ports, ",") {
		if raw = strings.TrimSpace(raw); raw == "" {
			continue
		}
		p, ok := ParsePort(raw)
		if !ok {
			if strict {
				return ListContainersItem{}, fmt.Errorf("%w %q", errUnrecognizedPort, raw)
			}
			slog.Debug("ignoring unrecognized port", "port", raw, "container", r.ID)
			continue
		}
		ports = append(ports, p)
	}

	var networks []string
	for n := range strings.SplitSeq(r.Networks, ",") {
		if n = strings.TrimSpace(n); n != "" {
			networks = append(networks, n)
		}
	}

	createdAt, _ := ParseDate(r.CreatedAt, listLayouts...)
	return ListContainersItem{
		ID:        r.ID,
		Name:      strings.TrimSpace(name),
		Image:     image,
		Labels:    Labels(r.Labels),
		Ports:     ports,
		Networks:  networks,
		CreatedAt: createdAt,
		State:     NormalizeState(r.State, r.Status),
		Status:    r.Status,
	}, nil
}

func startContainersOp(c *Client, opts ContainerRefsOptions) (PromiseResponse[[]string], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("container", "start"),
		cmdline.WithArg(opts.Containers...),
	).Build()
	return idsResponse(c, args), nil
}

func restartContainersOp(c *Client, opts ContainerRefsOptions) (PromiseResponse[[]string], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("container", "restart"),
		cmdline.WithArg(opts.Containers...),
	).Build()
	return idsResponse(c, args), nil
}

func stopContainersOp(c *Client, opts StopContainersOptions) (PromiseResponse[[]string], error) {
	var timeout string
	if opts.Time != nil {
		timeout = strconv.Itoa(int(opts.Time.Seconds()))
	}
	args := cmdline.ComposeArgs(
		cmdline.WithArg("container", "stop"),
		cmdline.WithNamedArg("--time", timeout),
		cmdline.WithArg(opts.Containers...),
	).Build()
	return idsResponse(c, args), nil
}

func removeContainersOp(c *Client, opts RemoveContainersOptions) (PromiseResponse[[]string], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("container", "rm"),
		cmdline.WithFlagArg("--force", opts.Force),
		cmdline.WithArg(opts.Containers...),
	).Build()
	return idsResponse(c, args), nil
}

func pruneContainersOp(c *Client) (PromiseResponse[PruneItem], error) {
	return pruneResponse(c, cmdline.ComposeArgs(cmdline.WithArg("container", "prune", "--force")).Build()), nil
}

func logsForContainerOp(c *Client, opts LogsForContainerOptions) (GeneratorResponse[string], error) {
	var tail string
	if opts.Tail > 0 {
		tail = strconv.Itoa(opts.Tail)
	}
	args := cmdline.ComposeArgs(
		cmdline.WithArg("container", "logs"),
		cmdline.WithFlagArg("--follow", opts.Follow),
		cmdline.WithFlagArg("--timestamps", opts.Timestamps),
		cmdline.WithNamedArg("--tail", tail),
		cmdline.WithNamedArg("--since", opts.Since),
		cmdline.WithNamedArg("--until", opts.Until),
		cmdline.WithArg(opts.Container),
	).Build()
	return textGenerator(c, args), nil
}

func inspectContainersArgs(c *Client, opts InspectContainersOptions, fields templateFields) cmdline.Args {
	return cmdline.ComposeArgs(
		cmdline.WithArg("container", "inspect"),
		withTemplateFormatArg(c.shell, fields),
		cmdline.WithArg(opts.Containers...),
	).Build()
}

func inspectContainersOp(c *Client, opts InspectContainersOptions) (PromiseResponse[[]InspectContainersItem], error) {
	return inspectContainersResponse(c, inspectContainersArgs(c, opts, inspectContainerFields)), nil
}

func inspectContainersResponse(c *Client, args cmdline.Args) PromiseResponse[[]InspectContainersItem] {
	return promise(c, ClassInspect, args, func(out string, strict bool) ([]InspectContainersItem, error) {
		return parseJSONLines("inspectContainers", out, strict, func(r *inspectContainerRecord) (InspectContainersItem, error) {
			return normalizeInspectContainer(r, strict)
		})
	})
}

func normalizeInspectContainer(r *inspectContainerRecord, strict bool) (InspectContainersItem, error) {
	image, err := ParseImageName(r.ImageName)
	if err != nil {
		return InspectContainersItem{}, err
	}

	networks := make([]ContainerNetwork, 0, len(r.Networks))
	for _, name := range slices.Sorted(maps.Keys(r.Networks)) {
		n := r.Networks[name]
		networks = append(networks, ContainerNetwork{
			Name:       name,
			Gateway:    n.Gateway,
			IPAddress:  n.IPAddress,
			MACAddress: n.MacAddress,
		})
	}

	ports := make([]PortBinding, 0, len(r.Ports))
	for _, key := range slices.Sorted(maps.Keys(r.Ports)) {
		p, err := parsePortKey(key)
		if err != nil {
			if strict {
				return InspectContainersItem{}, err
			}
			continue
		}
		if bindings := r.Ports[key]; len(bindings) > 0 {
			p.HostIP = bindings[0].HostIP
			p.HostPort, _ = strconv.Atoi(bindings[0].HostPort)
		}
		ports = append(ports, p)
	}

	mounts := make([]ContainerMount, 0, len(r.Mounts))
	for _, m := range r.Mounts {
		mount := ContainerMount{
			Type:        MountType(m.Type),
			Source:      m.Source,
			Destination: m.Destination,
			ReadOnly:    !m.RW,
		}
		switch mount.Type {
		case MountBind:
		case MountVolume:
			mount.Name = m.Name
			mount.Driver = m.Driver
		default:
			continue
		}
		mounts = append(mounts, mount)
	}

	createdAt, _ := ParseDate(r.CreatedAt, isoLayouts...)
	startedAt, _ := ParseDate(r.StartedAt, isoLayouts...)
	finishedAt, _ := ParseDate(r.FinishedAt, isoLayouts...)

	return InspectContainersItem{
		ID:               r.ID,
		Name:             strings.TrimPrefix(r.Name, "/"),
		ImageID:          r.ImageID,
		Image:            image,
		Status:           r.Status,
		Platform:         r.Platform,
		Env:              ParseEnvironment(r.EnvVars),
		Networks:         networks,
		IPAddress:        r.IP,
		Ports:            ports,
		PublishAllPorts:  r.PublishAllPorts,
		Mounts:           mounts,
		Labels:           Labels(r.Labels),
		Entrypoint:       r.Entrypoint,
		Command:          r.Command,
		CurrentDirectory: r.CWD,
		CreatedAt:        createdAt,
		StartedAt:        laterOrEqual(startedAt, createdAt),
		FinishedAt:       laterOrEqual(finishedAt, createdAt),
		Raw:              rawString(r.Raw),
	}, nil
}
