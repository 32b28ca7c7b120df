// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"time"

	"github.com/invowk/ctrkit/internal/cmdline"
)

var (
	podmanInfoFields = templateFields{
		{"OperatingSystem", ".Host.Distribution.Distribution"},
		{"OSType", ".Host.OS"},
		{"Raw", "."},
	}

	podmanListNetworkFields = listNetworkFields.with("Scope", "").with("IPv6", ".IPv6Enabled").with("CreatedAt", ".Created")

	podmanInspectContainerFields = inspectContainerFields.with("Platform", "")
)

// NewPodmanClient creates a client for the Podman CLI. Podman reports a
// different JSON shape for several listings and has connections in place of
// contexts; those operations are overridden.
func NewPodmanClient(opts ...ClientOption) *Client {
	return newClient(EnginePodman, Client{
		ID:          "io.podman.cli",
		DisplayName: "Podman",
		Description: "Runs container commands using the Podman CLI",
		CommandName: "podman",
	}, podmanOperations(), opts...)
}

func podmanOperations() Operations {
	ops := baseOperations()
	ops.Version = podmanVersionOp
	ops.Info = podmanInfoOp
	ops.GetEventStream = podmanEventStreamOp
	ops.ListContainers = podmanListContainersOp
	ops.InspectContainers = podmanInspectContainersOp
	ops.ListNetworks = podmanListNetworksOp
	ops.InspectNetworks = podmanInspectNetworksOp
	ops.ListContexts = podmanListContextsOp
	ops.RemoveContexts = podmanRemoveContextsOp
	ops.UseContext = podmanUseContextOp
	return ops
}

func podmanVersionOp(c *Client) (PromiseResponse[VersionItem], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("version"),
		withJSONFormatArg(c.shell),
	).Build()
	return promise(c, ClassQuery, args, func(out string, _ bool) (VersionItem, error) {
		return parseJSONDocument("version", out, func(r *podmanVersionRecord) (VersionItem, error) {
			item := VersionItem{Client: r.Client.APIVersion}
			if r.Server != nil {
				item.Server = r.Server.APIVersion
			}
			return item, nil
		})
	}), nil
}

func podmanInfoOp(c *Client) (PromiseResponse[InfoItem], error) {
	return promise(c, ClassQuery, infoArgs(c, podmanInfoFields), parseInfo), nil
}

func podmanEventStreamOp(c *Client, opts EventStreamOptions) (GeneratorResponse[EventItem], error) {
	return GeneratorResponse[EventItem]{
		Command: c.CommandName,
		Args:    eventStreamArgs(c, opts),
		ParseStream: func(ctx context.Context, r io.Reader, strict bool) *Stream[EventItem] {
			return streamLines(ctx, "getEventStream", r, strict, eventLineParser(normalizePodmanEvent))
		},
	}, nil
}

func normalizePodmanEvent(r *podmanEventRecord) (EventItem, error) {
	ts := r.Time.Time(isoLayouts...)
	if r.TimeNano != 0 {
		ts = time.Unix(0, r.TimeNano).UTC()
	}
	attrs := maps.Clone(r.Attributes)
	if attrs == nil {
		attrs = map[string]string{}
	}
	if r.Name != "" {
		attrs["name"] = r.Name
	}
	if r.Image != "" {
		attrs["image"] = r.Image
	}
	return EventItem{
		Type:      EventType(r.Type),
		Action:    EventAction(r.Status),
		Timestamp: ts,
		Actor:     EventActor{ID: r.ID, Attributes: attrs},
	}, nil
}

func podmanListContainersOp(c *Client, opts ListContainersOptions) (PromiseResponse[[]ListContainersItem], error) {
	args := listContainersArgs(c, opts, withJSONFormatArg(c.shell))
	return promise(c, ClassList, args, func(out string, strict bool) ([]ListContainersItem, error) {
		return parseJSONLines("listContainers", out, strict, func(r *podmanListContainerRecord) (ListContainersItem, error) {
			return normalizePodmanListContainer(r, strict)
		})
	}), nil
}

func normalizePodmanListContainer(r *podmanListContainerRecord, strict bool) (ListContainersItem, error) {
	image, err := ParseImageName(r.Image)
	if err != nil {
		return ListContainersItem{}, err
	}

	var ports []PortBinding
	for _, p := range r.Ports {
		if p.Protocol != "tcp" && p.Protocol != "udp" {
			if strict {
				return ListContainersItem{}, fmt.Errorf("%w %q", errUnrecognizedPort, p.Protocol)
			}
			slog.Debug("ignoring unrecognized port", "protocol", p.Protocol, "container", r.ID)
			continue
		}
		n := max(p.Range, 1)
		for i := range n {
			b := PortBinding{
				ContainerPort: p.ContainerPort + i,
				Protocol:      p.Protocol,
				HostIP:        p.HostIP,
			}
			if p.HostPort > 0 {
				b.HostPort = p.HostPort + i
			}
			ports = append(ports, b)
		}
	}

	return ListContainersItem{
		ID:        r.ID,
		Name:      r.Names[0],
		Image:     image,
		Labels:    Labels(r.Labels),
		Ports:     ports,
		Networks:  r.Networks,
		CreatedAt: r.Created.Time(isoLayouts...),
		State:     NormalizeState(r.State, r.Status),
		Status:    r.Status,
	}, nil
}

func podmanInspectContainersOp(c *Client, opts InspectContainersOptions) (PromiseResponse[[]InspectContainersItem], error) {
	return inspectContainersResponse(c, inspectContainersArgs(c, opts, podmanInspectContainerFields)), nil
}

func podmanListNetworksOp(c *Client, opts ListNetworksOptions) (PromiseResponse[[]ListNetworkItem], error) {
	return promise(c, ClassList, listNetworksArgs(c, opts, podmanListNetworkFields), parseListNetworks), nil
}

func podmanInspectNetworksOp(c *Client, opts InspectNetworksOptions) (PromiseResponse[[]InspectNetworksItem], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("network", "inspect"),
		withJSONFormatArg(c.shell),
		cmdline.WithArg(opts.Networks...),
	).Build()
	return promise(c, ClassInspect, args, func(out string, strict bool) ([]InspectNetworksItem, error) {
		return parseJSONLines("inspectNetworks", out, strict, normalizePodmanInspectNetwork)
	}), nil
}

func normalizePodmanInspectNetwork(r *podmanInspectNetworkRecord) (InspectNetworksItem, error) {
	ipam := NetworkIPAM{Driver: r.IPAMOptions["driver"]}
	for _, s := range r.Subnets {
		ipam.Config = append(ipam.Config, NetworkSubnet{Subnet: s.Subnet, Gateway: s.Gateway})
	}
	createdAt, _ := ParseDate(r.Created, isoLayouts...)
	return InspectNetworksItem{
		ID:        r.ID,
		Name:      r.Name,
		Driver:    r.Driver,
		Scope:     "local",
		Labels:    Labels(r.Labels),
		IPAM:      ipam,
		IPv6:      r.IPv6Enabled,
		Internal:  r.Internal,
		CreatedAt: createdAt,
		Raw:       r.raw,
	}, nil
}

func podmanListContextsOp(c *Client) (PromiseResponse[[]ListContextItem], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("system", "connection", "ls"),
		withJSONFormatArg(c.shell),
	).Build()
	return promise(c, ClassList, args, func(out string, strict bool) ([]ListContextItem, error) {
		return parseJSONLines("listContexts", out, strict, func(r *podmanConnectionRecord) (ListContextItem, error) {
			return ListContextItem{
				Name:              r.Name,
				Current:           r.Default,
				ContainerEndpoint: r.URI,
			}, nil
		})
	}), nil
}

func podmanRemoveContextsOp(c *Client, opts ContextsOptions) (PromiseResponse[[]string], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("system", "connection", "rm"),
		cmdline.WithArg(opts.Contexts...),
	).Build()
	names := append([]string(nil), opts.Contexts...)
	// Podman prints nothing on success; the requested names stand in.
	return promise(c, ClassMutate, args, func(out string, _ bool) ([]string, error) {
		if ids := asIDs(out); len(ids) > 0 {
			return ids, nil
		}
		return names, nil
	}), nil
}

func podmanUseContextOp(c *Client, opts UseContextOptions) (VoidResponse, error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("system", "connection", "default"),
		cmdline.WithArg(opts.Context),
	).Build()
	return void(c, args), nil
}
