// SPDX-License-Identifier: MPL-2.0

package container

import (
	"github.com/invowk/ctrkit/internal/cmdline"
)

var (
	listNetworkFields = templateFields{
		{"Id", ".ID"},
		{"Name", ".Name"},
		{"Driver", ".Driver"},
		{"Scope", ".Scope"},
		{"Labels", ".Labels"},
		{"IPv6", ".IPv6"},
		{"Internal", ".Internal"},
		{"CreatedAt", ".CreatedAt"},
	}

	inspectNetworkFields = templateFields{
		{"Id", ".Id"},
		{"Name", ".Name"},
		{"Driver", ".Driver"},
		{"Scope", ".Scope"},
		{"Labels", ".Labels"},
		{"Ipam", ".IPAM"},
		{"EnableIPv6", ".EnableIPv6"},
		{"Internal", ".Internal"},
		{"Attachable", ".Attachable"},
		{"Ingress", ".Ingress"},
		{"CreatedAt", ".Created"},
		{"Raw", "."},
	}
)

func createNetworkOp(c *Client, opts CreateNetworkOptions) (VoidResponse, error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("network", "create"),
		cmdline.WithNamedArg("--driver", opts.Driver),
		cmdline.WithArg(opts.Name),
	).Build()
	return void(c, args), nil
}

func listNetworksArgs(c *Client, opts ListNetworksOptions, fields templateFields) cmdline.Args {
	return cmdline.ComposeArgs(
		cmdline.WithArg("network", "ls"),
		withLabelFilterArgs(opts.Labels),
		withTemplateFormatArg(c.shell, fields),
	).Build()
}

func listNetworksOp(c *Client, opts ListNetworksOptions) (PromiseResponse[[]ListNetworkItem], error) {
	return promise(c, ClassList, listNetworksArgs(c, opts, listNetworkFields), parseListNetworks), nil
}

func parseListNetworks(out string, strict bool) ([]ListNetworkItem, error) {
	return parseJSONLines("listNetworks", out, strict, func(r *listNetworkRecord) (ListNetworkItem, error) {
		createdAt, _ := ParseDate(r.CreatedAt, isoLayouts...)
		return ListNetworkItem{
			ID:        r.ID,
			Name:      r.Name,
			Driver:    r.Driver,
			Labels:    Labels(r.Labels),
			Scope:     r.Scope,
			IPv6:      bool(r.IPv6),
			Internal:  bool(r.Internal),
			CreatedAt: createdAt,
		}, nil
	})
}

func removeNetworksOp(c *Client, opts RemoveNetworksOptions) (PromiseResponse[[]string], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("network", "remove"),
		cmdline.WithFlagArg("--force", opts.Force),
		cmdline.WithArg(opts.Networks...),
	).Build()
	return idsResponse(c, args), nil
}

func pruneNetworksOp(c *Client) (PromiseResponse[PruneItem], error) {
	return pruneResponse(c, cmdline.ComposeArgs(cmdline.WithArg("network", "prune", "--force")).Build()), nil
}

func inspectNetworksOp(c *Client, opts InspectNetworksOptions) (PromiseResponse[[]InspectNetworksItem], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("network", "inspect"),
		withTemplateFormatArg(c.shell, inspectNetworkFields),
		cmdline.WithArg(opts.Networks...),
	).Build()
	return promise(c, ClassInspect, args, func(out string, strict bool) ([]InspectNetworksItem, error) {
		return parseJSONLines("inspectNetworks", out, strict, normalizeInspectNetwork)
	}), nil
}

func normalizeInspectNetwork(r *inspectNetworkRecord) (InspectNetworksItem, error) {
	var ipam NetworkIPAM
	if r.IPAM != nil {
		ipam.Driver = r.IPAM.Driver
		for _, cfg := range r.IPAM.Config {
			ipam.Config = append(ipam.Config, NetworkSubnet{Subnet: cfg.Subnet, Gateway: cfg.Gateway})
		}
	}
	createdAt, _ := ParseDate(r.CreatedAt, isoLayouts...)
	return InspectNetworksItem{
		ID:         r.ID,
		Name:       r.Name,
		Driver:     r.Driver,
		Scope:      r.Scope,
		Labels:     Labels(r.Labels),
		IPAM:       ipam,
		IPv6:       r.EnableIPv6,
		Internal:   r.Internal,
		Attachable: r.Attachable,
		Ingress:    r.Ingress,
		CreatedAt:  createdAt,
		Raw:        rawString(r.Raw),
	}, nil
}
