// SPDX-License-Identifier: MPL-2.0

package container

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/invowk/ctrkit/internal/cmdline"
)

// Map-derived arguments are emitted in sorted key order so the resulting
// command line is reproducible.

func sortedPairs(m map[string]string, sep string) []string {
	out := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, k+sep+m[k])
	}
	return out
}

// withKeyValueArgs emits "flag key=value" per entry.
func withKeyValueArgs(flag string, m map[string]string) cmdline.Fragment {
	return cmdline.WithNamedArgs(flag, sortedPairs(m, "="))
}

func withLabelsArg(labels Labels) cmdline.Fragment {
	return withKeyValueArgs("--label", labels)
}

func withEnvArg(env map[string]string) cmdline.Fragment {
	return withKeyValueArgs("-e", env)
}

func withBuildArgs(args map[string]string) cmdline.Fragment {
	return withKeyValueArgs("--build-arg", args)
}

func withAddHostArg(hosts map[string]string) cmdline.Fragment {
	return cmdline.WithNamedArgs("--add-host", sortedPairs(hosts, ":"))
}

// withLabelFilterArgs emits "--filter label=key" for presence filters and
// "--filter label=key=value" for value filters. Ignored filters emit nothing.
func withLabelFilterArgs(filters LabelFilters) cmdline.Fragment {
	values := make([]string, 0, len(filters))
	for _, k := range slices.Sorted(maps.Keys(filters)) {
		switch f := filters[k]; f.Match {
		case LabelPresence:
			values = append(values, "label="+k)
		case LabelValue:
			values = append(values, "label="+k+"="+f.Value)
		}
	}
	return cmdline.WithNamedArgs("--filter", values)
}

// withFilterArgs emits "--filter prefix=value" per value.
func withFilterArgs(prefix string, values []string) cmdline.Fragment {
	filters := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			filters = append(filters, prefix+"="+v)
		}
	}
	return cmdline.WithNamedArgs("--filter", filters)
}

func withBoolFilterArg(name string, v *bool) cmdline.Fragment {
	if v == nil {
		return nil
	}
	return cmdline.WithNamedArg("--filter", name+"="+strconv.FormatBool(*v))
}

func withOptionalBoolArg(flag string, v *bool) cmdline.Fragment {
	if v == nil {
		return nil
	}
	return cmdline.WithNamedArg(flag, strconv.FormatBool(*v))
}

func withPortsArg(ports []PortBinding) cmdline.Fragment {
	specs := make([]string, 0, len(ports))
	for _, p := range ports {
		if p.ContainerPort > 0 {
			specs = append(specs, publishSpec(p))
		}
	}
	return cmdline.WithNamedArgs("-p", specs)
}

func withMountsArg(mounts []RunMount) cmdline.Fragment {
	specs := make([]string, 0, len(mounts))
	for _, m := range mounts {
		parts := []string{
			"type=" + string(m.Type),
			"source=" + m.Source,
			"destination=" + m.Destination,
		}
		if m.ReadOnly {
			parts = append(parts, "readonly")
		}
		specs = append(specs, strings.Join(parts, ","))
	}
	return cmdline.WithNamedArgs("--mount", specs)
}

// containerPath renders "container:path" for cp.
func containerPath(container, path string) string {
	return container + ":" + path
}
