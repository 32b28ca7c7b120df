// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/docker/go-connections/nat"

	"github.com/invowk/ctrkit/internal/container"
)

// parseKeyValues parses repeated key=value flags.
func parseKeyValues(flag string, values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --%s %q: expected key=value", flag, v)
		}
		out[key] = value
	}
	return out, nil
}

// parseLabelFilters parses repeated label filters. A bare key matches any
// object carrying the label; "key=" matches an empty value.
func parseLabelFilters(values []string) (container.LabelFilters, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(container.LabelFilters, len(values))
	for _, v := range values {
		key, value, hasValue := strings.Cut(v, "=")
		if key == "" {
			return nil, fmt.Errorf("invalid --label %q: empty key", v)
		}
		if hasValue {
			out[key] = container.LabelEquals(value)
		} else {
			out[key] = container.LabelPresent()
		}
	}
	return out, nil
}

// parsePublish parses docker-style -p specs such as "8080:80",
// "127.0.0.1:8443:443/tcp" or "9000-9001:9000-9001".
func parsePublish(specs []string) ([]container.PortBinding, error) {
	var out []container.PortBinding
	for _, spec := range specs {
		mappings, err := nat.ParsePortSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid --publish %q: %w", spec, err)
		}
		for _, m := range mappings {
			b := container.PortBinding{
				ContainerPort: m.Port.Int(),
				Protocol:      m.Port.Proto(),
				HostIP:        m.Binding.HostIP,
			}
			if m.Binding.HostPort != "" {
				hostPort, err := strconv.Atoi(m.Binding.HostPort)
				if err != nil {
					return nil, fmt.Errorf("invalid --publish %q: host port %q: %w", spec, m.Binding.HostPort, err)
				}
				b.HostPort = hostPort
			}
			out = append(out, b)
		}
	}
	return out, nil
}

// parseVolumes parses -v specs "source:destination[:ro]". Sources that look
// like paths are bind mounts; anything else names a volume.
func parseVolumes(specs []string) ([]container.RunMount, error) {
	out := make([]container.RunMount, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid --volume %q: expected source:destination[:ro]", spec)
		}
		m := container.RunMount{Type: container.MountVolume, Source: parts[0], Destination: parts[1]}
		if strings.ContainsAny(parts[0][:1], "/.~") {
			m.Type = container.MountBind
		}
		if len(parts) == 3 {
			switch parts[2] {
			case "ro":
				m.ReadOnly = true
			case "rw":
			default:
				return nil, fmt.Errorf("invalid --volume %q: unknown mode %q", spec, parts[2])
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// optionalBool returns nil unless the flag was set.
func optionalBool(changed, value bool) *bool {
	if !changed {
		return nil
	}
	return &value
}

// parseScale parses repeated service=replicas flags.
func parseScale(values []string) (map[string]int, error) {
	pairs, err := parseKeyValues("scale", values)
	if err != nil {
		return nil, err
	}
	var out map[string]int
	for svc, n := range pairs {
		replicas, err := strconv.Atoi(n)
		if err != nil || replicas < 0 {
			return nil, errInvalidFlag("scale", svc+"="+n, "a non-negative replica count")
		}
		if out == nil {
			out = make(map[string]int, len(pairs))
		}
		out[svc] = replicas
	}
	return out, nil
}

func errInvalidFlag(flag, value, want string) error {
	return fmt.Errorf("invalid --%s %q: expected %s", flag, value, want)
}
