// SPDX-License-Identifier: MPL-2.0

package container

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/docker/go-connections/nat"
)

// errUnrecognizedPort marks a listing port that is neither a tcp nor a udp
// single-port binding.
var errUnrecognizedPort = errors.New("unrecognized port")

var (
	shortPortRegex = regexp.MustCompile(`^(\d+)/(tcp|udp)$`)
	longPortRegex  = regexp.MustCompile(
		`^(?:(\[[0-9a-fA-F:.]+\]|[0-9a-fA-F:.]*?):)?(\d+)->(\d+)/(tcp|udp)$`)
)

// ParsePort parses a port string as printed in container listings: the
// short form "80/tcp" or the long form "[hostIp:]hostPort->80/tcp", where
// hostIp may be IPv4, bare IPv6 or bracketed IPv6. Brackets are stripped from
// the returned host address. Any other shape, including port ranges and
// unknown protocols, reports false.
func ParsePort(raw string) (PortBinding, bool) {
	raw = strings.TrimSpace(raw)

	if m := shortPortRegex.FindStringSubmatch(raw); m != nil {
		port, err := strconv.Atoi(m[1])
		if err != nil {
			return PortBinding{}, false
		}
		return PortBinding{ContainerPort: port, Protocol: m[2]}, true
	}

	m := longPortRegex.FindStringSubmatch(raw)
	if m == nil {
		return PortBinding{}, false
	}
	hostPort, err := strconv.Atoi(m[2])
	if err != nil {
		return PortBinding{}, false
	}
	containerPort, err := strconv.Atoi(m[3])
	if err != nil {
		return PortBinding{}, false
	}
	return PortBinding{
		ContainerPort: containerPort,
		Protocol:      m[4],
		HostPort:      hostPort,
		HostIP:        strings.TrimSuffix(strings.TrimPrefix(m[1], "["), "]"),
	}, true
}

// parsePortKey parses an engine port map key such as "80/tcp". Keys with an
// unknown protocol keep an empty protocol.
func parsePortKey(key string) (PortBinding, error) {
	proto, port := nat.SplitProtoPort(key)
	p, err := nat.NewPort(proto, port)
	if err != nil {
		return PortBinding{}, err
	}
	b := PortBinding{ContainerPort: p.Int()}
	switch strings.ToLower(p.Proto()) {
	case "tcp":
		b.Protocol = "tcp"
	case "udp":
		b.Protocol = "udp"
	}
	return b, nil
}

// publishSpec renders a binding as a -p argument: [hostIp:][hostPort:]port/proto.
func publishSpec(b PortBinding) string {
	proto := b.Protocol
	if proto == "" {
		proto = "tcp"
	}
	spec := strconv.Itoa(b.ContainerPort) + "/" + proto
	var host string
	switch {
	case b.HostIP != "" && strings.Contains(b.HostIP, ":"):
		host = "[" + b.HostIP + "]:"
	case b.HostIP != "":
		host = b.HostIP + ":"
	}
	if b.HostPort > 0 {
		return host + strconv.Itoa(b.HostPort) + ":" + spec
	}
	if host != "" {
		return host + ":" + spec
	}
	return spec
}
