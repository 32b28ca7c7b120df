// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// EngineKind identifies a container engine CLI.
type EngineKind string

const (
	EngineDocker EngineKind = "docker"
	EnginePodman EngineKind = "podman"
	// EngineAuto selects the first engine found on PATH.
	EngineAuto EngineKind = "auto"
)

var (
	// ErrEngineNotFound is returned when no supported engine is on PATH.
	ErrEngineNotFound = errors.New("no container engine (docker or podman) found on PATH")

	// ErrInvalidEngineKind is returned for an unknown engine kind.
	ErrInvalidEngineKind = errors.New("invalid engine kind")

	// ErrAPIVersion is returned when the engine API version does not satisfy
	// the configured constraint.
	ErrAPIVersion = errors.New("engine API version not supported")
)

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Validate returns an error if the kind is not a known engine.
func (k EngineKind) Validate() error {
	switch k {
	case EngineDocker, EnginePodman, EngineAuto:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEngineKind, string(k))
	}
}

// String returns the kind name.
func (k EngineKind) String() string { return string(k) }

// NewClient creates a client for kind. EngineAuto detects the engine.
func NewClient(kind EngineKind, opts ...ClientOption) (*Client, error) {
	switch kind {
	case EngineDocker:
		return NewDockerClient(opts...), nil
	case EnginePodman:
		return NewPodmanClient(opts...), nil
	case EngineAuto, "":
		return Detect(opts...)
	default:
		return nil, kind.Validate()
	}
}

// Detect probes PATH for docker first and then podman.
func Detect(opts ...ClientOption) (*Client, error) {
	if _, err := lookPath(string(EngineDocker)); err == nil {
		return NewDockerClient(opts...), nil
	}
	if _, err := lookPath(string(EnginePodman)); err == nil {
		return NewPodmanClient(opts...), nil
	}
	return nil, ErrEngineNotFound
}

// CheckAPIVersion queries the engine version and verifies the server API
// version (or the client's when no server is reachable) against constraint,
// e.g. ">= 1.41". An empty constraint always passes.
func CheckAPIVersion(ctx context.Context, r ProcessRunner, c *Client, constraint string) (VersionItem, error) {
	resp, err := c.Version()
	if err != nil {
		return VersionItem{}, err
	}
	v, err := RunPromise(ctx, r, resp, DefaultPolicy())
	if err != nil {
		return VersionItem{}, err
	}
	if constraint == "" {
		return v, nil
	}

	cons, err := semver.NewConstraint(constraint)
	if err != nil {
		return v, fmt.Errorf("invalid API version constraint %q: %w", constraint, err)
	}
	reported := v.Server
	if reported == "" {
		reported = v.Client
	}
	ver, err := semver.NewVersion(strings.TrimPrefix(reported, "v"))
	if err != nil {
		return v, fmt.Errorf("%w: unparseable version %q: %w", ErrAPIVersion, reported, err)
	}
	if !cons.Check(ver) {
		return v, fmt.Errorf("%w: %s does not satisfy %s", ErrAPIVersion, reported, constraint)
	}
	return v, nil
}
