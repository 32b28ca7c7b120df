// SPDX-License-Identifier: MPL-2.0

// Package compose builds command lines for the Docker Compose orchestrator,
// either as the "docker compose" subcommand (v2) or the standalone
// docker-compose binary (v1). Responses run through the same runner helpers
// as the container package.
package compose

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/invowk/ctrkit/internal/cmdline"
	"github.com/invowk/ctrkit/internal/container"
)

const (
	// DefaultDisplayName is the human-readable orchestrator name.
	DefaultDisplayName = "Docker Compose"

	commandV2 = "docker"
	commandV1 = "docker-compose"
)

// ErrInvalidConfigType is returned for config queries outside the supported set.
var ErrInvalidConfigType = errors.New("invalid compose config type")

// ConfigType selects what "compose config" lists.
type ConfigType string

const (
	ConfigServices ConfigType = "services"
	ConfigImages   ConfigType = "images"
	ConfigProfiles ConfigType = "profiles"
	ConfigVolumes  ConfigType = "volumes"
)

// Validate returns ErrInvalidConfigType for unknown config types.
func (t ConfigType) Validate() error {
	switch t {
	case ConfigServices, ConfigImages, ConfigProfiles, ConfigVolumes:
		return nil
	default:
		return fmt.Errorf("%w: %q (expected services, images, profiles or volumes)", ErrInvalidConfigType, string(t))
	}
}

type (
	// Client builds compose command lines. It performs no I/O.
	Client struct {
		CommandName string
		DisplayName string
		v2          bool
	}

	// Option configures a Client.
	Option func(*Client)
)

// WithCommandName overrides the executable.
func WithCommandName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.CommandName = name
		}
	}
}

// WithV1 switches to the standalone docker-compose binary. A command name
// set before WithV1 is replaced with docker-compose.
func WithV1() Option {
	return func(c *Client) {
		c.v2 = false
		if c.CommandName == commandV2 {
			c.CommandName = commandV1
		}
	}
}

// New returns a compose v2 client running "docker compose".
func New(opts ...Option) *Client {
	c := &Client{CommandName: commandV2, DisplayName: DefaultDisplayName, v2: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// V2 reports whether the client emits the "compose" subcommand.
func (c *Client) V2() bool { return c.v2 }

// Up starts the project's services.
func (c *Client) Up(opts UpOptions) container.VoidResponse {
	args := cmdline.ComposeArgs(
		c.common(opts.CommonOptions),
		cmdline.WithNamedArgs("--profile", opts.Profiles),
		cmdline.WithArg("up"),
		cmdline.WithFlagArg("--detach", opts.Detached),
		cmdline.WithFlagArg("--build", opts.Build),
		cmdline.WithNamedArgs("--scale", scaleValues(opts.Scale)),
		cmdline.WithNamedArg("--timeout", seconds(opts.Timeout)),
		cmdline.WithFlagArg("--wait", opts.Wait),
		verbatim(opts.CustomOptions),
		cmdline.WithArg(opts.Services...),
	).Build()
	return c.void(args)
}

// Down stops and removes the project's containers.
func (c *Client) Down(opts DownOptions) container.VoidResponse {
	args := cmdline.ComposeArgs(
		c.common(opts.CommonOptions),
		cmdline.WithArg("down"),
		cmdline.WithNamedArg("--rmi", string(opts.RemoveImages)),
		cmdline.WithFlagArg("--volumes", opts.RemoveVolumes),
		cmdline.WithNamedArg("--timeout", seconds(opts.Timeout)),
		verbatim(opts.CustomOptions),
	).Build()
	return c.void(args)
}

// Start starts existing service containers.
func (c *Client) Start(opts StartOptions) container.VoidResponse {
	args := cmdline.ComposeArgs(
		c.common(opts.CommonOptions),
		cmdline.WithArg("start"),
		cmdline.WithArg(opts.Services...),
	).Build()
	return c.void(args)
}

// Stop stops running service containers.
func (c *Client) Stop(opts StopOptions) container.VoidResponse {
	return c.void(c.timedArgs("stop", opts))
}

// Restart restarts service containers.
func (c *Client) Restart(opts StopOptions) container.VoidResponse {
	return c.void(c.timedArgs("restart", opts))
}

// Logs streams service output line by line.
func (c *Client) Logs(opts LogsOptions) container.GeneratorResponse[string] {
	var tail string
	if opts.Tail > 0 {
		tail = strconv.Itoa(opts.Tail)
	}
	args := cmdline.ComposeArgs(
		c.common(opts.CommonOptions),
		cmdline.WithArg("logs"),
		cmdline.WithFlagArg("--follow", opts.Follow),
		cmdline.WithNamedArg("--tail", tail, cmdline.NoQuote()),
		cmdline.WithArg(opts.Services...),
	).Build()
	return container.TextGenerator(c.CommandName, args)
}

// Config lists one facet of the resolved project configuration.
func (c *Client) Config(opts ConfigOptions) (container.PromiseResponse[[]string], error) {
	if err := opts.Type.Validate(); err != nil {
		return container.PromiseResponse[[]string]{}, err
	}
	args := cmdline.ComposeArgs(
		c.common(opts.CommonOptions),
		cmdline.WithArg("config", "--"+string(opts.Type)),
	).Build()
	return container.PromiseResponse[[]string]{
		Command: c.CommandName,
		Args:    args,
		Class:   container.ClassQuery,
		Parse:   parseConfigLines,
	}, nil
}

func (c *Client) common(opts CommonOptions) cmdline.Fragment {
	var sub cmdline.Fragment
	if c.v2 {
		sub = cmdline.WithArg("compose")
	}
	return cmdline.ComposeArgs(
		sub,
		cmdline.WithNamedArgs("--file", opts.Files),
		cmdline.WithNamedArg("--env-file", opts.EnvFile),
		cmdline.WithNamedArg("--project-name", opts.ProjectName),
	)
}

func (c *Client) timedArgs(verb string, opts StopOptions) cmdline.Args {
	return cmdline.ComposeArgs(
		c.common(opts.CommonOptions),
		cmdline.WithArg(verb),
		cmdline.WithNamedArg("--timeout", seconds(opts.Timeout)),
		cmdline.WithArg(opts.Services...),
	).Build()
}

func (c *Client) void(args cmdline.Args) container.VoidResponse {
	return container.VoidResponse{Command: c.CommandName, Args: args}
}

func parseConfigLines(out string, _ bool) ([]string, error) {
	var lines []string
	for line := range strings.Lines(out) {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// scaleValues renders "service=n" pairs ordered by service name.
func scaleValues(scale map[string]int) []string {
	out := make([]string, 0, len(scale))
	for _, svc := range slices.Sorted(maps.Keys(scale)) {
		out = append(out, svc+"="+strconv.Itoa(scale[svc]))
	}
	return out
}

func seconds(d *time.Duration) string {
	if d == nil {
		return ""
	}
	return strconv.Itoa(int(d.Seconds()))
}

func verbatim(opts string) cmdline.Fragment {
	if opts == "" {
		return nil
	}
	return cmdline.WithVerbatimArg(opts)
}
