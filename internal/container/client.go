// SPDX-License-Identifier: MPL-2.0

package container

import (
	"github.com/invowk/ctrkit/internal/cmdline"
)

const (
	// DefaultRegistry is the registry implied by unqualified image names.
	DefaultRegistry = "docker.io"
	// DefaultTag is the tag implied by untagged image names.
	DefaultTag = "latest"
)

type (
	// ContainersClient is the full operation surface of a container engine.
	// Each method only builds a response descriptor; nothing is executed.
	ContainersClient interface {
		Version() (PromiseResponse[VersionItem], error)
		CheckInstall() (PromiseResponse[string], error)
		Info() (PromiseResponse[InfoItem], error)
		GetEventStream(opts EventStreamOptions) (GeneratorResponse[EventItem], error)
		Login(opts LoginOptions) (VoidResponse, error)
		Logout(opts LogoutOptions) (VoidResponse, error)

		BuildImage(opts BuildImageOptions) (VoidResponse, error)
		ListImages(opts ListImagesOptions) (PromiseResponse[[]ListImagesItem], error)
		RemoveImages(opts RemoveImagesOptions) (PromiseResponse[[]string], error)
		PruneImages(opts PruneImagesOptions) (PromiseResponse[PruneItem], error)
		PullImage(opts PullImageOptions) (VoidResponse, error)
		PushImage(opts PushImageOptions) (VoidResponse, error)
		TagImage(opts TagImageOptions) (VoidResponse, error)
		InspectImages(opts InspectImagesOptions) (PromiseResponse[[]InspectImagesItem], error)

		RunContainer(opts RunContainerOptions) (PromiseResponse[string], error)
		ExecContainer(opts ExecContainerOptions) (GeneratorResponse[string], error)
		ListContainers(opts ListContainersOptions) (PromiseResponse[[]ListContainersItem], error)
		StartContainers(opts ContainerRefsOptions) (PromiseResponse[[]string], error)
		RestartContainers(opts ContainerRefsOptions) (PromiseResponse[[]string], error)
		StopContainers(opts StopContainersOptions) (PromiseResponse[[]string], error)
		RemoveContainers(opts RemoveContainersOptions) (PromiseResponse[[]string], error)
		PruneContainers() (PromiseResponse[PruneItem], error)
		StatsContainers(opts StatsContainersOptions) (PromiseResponse[string], error)
		LogsForContainer(opts LogsForContainerOptions) (GeneratorResponse[string], error)
		InspectContainers(opts InspectContainersOptions) (PromiseResponse[[]InspectContainersItem], error)

		CreateVolume(opts CreateVolumeOptions) (VoidResponse, error)
		ListVolumes(opts ListVolumesOptions) (PromiseResponse[[]ListVolumeItem], error)
		RemoveVolumes(opts RemoveVolumesOptions) (PromiseResponse[[]string], error)
		PruneVolumes() (PromiseResponse[PruneItem], error)
		InspectVolumes(opts InspectVolumesOptions) (PromiseResponse[[]InspectVolumesItem], error)

		CreateNetwork(opts CreateNetworkOptions) (VoidResponse, error)
		ListNetworks(opts ListNetworksOptions) (PromiseResponse[[]ListNetworkItem], error)
		RemoveNetworks(opts RemoveNetworksOptions) (PromiseResponse[[]string], error)
		PruneNetworks() (PromiseResponse[PruneItem], error)
		InspectNetworks(opts InspectNetworksOptions) (PromiseResponse[[]InspectNetworksItem], error)

		ListContexts() (PromiseResponse[[]ListContextItem], error)
		RemoveContexts(opts ContextsOptions) (PromiseResponse[[]string], error)
		UseContext(opts UseContextOptions) (VoidResponse, error)
		InspectContexts(opts ContextsOptions) (PromiseResponse[[]InspectContextsItem], error)

		ListFiles(opts ListFilesOptions) (PromiseResponse[[]ListFilesItem], error)
		StatPath(opts StatPathOptions) (PromiseResponse[*ListFilesItem], error)
		ReadFile(opts ReadFileOptions) (GeneratorResponse[[]byte], error)
		WriteFile(opts WriteFileOptions) (VoidResponse, error)
	}

	// Client builds command lines for one engine CLI. Its identity fields
	// may be overridden with ClientOptions; everything else is stateless, so
	// a Client may be shared between goroutines once constructed.
	Client struct {
		ID              string
		DisplayName     string
		Description     string
		CommandName     string
		DefaultRegistry string
		DefaultTag      string

		kind  EngineKind
		shell cmdline.Shell
		ops   Operations
	}

	// ClientOption configures a Client.
	ClientOption func(*Client)
)

var _ ContainersClient = (*Client)(nil)

// WithCommandName overrides the executable, e.g. a full path or a wrapper.
func WithCommandName(name string) ClientOption {
	return func(c *Client) {
		if name != "" {
			c.CommandName = name
		}
	}
}

// WithDisplayName overrides the human-readable engine name.
func WithDisplayName(name string) ClientOption {
	return func(c *Client) { c.DisplayName = name }
}

// WithDescription overrides the engine description.
func WithDescription(desc string) ClientOption {
	return func(c *Client) { c.Description = desc }
}

// WithShell selects the shell that Go templates are quoted for.
func WithShell(shell cmdline.Shell) ClientOption {
	return func(c *Client) {
		if shell != nil {
			c.shell = shell
		}
	}
}

// WithOperations replaces the client's operation table. Nil entries are
// reported as not supported.
func WithOperations(ops Operations) ClientOption {
	return func(c *Client) { c.ops = ops }
}

func newClient(kind EngineKind, base Client, ops Operations, opts ...ClientOption) *Client {
	c := &base
	c.kind = kind
	c.DefaultRegistry = DefaultRegistry
	c.DefaultTag = DefaultTag
	c.shell = cmdline.NoShell{}
	c.ops = ops
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Kind returns the engine variant of the client.
func (c *Client) Kind() EngineKind { return c.kind }

// Shell returns the shell that templates are quoted for.
func (c *Client) Shell() cmdline.Shell { return c.shell }

// Operations returns a copy of the client's operation table, suitable as a
// base for WithOperations.
func (c *Client) Operations() Operations { return c.ops }

func (c *Client) unsupported(op string) error {
	return notSupported(op, c.DisplayName)
}

func promise[T any](c *Client, class CallClass, args cmdline.Args, parse func(string, bool) (T, error)) PromiseResponse[T] {
	return PromiseResponse[T]{Command: c.CommandName, Args: args, Class: class, Parse: parse}
}

func void(c *Client, args cmdline.Args) VoidResponse {
	return VoidResponse{Command: c.CommandName, Args: args}
}

// idsResponse parses output as one identifier per line.
func idsResponse(c *Client, args cmdline.Args) PromiseResponse[[]string] {
	return promise(c, ClassMutate, args, func(out string, _ bool) ([]string, error) {
		return asIDs(out), nil
	})
}

// pruneResponse parses prune summaries.
func pruneResponse(c *Client, args cmdline.Args) PromiseResponse[PruneItem] {
	return promise(c, ClassMutate, args, func(out string, _ bool) (PruneItem, error) {
		return parsePrune(out), nil
	})
}
