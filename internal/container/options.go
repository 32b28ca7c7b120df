// SPDX-License-Identifier: MPL-2.0

package container

import "time"

// Option structs are plain data. None of them perform I/O and none of them
// are validated beyond what argument construction needs: empty fields simply
// contribute no arguments.

type (
	// Labels is a string-keyed label map.
	Labels map[string]string

	// LabelFilters filters by label, keyed by label name.
	LabelFilters map[string]LabelFilter

	// LabelFilter matches one label by presence or by exact value. The zero
	// value matches nothing and contributes no filter.
	LabelFilter struct {
		Match LabelMatch
		Value string
	}

	// LabelMatch selects how a LabelFilter matches.
	LabelMatch int

	// OS names the operating system of a container for file operations.
	OS string

	// EventType is an engine object type reported by the event stream.
	EventType string

	// EventAction is an event verb reported by the event stream.
	EventAction string

	// MountType is the kind of mount requested for a new container.
	MountType string
)

const (
	// LabelIgnore disables the filter.
	LabelIgnore LabelMatch = iota
	// LabelPresence matches objects carrying the label with any value.
	LabelPresence
	// LabelValue matches objects whose label equals Value, which may be empty.
	LabelValue
)

// LabelPresent returns a filter matching any value of the label.
func LabelPresent() LabelFilter { return LabelFilter{Match: LabelPresence} }

// LabelEquals returns a filter matching the label's exact value.
func LabelEquals(value string) LabelFilter { return LabelFilter{Match: LabelValue, Value: value} }

const (
	// OSLinux selects POSIX shell tooling inside the container.
	OSLinux OS = "linux"
	// OSWindows selects cmd.exe tooling inside the container.
	OSWindows OS = "windows"

	// MountBind is a host bind mount.
	MountBind MountType = "bind"
	// MountVolume is a named volume mount.
	MountVolume MountType = "volume"
)

const (
	EventTypeContainer EventType = "container"
	EventTypeImage     EventType = "image"
	EventTypeNetwork   EventType = "network"
	EventTypeVolume    EventType = "volume"
	EventTypeDaemon    EventType = "daemon"
	EventTypePlugin    EventType = "plugin"
	EventTypeConfig    EventType = "config"
	EventTypeSecret    EventType = "secret"
	EventTypeService   EventType = "service"
	EventTypeNode      EventType = "node"
)

type (
	// EventStreamOptions filters the engine event stream.
	EventStreamOptions struct {
		Since  string
		Until  string
		Types  []EventType
		Events []EventAction
		Labels LabelFilters
	}

	// LoginOptions authenticates against a registry. The password is passed
	// to the engine on stdin.
	LoginOptions struct {
		Username string
		Password string
		Registry string
	}

	// LogoutOptions removes stored registry credentials.
	LogoutOptions struct {
		Registry string
	}

	// BuildImageOptions describes an image build.
	BuildImageOptions struct {
		Path        string
		File        string
		Stage       string
		Tags        []string
		Pull        bool
		Labels      Labels
		BuildArgs   map[string]string
		ImageIDFile string
		// DisableContentTrust is emitted only when set.
		DisableContentTrust *bool
		// CustomOptions is passed through verbatim before the build context.
		CustomOptions string
	}

	// ListImagesOptions filters an image listing.
	ListImagesOptions struct {
		All        bool
		Dangling   *bool
		References []string
		Labels     LabelFilters
	}

	// RemoveImagesOptions removes images by reference.
	RemoveImagesOptions struct {
		ImageRefs []string
		Force     bool
	}

	// PruneImagesOptions removes unused images.
	PruneImagesOptions struct {
		All bool
	}

	// PullImageOptions pulls an image.
	PullImageOptions struct {
		ImageRef            string
		AllTags             bool
		DisableContentTrust *bool
	}

	// PushImageOptions pushes an image.
	PushImageOptions struct {
		ImageRef string
	}

	// TagImageOptions adds a tag to an image.
	TagImageOptions struct {
		FromImageRef string
		ToImageRef   string
	}

	// InspectImagesOptions inspects images by reference.
	InspectImagesOptions struct {
		ImageRefs []string
	}

	// PortBinding maps a container port, optionally to a host address.
	PortBinding struct {
		ContainerPort int    `json:"containerPort"`
		Protocol      string `json:"protocol"`
		HostPort      int    `json:"hostPort,omitempty"`
		HostIP        string `json:"hostIp,omitempty"`
	}

	// RunMount is a mount requested for a new container.
	RunMount struct {
		Type        MountType
		Source      string
		Destination string
		ReadOnly    bool
	}

	// RunContainerOptions starts a new container.
	RunContainerOptions struct {
		ImageRef        string
		Name            string
		Detached        bool
		Interactive     bool
		RemoveOnExit    bool
		Ports           []PortBinding
		PublishAllPorts bool
		Network         string
		NetworkAlias    string
		AddHost         map[string]string
		Mounts          []RunMount
		Labels          Labels
		Env             map[string]string
		EnvFiles        []string
		Entrypoint      string
		// CustomOptions is passed through verbatim before the image reference.
		CustomOptions string
		Command       []string
	}

	// ExecContainerOptions runs a command in a running container.
	ExecContainerOptions struct {
		Container   string
		Command     []string
		Interactive bool
		Detached    bool
		TTY         bool
		Env         map[string]string
	}

	// ListContainersOptions filters a container listing.
	ListContainersOptions struct {
		All            bool
		Running        bool
		Exited         bool
		Labels         LabelFilters
		Names          []string
		ImageAncestors []string
		Volumes        []string
		Networks       []string
	}

	// ContainerRefsOptions names containers for start and restart.
	ContainerRefsOptions struct {
		Containers []string
	}

	// StopContainersOptions stops containers.
	StopContainersOptions struct {
		Containers []string
		// Time is the grace period before the engine kills the container.
		Time *time.Duration
	}

	// RemoveContainersOptions removes containers.
	RemoveContainersOptions struct {
		Containers []string
		Force      bool
	}

	// StatsContainersOptions requests resource usage statistics.
	StatsContainersOptions struct {
		All bool
	}

	// LogsForContainerOptions streams container logs.
	LogsForContainerOptions struct {
		Container  string
		Follow     bool
		Timestamps bool
		// Tail limits output to the last N lines when positive.
		Tail  int
		Since string
		Until string
	}

	// InspectContainersOptions inspects containers by reference.
	InspectContainersOptions struct {
		Containers []string
	}

	// CreateVolumeOptions creates a volume.
	CreateVolumeOptions struct {
		Name   string
		Driver string
	}

	// ListVolumesOptions filters a volume listing.
	ListVolumesOptions struct {
		Dangling *bool
		Driver   string
		Labels   LabelFilters
	}

	// RemoveVolumesOptions removes volumes.
	RemoveVolumesOptions struct {
		Volumes []string
		Force   bool
	}

	// InspectVolumesOptions inspects volumes by name.
	InspectVolumesOptions struct {
		Volumes []string
	}

	// CreateNetworkOptions creates a network.
	CreateNetworkOptions struct {
		Name   string
		Driver string
	}

	// ListNetworksOptions filters a network listing.
	ListNetworksOptions struct {
		Labels LabelFilters
	}

	// RemoveNetworksOptions removes networks.
	RemoveNetworksOptions struct {
		Networks []string
		Force    bool
	}

	// InspectNetworksOptions inspects networks by name or ID.
	InspectNetworksOptions struct {
		Networks []string
	}

	// ContextsOptions names engine contexts.
	ContextsOptions struct {
		Contexts []string
	}

	// UseContextOptions switches the active engine context.
	UseContextOptions struct {
		Context string
	}

	// ListFilesOptions lists a directory inside a container.
	ListFilesOptions struct {
		Container string
		Path      string
		OS        OS
	}

	// StatPathOptions describes a single path inside a container.
	StatPathOptions struct {
		Container string
		Path      string
		OS        OS
	}

	// ReadFileOptions copies a file out of a container. Without OutputFile
	// the content is streamed to stdout: a tar archive on Linux containers
	// (see ReadTarFile) and plain text on Windows containers.
	ReadFileOptions struct {
		Container  string
		Path       string
		OS         OS
		OutputFile string
	}

	// WriteFileOptions copies a file or a tar stream on stdin into a
	// container.
	WriteFileOptions struct {
		Container string
		Path      string
		OS        OS
		// InputFile is a host path. When empty the engine reads a tar
		// archive from stdin.
		InputFile string
	}
)
