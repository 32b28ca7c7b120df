// SPDX-License-Identifier: MPL-2.0

package container

import "time"

// FileType classifies entries returned by file listings.
type FileType string

const (
	FileTypeFile      FileType = "file"
	FileTypeDirectory FileType = "directory"
	FileTypeSymlink   FileType = "symlink"
	FileTypeUnknown   FileType = "unknown"
)

type (
	// ImageNameInfo is an image reference split into its components. Absent
	// components are empty strings.
	ImageNameInfo struct {
		OriginalName string `json:"originalName"`
		Registry     string `json:"registry,omitempty"`
		Image        string `json:"image,omitempty"`
		Tag          string `json:"tag,omitempty"`
		Digest       string `json:"digest,omitempty"`
	}

	// VersionItem reports the client and server API versions.
	VersionItem struct {
		Client string `json:"client"`
		Server string `json:"server,omitempty"`
	}

	// InfoItem reports engine host information.
	InfoItem struct {
		OperatingSystem string `json:"operatingSystem,omitempty"`
		OSType          string `json:"osType,omitempty"`
		Raw             string `json:"raw"`
	}

	// EventActor identifies the object an event refers to.
	EventActor struct {
		ID         string            `json:"id"`
		Attributes map[string]string `json:"attributes,omitempty"`
	}

	// EventItem is one entry of the engine event stream.
	EventItem struct {
		Type      EventType   `json:"type"`
		Action    EventAction `json:"action"`
		Timestamp time.Time   `json:"timestamp"`
		Actor     EventActor  `json:"actor"`
		Raw       string      `json:"raw"`
	}

	// ListImagesItem is one image from an image listing.
	ListImagesItem struct {
		ID        string        `json:"id"`
		Image     ImageNameInfo `json:"image"`
		CreatedAt time.Time     `json:"createdAt,omitzero"`
		Size      *int64        `json:"size,omitempty"`
	}

	// InspectImagesItem is the detailed view of one image.
	InspectImagesItem struct {
		ID               string            `json:"id"`
		Image            ImageNameInfo     `json:"image"`
		RepoDigests      []string          `json:"repoDigests,omitempty"`
		IsLocalImage     bool              `json:"isLocalImage"`
		Env              map[string]string `json:"environmentVariables,omitempty"`
		Ports            []PortBinding     `json:"ports,omitempty"`
		Volumes          []string          `json:"volumes,omitempty"`
		Labels           Labels            `json:"labels,omitempty"`
		Entrypoint       []string          `json:"entrypoint,omitempty"`
		Command          []string          `json:"command,omitempty"`
		CurrentDirectory string            `json:"currentDirectory,omitempty"`
		Architecture     string            `json:"architecture,omitempty"`
		OperatingSystem  string            `json:"operatingSystem,omitempty"`
		CreatedAt        time.Time         `json:"createdAt,omitzero"`
		User             string            `json:"user,omitempty"`
		Raw              string            `json:"raw"`
	}

	// ListContainersItem is one container from a container listing.
	ListContainersItem struct {
		ID        string        `json:"id"`
		Name      string        `json:"name"`
		Image     ImageNameInfo `json:"image"`
		Labels    Labels        `json:"labels,omitempty"`
		Ports     []PortBinding `json:"ports,omitempty"`
		Networks  []string      `json:"networks,omitempty"`
		CreatedAt time.Time     `json:"createdAt,omitzero"`
		State     string        `json:"state"`
		Status    string        `json:"status,omitempty"`
	}

	// ContainerNetwork is a network a container is attached to.
	ContainerNetwork struct {
		Name       string `json:"name"`
		Gateway    string `json:"gateway,omitempty"`
		IPAddress  string `json:"ipAddress,omitempty"`
		MACAddress string `json:"macAddress,omitempty"`
	}

	// ContainerMount is a bind or volume mount of an existing container.
	ContainerMount struct {
		Type        MountType `json:"type"`
		Name        string    `json:"name,omitempty"`
		Source      string    `json:"source"`
		Destination string    `json:"destination"`
		Driver      string    `json:"driver,omitempty"`
		ReadOnly    bool      `json:"readOnly"`
	}

	// InspectContainersItem is the detailed view of one container.
	InspectContainersItem struct {
		ID               string             `json:"id"`
		Name             string             `json:"name"`
		ImageID          string             `json:"imageId"`
		Image            ImageNameInfo      `json:"image"`
		Status           string             `json:"status,omitempty"`
		Platform         string             `json:"platform,omitempty"`
		Env              map[string]string  `json:"environmentVariables,omitempty"`
		Networks         []ContainerNetwork `json:"networks,omitempty"`
		IPAddress        string             `json:"ipAddress,omitempty"`
		Ports            []PortBinding      `json:"ports,omitempty"`
		PublishAllPorts  bool               `json:"publishAllPorts,omitempty"`
		Mounts           []ContainerMount   `json:"mounts,omitempty"`
		Labels           Labels             `json:"labels,omitempty"`
		Entrypoint       []string           `json:"entrypoint,omitempty"`
		Command          []string           `json:"command,omitempty"`
		CurrentDirectory string             `json:"currentDirectory,omitempty"`
		CreatedAt        time.Time          `json:"createdAt,omitzero"`
		StartedAt        time.Time          `json:"startedAt,omitzero"`
		FinishedAt       time.Time          `json:"finishedAt,omitzero"`
		Raw              string             `json:"raw"`
	}

	// ListVolumeItem is one volume from a volume listing.
	ListVolumeItem struct {
		Name       string    `json:"name"`
		Driver     string    `json:"driver"`
		Labels     Labels    `json:"labels,omitempty"`
		Mountpoint string    `json:"mountpoint,omitempty"`
		Scope      string    `json:"scope,omitempty"`
		CreatedAt  time.Time `json:"createdAt,omitzero"`
		Size       *int64    `json:"size,omitempty"`
	}

	// InspectVolumesItem is the detailed view of one volume.
	InspectVolumesItem struct {
		Name       string            `json:"name"`
		Driver     string            `json:"driver"`
		Mountpoint string            `json:"mountpoint,omitempty"`
		Scope      string            `json:"scope,omitempty"`
		Labels     Labels            `json:"labels,omitempty"`
		Options    map[string]string `json:"options,omitempty"`
		CreatedAt  time.Time         `json:"createdAt,omitzero"`
		Raw        string            `json:"raw"`
	}

	// ListNetworkItem is one network from a network listing.
	ListNetworkItem struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Driver    string    `json:"driver"`
		Labels    Labels    `json:"labels,omitempty"`
		Scope     string    `json:"scope,omitempty"`
		IPv6      bool      `json:"ipv6"`
		Internal  bool      `json:"internal"`
		CreatedAt time.Time `json:"createdAt,omitzero"`
	}

	// NetworkSubnet is one IPAM pool of a network.
	NetworkSubnet struct {
		Subnet  string `json:"subnet"`
		Gateway string `json:"gateway,omitempty"`
	}

	// NetworkIPAM is the address management configuration of a network.
	NetworkIPAM struct {
		Driver string          `json:"driver,omitempty"`
		Config []NetworkSubnet `json:"config,omitempty"`
	}

	// InspectNetworksItem is the detailed view of one network.
	InspectNetworksItem struct {
		ID         string      `json:"id"`
		Name       string      `json:"name"`
		Driver     string      `json:"driver"`
		Scope      string      `json:"scope,omitempty"`
		Labels     Labels      `json:"labels,omitempty"`
		IPAM       NetworkIPAM `json:"ipam"`
		IPv6       bool        `json:"ipv6"`
		Internal   bool        `json:"internal"`
		Attachable bool        `json:"attachable"`
		Ingress    bool        `json:"ingress"`
		CreatedAt  time.Time   `json:"createdAt,omitzero"`
		Raw        string      `json:"raw"`
	}

	// ListContextItem is one engine context or connection.
	ListContextItem struct {
		Name              string `json:"name"`
		Current           bool   `json:"current"`
		Description       string `json:"description,omitempty"`
		ContainerEndpoint string `json:"containerEndpoint,omitempty"`
	}

	// InspectContextsItem is the detailed view of one engine context.
	InspectContextsItem struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		Raw         string `json:"raw"`
	}

	// ListFilesItem is one directory entry inside a container.
	ListFilesItem struct {
		Name  string    `json:"name"`
		Path  string    `json:"path"`
		Type  FileType  `json:"type"`
		Mode  uint32    `json:"mode,omitempty"`
		Size  int64     `json:"size"`
		ATime time.Time `json:"atime,omitzero"`
		MTime time.Time `json:"mtime,omitzero"`
		CTime time.Time `json:"ctime,omitzero"`
	}

	// PruneItem summarizes a prune operation.
	PruneItem struct {
		Deleted        []string `json:"deleted,omitempty"`
		SpaceReclaimed *int64   `json:"spaceReclaimed,omitempty"`
	}
)
