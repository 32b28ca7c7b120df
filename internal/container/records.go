// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types/events"
)

// Raw engine records. Field types are checked by json.Unmarshal; validate
// checks that the fields every normalizer relies on are present.

var errMissingField = errors.New("missing required field")

func requireField(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w %q", errMissingField, name)
	}
	return nil
}

func requireRaw(raw json.RawMessage) error {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return fmt.Errorf("%w %q", errMissingField, "Raw")
	}
	return nil
}

// labelField accepts labels as the comma separated string of docker listings,
// as an object, or as null.
type labelField Labels

func (l *labelField) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = labelField(ParseLabels(s))
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*l = labelField(m)
	return nil
}

// flexBool accepts true/false as JSON booleans or as strings.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = flexBool(strings.EqualFold(s, "true"))
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = flexBool(v)
	return nil
}

// stringList accepts a JSON array of strings, a single string or null.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		if v == "" {
			*s = nil
		} else {
			*s = stringList{v}
		}
		return nil
	}
	var v []string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = v
	return nil
}

// flexTime accepts a timestamp as a string or as unix seconds.
type flexTime struct {
	Text string
	Unix int64
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &t.Text)
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("timestamp %s: %w", data, err)
	}
	t.Unix = n
	return nil
}

// Time resolves the timestamp with layouts, falling back to unix seconds.
func (t flexTime) Time(layouts ...string) time.Time {
	if t.Text != "" {
		ts, _ := ParseDate(t.Text, layouts...)
		return ts
	}
	if t.Unix != 0 {
		return time.Unix(t.Unix, 0).UTC()
	}
	return time.Time{}
}

type (
	dockerVersionRecord struct {
		Client struct {
			APIVersion string `json:"ApiVersion"`
		}
		Server *struct {
			APIVersion string `json:"ApiVersion"`
		}
	}

	podmanVersionRecord struct {
		Client struct {
			APIVersion string
		}
		Server *struct {
			APIVersion string
		}
	}

	infoRecord struct {
		OperatingSystem string
		OSType          string
		Raw             json.RawMessage
	}

	listImageRecord struct {
		ID         string
		Repository string
		Tag        string
		CreatedAt  string
		Size       any
	}

	inspectImageRecord struct {
		ID              string `json:"Id"`
		RepoTags        []string
		EnvVars         []string
		Labels          map[string]string
		Ports           map[string]json.RawMessage
		Volumes         map[string]json.RawMessage
		Entrypoint      stringList
		Command         stringList
		CWD             string
		RepoDigests     []string
		Architecture    string
		OperatingSystem string
		CreatedAt       string
		User            string
		Raw             json.RawMessage
	}

	listContainerRecord struct {
		ID        string `json:"Id"`
		Names     string
		Image     string
		Ports     string
		Networks  string
		Labels    labelField
		CreatedAt string
		State     string
		Status    string
	}

	podmanPortRecord struct {
		HostIP        string `json:"host_ip"`
		ContainerPort int    `json:"container_port"`
		HostPort      int    `json:"host_port"`
		Range         int    `json:"range"`
		Protocol      string `json:"protocol"`
	}

	podmanListContainerRecord struct {
		ID       string `json:"Id"`
		Names    []string
		Image    string
		Ports    []podmanPortRecord
		Networks []string
		Labels   map[string]string
		Created  flexTime
		State    string
		Status   string
	}

	hostBinding struct {
		HostIP   string `json:"HostIp"`
		HostPort string
	}

	inspectContainerNetwork struct {
		Gateway    string
		IPAddress  string
		MacAddress string
	}

	inspectContainerMount struct {
		Type        string
		Name        string
		Source      string
		Destination string
		Driver      string
		RW          bool
	}

	inspectContainerRecord struct {
		ID              string `json:"Id"`
		Name            string
		ImageID         string `json:"ImageId"`
		ImageName       string
		Status          string
		Platform        string
		EnvVars         []string
		Networks        map[string]inspectContainerNetwork
		IP              string
		Ports           map[string][]hostBinding
		PublishAllPorts bool
		Mounts          []inspectContainerMount
		Labels          map[string]string
		Entrypoint      stringList
		Command         stringList
		CWD             string
		CreatedAt       string
		StartedAt       string
		FinishedAt      string
		Raw             json.RawMessage
	}

	listVolumeRecord struct {
		Name       string
		Driver     string
		Labels     labelField
		Mountpoint string
		Scope      string
		CreatedAt  string
		Size       any
	}

	inspectVolumeRecord struct {
		Name       string
		Driver     string
		Mountpoint string
		Scope      string
		Labels     map[string]string
		Options    map[string]string
		CreatedAt  string
		Raw        json.RawMessage
	}

	listNetworkRecord struct {
		ID        string `json:"Id"`
		Name      string
		Driver    string
		Scope     string
		Labels    labelField
		IPv6      flexBool
		Internal  flexBool
		CreatedAt string
	}

	inspectNetworkRecord struct {
		ID     string `json:"Id"`
		Name   string
		Driver string
		Scope  string
		Labels map[string]string
		IPAM   *struct {
			Driver string
			Config []struct {
				Subnet  string
				Gateway string
			}
		} `json:"Ipam"`
		EnableIPv6 bool
		Internal   bool
		Attachable bool
		Ingress    bool
		CreatedAt  string
		Raw        json.RawMessage
	}

	podmanInspectNetworkRecord struct {
		Name        string            `json:"name"`
		ID          string            `json:"id"`
		Driver      string            `json:"driver"`
		Created     string            `json:"created"`
		IPv6Enabled bool              `json:"ipv6_enabled"`
		Internal    bool              `json:"internal"`
		Labels      map[string]string `json:"labels"`
		IPAMOptions map[string]string `json:"ipam_options"`
		Subnets     []struct {
			Subnet  string `json:"subnet"`
			Gateway string `json:"gateway"`
		} `json:"subnets"`

		raw string
	}

	dockerEventRecord struct {
		events.Message
	}

	podmanEventRecord struct {
		ID         string
		Name       string
		Image      string
		Status     string
		Type       string
		Time       flexTime
		TimeNano   int64 `json:"timeNano"`
		Attributes map[string]string
	}

	dockerContextRecord struct {
		Name           string
		Current        bool
		Description    string
		DockerEndpoint string
	}

	podmanConnectionRecord struct {
		Name    string
		URI     string
		Default bool
	}

	inspectContextRecord struct {
		Name     string
		Metadata *struct {
			Description string
		}

		raw string
	}
)

func (r *dockerVersionRecord) validate() error {
	return requireField("Client.ApiVersion", r.Client.APIVersion)
}

func (r *podmanVersionRecord) validate() error {
	return requireField("Client.APIVersion", r.Client.APIVersion)
}

func (r *infoRecord) validate() error {
	if err := requireField("OSType", r.OSType); err != nil {
		return err
	}
	return requireRaw(r.Raw)
}

func (r *listImageRecord) validate() error {
	return requireField("ID", r.ID)
}

func (r *inspectImageRecord) validate() error {
	if err := requireField("Id", r.ID); err != nil {
		return err
	}
	return requireRaw(r.Raw)
}

func (r *listContainerRecord) validate() error {
	if err := requireField("Id", r.ID); err != nil {
		return err
	}
	return requireField("Names", r.Names)
}

func (r *podmanListContainerRecord) validate() error {
	if err := requireField("Id", r.ID); err != nil {
		return err
	}
	if len(r.Names) == 0 {
		return fmt.Errorf("%w %q", errMissingField, "Names")
	}
	return nil
}

func (r *inspectContainerRecord) validate() error {
	if err := requireField("Id", r.ID); err != nil {
		return err
	}
	return requireRaw(r.Raw)
}

func (r *listVolumeRecord) validate() error {
	if err := requireField("Name", r.Name); err != nil {
		return err
	}
	return requireField("Driver", r.Driver)
}

func (r *inspectVolumeRecord) validate() error {
	if err := requireField("Name", r.Name); err != nil {
		return err
	}
	return requireRaw(r.Raw)
}

func (r *listNetworkRecord) validate() error {
	if err := requireField("Id", r.ID); err != nil {
		return err
	}
	return requireField("Name", r.Name)
}

func (r *inspectNetworkRecord) validate() error {
	if err := requireField("Id", r.ID); err != nil {
		return err
	}
	if err := requireField("Name", r.Name); err != nil {
		return err
	}
	return requireRaw(r.Raw)
}

func (r *podmanInspectNetworkRecord) validate() error {
	if err := requireField("id", r.ID); err != nil {
		return err
	}
	return requireField("name", r.Name)
}

func (r *dockerEventRecord) validate() error {
	if err := requireField("Type", string(r.Type)); err != nil {
		return err
	}
	if err := requireField("Action", string(r.Action)); err != nil {
		return err
	}
	if r.Time == 0 && r.TimeNano == 0 {
		return fmt.Errorf("%w %q", errMissingField, "time")
	}
	return nil
}

func (r *podmanEventRecord) validate() error {
	if err := requireField("Type", r.Type); err != nil {
		return err
	}
	return requireField("Status", r.Status)
}

func (r *dockerContextRecord) validate() error {
	return requireField("Name", r.Name)
}

func (r *podmanConnectionRecord) validate() error {
	return requireField("Name", r.Name)
}

func (r *inspectContextRecord) validate() error {
	return requireField("Name", r.Name)
}

// UnmarshalJSON keeps the document itself, which is the raw form of a context.
func (r *inspectContextRecord) UnmarshalJSON(data []byte) error {
	type plain inspectContextRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = inspectContextRecord(p)
	r.raw = string(data)
	return nil
}

// UnmarshalJSON keeps the document, since podman has no template for the
// whole network object.
func (r *podmanInspectNetworkRecord) UnmarshalJSON(data []byte) error {
	type plain podmanInspectNetworkRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = podmanInspectNetworkRecord(p)
	r.raw = string(data)
	return nil
}
