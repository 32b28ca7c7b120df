// SPDX-License-Identifier: MPL-2.0

package container

import (
	"errors"
	"maps"
	"slices"
	"strings"
	"testing"
	"time"
)

func mustPromise[T any](resp PromiseResponse[T], err error) func(t *testing.T) PromiseResponse[T] {
	return func(t *testing.T) PromiseResponse[T] {
		t.Helper()
		if err != nil {
			t.Fatalf("building response: %v", err)
		}
		return resp
	}
}

func TestVersion_Parse(t *testing.T) {
	t.Parallel()

	docker := mustPromise(NewDockerClient().Version())(t)
	got, err := docker.Parse(`{"Client":{"Version":"26.1.0","ApiVersion":"1.45"},"Server":{"ApiVersion":"1.44"}}`, true)
	if err != nil {
		t.Fatalf("docker Version().Parse() error = %v", err)
	}
	if got != (VersionItem{Client: "1.45", Server: "1.44"}) {
		t.Errorf("docker Version().Parse() = %+v", got)
	}

	podman := mustPromise(NewPodmanClient().Version())(t)
	got, err = podman.Parse(`{"Client":{"APIVersion":"5.0.2"}}`, true)
	if err != nil {
		t.Fatalf("podman Version().Parse() error = %v", err)
	}
	if got != (VersionItem{Client: "5.0.2"}) {
		t.Errorf("podman Version().Parse() = %+v", got)
	}

	// A single document is fatal in either mode.
	for _, out := range []string{"", "   \n", "not json", `{"Client":{}}`} {
		if _, err := docker.Parse(out, false); !errors.Is(err, ErrParse) {
			t.Errorf("Version().Parse(%q) error = %v, want ErrParse", out, err)
		}
	}
}

func TestInfo_Parse(t *testing.T) {
	t.Parallel()

	resp := mustPromise(NewDockerClient().Info())(t)
	got, err := resp.Parse(`{"OperatingSystem":"Docker Desktop","OSType":"linux","Raw":{"ID":"x","NCPU":8}}`, true)
	if err != nil {
		t.Fatalf("Info().Parse() error = %v", err)
	}
	want := InfoItem{OperatingSystem: "Docker Desktop", OSType: "linux", Raw: `{"ID":"x","NCPU":8}`}
	if got != want {
		t.Errorf("Info().Parse() = %+v, want %+v", got, want)
	}

	if _, err := resp.Parse(`{"OperatingSystem":"x","OSType":"linux","Raw":null}`, true); !errors.Is(err, errMissingField) {
		t.Errorf("Info().Parse(null raw) error = %v, want missing field", err)
	}
}

func TestListImages_Parse(t *testing.T) {
	t.Parallel()

	out := strings.Join([]string{
		`{"ID":"sha256:aaa","Repository":"alpine","Tag":"3.19","CreatedAt":"2024-03-01 10:20:30 +0000 UTC","Size":"7MB"}`,
		`{"ID":"sha256:bbb","Repository":"<none>","Tag":"<none>","CreatedAt":"2024-03-01 10:20:30 +0000 UTC","Size":"1kB"}`,
		`{"ID":"","Repository":"broken"}`,
		``,
	}, "\n")
	resp := mustPromise(NewDockerClient().ListImages(ListImagesOptions{}))(t)

	got, err := resp.Parse(out, false)
	if err != nil {
		t.Fatalf("ListImages().Parse(lenient) error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListImages().Parse(lenient) returned %d items, want 2", len(got))
	}
	if got[0].Image.Image != "alpine" || got[0].Image.Tag != "3.19" || got[0].Image.OriginalName != "alpine:3.19" {
		t.Errorf("items[0].Image = %+v", got[0].Image)
	}
	if want := time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC); !got[0].CreatedAt.Equal(want) {
		t.Errorf("items[0].CreatedAt = %v, want %v", got[0].CreatedAt, want)
	}
	if got[0].Size == nil || *got[0].Size != 7*1024*1024 {
		t.Errorf("items[0].Size = %v, want 7MiB", got[0].Size)
	}
	if got[1].Image.Image != "" || got[1].Image.Tag != "" {
		t.Errorf("items[1].Image = %+v, want placeholders cleared", got[1].Image)
	}

	_, err = resp.Parse(out, true)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("ListImages().Parse(strict) error = %v, want *ParseError", err)
	}
	if perr.Line != 3 || perr.Operation != "listImages" {
		t.Errorf("ParseError = %+v, want line 3 of listImages", perr)
	}
}

func TestListContainers_Parse(t *testing.T) {
	t.Parallel()

	out := strings.Join([]string{
		`{"Id":"c1","Names":"web,web-alias","Image":"nginx:1.25","Ports":"0.0.0.0:8080->80/tcp, :::8080->80/tcp, 9000-9001/tcp","Networks":"bridge,front","Labels":"app=web,tier=front","CreatedAt":"2024-03-01 11:20:30 +0100 CET","State":"","Status":"Up 2 hours"}`,
		`not json at all`,
		`{"Id":"c2","Names":"db","Image":"postgres","Ports":"","Networks":"","Labels":"","CreatedAt":"","State":"exited","Status":"Exited (0) 1 hour ago"}`,
	}, "\n")
	resp := mustPromise(NewDockerClient().ListContainers(ListContainersOptions{All: true}))(t)

	got, err := resp.Parse(out, false)
	if err != nil {
		t.Fatalf("ListContainers().Parse(lenient) error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListContainers().Parse(lenient) returned %d items, want 2", len(got))
	}

	web := got[0]
	if web.Name != "web" {
		t.Errorf("Name = %q, want web", web.Name)
	}
	wantPorts := []PortBinding{
		{ContainerPort: 80, Protocol: "tcp", HostPort: 8080, HostIP: "0.0.0.0"},
		{ContainerPort: 80, Protocol: "tcp", HostPort: 8080, HostIP: "::"},
	}
	if !slices.Equal(web.Ports, wantPorts) {
		t.Errorf("Ports = %+v, want %+v", web.Ports, wantPorts)
	}
	if !slices.Equal(web.Networks, []string{"bridge", "front"}) {
		t.Errorf("Networks = %v", web.Networks)
	}
	if !maps.Equal(web.Labels, Labels{"app": "web", "tier": "front"}) {
		t.Errorf("Labels = %v", web.Labels)
	}
	if web.State != StateRunning {
		t.Errorf("State = %q, want %q", web.State, StateRunning)
	}
	if want := time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC); !web.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", web.CreatedAt, want)
	}
	if got[1].State != StateExited || got[1].Image.Image != "postgres" {
		t.Errorf("items[1] = %+v", got[1])
	}

	if _, err := resp.Parse(out, true); !errors.Is(err, ErrParse) {
		t.Errorf("ListContainers().Parse(strict) error = %v, want ErrParse", err)
	}
}

func TestParse_MalformedImageNameIsFatal(t *testing.T) {
	t.Parallel()

	out := strings.Join([]string{
		`{"Id":"c1","Names":"web","Image":"nginx","State":"running"}`,
		`{"Id":"c2","Names":"bad","Image":"notvalid:","State":"running"}`,
	}, "\n")
	resp := mustPromise(NewDockerClient().ListContainers(ListContainersOptions{}))(t)

	for _, strict := range []bool{true, false} {
		_, err := resp.Parse(out, strict)
		if !errors.Is(err, ErrInvalidImageName) {
			t.Errorf("Parse(strict=%v) error = %v, want ErrInvalidImageName", strict, err)
		}
		if !errors.Is(err, ErrParse) {
			t.Errorf("Parse(strict=%v) error = %v, want ErrParse", strict, err)
		}
	}
}

func TestPodmanListContainers_Parse(t *testing.T) {
	t.Parallel()

	out := `{"Id":"p1","Names":["web"],"Image":"docker.io/library/nginx:1.25",` +
		`"Ports":[{"host_ip":"","container_port":80,"host_port":8080,"range":2,"protocol":"tcp"},{"container_port":132,"protocol":"sctp","range":1}],` +
		`"Networks":["podman"],"Labels":{"app":"web"},"Created":1709287200,"State":"running","Status":"Up 2 hours"}`

	resp := mustPromise(NewPodmanClient().ListContainers(ListContainersOptions{}))(t)
	got, err := resp.Parse(out, false)
	if err != nil {
		t.Fatalf("podman ListContainers().Parse() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("returned %d items, want 1", len(got))
	}
	item := got[0]
	wantPorts := []PortBinding{
		{ContainerPort: 80, Protocol: "tcp", HostPort: 8080},
		{ContainerPort: 81, Protocol: "tcp", HostPort: 8081},
	}
	if !slices.Equal(item.Ports, wantPorts) {
		t.Errorf("Ports = %+v, want %+v", item.Ports, wantPorts)
	}
	if item.Image.Registry != "docker.io" || item.Image.Image != "library/nginx" || item.Image.Tag != "1.25" {
		t.Errorf("Image = %+v", item.Image)
	}
	if want := time.Unix(1709287200, 0).UTC(); !item.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", item.CreatedAt, want)
	}
	if item.Name != "web" || item.State != StateRunning {
		t.Errorf("item = %+v", item)
	}
}

func TestListContainers_UnrecognizedPortPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		client *Client
		out    string
		want   []PortBinding
	}{
		{
			name:   "docker port range",
			client: NewDockerClient(),
			out: `{"Id":"c1","Names":"web","Image":"nginx","Ports":"8080->80/tcp, 9000-9001/tcp",` +
				`"Networks":"","Labels":"","CreatedAt":"","State":"running","Status":"Up 1 minute"}`,
			want: []PortBinding{{ContainerPort: 80, Protocol: "tcp", HostPort: 8080}},
		},
		{
			name:   "docker sctp",
			client: NewDockerClient(),
			out: `{"Id":"c1","Names":"web","Image":"nginx","Ports":"53/udp, 53/sctp",` +
				`"Networks":"","Labels":"","CreatedAt":"","State":"running","Status":"Up 1 minute"}`,
			want: []PortBinding{{ContainerPort: 53, Protocol: "udp"}},
		},
		{
			name:   "podman sctp",
			client: NewPodmanClient(),
			out: `{"Id":"p1","Names":["web"],"Image":"nginx",` +
				`"Ports":[{"container_port":53,"protocol":"udp","range":1},{"container_port":132,"protocol":"sctp","range":1}],` +
				`"Networks":[],"Labels":{},"Created":1709287200,"State":"running","Status":"Up 1 minute"}`,
			want: []PortBinding{{ContainerPort: 53, Protocol: "udp"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := mustPromise(tt.client.ListContainers(ListContainersOptions{}))(t)

			got, err := resp.Parse(tt.out, false)
			if err != nil {
				t.Fatalf("ListContainers().Parse(lenient) error = %v", err)
			}
			if len(got) != 1 || !slices.Equal(got[0].Ports, tt.want) {
				t.Errorf("ListContainers().Parse(lenient) = %+v, want one item with ports %+v", got, tt.want)
			}

			items, err := resp.Parse(tt.out, true)
			if !errors.Is(err, ErrParse) || !errors.Is(err, errUnrecognizedPort) {
				t.Errorf("ListContainers().Parse(strict) = %+v, %v, want errUnrecognizedPort", items, err)
			}
		})
	}
}

func TestInspectContainers_Parse(t *testing.T) {
	t.Parallel()

	out := `{"Id":"abc","Name":"/web","ImageId":"sha256:1","ImageName":"nginx:1.25","Status":"running","Platform":"linux",` +
		`"EnvVars":["PATH=/bin","A=b"],` +
		`"Networks":{"front":{"Gateway":"172.18.0.1","IPAddress":"172.18.0.2","MacAddress":"02:42:ac:12:00:02"},"bridge":{"Gateway":"172.17.0.1","IPAddress":"172.17.0.2","MacAddress":"02:42:ac:11:00:02"}},` +
		`"IP":"172.17.0.2","Ports":{"80/tcp":[{"HostIp":"0.0.0.0","HostPort":"8080"}],"443/tcp":null},"PublishAllPorts":false,` +
		`"Mounts":[{"Type":"bind","Source":"/srv","Destination":"/data","RW":false},` +
		`{"Type":"volume","Name":"cache","Source":"/var/lib/docker/volumes/cache/_data","Destination":"/cache","Driver":"local","RW":true},` +
		`{"Type":"tmpfs","Destination":"/tmp","RW":true}],` +
		`"Labels":{"app":"web"},"Entrypoint":["/entry.sh"],"Command":"nginx","CWD":"/",` +
		`"CreatedAt":"2024-03-01T10:00:00Z","StartedAt":"2024-03-01T10:00:01.5Z","FinishedAt":"0001-01-01T00:00:00Z","Raw":{"Id":"abc"}}`

	resp := mustPromise(NewDockerClient().InspectContainers(InspectContainersOptions{Containers: []string{"web"}}))(t)
	got, err := resp.Parse(out, true)
	if err != nil {
		t.Fatalf("InspectContainers().Parse() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("returned %d items, want 1", len(got))
	}
	item := got[0]

	if item.Name != "web" {
		t.Errorf("Name = %q, want web", item.Name)
	}
	if names := []string{item.Networks[0].Name, item.Networks[1].Name}; !slices.Equal(names, []string{"bridge", "front"}) {
		t.Errorf("network order = %v, want sorted", names)
	}
	wantPorts := []PortBinding{
		{ContainerPort: 443, Protocol: "tcp"},
		{ContainerPort: 80, Protocol: "tcp", HostPort: 8080, HostIP: "0.0.0.0"},
	}
	if !slices.Equal(item.Ports, wantPorts) {
		t.Errorf("Ports = %+v, want %+v", item.Ports, wantPorts)
	}
	wantMounts := []ContainerMount{
		{Type: MountBind, Source: "/srv", Destination: "/data", ReadOnly: true},
		{Type: MountVolume, Name: "cache", Source: "/var/lib/docker/volumes/cache/_data", Destination: "/cache", Driver: "local"},
	}
	if !slices.Equal(item.Mounts, wantMounts) {
		t.Errorf("Mounts = %+v, want %+v", item.Mounts, wantMounts)
	}
	if !slices.Equal(item.Command, []string{"nginx"}) || !slices.Equal(item.Entrypoint, []string{"/entry.sh"}) {
		t.Errorf("Command = %v, Entrypoint = %v", item.Command, item.Entrypoint)
	}
	if !maps.Equal(item.Env, map[string]string{"PATH": "/bin", "A": "b"}) {
		t.Errorf("Env = %v", item.Env)
	}
	if want := time.Date(2024, 3, 1, 10, 0, 1, 500_000_000, time.UTC); !item.StartedAt.Equal(want) {
		t.Errorf("StartedAt = %v, want %v", item.StartedAt, want)
	}
	if !item.FinishedAt.IsZero() {
		t.Errorf("FinishedAt = %v, want zero", item.FinishedAt)
	}
	if item.Raw != `{"Id":"abc"}` {
		t.Errorf("Raw = %q", item.Raw)
	}
}

func TestInspectImages_PortKeyPolicy(t *testing.T) {
	t.Parallel()

	out := `{"Id":"sha256:1","RepoTags":["app:1"],"Ports":{"http/tcp":{},"8080/tcp":{}},"Volumes":{"/data":{},"/cache":{}},` +
		`"RepoDigests":["docker.io/app@sha256:1"],"Architecture":"AMD64","OperatingSystem":"Linux","Raw":{}}`

	resp := mustPromise(NewDockerClient().InspectImages(InspectImagesOptions{ImageRefs: []string{"app:1"}}))(t)
	if _, err := resp.Parse(out, true); !errors.Is(err, ErrParse) {
		t.Errorf("InspectImages().Parse(strict) error = %v, want ErrParse", err)
	}

	got, err := resp.Parse(out, false)
	if err != nil {
		t.Fatalf("InspectImages().Parse(lenient) error = %v", err)
	}
	item := got[0]
	if !slices.Equal(item.Ports, []PortBinding{{ContainerPort: 8080, Protocol: "tcp"}}) {
		t.Errorf("Ports = %+v", item.Ports)
	}
	if !slices.Equal(item.Volumes, []string{"/cache", "/data"}) {
		t.Errorf("Volumes = %v", item.Volumes)
	}
	if item.IsLocalImage {
		t.Error("IsLocalImage = true, want false")
	}
	if item.Architecture != "amd64" || item.OperatingSystem != "linux" {
		t.Errorf("Architecture = %q, OperatingSystem = %q", item.Architecture, item.OperatingSystem)
	}
}

func TestNetworks_Parse(t *testing.T) {
	t.Parallel()

	dockerList := mustPromise(NewDockerClient().ListNetworks(ListNetworksOptions{}))(t)
	got, err := dockerList.Parse(`{"Id":"n1","Name":"bridge","Driver":"bridge","Scope":"local","Labels":"","IPv6":"false","Internal":"true","CreatedAt":"2024-03-01 10:20:30.123 +0000 UTC"}`, true)
	if err != nil {
		t.Fatalf("ListNetworks().Parse() error = %v", err)
	}
	if len(got) != 1 || got[0].IPv6 || !got[0].Internal || got[0].Scope != "local" {
		t.Errorf("ListNetworks().Parse() = %+v", got)
	}

	podmanInspect := mustPromise(NewPodmanClient().InspectNetworks(InspectNetworksOptions{Networks: []string{"podman"}}))(t)
	doc := `{"name":"podman","id":"2f259bab","driver":"bridge","created":"2024-03-01T10:20:30Z","ipv6_enabled":false,"internal":false,` +
		`"labels":{},"ipam_options":{"driver":"host-local"},"subnets":[{"subnet":"10.88.0.0/16","gateway":"10.88.0.1"}]}`
	items, err := podmanInspect.Parse(doc, true)
	if err != nil {
		t.Fatalf("podman InspectNetworks().Parse() error = %v", err)
	}
	want := NetworkIPAM{Driver: "host-local", Config: []NetworkSubnet{{Subnet: "10.88.0.0/16", Gateway: "10.88.0.1"}}}
	n := items[0]
	if n.IPAM.Driver != want.Driver || !slices.Equal(n.IPAM.Config, want.Config) {
		t.Errorf("IPAM = %+v, want %+v", n.IPAM, want)
	}
	if n.Scope != "local" {
		t.Errorf("Scope = %q, want local", n.Scope)
	}
	if n.Raw != doc {
		t.Errorf("Raw = %q, want the document", n.Raw)
	}
}

func TestContexts_Parse(t *testing.T) {
	t.Parallel()

	dockerList := mustPromise(NewDockerClient().ListContexts())(t)
	got, err := dockerList.Parse(strings.Join([]string{
		`{"Name":"default","Current":true,"Description":"Current DOCKER_HOST based configuration","DockerEndpoint":"unix:///var/run/docker.sock"}`,
		`{"Name":"remote","Current":false,"DockerEndpoint":"ssh://me@host"}`,
	}, "\n"), true)
	if err != nil {
		t.Fatalf("ListContexts().Parse() error = %v", err)
	}
	if len(got) != 2 || !got[0].Current || got[1].ContainerEndpoint != "ssh://me@host" {
		t.Errorf("ListContexts().Parse() = %+v", got)
	}

	podmanList := mustPromise(NewPodmanClient().ListContexts())(t)
	got, err = podmanList.Parse(`{"Name":"podman-machine-default","URI":"ssh://core@127.0.0.1:50000/run/podman/podman.sock","Default":true}`, true)
	if err != nil {
		t.Fatalf("podman ListContexts().Parse() error = %v", err)
	}
	if len(got) != 1 || !got[0].Current || !strings.HasPrefix(got[0].ContainerEndpoint, "ssh://") {
		t.Errorf("podman ListContexts().Parse() = %+v", got)
	}

	podmanRemove := mustPromise(NewPodmanClient().RemoveContexts(ContextsOptions{Contexts: []string{"a", "b"}}))(t)
	removed, err := podmanRemove.Parse("", true)
	if err != nil || !slices.Equal(removed, []string{"a", "b"}) {
		t.Errorf("podman RemoveContexts().Parse(empty) = %v, %v, want requested names", removed, err)
	}

	inspect := mustPromise(NewDockerClient().InspectContexts(ContextsOptions{Contexts: []string{"default"}}))(t)
	doc := `{"Name":"default","Metadata":{"Description":"local"},"Endpoints":{}}`
	items, err := inspect.Parse(doc, true)
	if err != nil {
		t.Fatalf("InspectContexts().Parse() error = %v", err)
	}
	if items[0].Description != "local" || items[0].Raw != doc {
		t.Errorf("InspectContexts().Parse() = %+v", items[0])
	}
}

func TestStatPath_Parse(t *testing.T) {
	t.Parallel()

	linux := mustPromise(NewDockerClient().StatPath(StatPathOptions{Container: "c", Path: "/etc/hosts"}))(t)
	item, err := linux.Parse("81a4 1 0 0 12 1 2 3 /etc/hosts\n", true)
	if err != nil || item == nil {
		t.Fatalf("StatPath().Parse() = %v, %v", item, err)
	}
	if item.Path != "/etc/hosts" || item.Type != FileTypeFile {
		t.Errorf("StatPath().Parse() = %+v", item)
	}
	if item, err := linux.Parse("stat: cannot stat '/etc/hosts': No such file or directory\n", true); err != nil || item != nil {
		t.Errorf("StatPath().Parse(missing) = %v, %v, want nil, nil", item, err)
	}

	windows := mustPromise(NewDockerClient().StatPath(StatPathOptions{Container: "c", Path: `C:\app\App.exe`, OS: OSWindows}))(t)
	item, err = windows.Parse("03/01/2024  02:05 PM              1234 app.exe\r\n", true)
	if err != nil || item == nil {
		t.Fatalf("windows StatPath().Parse() = %v, %v", item, err)
	}
	if item.Path != `C:\app\app.exe` || item.Size != 1234 {
		t.Errorf("windows StatPath().Parse() = %+v", item)
	}
}

func TestMutations_Parse(t *testing.T) {
	t.Parallel()

	run := mustPromise(NewDockerClient().RunContainer(RunContainerOptions{ImageRef: "nginx", Detached: true}))(t)
	id, err := run.Parse("3f2a9c0d1e\nWARNING: something\n", true)
	if err != nil || id != "3f2a9c0d1e" {
		t.Errorf("RunContainer(detached).Parse() = %q, %v", id, err)
	}

	attached := mustPromise(NewDockerClient().RunContainer(RunContainerOptions{ImageRef: "alpine"}))(t)
	if out, _ := attached.Parse("hello\nworld\n", true); out != "hello\nworld\n" {
		t.Errorf("RunContainer(attached).Parse() = %q, want full output", out)
	}

	rm := mustPromise(NewDockerClient().RemoveContainers(RemoveContainersOptions{Containers: []string{"a", "b"}}))(t)
	if ids, _ := rm.Parse("a\nb\n", true); !slices.Equal(ids, []string{"a", "b"}) {
		t.Errorf("RemoveContainers().Parse() = %v", ids)
	}
}
