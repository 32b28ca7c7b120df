// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/invowk/ctrkit/internal/cmdline"
	"github.com/invowk/ctrkit/internal/container"
)

var project = CommonOptions{Files: []string{"compose.yaml", "compose.override.yaml"}, ProjectName: "shop"}

func TestClient_Args(t *testing.T) {
	t.Parallel()

	timeout := 30 * time.Second
	c := New()

	tests := []struct {
		name string
		args cmdline.Args
		want []string
	}{
		{
			name: "up",
			args: c.Up(UpOptions{
				CommonOptions: CommonOptions{Files: []string{"compose.yaml"}, EnvFile: ".env"},
				Profiles:      []string{"debug", "tools"},
				Detached:      true,
				Build:         true,
				Scale:         map[string]int{"worker": 3, "api": 2},
				Timeout:       &timeout,
				Wait:          true,
				CustomOptions: "--pull always",
				Services:      []string{"api", "worker"},
			}).Args,
			want: []string{
				"compose", "--file", "compose.yaml", "--env-file", ".env",
				"--profile", "debug", "--profile", "tools",
				"up", "--detach", "--build", "--scale", "api=2", "--scale", "worker=3",
				"--timeout", "30", "--wait", "--pull always", "api", "worker",
			},
		},
		{
			name: "up minimal",
			args: c.Up(UpOptions{}).Args,
			want: []string{"compose", "up"},
		},
		{
			name: "down",
			args: c.Down(DownOptions{
				CommonOptions: project,
				RemoveImages:  RemoveImagesLocal,
				RemoveVolumes: true,
				Timeout:       &timeout,
				CustomOptions: "--remove-orphans",
			}).Args,
			want: []string{
				"compose", "--file", "compose.yaml", "--file", "compose.override.yaml", "--project-name", "shop",
				"down", "--rmi", "local", "--volumes", "--timeout", "30", "--remove-orphans",
			},
		},
		{
			name: "start",
			args: c.Start(StartOptions{CommonOptions: project, Services: []string{"db"}}).Args,
			want: []string{"compose", "--file", "compose.yaml", "--file", "compose.override.yaml", "--project-name", "shop", "start", "db"},
		},
		{
			name: "stop",
			args: c.Stop(StopOptions{Timeout: &timeout, Services: []string{"api"}}).Args,
			want: []string{"compose", "stop", "--timeout", "30", "api"},
		},
		{
			name: "restart",
			args: c.Restart(StopOptions{}).Args,
			want: []string{"compose", "restart"},
		},
		{
			name: "logs",
			args: c.Logs(LogsOptions{Follow: true, Tail: 50, Services: []string{"api"}}).Args,
			want: []string{"compose", "logs", "--follow", "--tail", "50", "api"},
		},
		{
			name: "logs without tail",
			args: c.Logs(LogsOptions{Tail: 0}).Args,
			want: []string{"compose", "logs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.args.Values(); !slices.Equal(got, tt.want) {
				t.Errorf("%s args =\n  %q\nwant\n  %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestClient_V1(t *testing.T) {
	t.Parallel()

	c := New(WithV1())
	if c.CommandName != "docker-compose" || c.V2() {
		t.Fatalf("New(WithV1()) = %q v2=%v, want docker-compose v1", c.CommandName, c.V2())
	}
	resp := c.Up(UpOptions{CommonOptions: CommonOptions{Files: []string{"docker-compose.yml"}}, Detached: true})
	want := []string{"--file", "docker-compose.yml", "up", "--detach"}
	if got := resp.Args.Values(); !slices.Equal(got, want) {
		t.Errorf("Up() args = %q, want %q", got, want)
	}

	custom := New(WithCommandName("/opt/bin/compose"), WithV1())
	if custom.CommandName != "/opt/bin/compose" {
		t.Errorf("CommandName = %q, want the explicit override", custom.CommandName)
	}
}

func TestClient_CustomOptionsAreNotQuoted(t *testing.T) {
	t.Parallel()

	resp := New(WithV1()).Up(UpOptions{
		CommonOptions: CommonOptions{Files: []string{"docker-compose.yml"}},
		Detached:      true,
		Build:         true,
		CustomOptions: "--timeout 10 --wait",
	})

	tests := []struct {
		shell cmdline.Shell
		want  []string
	}{
		{cmdline.Bash{}, []string{"--file", "'docker-compose.yml'", "up", "--detach", "--build", "--timeout 10 --wait"}},
		{cmdline.PowerShell{}, []string{"--file", "'docker-compose.yml'", "up", "--detach", "--build", "--timeout 10 --wait"}},
		{cmdline.Cmd{}, []string{"--file", `"docker-compose.yml"`, "up", "--detach", "--build", "--timeout 10 --wait"}},
		{cmdline.NoShell{}, []string{"--file", "docker-compose.yml", "up", "--detach", "--build", "--timeout 10 --wait"}},
	}
	for _, tt := range tests {
		if got := tt.shell.Quote(resp.Args); !slices.Equal(got, tt.want) {
			t.Errorf("%s.Quote() = %q, want %q", tt.shell.Name(), got, tt.want)
		}
	}
}

type fakeRunner struct {
	output string
	calls  []container.Invocation
}

func (f *fakeRunner) Run(_ context.Context, inv container.Invocation) error {
	f.calls = append(f.calls, inv)
	return nil
}

func (f *fakeRunner) Output(_ context.Context, inv container.Invocation) (string, error) {
	f.calls = append(f.calls, inv)
	return f.output, nil
}

func (f *fakeRunner) Stream(_ context.Context, inv container.Invocation) (io.ReadCloser, error) {
	f.calls = append(f.calls, inv)
	return io.NopCloser(strings.NewReader(f.output)), nil
}

func TestClient_Config(t *testing.T) {
	t.Parallel()

	resp, err := New().Config(ConfigOptions{CommonOptions: project, Type: ConfigServices})
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}
	wantArgs := []string{"compose", "--file", "compose.yaml", "--file", "compose.override.yaml", "--project-name", "shop", "config", "--services"}
	if got := resp.Args.Values(); !slices.Equal(got, wantArgs) {
		t.Errorf("Config() args = %q, want %q", got, wantArgs)
	}
	if resp.Class != container.ClassQuery {
		t.Errorf("Config() class = %v, want query", resp.Class)
	}

	r := &fakeRunner{output: "web\n\n  db  \r\nworker"}
	got, err := container.RunPromise(context.Background(), r, resp, container.DefaultPolicy())
	if err != nil {
		t.Fatalf("RunPromise() error = %v", err)
	}
	if want := []string{"web", "db", "worker"}; !slices.Equal(got, want) {
		t.Errorf("RunPromise() = %q, want %q", got, want)
	}
	if len(r.calls) != 1 || !r.calls[0].Retryable {
		t.Errorf("config invocation should run once as retryable, got %+v", r.calls)
	}
}

func TestClient_ConfigRejectsUnknownType(t *testing.T) {
	t.Parallel()

	_, err := New().Config(ConfigOptions{Type: "networks"})
	if !errors.Is(err, ErrInvalidConfigType) {
		t.Errorf("Config(networks) error = %v, want ErrInvalidConfigType", err)
	}
}

func TestClient_Logs(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{output: "api-1  | listening\ndb-1   | ready\n"}
	s, err := container.RunGenerator(context.Background(), r, New().Logs(LogsOptions{}), container.DefaultPolicy())
	if err != nil {
		t.Fatalf("RunGenerator() error = %v", err)
	}
	defer func() { _ = s.Close() }()

	got, err := s.Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if want := []string{"api-1  | listening", "db-1   | ready"}; !slices.Equal(got, want) {
		t.Errorf("Collect() = %q, want %q", got, want)
	}
}

func TestRunVoid(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{}
	if err := container.RunVoid(context.Background(), r, New().Down(DownOptions{})); err != nil {
		t.Fatalf("RunVoid() error = %v", err)
	}
	if len(r.calls) != 1 || r.calls[0].Command != "docker" || r.calls[0].Retryable {
		t.Errorf("RunVoid() invocations = %+v", r.calls)
	}
}
