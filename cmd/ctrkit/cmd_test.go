// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/invowk/ctrkit/internal/config"
	"github.com/invowk/ctrkit/internal/container"
	"github.com/invowk/ctrkit/internal/runner"
)

type (
	fakeConfig struct {
		cfg *config.Config
		err error
	}

	fakeRunner struct {
		output string
		err    error
		calls  []container.Invocation
		stdin  []string
	}

	testHarness struct {
		app    *App
		runner *fakeRunner
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	}
)

func (f *fakeConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if f.err != nil {
		return nil, f.err
	}
	cfg := *f.cfg
	return &cfg, nil
}

func (f *fakeRunner) record(inv container.Invocation) {
	f.calls = append(f.calls, inv)
	if inv.Stdin != nil {
		b, _ := io.ReadAll(inv.Stdin)
		f.stdin = append(f.stdin, string(b))
	}
}

func (f *fakeRunner) Run(_ context.Context, inv container.Invocation) error {
	f.record(inv)
	return f.err
}

func (f *fakeRunner) Output(_ context.Context, inv container.Invocation) (string, error) {
	f.record(inv)
	return f.output, f.err
}

func (f *fakeRunner) Stream(_ context.Context, inv container.Invocation) (io.ReadCloser, error) {
	f.record(inv)
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.output)), nil
}

// dockerOnly resolves every engine kind to docker without probing PATH.
func dockerOnly(_ container.EngineKind, opts ...container.ClientOption) (*container.Client, error) {
	return container.NewDockerClient(opts...), nil
}

func noEngine(container.EngineKind, ...container.ClientOption) (*container.Client, error) {
	return nil, container.ErrEngineNotFound
}

func newHarness(t *testing.T, r *fakeRunner, stdin string) *testHarness {
	t.Helper()
	h := &testHarness{runner: r, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.app = NewApp(Dependencies{
		Config: &fakeConfig{cfg: config.DefaultConfig()},
		NewRunner: func(*config.Config, io.Writer, *slog.Logger) container.ProcessRunner {
			return r
		},
		NewClient: dockerOnly,
		Stdin:     strings.NewReader(stdin),
		Stdout:    h.stdout,
		Stderr:    h.stderr,
	})
	return h
}

func (h *testHarness) run(args ...string) error {
	root := NewRootCommand(h.app)
	root.SetArgs(args)
	root.SetOut(h.stdout)
	root.SetErr(h.stderr)
	return root.ExecuteContext(context.Background())
}

func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if err != nil {
		return -1
	}
	return 0
}

func TestDryRun_PrintsCommandLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"pull", []string{"images", "pull", "alpine:3.20"}, "docker image pull alpine:3.20"},
		{"remove volumes", []string{"volumes", "rm", "-f", "data", "cache"}, "docker volume rm --force data cache"},
		{"stop with grace period", []string{"containers", "stop", "--time", "5s", "web"}, "docker container stop --time 5 web"},
		{"prune networks", []string{"networks", "prune"}, "docker network prune --force"},
		{"use context", []string{"contexts", "use", "remote"}, "docker context use remote"},
		{"compose up", []string{"compose", "-p", "shop", "up", "-d", "web"}, "docker compose --project-name shop up --detach web"},
		{"compose v1 down", []string{"compose", "--v1", "down", "-v"}, "docker-compose down --volumes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, &fakeRunner{}, "")
			if err := h.run(append([]string{"--dry-run"}, tt.args...)...); err != nil {
				t.Fatalf("run(%q) error = %v\nstderr: %s", tt.args, err, h.stderr)
			}
			if got := strings.TrimSpace(h.stdout.String()); got != tt.want {
				t.Errorf("run(%q) printed %q, want %q", tt.args, got, tt.want)
			}
			if len(h.runner.calls) != 0 {
				t.Errorf("dry run executed %d commands", len(h.runner.calls))
			}
		})
	}
}

func TestDryRun_QuotesForShell(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell string
		want  string
	}{
		{"none", `docker container run --name web -e 'GREETING=hello world' nginx`},
		{"bash", `docker container run --name web -e GREETING=hello\ world nginx`},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, &fakeRunner{}, "")
			err := h.run("--dry-run", "--shell", tt.shell, "containers", "run", "--name", "web", "-e", "GREETING=hello world", "nginx")
			if err != nil {
				t.Fatalf("run() error = %v", err)
			}
			if got := strings.TrimSpace(h.stdout.String()); got != tt.want {
				t.Errorf("dry run with shell %s = %q, want %q", tt.shell, got, tt.want)
			}
		})
	}
}

func TestDryRun_WithoutEngine(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeRunner{}, "")
	h.app.NewClient = noEngine

	if err := h.run("--dry-run", "images", "push", "registry.example.com/app:1"); err != nil {
		t.Fatalf("dry run without an engine error = %v", err)
	}
	if got := strings.TrimSpace(h.stdout.String()); got != "docker image push registry.example.com/app:1" {
		t.Errorf("dry run printed %q", got)
	}

	err := h.run("images", "push", "registry.example.com/app:1")
	if code := exitCode(err); code != exitEngineNotFound {
		t.Errorf("run without an engine exit code = %d, want %d (err %v)", code, exitEngineNotFound, err)
	}
}

func TestVersion_OutputFormats(t *testing.T) {
	t.Parallel()

	const engineOut = `{"Client":{"ApiVersion":"1.47","Version":"27.3.1"},"Server":{"ApiVersion":"1.46"}}`

	tests := []struct {
		format string
		want   []string
	}{
		{"table", []string{"CLIENT API", "1.47", "1.46"}},
		{"yaml", []string{"client:", "server:", "1.47", "1.46"}},
		{"toml", []string{"Client", "Server", "1.47", "1.46"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, &fakeRunner{output: engineOut}, "")
			if err := h.run("-o", tt.format, "version"); err != nil {
				t.Fatalf("version error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(h.stdout.String(), want) {
					t.Errorf("version -o %s = %q, want it to contain %q", tt.format, h.stdout, want)
				}
			}
		})
	}

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t, &fakeRunner{output: engineOut}, "")
		if err := h.run("-o", "json", "version"); err != nil {
			t.Fatalf("version error = %v", err)
		}
		var got container.VersionItem
		if err := json.Unmarshal(h.stdout.Bytes(), &got); err != nil {
			t.Fatalf("version -o json is not JSON: %v\n%s", err, h.stdout)
		}
		if got != (container.VersionItem{Client: "1.47", Server: "1.46"}) {
			t.Errorf("version -o json = %+v", got)
		}
		if !h.runner.calls[0].Retryable {
			t.Error("version query should be retryable")
		}
	})
}

func TestRemoveContainers_PrintsIDs(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeRunner{output: "web\ndb\n"}, "")
	if err := h.run("-o", "json", "containers", "rm", "--force", "web", "db"); err != nil {
		t.Fatalf("containers rm error = %v", err)
	}
	var ids []string
	if err := json.Unmarshal(h.stdout.Bytes(), &ids); err != nil {
		t.Fatalf("output is not a JSON list: %v\n%s", err, h.stdout)
	}
	if strings.Join(ids, ",") != "web,db" {
		t.Errorf("containers rm printed %q", ids)
	}
	if h.runner.calls[0].Retryable {
		t.Error("container removal must not be retried")
	}
}

func TestLogin_PasswordFromStdin(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeRunner{}, "s3cret\n")
	if err := h.run("login", "-u", "ci", "--password-stdin", "registry.example.com"); err != nil {
		t.Fatalf("login error = %v", err)
	}
	if len(h.runner.stdin) != 1 || !strings.HasPrefix(h.runner.stdin[0], "s3cret") {
		t.Errorf("login stdin = %q, want the password", h.runner.stdin)
	}
	for _, arg := range h.runner.calls[0].Args.Values() {
		if strings.Contains(arg, "s3cret") {
			t.Fatalf("password leaked into argv: %q", h.runner.calls[0].Args.Values())
		}
	}
}

func TestFailure_ExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		args []string
		want int
	}{
		{
			name: "engine exit code passes through",
			err:  &runner.ProcessError{Command: "docker image pull nope", ExitCode: 125, Stderr: "manifest unknown"},
			args: []string{"images", "pull", "nope"},
			want: 125,
		},
		{
			name: "process that never ran",
			err:  &runner.ProcessError{Command: "docker image pull nope", ExitCode: -1, Err: errors.New("exec: not found")},
			args: []string{"images", "pull", "nope"},
			want: exitFailure,
		},
		{
			name: "cancelled",
			err:  context.Canceled,
			args: []string{"volumes", "ls"},
			want: exitCancelled,
		},
		{
			name: "invalid output flag",
			args: []string{"-o", "xml", "volumes", "ls"},
			want: exitUsage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, &fakeRunner{err: tt.err}, "")
			err := h.run(tt.args...)
			if got := exitCode(err); got != tt.want {
				t.Errorf("run(%q) exit code = %d, want %d (err %v)", tt.args, got, tt.want, err)
			}
			if h.stderr.Len() == 0 {
				t.Error("failure should be reported on stderr")
			}
		})
	}
}

func TestConfigShow_JSON(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeRunner{}, "")
	if err := h.run("--engine", "podman", "-o", "json", "config", "show"); err != nil {
		t.Fatalf("config show error = %v", err)
	}
	var got config.Config
	if err := json.Unmarshal(h.stdout.Bytes(), &got); err != nil {
		t.Fatalf("config show -o json is not JSON: %v\n%s", err, h.stdout)
	}
	if got.Engine != config.EnginePodman {
		t.Errorf("config show engine = %q, want the flag value podman", got.Engine)
	}
}

func TestConfigInit(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/ctrkit.cue"
	h := newHarness(t, &fakeRunner{}, "")
	if err := h.run("--config", path, "config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if !fileExists(path) {
		t.Fatalf("config init did not create %s", path)
	}
	if err := h.run("--config", path, "config", "init"); exitCode(err) != exitFailure {
		t.Errorf("second config init error = %v, want exit %d", err, exitFailure)
	}
	if err := h.run("--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force error = %v", err)
	}
}
